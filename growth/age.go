package growth

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// DaysPerMonth and DaysPerYear are the fixed-length calendar used by the
	// reference tables' month index.
	DaysPerMonth = 30.4375
	DaysPerYear  = 365.25
)

//
// Date is a calendar date without time of day.
//
type Date struct {
	Year  int
	Month int
	Day   int
}

//
// NewDate validates day/month/year and returns the date.
//
func NewDate(day, month, year int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if month < 1 || month > 12 || day < 1 {
		return d, errors.Wrapf(ErrInvalidDate, "%s", d)
	}
	// time.Date normalises overflowing days, so a round trip detects 31 April
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return d, errors.Wrapf(ErrInvalidDate, "%s", d)
	}
	return d, nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

//
// julianDay is the Julian day number at 0h of the Gregorian date.
//
func (d Date) julianDay() float64 {
	return julian.CalendarGregorianToJD(d.Year, d.Month, float64(d.Day))
}

//
// Before reports whether d is strictly earlier than o.
//
func (d Date) Before(o Date) bool {
	return d.julianDay() < o.julianDay()
}

//
// AgeSnapshot is the elapsed time between birth and observation.
//
type AgeSnapshot struct {
	Days   int     `json:"days"`
	Months float64 `json:"months"`
	Years  float64 `json:"years"`
	Label  string  `json:"label"`
}

//
// ComputeAge returns the age at observation. Months and years use the
// fixed DaysPerMonth and DaysPerYear divisors; the label truncates both.
//
func ComputeAge(birth, observation Date) (AgeSnapshot, error) {
	diff := observation.julianDay() - birth.julianDay()
	if diff < 0 {
		return AgeSnapshot{}, errors.Wrapf(ErrInvalidDateOrder, "birth %s, observation %s", birth, observation)
	}
	days := int(math.Round(diff))
	months := float64(days) / DaysPerMonth
	years := float64(days) / DaysPerYear
	return AgeSnapshot{
		Days:   days,
		Months: months,
		Years:  years,
		Label:  FormatAge(years, months),
	}, nil
}

//
// FormatAge renders "{years} Y {months mod 12} M" from whole years and
// whole months.
//
func FormatAge(years, months float64) string {
	return fmt.Sprintf("%d Y %d M", int(years), int(math.Floor(months))%12)
}
