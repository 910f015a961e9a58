package growth

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestComputeAge(t *testing.T) {
	tests := []struct {
		name       string
		birth, obs Date
		days       int
		label      string
	}{
		{"same day", Date{2020, 1, 1}, Date{2020, 1, 1}, 0, "0 Y 0 M"},
		{"three years across a leap day", Date{2020, 1, 1}, Date{2023, 1, 1}, 1096, "3 Y 0 M"},
		{"twenty years", Date{2003, 1, 1}, Date{2023, 1, 1}, 7305, "20 Y 0 M"},
		{"fifteen months", Date{2021, 3, 15}, Date{2022, 6, 20}, 462, "1 Y 3 M"},
		{"one day short of a month", Date{2023, 1, 1}, Date{2023, 1, 30}, 29, "0 Y 0 M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			age, err := ComputeAge(tt.birth, tt.obs)
			if err != nil {
				t.Fatalf("ComputeAge: %v", err)
			}
			if age.Days != tt.days {
				t.Errorf("Days = %d, expected %d", age.Days, tt.days)
			}
			if m := float64(tt.days) / 30.4375; math.Abs(age.Months-m) > 1e-12 {
				t.Errorf("Months = %v, expected %v", age.Months, m)
			}
			if y := float64(tt.days) / 365.25; math.Abs(age.Years-y) > 1e-12 {
				t.Errorf("Years = %v, expected %v", age.Years, y)
			}
			if age.Label != tt.label {
				t.Errorf("Label = %q, expected %q", age.Label, tt.label)
			}
		})
	}
}

func TestComputeAgeRejectsReversedDates(t *testing.T) {
	_, err := ComputeAge(Date{2023, 1, 1}, Date{2020, 1, 1})
	if errors.Cause(err) != ErrInvalidDateOrder {
		t.Fatalf("err = %v, expected ErrInvalidDateOrder", err)
	}
}

func TestFormatAge(t *testing.T) {
	if got := FormatAge(5, 3.2); got != "5 Y 3 M" {
		t.Errorf("FormatAge(5, 3.2) = %q", got)
	}
	if got := FormatAge(3.9, 47.99); got != "3 Y 11 M" {
		t.Errorf("FormatAge(3.9, 47.99) = %q", got)
	}
}

func TestNewDate(t *testing.T) {
	valid := []Date{{2020, 2, 29}, {1999, 12, 31}, {2023, 4, 30}}
	for _, d := range valid {
		if _, err := NewDate(d.Day, d.Month, d.Year); err != nil {
			t.Errorf("NewDate(%s): %v", d, err)
		}
	}

	invalid := []Date{{2023, 2, 29}, {2023, 4, 31}, {2023, 13, 1}, {2023, 0, 10}, {2023, 5, 0}}
	for _, d := range invalid {
		if _, err := NewDate(d.Day, d.Month, d.Year); errors.Cause(err) != ErrInvalidDate {
			t.Errorf("NewDate(%s) err = %v, expected ErrInvalidDate", d, err)
		}
	}
}

func TestDateBefore(t *testing.T) {
	a, b := Date{2020, 12, 31}, Date{2021, 1, 1}
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Errorf("Before ordering wrong for %s and %s", a, b)
	}
}
