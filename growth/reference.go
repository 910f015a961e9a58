package growth

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

//
// Gender selects the reference population.
//
type Gender int

const (
	Female Gender = iota
	Male
)

//
// Genders lists every supported gender in a stable order.
//
var Genders = []Gender{Female, Male}

func (g Gender) String() string {
	if g == Male {
		return "male"
	}
	return "female"
}

func (g Gender) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

//
// ParseGender accepts female/male and the common short forms.
//
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female", "f", "girl":
		return Female, nil
	case "male", "m", "boy":
		return Male, nil
	}
	return Female, errors.Errorf("unknown gender %q", s)
}

//
// Metric is a measured or derived quantity with its own reference tables.
//
type Metric int

const (
	Height Metric = iota
	Weight
	BodyMassIndex
)

//
// Metrics lists every supported metric in a stable order.
//
var Metrics = []Metric{Height, Weight, BodyMassIndex}

func (m Metric) String() string {
	switch m {
	case Weight:
		return "weight"
	case BodyMassIndex:
		return "bodyMassIndex"
	default:
		return "height"
	}
}

func (m Metric) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

//
// ParseMetric is the inverse of Metric.String; "bmi" is also accepted.
//
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "height":
		return Height, nil
	case "weight":
		return Weight, nil
	case "bodymassindex", "bmi":
		return BodyMassIndex, nil
	}
	return Height, errors.Errorf("unknown metric %q", s)
}

//
// LMS holds the Box-Cox power (L), median (M) and coefficient of
// variation (S) of a reference distribution at one age.
//
type LMS struct {
	L float64 `json:"l"`
	M float64 `json:"m"`
	S float64 `json:"s"`
}

func (p LMS) validate() error {
	if math.IsNaN(p.L) || math.IsInf(p.L, 0) {
		return errors.Errorf("L must be finite, got %v", p.L)
	}
	if !(p.M > 0) || math.IsInf(p.M, 0) {
		return errors.Errorf("M must be positive, got %v", p.M)
	}
	if !(p.S > 0) || math.IsInf(p.S, 0) {
		return errors.Errorf("S must be positive, got %v", p.S)
	}
	return nil
}

//
// ReferenceTable maps integer months to LMS triplets. The zero value is
// an empty table; build populated tables with NewReferenceTable.
//
type ReferenceTable struct {
	months   []int
	triplets []LMS
}

//
// NewReferenceTable copies entries into an immutable table sorted by
// month. Keys need not be contiguous.
//
func NewReferenceTable(entries map[int]LMS) (ReferenceTable, error) {
	if len(entries) == 0 {
		return ReferenceTable{}, errors.New("reference table has no entries")
	}
	months := make([]int, 0, len(entries))
	for month, p := range entries {
		if month < 0 {
			return ReferenceTable{}, errors.Errorf("negative month %d", month)
		}
		if err := p.validate(); err != nil {
			return ReferenceTable{}, errors.Wrapf(err, "month %d", month)
		}
		months = append(months, month)
	}
	sort.Ints(months)

	triplets := make([]LMS, len(months))
	for i, month := range months {
		triplets[i] = entries[month]
	}
	return ReferenceTable{months: months, triplets: triplets}, nil
}

//
// Len is the number of age entries.
//
func (t ReferenceTable) Len() int { return len(t.months) }

//
// Keys returns a copy of the ascending month keys.
//
func (t ReferenceTable) Keys() []int {
	return append([]int(nil), t.months...)
}

//
// Span returns the first and last month covered. Both are zero for an
// empty table.
//
func (t ReferenceTable) Span() (first, last int) {
	if len(t.months) == 0 {
		return 0, 0
	}
	return t.months[0], t.months[len(t.months)-1]
}

//
// At returns the stored triplet for an exact month key.
//
func (t ReferenceTable) At(month int) (LMS, bool) {
	i := sort.SearchInts(t.months, month)
	if i < len(t.months) && t.months[i] == month {
		return t.triplets[i], true
	}
	return LMS{}, false
}

//
// ReferenceTableProvider supplies read-only reference tables. Implementations
// must not mutate a table after handing it out.
//
type ReferenceTableProvider interface {
	Table(g Gender, m Metric) (ReferenceTable, bool)
	ExtendedTable(g Gender) (ReferenceTable, bool)
}

//
// GenderTables are the tables of one gender. A nil field means the
// reference data is not available.
//
type GenderTables struct {
	Height        *ReferenceTable
	Weight        *ReferenceTable
	BodyMassIndex *ReferenceTable
	// WeightExtended covers weight beyond the primary table's range and is
	// used instead of Weight past ExtendedWeightAfterMonths.
	WeightExtended *ReferenceTable
}

//
// Tables is an immutable snapshot of every reference table.
//
type Tables struct {
	Source string
	Female GenderTables
	Male   GenderTables
}

func (ts *Tables) gender(g Gender) *GenderTables {
	if g == Male {
		return &ts.Male
	}
	return &ts.Female
}

//
// Table implements ReferenceTableProvider.
//
func (ts *Tables) Table(g Gender, m Metric) (ReferenceTable, bool) {
	gt := ts.gender(g)
	var t *ReferenceTable
	switch m {
	case Height:
		t = gt.Height
	case Weight:
		t = gt.Weight
	case BodyMassIndex:
		t = gt.BodyMassIndex
	}
	if t == nil || t.Len() == 0 {
		return ReferenceTable{}, false
	}
	return *t, true
}

//
// ExtendedTable implements ReferenceTableProvider.
//
func (ts *Tables) ExtendedTable(g Gender) (ReferenceTable, bool) {
	t := ts.gender(g).WeightExtended
	if t == nil || t.Len() == 0 {
		return ReferenceTable{}, false
	}
	return *t, true
}

//
// TableCoverage summarises one table of a snapshot.
//
type TableCoverage struct {
	Gender     Gender `json:"gender"`
	Metric     Metric `json:"metric"`
	Extended   bool   `json:"extended"`
	FirstMonth int    `json:"firstMonth"`
	LastMonth  int    `json:"lastMonth"`
	Entries    int    `json:"entries"`
}

//
// Coverage lists every populated table, primary tables first per gender.
//
func (ts *Tables) Coverage() []TableCoverage {
	var out []TableCoverage
	add := func(g Gender, m Metric, extended bool, t ReferenceTable) {
		first, last := t.Span()
		out = append(out, TableCoverage{
			Gender: g, Metric: m, Extended: extended,
			FirstMonth: first, LastMonth: last, Entries: t.Len(),
		})
	}
	for _, g := range Genders {
		for _, m := range Metrics {
			if t, ok := ts.Table(g, m); ok {
				add(g, m, false, t)
			}
		}
		if t, ok := ts.ExtendedTable(g); ok {
			add(g, Weight, true, t)
		}
	}
	return out
}
