package growth

import (
	"sort"

	"github.com/pkg/errors"
)

//
// ExtendedWeightAfterMonths is the age past which weight is looked up in
// the extended table, when the gender has one. The switch replaces the
// whole table; values are not blended across the boundary.
//
const ExtendedWeightAfterMonths = 120

//
// Resolver selects reference tables and interpolates LMS triplets.
//
type Resolver struct {
	provider ReferenceTableProvider
}

//
// NewResolver returns a Resolver reading from p.
//
func NewResolver(p ReferenceTableProvider) *Resolver {
	return &Resolver{provider: p}
}

//
// Resolve returns the LMS triplet for the exact fractional age. It returns
// ErrNoReference when the gender has no primary table for the metric; the
// extended weight table is only consulted once a primary one exists.
//
func (r *Resolver) Resolve(g Gender, m Metric, ageMonths float64) (LMS, error) {
	table, ok := r.provider.Table(g, m)
	if !ok {
		return LMS{}, errors.Wrapf(ErrNoReference, "%s %s", g, m)
	}
	if m == Weight && ageMonths > ExtendedWeightAfterMonths {
		if ext, found := r.provider.ExtendedTable(g); found {
			table = ext
		}
	}
	p, err := Interpolate(table, ageMonths)
	if err != nil {
		return LMS{}, errors.Wrapf(err, "%s %s at %.4f months", g, m, ageMonths)
	}
	return p, nil
}

//
// Interpolate linearly interpolates L, M and S between the two keys that
// bracket ageMonths. Ages outside the table are clamped to its first or
// last entry.
//
func Interpolate(t ReferenceTable, ageMonths float64) (LMS, error) {
	n := t.Len()
	if n == 0 {
		return LMS{}, ErrNoReference
	}
	first, last := float64(t.months[0]), float64(t.months[n-1])
	if ageMonths <= first {
		ageMonths = first
	}
	if ageMonths >= last {
		ageMonths = last
	}

	// i is the first key >= ageMonths
	i := sort.Search(n, func(k int) bool { return float64(t.months[k]) >= ageMonths })
	if i < n && float64(t.months[i]) == ageMonths {
		return t.triplets[i], nil
	}
	if i == 0 || i == n {
		return LMS{}, errors.Wrapf(ErrReferenceLookup, "no bracket for %.4f months", ageMonths)
	}

	t1, t2 := float64(t.months[i-1]), float64(t.months[i])
	p1, p2 := t.triplets[i-1], t.triplets[i]
	ratio := (ageMonths - t1) / (t2 - t1)
	return LMS{
		L: p1.L + (p2.L-p1.L)*ratio,
		M: p1.M + (p2.M-p1.M)*ratio,
		S: p1.S + (p2.S-p1.S)*ratio,
	}, nil
}
