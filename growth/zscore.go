package growth

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

//
// Score converts an observed value to a Z-score with Cole's LMS transform
// and returns it with the matching percentile (0-100).
//
func Score(observed float64, p LMS) (z, percentile float64, err error) {
	if !(observed > 0) || math.IsInf(observed, 0) {
		return 0, 0, errors.Wrapf(ErrInvalidMeasurement, "observed value %v", observed)
	}
	if p.L == 0 {
		z = math.Log(observed/p.M) / p.S
	} else {
		z = (math.Pow(observed/p.M, p.L) - 1) / (p.L * p.S)
	}
	return z, Percentile(z), nil
}

//
// Percentile is 100 * Φ(z) for the standard normal distribution.
//
func Percentile(z float64) float64 {
	return 100 * distuv.UnitNormal.CDF(z)
}
