package growth

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

const (
	// MaxValidatedYears is the upper end of the age range the references
	// are validated for. Older subjects are still evaluated, with a warning.
	MaxValidatedYears = 19
	// MaxWeightMonths is the last age at which weight-for-age is reported.
	MaxWeightMonths = 229
)

//
// AgeWarning is attached to results for subjects older than MaxValidatedYears.
//
var AgeWarning = fmt.Sprintf("growth references are validated for ages 0-%d years", MaxValidatedYears)

//
// EvaluationInput is one set of measurements taken on one date.
//
type EvaluationInput struct {
	Birth       Date
	Observation Date
	HeightCm    float64
	WeightKg    float64
	Gender      Gender
}

//
// MetricResult is the scored value of one metric.
//
type MetricResult struct {
	Value      float64  `json:"value"`
	Z          float64  `json:"z"`
	Percentile float64  `json:"percentile"`
	Category   Category `json:"category,omitempty"`
}

//
// AnalysisResult is the outcome of a successful evaluation. A nil metric
// means no reference applies to it; that is not an error.
//
type AnalysisResult struct {
	Age           AgeSnapshot   `json:"age"`
	Warning       *string       `json:"warning"`
	Height        *MetricResult `json:"height,omitempty"`
	Weight        *MetricResult `json:"weight,omitempty"`
	BodyMassIndex *MetricResult `json:"bodyMassIndex,omitempty"`
}

//
// Analyzer evaluates measurements against one reference snapshot.
//
type Analyzer struct {
	resolver *Resolver
}

//
// NewAnalyzer returns an Analyzer over the tables supplied by p.
//
func NewAnalyzer(p ReferenceTableProvider) *Analyzer {
	return &Analyzer{resolver: NewResolver(p)}
}

//
// Resolver exposes the table lookup used by the analyzer.
//
func (a *Analyzer) Resolver() *Resolver { return a.resolver }

//
// EvaluateParts is Evaluate for callers holding separate date fields.
//
func (a *Analyzer) EvaluateParts(birthDay, birthMonth, birthYear, examDay, examMonth, examYear int,
	heightCm, weightKg float64, g Gender) (*AnalysisResult, error) {

	if err := checkMeasurements(heightCm, weightKg); err != nil {
		return nil, newAnalysisError(err)
	}
	birth, err := NewDate(birthDay, birthMonth, birthYear)
	if err != nil {
		return nil, newAnalysisError(errors.Wrap(err, "birth date"))
	}
	exam, err := NewDate(examDay, examMonth, examYear)
	if err != nil {
		return nil, newAnalysisError(errors.Wrap(err, "observation date"))
	}
	return a.Evaluate(EvaluationInput{
		Birth:       birth,
		Observation: exam,
		HeightCm:    heightCm,
		WeightKg:    weightKg,
		Gender:      g,
	})
}

//
// Evaluate validates in, scores height, weight and body-mass index and
// returns the assembled result. Every failure, including unexpected ones,
// is returned as an *AnalysisError.
//
func (a *Analyzer) Evaluate(in EvaluationInput) (res *AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &AnalysisError{Kind: KindAnalysis, Msg: fmt.Sprintf("evaluation failed: %v", r)}
		}
	}()

	res, err = a.evaluate(in)
	if err != nil {
		return nil, newAnalysisError(err)
	}
	return res, nil
}

func (a *Analyzer) evaluate(in EvaluationInput) (*AnalysisResult, error) {
	if err := checkMeasurements(in.HeightCm, in.WeightKg); err != nil {
		return nil, err
	}
	age, err := ComputeAge(in.Birth, in.Observation)
	if err != nil {
		return nil, err
	}

	res := &AnalysisResult{Age: age}
	if age.Years > MaxValidatedYears {
		w := AgeWarning
		res.Warning = &w
	}

	if res.Height, err = a.scoreMetric(in.Gender, Height, age.Months, in.HeightCm); err != nil {
		return nil, err
	}

	// weight is omitted past MaxWeightMonths whatever the tables hold
	if age.Months <= MaxWeightMonths {
		if res.Weight, err = a.scoreMetric(in.Gender, Weight, age.Months, in.WeightKg); err != nil {
			return nil, err
		}
	}

	bmi := BMI(in.HeightCm, in.WeightKg)
	if res.BodyMassIndex, err = a.scoreMetric(in.Gender, BodyMassIndex, age.Months, bmi); err != nil {
		return nil, err
	}
	if res.BodyMassIndex != nil {
		res.BodyMassIndex.Category = Classify(res.BodyMassIndex.Percentile)
	}

	return res, nil
}

//
// scoreMetric returns nil without error when no reference table applies.
//
func (a *Analyzer) scoreMetric(g Gender, m Metric, ageMonths, value float64) (*MetricResult, error) {
	p, err := a.resolver.Resolve(g, m, ageMonths)
	if errors.Cause(err) == ErrNoReference {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	z, pct, err := Score(value, p)
	if err != nil {
		return nil, errors.Wrap(err, m.String())
	}
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return nil, errors.Errorf("%s: non-finite z-score for value %v with %+v", m, value, p)
	}
	return &MetricResult{Value: value, Z: z, Percentile: pct}, nil
}

func checkMeasurements(heightCm, weightKg float64) error {
	if !(heightCm > 0) || math.IsInf(heightCm, 0) {
		return errors.Wrapf(ErrInvalidMeasurement, "height %v cm", heightCm)
	}
	if !(weightKg > 0) || math.IsInf(weightKg, 0) {
		return errors.Wrapf(ErrInvalidMeasurement, "weight %v kg", weightKg)
	}
	return nil
}
