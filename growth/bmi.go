package growth

//
// Category is the weight status derived from a body-mass-index percentile.
//
type Category string

const (
	Underweight Category = "Underweight"
	Healthy     Category = "Healthy"
	Overweight  Category = "Overweight"
	Obese       Category = "Obese"
)

//
// BMI expects height in centimeters and weight in kilograms.
//
func BMI(heightCm, weightKg float64) float64 {
	h := heightCm / 100.0
	return weightKg / (h * h)
}

//
// Classify buckets a BMI percentile. Bucket lower bounds are inclusive.
//
func Classify(percentile float64) Category {
	switch {
	case percentile < 5:
		return Underweight
	case percentile < 85:
		return Healthy
	case percentile < 95:
		return Overweight
	default:
		return Obese
	}
}
