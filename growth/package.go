//
// Package growth evaluates a child's height, weight and body-mass index
// against age- and gender-specific growth references.
//
// Reference distributions are described by Cole's LMS parameters
// (skewness, median, coefficient of variation) indexed by integer
// age in months. A measurement is converted to a Z-score with the LMS
// transform and then to a percentile under the standard normal
// distribution. Body-mass index percentiles are also bucketed into
// a weight-status category.
//
// Everything in this package is a pure function of its inputs and the
// immutable reference tables handed to NewAnalyzer, so an Analyzer can be
// shared between goroutines without locking.
//
package growth
