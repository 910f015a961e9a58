package growth

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidMeasurement is returned when a height, weight or scored
	// value is not a positive, finite number.
	ErrInvalidMeasurement = errors.New("measurement must be a positive number")
	// ErrInvalidDateOrder is returned when the observation date precedes
	// the birth date.
	ErrInvalidDateOrder = errors.New("observation date is before birth date")
	// ErrReferenceLookup signals that no bracketing pair of age keys was
	// found after clamping, which means the reference table is malformed.
	ErrReferenceLookup = errors.New("reference lookup failed")
	// ErrNoReference is returned by Resolve when no table exists for the
	// requested gender and metric. Evaluate treats it as "omit this metric".
	ErrNoReference = errors.New("no reference table")
	// ErrInvalidDate is returned for calendar dates that do not exist.
	ErrInvalidDate = errors.New("invalid calendar date")
)

//
// ErrorKind classifies an AnalysisError.
//
type ErrorKind int

const (
	// KindAnalysis is the catch-all for unexpected failures.
	KindAnalysis ErrorKind = iota
	KindInvalidMeasurement
	KindInvalidDateOrder
	KindReferenceLookup
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidMeasurement:
		return "InvalidMeasurement"
	case KindInvalidDateOrder:
		return "InvalidDateOrder"
	case KindReferenceLookup:
		return "ReferenceLookupFailure"
	default:
		return "AnalysisError"
	}
}

//
// AnalysisError is the only error type returned by Analyzer.Evaluate.
//
type AnalysisError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

//
// Cause lets errors.Cause reach the underlying sentinel.
//
func (e *AnalysisError) Cause() error { return e.Err }

//
// IsValidation reports whether the error came from rejected input rather
// than an internal fault.
//
func (e *AnalysisError) IsValidation() bool {
	return e.Kind == KindInvalidMeasurement || e.Kind == KindInvalidDateOrder
}

//
// newAnalysisError classifies err by its root cause.
//
func newAnalysisError(err error) *AnalysisError {
	if ae, ok := err.(*AnalysisError); ok {
		return ae
	}
	kind := KindAnalysis
	switch errors.Cause(err) {
	case ErrInvalidMeasurement:
		kind = KindInvalidMeasurement
	case ErrInvalidDateOrder:
		kind = KindInvalidDateOrder
	case ErrReferenceLookup:
		kind = KindReferenceLookup
	}
	return &AnalysisError{Kind: kind, Msg: err.Error(), Err: err}
}
