package release

import (
	"errors"
	"fmt"
)

// Domain errors for formula evaluation.
var (
	// ErrNonFinite indicates a NaN or infinite parameter.
	ErrNonFinite = errors.New("release: parameter is not a finite number")

	// ErrSampleCount indicates a sampler with fewer than one sample.
	ErrSampleCount = errors.New("release: sample count must be at least 1")
)

// ParamError wraps a validation error with the offending parameter.
type ParamError struct {
	Name    string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s (%s=%v)", e.Wrapped.Error(), e.Name, e.Value)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}
