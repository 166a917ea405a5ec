// Package core holds the error kinds and slice helpers shared by the dsp,
// stats and pulse packages.
package core

import "errors"

// Error kinds. Every package wraps one of these with its own context, so
// callers classify failures with errors.Is.
var (
	// ErrInvalidArgument reports a bad parameter: an unknown window kind, a
	// negative or zero size, an axis out of range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrShapeMismatch reports operands of unequal length combined element-wise.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrEmptyInput reports a zero-length sequence where an extremum,
	// a nearest-index search or a convolution needs at least one sample.
	ErrEmptyInput = errors.New("empty input")
)
