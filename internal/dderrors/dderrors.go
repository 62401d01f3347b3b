// Package dderrors defines the error kinds returned by the public façade.
//
// All of them are argument-validation errors: a single-index call returns
// one before any state mutation happens, so a caller that sees one of
// these from such a call knows the sampler is unchanged. InsertMany is
// the exception: when a later pair fails, the pairs before it stay
// applied.
package dderrors

import "fmt"

// OutOfBoundsError is returned when an index falls outside [1, Len(s)].
type OutOfBoundsError struct {
	Index int
	Len   int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("ddsampler: index %d out of bounds for length %d", e.Index, e.Len)
}

// NewOutOfBounds builds an *OutOfBoundsError.
func NewOutOfBounds(index, length int) error {
	return &OutOfBoundsError{Index: index, Len: length}
}

// InvalidWeightError is returned for NaN, infinite, negative, or subnormal
// nonzero weights.
type InvalidWeightError struct {
	Weight float64
	Reason string
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("ddsampler: invalid weight %v: %s", e.Weight, e.Reason)
}

// NewInvalidWeight builds an *InvalidWeightError.
func NewInvalidWeight(w float64, reason string) error {
	return &InvalidWeightError{Weight: w, Reason: reason}
}

// NotResizableError is returned when Resize is called on a storage variant
// that forbids it, or past a semi-resizable variant's fixed arena capacity.
type NotResizableError struct {
	Requested int
	Capacity  int
}

func (e *NotResizableError) Error() string {
	if e.Capacity == 0 {
		return "ddsampler: this storage variant does not support resize"
	}
	return fmt.Sprintf("ddsampler: cannot resize to %d, exceeds arena capacity %d", e.Requested, e.Capacity)
}

// NewNotResizable builds a *NotResizableError.
func NewNotResizable(requested, capacity int) error {
	return &NotResizableError{Requested: requested, Capacity: capacity}
}

// EmptyError is returned by Sample when the sampler's total weight is zero.
type EmptyError struct{}

func (e *EmptyError) Error() string { return "ddsampler: sample called on a sampler with zero total weight" }

// ErrEmpty is the sentinel instance returned by Sample on an empty sampler.
var ErrEmpty error = &EmptyError{}
