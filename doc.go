// Package ddsampler implements a dynamic weighted discrete sampler: a
// mutable container mapping integer indices in [1, Len(s)] to
// non-negative float64 weights, supporting Set, Get, Resize, and Sample
// in O(1) expected time, with sampling probabilities exactly
// proportional to current weights regardless of update history.
//
// Three storage variants differ only in resize flexibility and keep that
// guarantee alike: Fixed never resizes, SemiResizable resizes within a capacity fixed at
// construction, and Resizable resizes without bound. All three share
// the same underlying engine; the variant is a capability flag, not a
// different implementation.
//
// A Sampler is not safe for concurrent use. Callers that share one
// across goroutines must provide their own synchronization.
package ddsampler
