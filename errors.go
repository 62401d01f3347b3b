package ddsampler

import "github.com/go-ddsampler/ddsampler/internal/dderrors"

// OutOfBoundsError is returned when an index falls outside [1, Len(s)].
type OutOfBoundsError = dderrors.OutOfBoundsError

// InvalidWeightError is returned for NaN, infinite, negative, or
// subnormal nonzero weights.
type InvalidWeightError = dderrors.InvalidWeightError

// NotResizableError is returned when Resize is called on a variant that
// forbids it, or past a SemiResizable variant's fixed capacity.
type NotResizableError = dderrors.NotResizableError

// ErrEmpty is returned by Sample when the sampler's total weight is
// zero: there is nothing to draw.
var ErrEmpty = dderrors.ErrEmpty
