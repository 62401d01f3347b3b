package ddsampler

import "github.com/go-ddsampler/ddsampler/internal/core"

// RandSource is the uniform 64-bit integer source Sample consumes. Its
// method set matches math/rand/v2's *rand.Rand, so callers pass one
// directly with no adapter:
//
//	s.Sample(rand.New(rand.NewPCG(1, 2)))
type RandSource = core.RandSource

// Sampler is a mutable weighted discrete sampler over indices
// [1, Len(s)]. It is not safe for concurrent use.
type Sampler interface {
	// Len returns the current number of indices.
	Len() int

	// Get returns the weight at index i, or 0 if unset. i must be in
	// [1, Len(s)].
	Get(i int) (float64, error)

	// Set assigns the weight at index i, replacing any prior weight.
	// w must be finite, non-negative, and not subnormal; a weight of
	// exactly 0 clears the index.
	Set(i int, w float64) error

	// Insert is Set restricted to nonzero weights. If i exceeds Len(s)
	// it auto-grows the sampler to i first, subject to the storage
	// variant's resize policy.
	Insert(i int, w float64) error

	// Remove clears the weight at index i, equivalent to Set(i, 0).
	Remove(i int) error

	// InsertMany inserts every (idxs[j], ws[j]) pair. The two slices
	// must have equal length, checked before any index is mutated, so
	// a length-mismatch error leaves the sampler unchanged. Pairs are
	// then inserted in order; an error on one pair leaves the pairs
	// before it applied.
	InsertMany(idxs []int, ws []float64) error

	// Resize changes the number of indices to n, clearing any index
	// above the new length when shrinking. Whether this is permitted,
	// and within what bound, depends on the storage variant.
	Resize(n int) error

	// Sample draws an index with probability exactly proportional to
	// its current weight. It returns ErrEmpty if every weight is 0.
	Sample(rng RandSource) (int, error)

	// Stats returns a cheap, read-only snapshot of the sampler's
	// bookkeeping state.
	Stats() Stats
}

// Stats is a read-only snapshot of a Sampler's bookkeeping state,
// computed in time bounded by the fixed number of exponent levels,
// never proportional to Len(s).
type Stats struct {
	// Len is the sampler's current logical length.
	Len int
	// ActiveCount is the number of indices with a nonzero weight.
	ActiveCount int
	// Total is the running sum of all active weights, maintained
	// incrementally as a float64 (a diagnostic convenience, not the
	// exact integer total the sampler actually draws against).
	Total float64
	// MinWeight and MaxWeight bound the active weights to within a
	// factor of 2, read from the lowest and highest nonempty exponent
	// buckets rather than a full scan. Both are 0 when ActiveCount is 0.
	MinWeight float64
	MaxWeight float64
}

// Verify recomputes every invariant of s's underlying engine from first
// principles and reports the first one found violated, if any. It is
// for tests and stress harnesses; production callers have no reason to
// call it.
func Verify(s Sampler) error {
	v, ok := s.(interface{ verify() error })
	if !ok {
		return nil
	}
	return v.verify()
}
