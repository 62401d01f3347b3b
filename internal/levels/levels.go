// Package levels maintains the 2046 exponent-bucket significand sums,
// their 64-bit approximate weights, the global shift, and the running
// total. This is the numeric core of the sampler: every method here
// keeps invariants 1-4 of the arena's data model (significand sum
// exactness, the approximate-weight formula, the total, and the first
// nonempty level) true on return.
package levels

import (
	"fmt"
	"math"

	"github.com/go-ddsampler/ddsampler/internal/fbits"
	"github.com/go-ddsampler/ddsampler/internal/u128"
)

// NumBuckets is the number of exponent buckets, one per normal double
// exponent.
const NumBuckets = fbits.NumBuckets

// bucketShiftBase is the additive constant in shift[k] = bucketShiftBase
// - k + s. spec.md gives 2051 here and a slightly different constant
// (2046, via exponent_of_level(k)+s) in its Stage-2 description; both
// describe the same per-bucket scaling factor, so one constant is used
// consistently everywhere it matters (see DESIGN.md).
const bucketShiftBase = 2051

// initialShiftOffset and perLevelOverflowTarget/underflowTarget are the
// renormalization constants of spec.md §4.2/§4.3, ascii-art tuned so
// that a newly inserted weight lands near a 2^44 approximate level
// weight (a per-bucket shift of -19 on a significand sum near 2^63) and
// a renormalized level lands near a 2^48 one.
const (
	initialShiftOffset     = -24
	perLevelOverflowTarget = 48
	underflowTarget        = 48
	overflowShiftStep      = 16
	underflowCeiling       = uint64(1) << 32
)

// Levels holds the significand sums and derived state for all buckets.
type Levels struct {
	sig    [NumBuckets]u128.Sum
	weight [NumBuckets]uint64
	shift  int
	total  uint64
	first  int // NumBuckets when every bucket is empty
}

// New returns an empty level hierarchy.
func New() *Levels {
	return &Levels{first: NumBuckets}
}

// Total returns T, the sum of all approximate level weights.
func (l *Levels) Total() uint64 { return l.total }

// Shift returns the current global shift s.
func (l *Levels) Shift() int { return l.shift }

// First returns the first nonempty level index, or NumBuckets if empty.
func (l *Levels) First() int { return l.first }

// Weight returns the approximate weight of bucket k.
func (l *Levels) Weight(k int) uint64 { return l.weight[k] }

// SignificandSum returns a copy of bucket k's exact significand sum, for
// use by the exactness-refinement sampling stage.
func (l *Levels) SignificandSum(k int) u128.Sum { return l.sig[k] }

// perBucketShift is the shift applied to bucket k's significand sum to
// derive its approximate weight: shift[k] = bucketShiftBase - k + s.
func (l *Levels) perBucketShift(k int) int {
	return bucketShiftBase - k + l.shift
}

// PerBucketShift exposes perBucketShift for the sampler's exactness
// refinement stage, which needs the exact same scaling factor used to
// derive the approximate weight it is correcting.
func (l *Levels) PerBucketShift(k int) int { return l.perBucketShift(k) }

func (l *Levels) bucketWeight(k int) uint64 {
	w := l.sig[k].ShiftedLow64(l.perBucketShift(k))
	if !l.sig[k].IsZero() {
		w++
	}
	return w
}

// recomputeLevel refreshes bucket k's weight, the total, and (if
// needed) the first-nonempty pointer, from its current significand sum
// and the current shift.
func (l *Levels) recomputeLevel(k int) {
	old := l.weight[k]
	next := l.bucketWeight(k)
	l.total = l.total - old + next
	l.weight[k] = next

	switch {
	case next != 0 && k < l.first:
		l.first = k
	case next == 0 && k == l.first:
		l.advanceFirst()
	}
}

func (l *Levels) advanceFirst() {
	k := l.first + 1
	for k < NumBuckets && l.weight[k] == 0 {
		k++
	}
	l.first = k
}

// recomputeAll rebuilds weight, total, and first from the significand
// sums and the current shift. Used whenever the shift changes, since
// shift[k] depends on s for every bucket. This is O(NumBuckets), a
// constant independent of the number of active indices.
func (l *Levels) recomputeAll() {
	l.total = 0
	l.first = NumBuckets
	for k := 0; k < NumBuckets; k++ {
		w := l.bucketWeight(k)
		l.weight[k] = w
		if w != 0 {
			l.total += w
			if k < l.first {
				l.first = k
			}
		}
	}
}

// shiftToAchieve returns the global shift s' that makes bucket k's
// per-bucket shift land topBit at bit position targetBits, i.e. solves
// targetBits = topBit + (bucketShiftBase - k + s').
func shiftToAchieve(k, topBit, targetBits int) int {
	return targetBits - topBit - (bucketShiftBase - k)
}

func willOverflow(total, old, next uint64) bool {
	base := total - old // safe: old <= total is an invariant
	return next > math.MaxUint64-base
}

// Insert adds a shifted significand to the bucket for exp, applying the
// initial-shift, per-level-overflow, and total-overflow renormalization
// rules of spec.md §4.2 before settling bucket k's weight.
func (l *Levels) Insert(exp uint32, shiftedSignificand uint64) {
	k := fbits.Bucket(exp)
	emptyBefore := l.total == 0
	l.sig[k].Add(shiftedSignificand)

	if emptyBefore {
		l.shift = initialShiftOffset - int(exp)
		l.recomputeAll()
		return
	}

	if topBit := l.sig[k].TopSetBit(); topBit+l.perBucketShift(k) >= 64 {
		l.shift = shiftToAchieve(k, topBit, perLevelOverflowTarget)
		l.recomputeAll()
	}

	for willOverflow(l.total, l.weight[k], l.bucketWeight(k)) {
		l.shift -= overflowShiftStep
		l.recomputeAll()
	}

	l.recomputeLevel(k)
}

// Clear removes a shifted significand from the bucket for exp, then
// applies the shift-increase-on-underflow rule of spec.md §4.3 if the
// total has dropped into (0, 2^32).
func (l *Levels) Clear(exp uint32, shiftedSignificand uint64) {
	k := fbits.Bucket(exp)
	l.sig[k].Sub(shiftedSignificand)
	l.recomputeLevel(k)

	if l.total == 0 || l.total >= underflowCeiling {
		return
	}
	ref := l.first
	if ref >= NumBuckets {
		return
	}
	topBit := l.sig[ref].TopSetBit()
	if topBit < 0 {
		return
	}
	l.shift = shiftToAchieve(ref, topBit, underflowTarget)
	l.recomputeAll()
}

// CheckConsistency recomputes weight/total/first from an independently
// accumulated set of significand sums (built by scanning the edit map
// from first principles) and compares them against the live state. It
// is the numeric half of the verify(s) routine from spec.md §8.
func (l *Levels) CheckConsistency(independent *[NumBuckets]u128.Sum) error {
	for k := 0; k < NumBuckets; k++ {
		if !l.sig[k].Equal(&independent[k]) {
			return fmt.Errorf("levels: bucket %d significand sum mismatch", k)
		}
	}

	wantTotal := uint64(0)
	wantFirst := NumBuckets
	for k := 0; k < NumBuckets; k++ {
		w := l.bucketWeight(k)
		if w != l.weight[k] {
			return fmt.Errorf("levels: bucket %d weight mismatch: have %d want %d", k, l.weight[k], w)
		}
		if w != 0 {
			wantTotal += w
			if k < wantFirst {
				wantFirst = k
			}
		}
	}
	if wantTotal != l.total {
		return fmt.Errorf("levels: total mismatch: have %d want %d", l.total, wantTotal)
	}
	if l.total != 0 && l.total < (uint64(1)<<32) {
		return fmt.Errorf("levels: total %d violates 0 or >= 2^32 invariant", l.total)
	}
	if wantFirst != l.first {
		return fmt.Errorf("levels: first-nonempty mismatch: have %d want %d", l.first, wantFirst)
	}
	return nil
}
