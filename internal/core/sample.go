package core

import (
	"math"

	"github.com/go-ddsampler/ddsampler/internal/dderrors"
)

// Sample draws an index with probability exactly proportional to its
// current weight, via the three-stage algorithm of spec.md §4.1: a
// level scan by approximate weight, a rejection-based exactness
// refinement on ties, and in-bucket rejection sampling by significand.
func (c *Core) Sample(rng RandSource) (int, error) {
	total := c.levels.Total()
	if total == 0 {
		return 0, dderrors.ErrEmpty
	}

	for {
		k, accepted := c.selectLevel(rng, total)
		if !accepted {
			continue
		}
		return c.sampleWithinBucket(rng, k), nil
	}
}

// selectLevel runs Stage 1 (the level scan) and, on a tie, Stage 2 (the
// exactness refinement). accepted is false when Stage 2 rejects and the
// whole draw must restart from Stage 1 with a fresh uniform value.
func (c *Core) selectLevel(rng RandSource, total uint64) (k int, accepted bool) {
	x := uniformInRange(rng, total) + 1 // uniform in [1, total]

	k = c.levels.First()
	for x > c.levels.Weight(k) {
		x -= c.levels.Weight(k)
		k++
	}

	if x < c.levels.Weight(k) {
		return k, true
	}
	// x == weight[k]: the draw landed exactly on the +1 rounding slack.
	return k, c.refineTie(rng, k)
}

// refineTie implements the bounded-depth acceptance test of spec.md
// §4.1 Stage 2: successive 64-bit windows of the fractional part of the
// bucket's true (infinite-precision) weight, each compared against a
// fresh uniform draw.
func (c *Core) refineTie(rng RandSource, k int) bool {
	shift := c.levels.PerBucketShift(k)
	sig := c.levels.SignificandSum(k)

	for t := 1; ; t++ {
		s := shift + 64*t
		window := sig.ShiftedLow64(s)
		xt := rng.Uint64()
		switch {
		case xt > window:
			return false
		case xt < window:
			return true
		}
		// xt == window: once the window has reached the binary point every
		// later window is zero, so stop; otherwise keep refining with the
		// next, finer window.
		if s >= 0 {
			return true
		}
	}
}

// sampleWithinBucket implements Stage 3: rejection sampling over the
// bucket's elements by significand, via a power-of-two slot draw.
func (c *Core) sampleWithinBucket(rng RandSource, k int) int {
	n := c.groups.GroupLen(k)
	capLog2 := ceilLog2(n)
	base := c.groups.GroupPos(k)

	for {
		r := rng.Uint64()
		slot := r >> (64 - capLog2)
		if slot >= uint64(n) {
			continue
		}
		pos := base + 2*int(slot)
		r2 := rng.Uint64()
		if r2 < c.groups.Significand(pos) {
			return int(c.groups.Target(pos))
		}
	}
}

// uniformInRange draws a value uniform in [0, n) via rejection, so the
// result is exact regardless of whether n divides 2^64.
func uniformInRange(rng RandSource, n uint64) uint64 {
	if n == 0 {
		return 0
	}
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		r := rng.Uint64()
		if r < limit {
			return r % n
		}
	}
}

func ceilLog2(n int) int {
	l := 0
	for (1 << l) < n {
		l++
	}
	return l
}
