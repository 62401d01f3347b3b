// Package core implements the dynamic weighted discrete sampler: the
// exponent-bucket level hierarchy, the group arena, the edit map, and
// the three-stage sampling algorithm, wired together into a single
// mutable structure. The root ddsampler package is a thin façade over
// this type: bounds/domain checks and the three storage-variant
// policies live there, everything load-bearing lives here.
package core

import (
	"fmt"

	"github.com/go-ddsampler/ddsampler/internal/arena"
	"github.com/go-ddsampler/ddsampler/internal/dderrors"
	"github.com/go-ddsampler/ddsampler/internal/fbits"
	"github.com/go-ddsampler/ddsampler/internal/levels"
	"github.com/go-ddsampler/ddsampler/internal/stats"
	"github.com/go-ddsampler/ddsampler/internal/u128"
)

// RandSource is the uniform 64-bit integer source Sample consumes. Its
// method set matches math/rand/v2's *rand.Rand, so callers can pass one
// directly with no adapter.
type RandSource interface {
	Uint64() uint64
}

// Core is the sampler's mutable state: logical length, the level-sum
// hierarchy, the group arena, and the edit map.
type Core struct {
	n           int
	levels      *levels.Levels
	groups      *arena.GroupStore
	edit        *arena.EditMap
	totalWeight float64
	logf        func(format string, args ...any)
}

// SetLogger installs f as the diagnostic sink for arena growth and
// compaction events. A nil f (the default) disables logging entirely.
func (c *Core) SetLogger(f func(format string, args ...any)) { c.logf = f }

func (c *Core) log(format string, args ...any) {
	if c.logf != nil {
		c.logf(format, args...)
	}
}

// initialGroupWords is the starting word capacity of the group arena.
// It grows on demand (see growArenaAndAppend), so this only needs to be
// small.
const initialGroupWords = 64

// New returns an empty Core with logical length n.
func New(n int) *Core {
	return &Core{
		n:      n,
		levels: levels.New(),
		groups: arena.NewGroupStore(initialGroupWords),
		edit:   arena.NewEditMap(n),
	}
}

// Len returns the logical length.
func (c *Core) Len() int { return c.n }

func (c *Core) checkBounds(i int) error {
	if i < 1 || i > c.n {
		return dderrors.NewOutOfBounds(i, c.n)
	}
	return nil
}

// Get returns the weight at index i, or 0 if absent.
func (c *Core) Get(i int) (float64, error) {
	if err := c.checkBounds(i); err != nil {
		return 0, err
	}
	pos := c.edit.Pos(i)
	if pos == 0 {
		return 0, nil
	}
	return fbits.Recompose(c.edit.Exp(i), c.groups.Significand(pos)), nil
}

// Set assigns the weight at index i, clearing it first if zero or
// already live. w must be finite, non-negative, and not subnormal.
func (c *Core) Set(i int, w float64) error {
	if err := c.checkBounds(i); err != nil {
		return err
	}
	if ok, reason := fbits.Validate(w); !ok {
		return dderrors.NewInvalidWeight(w, reason)
	}
	if w == 0 {
		c.clear(i)
		return nil
	}
	if c.edit.Pos(i) != 0 {
		c.clear(i)
	}
	c.insert(i, w)
	return nil
}

// Resize changes the logical length to n, clearing any index above the
// new length when shrinking. Callers (the root package's storage
// variants) are responsible for enforcing whether resize is permitted
// at all.
func (c *Core) Resize(n int) {
	if n < c.n {
		for i := n + 1; i <= c.n; i++ {
			c.clear(i)
		}
		c.edit.Shrink(n)
	} else if n > c.n {
		c.edit.Grow(n)
	}
	c.n = n
}

// Verify recomputes every level's significand sum from the edit map and
// arena from first principles and compares it against the incrementally
// maintained state, checking invariants 1-7 of spec.md §3.
func (c *Core) Verify() error {
	if err := c.groups.VerifyLayout(); err != nil {
		return err
	}

	var independent [levels.NumBuckets]u128.Sum
	activeCount := 0
	for i := 1; i <= c.n; i++ {
		pos := c.edit.Pos(i)
		if pos == 0 {
			continue
		}
		activeCount++
		target := c.groups.Target(pos)
		if target != uint64(i) {
			return fmt.Errorf("core: edit map for index %d points to a slot owned by %d", i, target)
		}
		k := fbits.Bucket(c.edit.Exp(i))
		sig := c.groups.Significand(pos)
		independent[k].Add(sig)
	}

	groupTotal := 0
	for k := 0; k < levels.NumBuckets; k++ {
		groupTotal += c.groups.GroupLen(k)
	}
	if groupTotal != activeCount {
		return fmt.Errorf("core: group element count %d does not match active edit-map count %d", groupTotal, activeCount)
	}

	return c.levels.CheckConsistency(&independent)
}

// ActiveCount returns the number of indices with a nonzero weight, in
// O(NumBuckets) time.
func (c *Core) ActiveCount() int {
	n := 0
	for k := 0; k < levels.NumBuckets; k++ {
		n += c.groups.GroupLen(k)
	}
	return n
}

// Stats returns a cheap introspection snapshot: active count, the
// running float64 total, and a min/max active weight bounded by the
// extreme nonempty exponent buckets. Computed in O(NumBuckets) time.
func (c *Core) Stats() stats.Snapshot {
	return stats.Compute(c.levels, c.groups, c.ActiveCount(), c.totalWeight)
}
