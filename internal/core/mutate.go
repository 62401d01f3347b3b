package core

import (
	"github.com/go-ddsampler/ddsampler/internal/dderrors"
	"github.com/go-ddsampler/ddsampler/internal/fbits"
)

// insert adds weight w at index i. i must currently be absent.
func (c *Core) insert(i int, w float64) {
	dderrors.Assert(c.edit.Pos(i) == 0, "core: insert called on already-live index %d", i)
	exp, sig := fbits.Decompose(w)
	k := fbits.Bucket(exp)
	target := uint64(i)

	pos, ok := c.groups.Append(k, sig, target, c.edit)
	if !ok {
		pos = c.growArenaAndAppend(k, sig, target)
	}

	c.edit.SetPos(i, pos)
	c.edit.SetExp(i, exp)
	c.levels.Insert(exp, sig)
	c.totalWeight += w
}

// clear removes index i's weight, if any.
func (c *Core) clear(i int) {
	pos := c.edit.Pos(i)
	if pos == 0 {
		return
	}
	exp := c.edit.Exp(i)
	sig := c.groups.Significand(pos)
	k := fbits.Bucket(exp)

	c.groups.Remove(k, pos, c.edit)
	c.edit.Clear(i)
	c.levels.Clear(exp, sig)
	c.totalWeight -= fbits.Recompose(exp, sig)
}

// growArenaAndAppend compacts the group arena in place, then (if that
// alone did not free enough room) reallocates it at double the
// capacity, repeating until the append succeeds. This is the arena's
// overflow path from spec.md §4.4: "Triggered when extending would push
// past the end of M."
func (c *Core) growArenaAndAppend(k int, sig, target uint64) int {
	c.groups.Compact(c.groups.CapacityWords(), c.edit)
	c.log("arena: compacted in place at %d words", c.groups.CapacityWords())
	if pos, ok := c.groups.Append(k, sig, target, c.edit); ok {
		return pos
	}

	newWords := c.groups.CapacityWords() * 2
	if newWords == 0 {
		newWords = initialGroupWords
	}
	for {
		c.groups.Compact(newWords, c.edit)
		c.log("arena: grew to %d words", newWords)
		if pos, ok := c.groups.Append(k, sig, target, c.edit); ok {
			return pos
		}
		newWords *= 2
	}
}
