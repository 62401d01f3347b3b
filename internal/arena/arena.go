// Package arena implements the group arena and compactor: the tail
// region holding each exponent bucket's variable-length array of
// (shifted significand, target) pairs, plus the edit map that lets
// deletion and compaction find and fix up an element in O(1).
//
// Arena slots are tagged: a target in [1, 2^63-1] is a live logical
// index; targets with the high bit set are tombstones marking either an
// abandoned, relocated-away region (its magnitude, read as a negative
// int64, gives the region's length in pairs) or an emptied-but-still-
// allocated group (its low 11 bits carry the bucket's exponent). These
// let a byte-level scan of the arena describe itself without external
// bookkeeping, per spec.md §4.4/§9; Compact here instead rebuilds from
// the group descriptor table the package already maintains, which is
// simpler and equally correct (see DESIGN.md) — the tombstones are still
// written to the in-memory arena for any lower-level tooling that wants
// to walk it directly.
package arena

import (
	"fmt"

	"github.com/go-ddsampler/ddsampler/internal/dderrors"
	"github.com/go-ddsampler/ddsampler/internal/fbits"
)

// NumBuckets is the number of exponent-bucket groups.
const NumBuckets = fbits.NumBuckets

const (
	emptyLiveFlag        = uint64(1) << 63
	abandonedThreshold   = uint64(0xc000000000000000)
	maxLogicalIndexValue = uint64(1)<<63 - 1
	// reservedWords keeps the first pair of M unused, so no element ever
	// sits at word offset 0, which the edit map reserves for "absent".
	reservedWords = 2
)

func isAbandoned(target uint64) bool { return target >= abandonedThreshold }

func encodeAbandoned(lengthPairs int) uint64 { return uint64(-int64(lengthPairs)) }

func decodeAbandonedLength(target uint64) int { return int(-int64(target)) }

func isEmptyLive(target uint64) bool {
	return target >= emptyLiveFlag && target < abandonedThreshold
}

func encodeEmptyLive(exp uint32) uint64 { return emptyLiveFlag | uint64(exp) }

// IsLive reports whether an arena target word denotes a live logical
// index rather than a tombstone.
func IsLive(target uint64) bool { return target != 0 && target <= maxLogicalIndexValue }

// EditMap maps a logical index to its arena word offset and the
// exponent of its current weight.
type EditMap struct {
	pos []int
	exp []uint32
}

// NewEditMap returns an edit map sized for logical indices [1, n].
func NewEditMap(n int) *EditMap {
	return &EditMap{pos: make([]int, n+1), exp: make([]uint32, n+1)}
}

// Len returns the logical length the edit map is sized for.
func (e *EditMap) Len() int { return len(e.pos) - 1 }

// Grow extends the edit map to cover logical indices [1, n].
func (e *EditMap) Grow(n int) {
	if n+1 <= len(e.pos) {
		return
	}
	pos := make([]int, n+1)
	copy(pos, e.pos)
	exp := make([]uint32, n+1)
	copy(exp, e.exp)
	e.pos, e.exp = pos, exp
}

// Shrink truncates the edit map to cover logical indices [1, n].
func (e *EditMap) Shrink(n int) {
	e.pos = e.pos[:n+1]
	e.exp = e.exp[:n+1]
}

// Pos returns the arena word offset of index i's element, or 0 if i is
// absent.
func (e *EditMap) Pos(i int) int { return e.pos[i] }

// Exp returns the stored exponent of index i's current weight.
func (e *EditMap) Exp(i int) uint32 { return e.exp[i] }

// SetPos records the arena word offset of index i's element.
func (e *EditMap) SetPos(i, pos int) { e.pos[i] = pos }

// SetExp records the exponent of index i's current weight.
func (e *EditMap) SetExp(i int, exp uint32) { e.exp[i] = exp }

// Clear marks index i absent.
func (e *EditMap) Clear(i int) { e.pos[i] = 0 }

// GroupStore is the tail allocator over a single contiguous []uint64:
// each bucket owns a contiguous, independently growable slice of
// (sig, target) pairs.
type GroupStore struct {
	M         []uint64
	free      int
	groupPos  [NumBuckets]int
	groupLen  [NumBuckets]int
	allocLog2 [NumBuckets]uint8 // 0 = unallocated, else log2(capacity)+1
}

// NewGroupStore allocates a group store with the given word capacity.
func NewGroupStore(capacityWords int) *GroupStore {
	return &GroupStore{M: make([]uint64, reservedWords+capacityWords), free: reservedWords}
}

// CapacityWords returns the word capacity available to groups.
func (g *GroupStore) CapacityWords() int { return len(g.M) - reservedWords }

// GroupLen returns the number of live elements in bucket k's group.
func (g *GroupStore) GroupLen(k int) int { return g.groupLen[k] }

// GroupPos returns the word offset of bucket k's group.
func (g *GroupStore) GroupPos(k int) int { return g.groupPos[k] }

func (g *GroupStore) capWordsOf(k int) int {
	if g.allocLog2[k] == 0 {
		return 0
	}
	return (1 << (g.allocLog2[k] - 1)) * 2
}

// Significand returns the shifted significand stored at word offset p.
func (g *GroupStore) Significand(p int) uint64 { return g.M[p] }

// Target returns the target word stored at word offset p+1.
func (g *GroupStore) Target(p int) uint64 { return g.M[p+1] }

// Append adds (sig, target) to bucket k's group, growing or relocating
// it as needed. ok is false when the arena has no room left even after
// growing the group in place or relocating it to the tail; the caller
// must Compact (optionally into a larger arena) and retry.
func (g *GroupStore) Append(k int, sig, target uint64, edit *EditMap) (pos int, ok bool) {
	dderrors.Assert(IsLive(target), "arena: Append called with non-live target 0x%x", target)
	capWords := g.capWordsOf(k)
	lenWords := g.groupLen[k] * 2

	if lenWords < capWords {
		pos = g.groupPos[k] + lenWords
		g.M[pos], g.M[pos+1] = sig, target
		g.groupLen[k]++
		return pos, true
	}

	newCapElems := 1
	if g.groupLen[k] > 0 {
		newCapElems = g.groupLen[k] * 2
	}
	newCapWords := newCapElems * 2

	if capWords > 0 && g.groupPos[k]+capWords == g.free {
		delta := newCapWords - capWords
		if g.free+delta > len(g.M) {
			return 0, false
		}
		g.free += delta
		g.allocLog2[k] = log2p1(newCapElems)
		pos = g.groupPos[k] + lenWords
		g.M[pos], g.M[pos+1] = sig, target
		g.groupLen[k]++
		return pos, true
	}

	if g.free+newCapWords > len(g.M) {
		return 0, false
	}
	newPos := g.free
	if g.groupLen[k] > 0 {
		copy(g.M[newPos:newPos+lenWords], g.M[g.groupPos[k]:g.groupPos[k]+lenWords])
		for j := 0; j < g.groupLen[k]; j++ {
			moved := g.M[newPos+2*j+1]
			if IsLive(moved) {
				edit.SetPos(int(moved), newPos+2*j)
			}
		}
		g.M[g.groupPos[k]+1] = encodeAbandoned(g.groupLen[k])
	}
	g.groupPos[k] = newPos
	g.free = newPos + newCapWords
	g.allocLog2[k] = log2p1(newCapElems)
	pos = newPos + lenWords
	g.M[pos], g.M[pos+1] = sig, target
	g.groupLen[k]++
	return pos, true
}

// Remove swap-removes the element at word offset pos from bucket k,
// fixing up the edit map entry of whichever element it swaps in, and
// writes an empty-but-live tombstone if the group becomes empty.
func (g *GroupStore) Remove(k, pos int, edit *EditMap) {
	dderrors.Assert(g.groupLen[k] > 0, "arena: Remove called on bucket %d with no live elements", k)
	lastPos := g.groupPos[k] + 2*(g.groupLen[k]-1)
	if pos != lastPos {
		sig, target := g.M[lastPos], g.M[lastPos+1]
		g.M[pos], g.M[pos+1] = sig, target
		if IsLive(target) {
			edit.SetPos(int(target), pos)
		}
	}
	g.groupLen[k]--
	if g.groupLen[k] == 0 {
		g.M[g.groupPos[k]+1] = encodeEmptyLive(fbits.ExponentOfBucket(k))
	}
}

// Compact repacks every live group tightly into a new arena of the
// given word capacity, reclaiming abandoned and empty-but-live
// tombstoned space, and rewrites group descriptors and every surviving
// element's edit-map offset.
func (g *GroupStore) Compact(newCapacityWords int, edit *EditMap) {
	newM := make([]uint64, reservedWords+newCapacityWords)
	free := reservedWords
	for k := 0; k < NumBuckets; k++ {
		n := g.groupLen[k]
		if n == 0 {
			g.allocLog2[k] = 0
			g.groupPos[k] = 0
			continue
		}
		capElems := nextPow2(n)
		capWords := capElems * 2
		copy(newM[free:free+2*n], g.M[g.groupPos[k]:g.groupPos[k]+2*n])
		for j := 0; j < n; j++ {
			target := newM[free+2*j+1]
			if IsLive(target) {
				edit.SetPos(int(target), free+2*j)
			}
		}
		g.groupPos[k] = free
		g.allocLog2[k] = log2p1(capElems)
		free += capWords
	}
	g.M = newM
	g.free = free
}

// TightWords returns the word count Compact would need to pack every
// live group at its minimal power-of-two capacity; Compact(TightWords())
// yields the smallest arena that holds every live group.
func (g *GroupStore) TightWords() int {
	total := 0
	for k := 0; k < NumBuckets; k++ {
		if g.groupLen[k] == 0 {
			continue
		}
		total += nextPow2(g.groupLen[k]) * 2
	}
	return total
}

func log2p1(capElems int) uint8 {
	l := 0
	for (1 << l) < capElems {
		l++
	}
	return uint8(l + 1)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// VerifyLayout confirms that every bucket's allocated range lies within
// [0, free), that no two buckets' ranges overlap (invariant 6 of
// spec.md §3), that every live element's target word holds a live
// logical index, and that every allocated but empty group carries its
// empty-but-live tombstone.
func (g *GroupStore) VerifyLayout() error {
	type span struct {
		k, start, end int
	}
	var spans []span
	for k := 0; k < NumBuckets; k++ {
		capWords := g.capWordsOf(k)
		if capWords == 0 {
			continue
		}
		start := g.groupPos[k]
		end := start + capWords
		if end > g.free {
			return fmt.Errorf("arena: bucket %d group extends past the free pointer", k)
		}
		if 2*g.groupLen[k] > capWords {
			return fmt.Errorf("arena: bucket %d group length exceeds its capacity", k)
		}
		spans = append(spans, span{k, start, end})

		for j := 0; j < g.groupLen[k]; j++ {
			target := g.M[start+2*j+1]
			if !IsLive(target) {
				return fmt.Errorf("arena: bucket %d slot %d holds a non-live target 0x%x", k, j, target)
			}
		}
		if g.groupLen[k] == 0 {
			if tomb := g.M[start+1]; !isEmptyLive(tomb) {
				return fmt.Errorf("arena: bucket %d is empty but missing its empty-live tombstone", k)
			}
		}
	}

	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			a, b := spans[i], spans[j]
			if a.start < b.end && b.start < a.end {
				return fmt.Errorf("arena: bucket %d and bucket %d ranges overlap", a.k, b.k)
			}
		}
	}
	return nil
}
