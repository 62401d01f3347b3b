// Package stats computes read-only introspection over a sampler's level
// hierarchy and group arena in time bounded by the number of exponent
// buckets, never by the number of active indices — the same complexity
// budget the sampler itself holds to.
package stats

import (
	"github.com/go-ddsampler/ddsampler/internal/arena"
	"github.com/go-ddsampler/ddsampler/internal/fbits"
	"github.com/go-ddsampler/ddsampler/internal/levels"
)

// Snapshot is a cheap, read-only view of a sampler's active-weight
// bookkeeping.
type Snapshot struct {
	ActiveCount int
	TotalWeight float64
	MinWeight   float64
	MaxWeight   float64
}

// Compute derives a Snapshot from the level hierarchy and group arena.
// MinWeight and MaxWeight are read from a single representative element
// of the lowest and highest nonempty exponent buckets respectively — the
// bucket a weight sorts into already bounds it to within a factor of 2,
// which is all an O(NumBuckets) introspection call can offer without
// degrading to an O(activeCount) scan.
func Compute(l *levels.Levels, g *arena.GroupStore, activeCount int, totalWeight float64) Snapshot {
	snap := Snapshot{ActiveCount: activeCount, TotalWeight: totalWeight}
	if activeCount == 0 {
		return snap
	}

	for k := 0; k < levels.NumBuckets; k++ {
		if g.GroupLen(k) == 0 {
			continue
		}
		snap.MaxWeight = fbits.Recompose(fbits.ExponentOfBucket(k), g.Significand(g.GroupPos(k)))
		break
	}
	for k := levels.NumBuckets - 1; k >= 0; k-- {
		if g.GroupLen(k) == 0 {
			continue
		}
		snap.MinWeight = fbits.Recompose(fbits.ExponentOfBucket(k), g.Significand(g.GroupPos(k)))
		break
	}
	return snap
}
