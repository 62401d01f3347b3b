package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-ddsampler/ddsampler/internal/arena"
	"github.com/go-ddsampler/ddsampler/internal/fbits"
	"github.com/go-ddsampler/ddsampler/internal/levels"
)

func TestComputeOnEmpty(t *testing.T) {
	snap := Compute(levels.New(), arena.NewGroupStore(16), 0, 0)
	require.Equal(t, Snapshot{}, snap)
}

func TestComputeReportsExtremeBuckets(t *testing.T) {
	l := levels.New()
	g := arena.NewGroupStore(64)
	edit := arena.NewEditMap(3)

	weights := []float64{1e-10, 5, 1e10}
	for i, w := range weights {
		exp, sig := fbits.Decompose(w)
		k := fbits.Bucket(exp)
		pos, ok := g.Append(k, sig, uint64(i+1), edit)
		require.True(t, ok)
		edit.SetPos(i+1, pos)
		edit.SetExp(i+1, exp)
		l.Insert(exp, sig)
	}

	snap := Compute(l, g, 3, 1e10+5+1e-10)
	require.Equal(t, 3, snap.ActiveCount)
	require.Equal(t, 1e10, snap.MaxWeight)
	require.Equal(t, 1e-10, snap.MinWeight)
}
