package ddsampler_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/go-ddsampler/ddsampler"
)

// TestInsertAutoGrowsResizableVariant confirms the auto-grow convenience
// Insert(s, i, w) describes: inserting past Len grows the sampler first.
func TestInsertAutoGrowsResizableVariant(t *testing.T) {
	s := ddsampler.NewResizable(2, nil)
	require.NoError(t, s.Insert(9, 1))
	require.Equal(t, 9, s.Len())
	w, err := s.Get(9)
	require.NoError(t, err)
	require.Equal(t, 1.0, w)
}

// TestInsertAutoGrowRespectsFixedVariant confirms the auto-grow path
// defers to the variant's resize policy rather than bypassing it.
func TestInsertAutoGrowRespectsFixedVariant(t *testing.T) {
	s := ddsampler.NewFixed(2, nil)
	err := s.Insert(9, 1)
	require.Error(t, err)
	require.IsType(t, &ddsampler.NotResizableError{}, err)
}

// Scenario 1 of spec.md §8: clearing everything but the third index
// leaves Sample always returning it.
func TestScenarioOnlySurvivorIsAlwaysDrawn(t *testing.T) {
	s := ddsampler.NewResizable(3, nil)
	require.NoError(t, s.Set(1, 1))
	require.NoError(t, s.Set(2, 2))
	require.NoError(t, s.Set(3, 4))
	require.NoError(t, s.Set(1, 0))
	require.NoError(t, s.Set(2, 0))

	rng := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 500; i++ {
		got, err := s.Sample(rng)
		require.NoError(t, err)
		require.Equal(t, 3, got)
	}
}

// Scenario 2 of spec.md §8: powers of two 2^1..2^65, one per index,
// with the two highest indices cleared and one reinserted.
func TestScenarioPowersOfTwoAcrossFullRange(t *testing.T) {
	s := ddsampler.NewResizable(65, nil)
	for i := 1; i <= 65; i++ {
		require.NoError(t, s.Set(i, math.Ldexp(1, i)))
	}
	require.NoError(t, s.Set(65, 0))
	require.NoError(t, s.Set(65, 1.0))
	require.NoError(t, s.Set(64, 0))

	require.NoError(t, ddsampler.Verify(s))

	rng := rand.New(rand.NewPCG(2, 2))
	for i := 0; i < 5000; i++ {
		got, err := s.Sample(rng)
		require.NoError(t, err)
		require.NotEqual(t, 64, got)
		require.NotEqual(t, 65, got)
	}
}

// Scenario 3 of spec.md §8: a stress run of many small, equal-weight
// elements under repeated resampled updates, verifying invariants hold
// after every round.
func TestScenarioStressManyUpdatesPreservesInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress scenario in -short mode")
	}
	const n = 1500
	const rounds = 2500

	s := ddsampler.NewResizable(n, nil)
	for i := 1; i <= n; i++ {
		require.NoError(t, s.Set(i, 0.1))
	}

	rng := rand.New(rand.NewPCG(3, 3))
	for r := 0; r < rounds; r++ {
		j, err := s.Sample(rng)
		require.NoError(t, err)
		w := math.Exp(8 * rng.NormFloat64())
		require.NoError(t, s.Set(j, w))
		require.NoError(t, ddsampler.Verify(s))
	}
}

// Scenario 4 of spec.md §8: weight swings across 600 orders of
// magnitude still select the currently heaviest index.
func TestScenarioHugeWeightSwings(t *testing.T) {
	s := ddsampler.NewResizable(2, nil)
	rng := rand.New(rand.NewPCG(4, 4))

	require.NoError(t, s.Set(1, 1e-300))
	got, err := s.Sample(rng)
	require.NoError(t, err)
	require.Equal(t, 1, got)

	require.NoError(t, s.Set(2, 1e300))
	got, err = s.Sample(rng)
	require.NoError(t, err)
	require.Equal(t, 2, got)

	require.NoError(t, s.Set(2, 0))
	got, err = s.Sample(rng)
	require.NoError(t, err)
	require.Equal(t, 1, got)
}

// Scenario 5 of spec.md §8: clearing and reinserting the same huge
// weight leaves it correctly selectable.
func TestScenarioClearAndReinsertHugeWeight(t *testing.T) {
	s := ddsampler.NewResizable(2, nil)
	require.NoError(t, s.Set(1, 1))
	require.NoError(t, s.Set(2, 1e308))
	require.NoError(t, s.Set(2, 0))
	require.NoError(t, s.Set(2, 1e308))

	rng := rand.New(rand.NewPCG(5, 5))
	got, err := s.Sample(rng)
	require.NoError(t, err)
	require.Equal(t, 2, got)
}

// Scenario 6 of spec.md §8: a chi-squared goodness-of-fit check over
// weights 1..100 at p > 0.002.
func TestScenarioChiSquareGoodnessOfFit(t *testing.T) {
	const n = 100
	const draws = 100000

	s := ddsampler.NewResizable(n, nil)
	var total float64
	for i := 1; i <= n; i++ {
		require.NoError(t, s.Set(i, float64(i)))
		total += float64(i)
	}

	rng := rand.New(rand.NewPCG(6, 6))
	counts := make([]float64, n)
	for i := 0; i < draws; i++ {
		got, err := s.Sample(rng)
		require.NoError(t, err)
		counts[got-1]++
	}

	expected := make([]float64, n)
	for i := 1; i <= n; i++ {
		expected[i-1] = draws * float64(i) / total
	}

	chi2 := stat.ChiSquare(counts, expected)
	// 99 degrees of freedom; the chi-squared distribution's 0.002
	// upper-tail critical value is about 144.37, so chi2 below it means
	// p > 0.002.
	require.Less(t, chi2, 144.37, "chi-squared statistic too high: %v", chi2)
}
