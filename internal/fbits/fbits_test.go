package fbits

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	ok, _ := Validate(0)
	require.True(t, ok)

	ok, _ = Validate(1.5)
	require.True(t, ok)

	cases := []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1, math.SmallestNonzeroFloat64}
	for _, w := range cases {
		ok, reason := Validate(w)
		require.False(t, ok, "weight %v should be invalid", w)
		require.NotEmpty(t, reason)
	}
}

func TestDecomposeRecomposeRoundTrip(t *testing.T) {
	weights := []float64{1, 1.5, 100, 0.001, math.MaxFloat64, math.SmallestNonzeroFloat64 * math.Pow(2, 60)}
	for _, w := range weights {
		exp, sig := Decompose(w)
		got := Recompose(exp, sig)
		require.Equal(t, w, got)
	}
}

func TestBucketIsInvolution(t *testing.T) {
	for exp := uint32(1); exp <= 0x7fe; exp++ {
		k := Bucket(exp)
		require.True(t, k >= 0 && k < NumBuckets)
		require.Equal(t, exp, ExponentOfBucket(k))
	}
}

func TestBucketOrdering(t *testing.T) {
	// Larger exponents sort into smaller bucket indices.
	require.Less(t, Bucket(0x7fe), Bucket(0x7fd))
	require.Equal(t, 0, Bucket(0x7fe))
	require.Equal(t, NumBuckets-1, Bucket(1))
}

func TestDecomposeShiftedSignificandHasTopBitSet(t *testing.T) {
	_, sig := Decompose(3.14159)
	require.True(t, sig >= uint64(1)<<63)
}
