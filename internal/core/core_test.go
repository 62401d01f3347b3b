package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-ddsampler/ddsampler/internal/dderrors"
)

func TestGetSetRoundTrip(t *testing.T) {
	c := New(5)
	require.NoError(t, c.Set(1, 3.5))
	w, err := c.Get(1)
	require.NoError(t, err)
	require.Equal(t, 3.5, w)

	w, err = c.Get(2)
	require.NoError(t, err)
	require.Equal(t, 0.0, w)
}

func TestSetZeroClears(t *testing.T) {
	c := New(3)
	require.NoError(t, c.Set(1, 10))
	require.Equal(t, 1, c.ActiveCount())
	require.NoError(t, c.Set(1, 0))
	require.Equal(t, 0, c.ActiveCount())
	require.NoError(t, c.Verify())
}

func TestSetOutOfBounds(t *testing.T) {
	c := New(3)
	err := c.Set(0, 1)
	require.Error(t, err)
	require.IsType(t, &dderrors.OutOfBoundsError{}, err)

	err = c.Set(4, 1)
	require.Error(t, err)
}

func TestSetInvalidWeight(t *testing.T) {
	c := New(3)
	err := c.Set(1, -1)
	require.Error(t, err)
	require.IsType(t, &dderrors.InvalidWeightError{}, err)
}

func TestReassignUpdatesWeight(t *testing.T) {
	c := New(3)
	require.NoError(t, c.Set(1, 10))
	require.NoError(t, c.Set(1, 99))
	w, err := c.Get(1)
	require.NoError(t, err)
	require.Equal(t, 99.0, w)
	require.NoError(t, c.Verify())
}

func TestResizeGrowAndShrink(t *testing.T) {
	c := New(3)
	require.NoError(t, c.Set(1, 5))
	require.NoError(t, c.Set(3, 7))
	c.Resize(5)
	require.Equal(t, 5, c.Len())
	w, _ := c.Get(5)
	require.Equal(t, 0.0, w)

	c.Resize(2)
	require.Equal(t, 2, c.Len())
	require.Equal(t, 1, c.ActiveCount()) // index 3 was cleared by the shrink
	require.NoError(t, c.Verify())
}

func TestVerifyAfterManyMutations(t *testing.T) {
	c := New(200)
	for i := 1; i <= 200; i++ {
		require.NoError(t, c.Set(i, float64(i)*1.3))
	}
	for i := 1; i <= 200; i += 3 {
		require.NoError(t, c.Set(i, 0))
	}
	for i := 2; i <= 200; i += 5 {
		require.NoError(t, c.Set(i, float64(i)*9.9))
	}
	require.NoError(t, c.Verify())
}

func TestSampleOnEmptyReturnsErrEmpty(t *testing.T) {
	c := New(3)
	_, err := c.Sample(fixedRand{0x1234})
	require.ErrorIs(t, err, dderrors.ErrEmpty)
}

// fixedRand is a trivial RandSource for deterministic edge-case tests.
type fixedRand struct{ v uint64 }

func (f fixedRand) Uint64() uint64 { return f.v }
