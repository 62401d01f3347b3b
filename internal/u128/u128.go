// Package u128 provides the fixed-precision integer accumulator used to
// keep per-bucket significand sums exact. It is backed by
// github.com/holiman/uint256.Int, which gives correct, carry-propagating
// wide-integer arithmetic; only the low 128 of its 256 bits are ever
// significant here; sig sums do not realistically grow past that.
package u128

import "github.com/holiman/uint256"

// Sum is the exact running sum of shifted significands for one exponent
// bucket.
type Sum struct {
	v uint256.Int
}

// Add adds a shifted significand (a value in [2^63, 2^64)) to the sum.
func (s *Sum) Add(shiftedSignificand uint64) {
	var t uint256.Int
	t.SetUint64(shiftedSignificand)
	s.v.Add(&s.v, &t)
}

// Sub subtracts a shifted significand from the sum.
func (s *Sum) Sub(shiftedSignificand uint64) {
	var t uint256.Int
	t.SetUint64(shiftedSignificand)
	s.v.Sub(&s.v, &t)
}

// IsZero reports whether the sum is exactly zero.
func (s *Sum) IsZero() bool {
	return s.v.IsZero()
}

// TopSetBit returns the index of the highest set bit (0-based), or -1 if
// the sum is zero.
func (s *Sum) TopSetBit() int {
	return s.v.BitLen() - 1
}

// ShiftedLow64 computes the low 64 bits of (sum << shift), where shift
// may be negative (a right shift). This is exact: shifting in either
// direction and truncating to 64 bits never loses information that a
// true infinite-precision computation would have kept in the low word,
// because a left shift by n>=64 always produces zero low bits and a
// right shift only ever removes bits below the window being read.
func (s *Sum) ShiftedLow64(shift int) uint64 {
	if s.v.IsZero() {
		return 0
	}
	var t uint256.Int
	switch {
	case shift >= 0:
		if shift >= 256 {
			return 0
		}
		t.Lsh(&s.v, uint(shift))
	default:
		n := -shift
		if n >= 256 {
			return 0
		}
		t.Rsh(&s.v, uint(n))
	}
	return t.Uint64()
}

// Reset zeroes the sum in place.
func (s *Sum) Reset() {
	s.v.SetUint64(0)
}

// Equal reports whether two sums hold the same exact value.
func (s *Sum) Equal(other *Sum) bool {
	return s.v.Cmp(&other.v) == 0
}
