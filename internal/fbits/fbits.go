// Package fbits decomposes float64 weights into the exponent-bucket
// representation used by the sampler: an 11-bit binary exponent and a
// 64-bit shifted significand with the implicit leading bit packed in.
package fbits

import "math"

const (
	// NumBuckets is the number of normal double exponents, 0x001..0x7fe.
	NumBuckets = 2046

	mantissaBits  = 52
	mantissaMask  = (uint64(1) << mantissaBits) - 1
	exponentMask  = 0x7ff
	biasedExpBase = 0x7fe // bucket 0 corresponds to this exponent
)

// Validate reports whether w is in-domain: zero, or a finite, normal,
// non-negative double. NaN, Inf, negative, and subnormal nonzero values
// are rejected. ok is false with a human-readable reason otherwise.
func Validate(w float64) (ok bool, reason string) {
	if w == 0 {
		return true, ""
	}
	switch {
	case math.IsNaN(w):
		return false, "NaN is not a valid weight"
	case math.IsInf(w, 0):
		return false, "infinite weights are not representable"
	case w < 0:
		return false, "weights must be non-negative"
	}
	bits := math.Float64bits(w)
	exp := (bits >> mantissaBits) & exponentMask
	switch exp {
	case 0:
		return false, "subnormal weights are rejected"
	case exponentMask:
		return false, "NaN/Inf weights are rejected"
	}
	return true, ""
}

// Bucket returns the exponent bucket index (0..2045) for an 11-bit
// biased exponent in [1, 0x7fe]. Bucket 0 holds the largest exponent.
func Bucket(exp uint32) int {
	return biasedExpBase - int(exp)
}

// ExponentOfBucket is the inverse of Bucket.
func ExponentOfBucket(k int) uint32 {
	return uint32(biasedExpBase - k)
}

// Decompose splits a finite, normal, positive double into its biased
// exponent and shifted significand: 2^63 | (mantissa << 11), so that
// drawing a uniform uint64 less than the shifted significand accepts
// with probability exactly w / 2^(exponent+1).
func Decompose(w float64) (exp uint32, shiftedSignificand uint64) {
	bits := math.Float64bits(w)
	exp = uint32((bits >> mantissaBits) & exponentMask)
	mantissa := bits & mantissaMask
	shiftedSignificand = (uint64(1) << 63) | (mantissa << 11)
	return exp, shiftedSignificand
}

// Recompose is the inverse of Decompose: given the bucket's exponent and
// a member's shifted significand, reconstructs the original weight.
func Recompose(exp uint32, shiftedSignificand uint64) float64 {
	mantissa := (shiftedSignificand &^ (uint64(1) << 63)) >> 11
	bits := (uint64(exp) << mantissaBits) | mantissa
	return math.Float64frombits(bits)
}
