// Package mathutil provides small numeric helpers shared by the curve
// and spline packages.
package mathutil

import (
	"math"
)

// Sign returns -1, 0, or +1 depending on the sign of x.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Clamp limits x to the interval [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ClampNearZero flushes x to exactly zero when it is within epsilon of
// zero. Used before sign comparisons so float rounding noise does not
// flip the apparent sign of a quantity that is analytically zero.
func ClampNearZero(x, epsilon float64) float64 {
	if math.Abs(x) <= epsilon {
		return 0
	}
	return x
}

// InsideTolerance reports whether a and b differ by at most tolerance.
func InsideTolerance(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Mod returns x modulo m, always in [0, m) for positive m.
// Unlike math.Mod, the result takes the sign of m, not x.
func Mod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// PowerOf2Scale returns the power of two nearest in magnitude to x,
// i.e. 2^e where |x| = f * 2^e with f in [0.5, 1). Multiplying or
// dividing by the result is exact in floating point, which makes it
// safe to use for conditioning coefficients before a root solve.
// Returns 1 for zero, infinite, or NaN inputs.
func PowerOf2Scale(x float64) float64 {
	if x == 0 || math.IsInf(x, 0) || math.IsNaN(x) {
		return 1
	}
	_, exp := math.Frexp(x)
	return math.Ldexp(1, exp)
}

// QuantizeUint16 converts value to a 16-bit fixed-point fraction of the
// interval [start, start+length]. Values outside the interval clamp to
// the nearest end. A non-positive length maps everything to 0.
func QuantizeUint16(value, start, length float64) uint16 {
	if length <= 0 {
		return 0
	}
	f := (value - start) / length * math.MaxUint16
	return uint16(Clamp(math.Round(f), 0, math.MaxUint16))
}

// DequantizeUint16 is the inverse of QuantizeUint16.
func DequantizeUint16(q uint16, start, length float64) float64 {
	return start + float64(q)*(length/math.MaxUint16)
}
