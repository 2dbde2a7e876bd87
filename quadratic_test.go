package spline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-spline/internal/testutil"
)

// quadraticWithRoots returns the monic quadratic (x-r0)(x-r1) scaled
// by leading.
func quadraticWithRoots(r0, r1, leading float64) QuadraticCurve {
	return NewQuadraticCurve(leading*r0*r1, -leading*(r0+r1), leading)
}

// TestQuadratic_Constructors verifies the boundary-condition
// constructors reproduce their inputs.
func TestQuadratic_Constructors(t *testing.T) {
	q := QuadraticFromStart(1, 2, 5)
	assert.InDelta(t, 1.0, q.Evaluate(0), testutil.DefaultTolerance)
	assert.InDelta(t, 2.0, q.Derivative(0), testutil.DefaultTolerance)
	assert.InDelta(t, 5.0, q.Evaluate(1), testutil.DefaultTolerance)

	q = QuadraticFromOrigin(3, -1, 4)
	assert.InDelta(t, 3.0, q.Evaluate(0), testutil.DefaultTolerance)
	assert.InDelta(t, -1.0, q.Derivative(0), testutil.DefaultTolerance)
	assert.InDelta(t, 4.0, q.SecondDerivative(), testutil.DefaultTolerance)

	q = QuadraticFromPoint(3, -1, 4, 7)
	assert.InDelta(t, 3.0, q.Evaluate(7), 1e-9)
	assert.InDelta(t, -1.0, q.Derivative(7), 1e-9)
	assert.InDelta(t, 4.0, q.SecondDerivative(), testutil.DefaultTolerance)
}

// TestQuadratic_RootsSimple verifies distinct real roots come back in
// ascending order.
func TestQuadratic_RootsSimple(t *testing.T) {
	roots := NewQuadraticCurve(6, -5, 1).Roots() // (x-2)(x-3)
	require.Len(t, roots, 2)
	assert.InDelta(t, 2.0, roots[0], 1e-10)
	assert.InDelta(t, 3.0, roots[1], 1e-10)
	testutil.AssertAscending(t, roots)
}

// TestQuadratic_RootsAcrossMagnitudes verifies the stabilized solve
// keeps relative accuracy when roots and coefficients span many orders
// of magnitude.
func TestQuadratic_RootsAcrossMagnitudes(t *testing.T) {
	cases := []struct {
		name     string
		r0, r1   float64
		leading  float64
	}{
		{"tiny roots", 1e-11, 3e-11, 1},
		{"huge roots", 2e8, 7e9, 1},
		{"mixed magnitudes", 1e-6, 4e6, 1},
		{"tiny leading", 1, 2, 1e-30},
		{"huge leading", -5, 3, 1e25},
		{"negative roots", -9e4, -2, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := quadraticWithRoots(tc.r0, tc.r1, tc.leading)
			roots := q.Roots()
			require.Len(t, roots, 2, "coefficients %v", q.c)
			testutil.AssertMonotonic(t, roots)

			lo, hi := math.Min(tc.r0, tc.r1), math.Max(tc.r0, tc.r1)
			testutil.AssertRelativeError(t, lo, roots[0], 1e-6)
			testutil.AssertRelativeError(t, hi, roots[1], 1e-6)
		})
	}
}

// TestQuadratic_DoubleRoot verifies a perfect square reports exactly
// one root.
func TestQuadratic_DoubleRoot(t *testing.T) {
	roots := NewQuadraticCurve(1, -2, 1).Roots() // (x-1)^2
	require.Len(t, roots, 1)
	assert.InDelta(t, 1.0, roots[0], 1e-10)
}

// TestQuadratic_NearDoubleRoot verifies that rounding noise around a
// double root does not make the root pair vanish.
func TestQuadratic_NearDoubleRoot(t *testing.T) {
	// (x - 1/3)^2 expanded in floating point: the discriminant is not
	// exactly zero but must still be treated as a double root.
	third := 1.0 / 3.0
	q := NewQuadraticCurve(third*third, -2*third, 1)
	roots := q.Roots()
	require.NotEmpty(t, roots, "double root lost to rounding")
	assert.InDelta(t, third, roots[0], 1e-8)
}

// TestQuadratic_NoRealRoots verifies a positive-definite curve has no
// roots.
func TestQuadratic_NoRealRoots(t *testing.T) {
	assert.Empty(t, NewQuadraticCurve(1, 0, 1).Roots())
	assert.Empty(t, NewQuadraticCurve(5, 2, 3).Roots())
}

// TestQuadratic_DegenerateRoots verifies linear and constant
// degenerations.
func TestQuadratic_DegenerateRoots(t *testing.T) {
	// Linear: 2x - 4.
	roots := NewQuadraticCurve(-4, 2, 0).Roots()
	require.Len(t, roots, 1)
	assert.InDelta(t, 2.0, roots[0], testutil.DefaultTolerance)

	// Constants have no roots, including the zero polynomial.
	assert.Empty(t, NewQuadraticCurve(3, 0, 0).Roots())
	assert.Empty(t, NewQuadraticCurve(0, 0, 0).Roots())

	// Pure quadratic: root at the origin.
	roots = NewQuadraticCurve(0, 0, 2).Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, 0.0, roots[0])
}

// TestQuadratic_RootsMatchEvaluate verifies returned roots actually
// zero the polynomial to within conditioning.
func TestQuadratic_RootsMatchEvaluate(t *testing.T) {
	q := quadraticWithRoots(0.125, 1024, 3)
	for _, root := range q.Roots() {
		residual := q.Evaluate(root)
		scale := math.Abs(q.c[0]) + math.Abs(q.c[1]*root) + math.Abs(q.c[2]*root*root)
		assert.LessOrEqual(t, math.Abs(residual), 1e-10*scale, "root %g", root)
	}
}

// TestQuadratic_ShiftRight verifies g(x) = f(x - shift).
func TestQuadratic_ShiftRight(t *testing.T) {
	f := NewQuadraticCurve(1, -2, 0.5)
	g := f
	g.ShiftRight(3)
	for _, x := range []float64{-2, 0, 0.5, 3, 10} {
		assert.InDelta(t, f.Evaluate(x-3), g.Evaluate(x), 1e-10, "x=%g", x)
		assert.InDelta(t, f.Derivative(x-3), g.Derivative(x), 1e-10, "x=%g", x)
	}

	// Shifting back restores the curve.
	g.ShiftLeft(3)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, f.Coeff(i), g.Coeff(i), 1e-10, "coeff %d", i)
	}
}

// TestQuadratic_RootsInRange verifies range filtering and boundary
// clamping.
func TestQuadratic_RootsInRange(t *testing.T) {
	q := quadraticWithRoots(0, 1, 1)

	roots := q.RootsInRange(NewRange(-0.5, 0.5))
	require.Len(t, roots, 1)
	assert.Equal(t, 0.0, roots[0])

	roots = q.RootsInRange(NewRange(-0.5, 2))
	require.Len(t, roots, 2)

	assert.Empty(t, q.RootsInRange(NewRange(2, 3)))

	// A root a hair outside the range clamps onto the boundary.
	delta := 1e-7
	roots = q.RootsInRange(NewRange(delta, 1))
	require.Len(t, roots, 2)
	assert.Equal(t, delta, roots[0])
}

// TestQuadratic_RangesMatchingSign verifies sign partitioning around
// the roots.
func TestQuadratic_RangesMatchingSign(t *testing.T) {
	q := quadraticWithRoots(1, 3, 1) // positive outside (1, 3)
	limits := NewRange(0, 4)

	positive := q.RangesMatchingSign(limits, 1)
	require.Len(t, positive, 2)
	assert.Equal(t, NewRange(0, 1), positive[0])
	assert.Equal(t, NewRange(3, 4), positive[1])

	negative := q.RangesMatchingSign(limits, -1)
	require.Len(t, negative, 1)
	assert.Equal(t, NewRange(1, 3), negative[0])
}

// TestQuadratic_RangesMatchingSign_NoRoots verifies a root-free curve
// yields the whole range or nothing.
func TestQuadratic_RangesMatchingSign_NoRoots(t *testing.T) {
	q := NewQuadraticCurve(1, 0, 1) // always positive
	limits := NewRange(-2, 2)

	positive := q.RangesMatchingSign(limits, 1)
	require.Len(t, positive, 1)
	assert.Equal(t, limits, positive[0])

	assert.Empty(t, q.RangesMatchingSign(limits, -1))
}

// TestQuadratic_Sub verifies coefficient-wise subtraction.
func TestQuadratic_Sub(t *testing.T) {
	a := NewQuadraticCurve(5, 3, 1)
	b := NewQuadraticCurve(1, 1, 1)
	d := a.Sub(b)
	assert.Equal(t, NewQuadraticCurve(4, 2, 0), d)
}
