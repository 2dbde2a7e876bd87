package spline

import (
	"math"

	"github.com/tphakala/go-spline/internal/mathutil"
)

// QuadraticCurve is the polynomial c2*x^2 + c1*x + c0.
//
// The zero value is the constant curve 0. Curves are small value types;
// copy them freely.
type QuadraticCurve struct {
	c [3]float64 // c[i] is the coefficient of x^i
}

// NewQuadraticCurve returns the curve with the given coefficients,
// constant term first.
func NewQuadraticCurve(c0, c1, c2 float64) QuadraticCurve {
	return QuadraticCurve{c: [3]float64{c0, c1, c2}}
}

// QuadraticFromStart returns the quadratic over the unit domain [0, 1]
// with f(0) = startY, f'(0) = startDerivative, and f(1) = endY.
func QuadraticFromStart(startY, startDerivative, endY float64) QuadraticCurve {
	return QuadraticCurve{c: [3]float64{
		startY,
		startDerivative,
		endY - startY - startDerivative,
	}}
}

// QuadraticFromOrigin returns the quadratic with the given value, first
// derivative, and second derivative at x = 0.
func QuadraticFromOrigin(y, derivative, secondDerivative float64) QuadraticCurve {
	return QuadraticCurve{c: [3]float64{y, derivative, secondDerivative / 2}}
}

// QuadraticFromPoint returns the quadratic with the given value, first
// derivative, and second derivative at an arbitrary point x.
func QuadraticFromPoint(y, derivative, secondDerivative, x float64) QuadraticCurve {
	c2 := secondDerivative / 2
	c1 := derivative - 2*c2*x
	c0 := y - c1*x - c2*x*x
	return QuadraticCurve{c: [3]float64{c0, c1, c2}}
}

// Coeff returns the coefficient of x^i.
func (q QuadraticCurve) Coeff(i int) float64 {
	return q.c[i]
}

// Evaluate returns f(x).
func (q QuadraticCurve) Evaluate(x float64) float64 {
	return (q.c[2]*x+q.c[1])*x + q.c[0]
}

// Derivative returns f'(x).
func (q QuadraticCurve) Derivative(x float64) float64 {
	return 2*q.c[2]*x + q.c[1]
}

// SecondDerivative returns f''(x), which is constant for a quadratic.
func (q QuadraticCurve) SecondDerivative() float64 {
	return 2 * q.c[2]
}

// ShiftLeft re-centers the polynomial so that the new curve g satisfies
// g(x) = f(x + shift).
func (q *QuadraticCurve) ShiftLeft(shift float64) {
	q.c = [3]float64{
		q.Evaluate(shift),
		q.Derivative(shift),
		q.c[2],
	}
}

// ShiftRight re-centers the polynomial so that the new curve g satisfies
// g(x) = f(x - shift).
func (q *QuadraticCurve) ShiftRight(shift float64) {
	q.ShiftLeft(-shift)
}

// Sub returns the curve f - g.
func (q QuadraticCurve) Sub(g QuadraticCurve) QuadraticCurve {
	return QuadraticCurve{c: [3]float64{
		q.c[0] - g.c[0],
		q.c[1] - g.c[1],
		q.c[2] - g.c[2],
	}}
}

// Roots returns the real roots of the curve in ascending order: zero,
// one, or two of them.
//
// The solve is numerically stabilized before the quadratic formula is
// applied:
//
//  1. The x axis is rescaled by an exact power of two so that the
//     quadratic term's magnitude is comparable to the larger of the
//     linear and constant terms, avoiding catastrophic cancellation
//     when the coefficients span many orders of magnitude.
//  2. The y axis is rescaled so the quadratic coefficient becomes
//     exactly 1, avoiding overflow and underflow inside the formula.
//  3. Discriminants within a relative epsilon of zero are treated as
//     exactly zero, so a double root perturbed by rounding error is
//     reported as one root instead of none.
//  4. The x rescaling is undone on the returned roots.
//
// A curve with zero quadratic coefficient degenerates to a linear
// solve; a constant curve has no reported roots even when it is the
// zero polynomial.
func (q QuadraticCurve) Roots() []float64 {
	c2, c1, c0 := q.c[2], q.c[1], q.c[0]

	if c2 == 0 {
		return linearRoots(c1, c0)
	}
	if c1 == 0 && c0 == 0 {
		return []float64{0}
	}

	// Choose the power-of-two x scale that balances the quadratic term
	// against the dominant lower-order term. Substituting x = s*u gives
	// g(u) = c2*s^2*u^2 + c1*s*u + c0.
	linearBalance := math.Abs(c1 / c2)
	constantBalance := math.Sqrt(math.Abs(c0 / c2))
	xScale := mathutil.PowerOf2Scale(math.Max(linearBalance, constantBalance))

	a := c2 * xScale * xScale
	if a == 0 || math.IsInf(a, 0) {
		// The quadratic term vanished or overflowed under scaling;
		// treat it as linear.
		return linearRoots(c1, c0)
	}

	// Rescale y so the quadratic coefficient is exactly 1.
	b := c1 * xScale / a
	c := c0 / a

	disc := b*b - 4*c
	tolerance := quadraticDiscriminantEpsilonScale * math.Max(b*b, math.Abs(4*c))
	switch {
	case disc < -tolerance:
		return nil
	case disc <= tolerance:
		return []float64{-b / 2 * xScale}
	}

	// Stable form: compute the larger-magnitude root first, derive the
	// other from the product of roots to avoid cancellation.
	r0 := -(b + math.Copysign(math.Sqrt(disc), b)) / 2
	r1 := c / r0
	if r0 > r1 {
		r0, r1 = r1, r0
	}
	return []float64{r0 * xScale, r1 * xScale}
}

// linearRoots solves c1*x + c0 = 0.
func linearRoots(c1, c0 float64) []float64 {
	if c1 == 0 {
		return nil
	}
	return []float64{-c0 / c1}
}

// RootsInRange returns the roots that lie inside xLimits, in ascending
// order. Roots within a small tolerance (proportional to the range
// length) of either boundary are clamped onto the boundary and kept, so
// float error at an interval edge does not drop a legitimate root.
func (q QuadraticCurve) RootsInRange(xLimits Range) []float64 {
	tolerance := rootsInRangeEpsilonScale * xLimits.Length()
	var inRange []float64
	for _, root := range q.Roots() {
		switch {
		case xLimits.Contains(root):
			inRange = append(inRange, root)
		case xLimits.DistanceFrom(root) <= tolerance:
			inRange = append(inRange, xLimits.Clamp(root))
		}
	}
	return inRange
}

// RangesMatchingSign partitions xLimits into the sub-ranges on which
// sign * f(x) >= 0, using the curve's roots as partition boundaries.
// At most two sub-ranges are returned for a quadratic. Useful for
// finding the time spans during which a motion satisfies a directional
// constraint.
func (q QuadraticCurve) RangesMatchingSign(xLimits Range, sign float64) []Range {
	roots := q.RootsInRange(xLimits)

	// Partition boundaries: range start, interior roots, range end.
	bounds := make([]float64, 0, 4)
	bounds = append(bounds, xLimits.Start)
	for _, r := range roots {
		if r > bounds[len(bounds)-1] {
			bounds = append(bounds, r)
		}
	}
	if xLimits.End > bounds[len(bounds)-1] {
		bounds = append(bounds, xLimits.End)
	}

	var matching []Range
	for i := 0; i+1 < len(bounds); i++ {
		sub := Range{Start: bounds[i], End: bounds[i+1]}
		mid := q.Evaluate(sub.Middle())
		epsilon := curvatureEpsilonScale * (math.Abs(q.c[0]) + math.Abs(q.c[1]) + math.Abs(q.c[2]))
		if sign*mathutil.ClampNearZero(mid, epsilon) >= 0 {
			// Merge with the previous sub-range when contiguous.
			if n := len(matching); n > 0 && matching[n-1].End == sub.Start {
				matching[n-1].End = sub.End
			} else {
				matching = append(matching, sub)
			}
		}
	}
	return matching
}
