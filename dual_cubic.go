package spline

import (
	"math"
)

// CalculateDualCubicMidNode computes an intermediate node (x, y,
// derivative) splitting the segment described by init into two cubics,
// each with uniform curvature. Call it when CubicFromInit(init) fails
// UniformCurvature over the segment.
//
// The construction approximates each half of the segment by a
// quadratic: one anchored at the start boundary with the cubic's start
// curvature, one anchored at the end boundary with the cubic's end
// curvature. The two quadratics have opposite curvature (that is what a
// failed UniformCurvature means), so shifting one of them vertically
// makes them touch at exactly one point: the vertex of their difference
// polynomial, which is the midpoint of the difference's roots. At that
// point the two quadratics share a derivative, so it is the natural
// hand-off between the concave and convex halves. The mid value splits
// the remaining vertical gap evenly.
//
// When the quadratics have equal curvature or the tangency point falls
// outside the segment, the cubic's own midpoint is used instead.
func CalculateDualCubicMidNode(init CubicInit) (x, y, derivative float64) {
	cubic := CubicFromInit(init)
	width := init.WidthX

	startQuad := QuadraticFromOrigin(
		init.StartY, init.StartDerivative, cubic.SecondDerivative(0))
	endQuad := QuadraticFromPoint(
		init.EndY, init.EndDerivative, cubic.SecondDerivative(width), width)

	diff := startQuad.Sub(endQuad)
	if mid, ok := tangencyX(diff); ok && mid > 0 && mid < width {
		// Derivatives of the two quadratics agree at the vertex of
		// their difference; the value splits the gap between them.
		x = mid
		y = (startQuad.Evaluate(mid) + endQuad.Evaluate(mid)) / 2
		derivative = startQuad.Derivative(mid)
		return x, y, derivative
	}

	// Degenerate geometry. Fall back to the cubic's midpoint, which
	// still lands between the inflection's neighbors.
	x = width / 2
	return x, cubic.Evaluate(x), cubic.Derivative(x)
}

// tangencyX returns the x at which a vertical shift of one quadratic
// would make the difference polynomial touch zero at a single point:
// the vertex of diff. When diff has two real roots this is their
// midpoint; the root solve is shared so that the vertex benefits from
// the same numerical conditioning.
func tangencyX(diff QuadraticCurve) (float64, bool) {
	if diff.Coeff(2) == 0 {
		return 0, false
	}
	if roots := diff.Roots(); len(roots) == 2 {
		return (roots[0] + roots[1]) / 2, true
	}
	vertex := -diff.Coeff(1) / (2 * diff.Coeff(2))
	if math.IsInf(vertex, 0) || math.IsNaN(vertex) {
		return 0, false
	}
	return vertex, true
}
