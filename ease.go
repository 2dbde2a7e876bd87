package spline

import (
	"math"

	"github.com/tphakala/go-spline/internal/mathutil"
)

// QuadraticEaseInEaseOut is a two-piece curve: an ease-in quadratic
// starting at x = 0 and an ease-out quadratic ending at TotalX. The
// pieces meet at IntersectionX with matching value and derivative, so
// the composite is C1-continuous.
type QuadraticEaseInEaseOut struct {
	in            QuadraticCurve // active on [0, IntersectionX]
	out           QuadraticCurve // active on [IntersectionX, TotalX]
	intersectionX float64
	totalX        float64
}

// NewQuadraticEaseInEaseOut assembles a two-piece curve from already
// matched pieces. Callers normally use CalculateQuadraticEaseInEaseOut
// instead.
func NewQuadraticEaseInEaseOut(in, out QuadraticCurve, intersectionX, totalX float64) QuadraticEaseInEaseOut {
	return QuadraticEaseInEaseOut{in: in, out: out, intersectionX: intersectionX, totalX: totalX}
}

// InCurve returns the ease-in piece.
func (e QuadraticEaseInEaseOut) InCurve() QuadraticCurve { return e.in }

// OutCurve returns the ease-out piece.
func (e QuadraticEaseInEaseOut) OutCurve() QuadraticCurve { return e.out }

// IntersectionX returns the x at which the pieces meet.
func (e QuadraticEaseInEaseOut) IntersectionX() float64 { return e.intersectionX }

// TotalX returns the x extent of the composite curve.
func (e QuadraticEaseInEaseOut) TotalX() float64 { return e.totalX }

// Evaluate returns the curve value at x, clamped to [0, TotalX].
func (e QuadraticEaseInEaseOut) Evaluate(x float64) float64 {
	x = mathutil.Clamp(x, 0, e.totalX)
	if x < e.intersectionX {
		return e.in.Evaluate(x)
	}
	return e.out.Evaluate(x)
}

// Derivative returns the curve derivative at x, clamped to [0, TotalX].
func (e QuadraticEaseInEaseOut) Derivative(x float64) float64 {
	x = mathutil.Clamp(x, 0, e.totalX)
	if x < e.intersectionX {
		return e.in.Derivative(x)
	}
	return e.out.Derivative(x)
}

// SecondDerivative returns the curvature of the piece active at x.
func (e QuadraticEaseInEaseOut) SecondDerivative(x float64) float64 {
	if x < e.intersectionX {
		return e.in.SecondDerivative()
	}
	return e.out.SecondDerivative()
}

// CalculateQuadraticEaseInEaseOut builds the curve that moves from
// (startValue, startDerivative) to (endValue, endDerivative) using an
// ease-in piece with curvature magnitude startSecondDerivativeAbs and
// an ease-out piece with curvature magnitude endSecondDerivativeAbs.
// The total duration falls out of the solve; typicalTotalX scales the
// matching epsilon and sizes the fallback curve when the boundary
// conditions cannot be met by a tangent pair.
//
// The solve places the ease-out piece by sliding it along x until it is
// tangent to the ease-in piece: tangency means the difference
// polynomial has a double root, and forcing its discriminant to zero
// yields a quadratic in the slide distance that is solved in closed
// form. When the resulting intersection falls outside the curve (the
// end derivative is unreachable without overshooting), a single
// "fly-out" quadratic reaches the end value and gives up on the end
// derivative, prioritizing position over slope.
func CalculateQuadraticEaseInEaseOut(
	startValue, startDerivative, startSecondDerivativeAbs float64,
	endValue, endDerivative, endSecondDerivativeAbs float64,
	typicalTotalX float64,
) QuadraticEaseInEaseOut {
	valueEpsilon := easeMatchEpsilonScale * math.Max(
		math.Abs(startValue)+math.Abs(endValue), typicalTotalX)
	derivativeEpsilon := easeMatchEpsilonScale * math.Max(
		math.Abs(startDerivative)+math.Abs(endDerivative), 1)

	// Already at the target: a single flat point.
	if mathutil.InsideTolerance(startValue, endValue, valueEpsilon) &&
		mathutil.InsideTolerance(startDerivative, endDerivative, derivativeEpsilon) {
		flat := QuadraticFromOrigin(endValue, endDerivative, 0)
		return QuadraticEaseInEaseOut{in: flat, out: flat}
	}

	curvatureSign := easeCurvatureSign(startValue, startDerivative, endValue, endDerivative)
	in := QuadraticFromOrigin(
		startValue, startDerivative, curvatureSign*startSecondDerivativeAbs)
	outBase := QuadraticFromOrigin(
		endValue, endDerivative, -curvatureSign*endSecondDerivativeAbs)

	if totalX, intersectionX, ok := solveTangentShift(in, outBase); ok {
		out := outBase
		out.ShiftRight(totalX)
		return QuadraticEaseInEaseOut{
			in:            in,
			out:           out,
			intersectionX: intersectionX,
			totalX:        totalX,
		}
	}

	return flyOutCurve(in, startValue, startDerivative, endValue, typicalTotalX)
}

// easeCurvatureSign picks the curvature direction of the ease-in piece:
// toward the end value, or counter to the start derivative when the
// values already match (the curve must turn around), or matching the
// end derivative as a last resort.
func easeCurvatureSign(startValue, startDerivative, endValue, endDerivative float64) float64 {
	if sign := mathutil.Sign(endValue - startValue); sign != 0 {
		return sign
	}
	if sign := -mathutil.Sign(startDerivative); sign != 0 {
		return sign
	}
	if sign := mathutil.Sign(endDerivative); sign != 0 {
		return sign
	}
	return 1
}

// solveTangentShift finds the slide distance t such that outBase
// shifted right by t is tangent to in, and the tangency point u.
// Reports ok only when 0 <= u <= t with t positive, i.e. the two pieces
// assemble into a forward-running curve.
//
// Writing in = a1*x^2 + b1*x + c1 and the shifted piece as
// a2*(x-t)^2 + b2*(x-t) + c2, the difference polynomial's discriminant
// is a quadratic in t:
//
//	4*a1*a2 * t^2 + 4*(a2*b1 - a1*b2) * t + (b1-b2)^2 - 4*(a1-a2)*(c1-c2)
func solveTangentShift(in, outBase QuadraticCurve) (t, u float64, ok bool) {
	a1, b1, c1 := in.Coeff(2), in.Coeff(1), in.Coeff(0)
	a2, b2, c2 := outBase.Coeff(2), outBase.Coeff(1), outBase.Coeff(0)

	if a1 == a2 {
		// Equal curvature pieces never intersect tangentially.
		return 0, 0, false
	}

	discriminant := NewQuadraticCurve(
		(b1-b2)*(b1-b2)-4*(a1-a2)*(c1-c2),
		4*(a2*b1-a1*b2),
		4*a1*a2,
	)

	for _, shift := range discriminant.Roots() {
		if shift <= 0 {
			continue
		}
		// The tangency point is the double root of the difference.
		tangency := -(b1 - b2 + 2*a2*shift) / (2 * (a1 - a2))
		if tangency >= 0 && tangency <= shift {
			return shift, tangency, true
		}
	}
	return 0, 0, false
}

// flyOutCurve is the fallback when no tangent pair exists: a single
// quadratic that reaches endValue, ignoring the end-derivative target.
func flyOutCurve(in QuadraticCurve, startValue, startDerivative, endValue, typicalTotalX float64) QuadraticEaseInEaseOut {
	// Earliest positive crossing of the end value.
	crossing := in
	crossing.c[0] -= endValue
	for _, root := range crossing.Roots() {
		if root > 0 {
			return QuadraticEaseInEaseOut{
				in:            in,
				out:           in,
				intersectionX: root,
				totalX:        root,
			}
		}
	}

	// The ease-in piece never reaches the end value (it can happen when
	// its curvature is fighting a strong start derivative). Spend the
	// typical duration on a quadratic that lands exactly on endValue.
	totalX := math.Max(typicalTotalX, mathutil.DefaultEpsilon)
	secondDerivative := 2 * (endValue - startValue - startDerivative*totalX) / (totalX * totalX)
	direct := QuadraticFromOrigin(startValue, startDerivative, secondDerivative)
	return QuadraticEaseInEaseOut{
		in:            direct,
		out:           direct,
		intersectionX: totalX,
		totalX:        totalX,
	}
}

// CalculateSecondDerivativesFromTypicalCurve derives ease-in and
// ease-out curvature magnitudes from a high-level shape description:
// the distance a typical curve covers, how long it takes, and a bias in
// (0, 1) giving the fraction of the duration spent easing in. This
// lets callers specify motion by feel rather than raw accelerations.
//
// For a curve with zero boundary derivatives, an in-piece lasting
// bias*totalX and covering the value delta implies the accelerations
//
//	start = 2*delta / (bias * totalX^2)
//	end   = 2*delta / ((1-bias) * totalX^2)
//
// which reduce to the familiar 4*delta/totalX^2 at bias 0.5.
func CalculateSecondDerivativesFromTypicalCurve(
	typicalDeltaValue, typicalTotalX, bias float64,
) (startSecondDerivativeAbs, endSecondDerivativeAbs float64) {
	const minBias = 0.01
	bias = mathutil.Clamp(bias, minBias, 1-minBias)

	delta := math.Abs(typicalDeltaValue)
	totalXSquared := typicalTotalX * typicalTotalX
	startSecondDerivativeAbs = 2 * delta / (bias * totalXSquared)
	endSecondDerivativeAbs = 2 * delta / ((1 - bias) * totalXSquared)
	return startSecondDerivativeAbs, endSecondDerivativeAbs
}
