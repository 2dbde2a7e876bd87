package spline

import (
	"math"

	"github.com/tphakala/go-spline/internal/mathutil"
)

// CubicInit describes the Hermite boundary conditions of one cubic
// segment: value and derivative at x = 0 and at x = WidthX.
type CubicInit struct {
	StartY          float64
	StartDerivative float64
	EndY            float64
	EndDerivative   float64
	WidthX          float64
}

// NewCubicInit returns boundary conditions for a segment of the given
// width.
func NewCubicInit(startY, startDerivative, endY, endDerivative, widthX float64) CubicInit {
	return CubicInit{
		StartY:          startY,
		StartDerivative: startDerivative,
		EndY:            endY,
		EndDerivative:   endDerivative,
		WidthX:          widthX,
	}
}

// CubicCurve is the polynomial c3*x^3 + c2*x^2 + c1*x + c0.
type CubicCurve struct {
	c [4]float64 // c[i] is the coefficient of x^i
}

// NewCubicCurve returns the curve with the given coefficients, constant
// term first.
func NewCubicCurve(c0, c1, c2, c3 float64) CubicCurve {
	return CubicCurve{c: [4]float64{c0, c1, c2, c3}}
}

// CubicFromInit returns the unique cubic satisfying the Hermite
// boundary conditions in init: f(0) = StartY, f'(0) = StartDerivative,
// f(WidthX) = EndY, f'(WidthX) = EndDerivative.
//
// A non-positive width cannot support a cubic, so it yields the flat
// curve pinned at the end value with zero derivative.
func CubicFromInit(init CubicInit) CubicCurve {
	if init.WidthX <= 0 {
		return CubicCurve{c: [4]float64{init.EndY, 0, 0, 0}}
	}

	invW := 1 / init.WidthX
	invW2 := invW * invW
	invW3 := invW2 * invW

	// dy is the value gap left after following the start derivative
	// across the segment; dd is the derivative gap.
	dy := init.EndY - init.StartY - init.StartDerivative*init.WidthX
	dd := init.EndDerivative - init.StartDerivative

	return CubicCurve{c: [4]float64{
		init.StartY,
		init.StartDerivative,
		3*dy*invW2 - dd*invW,
		dd*invW2 - 2*dy*invW3,
	}}
}

// Coeff returns the coefficient of x^i.
func (c CubicCurve) Coeff(i int) float64 {
	return c.c[i]
}

// Evaluate returns f(x).
func (c CubicCurve) Evaluate(x float64) float64 {
	return ((c.c[3]*x+c.c[2])*x+c.c[1])*x + c.c[0]
}

// Derivative returns f'(x).
func (c CubicCurve) Derivative(x float64) float64 {
	return (3*c.c[3]*x+2*c.c[2])*x + c.c[1]
}

// SecondDerivative returns f''(x).
func (c CubicCurve) SecondDerivative(x float64) float64 {
	return 6*c.c[3]*x + 2*c.c[2]
}

// ThirdDerivative returns f'''(x), which is constant for a cubic.
func (c CubicCurve) ThirdDerivative() float64 {
	return 6 * c.c[3]
}

// ShiftLeft re-centers the polynomial so that the new curve g satisfies
// g(x) = f(x + shift).
func (c *CubicCurve) ShiftLeft(shift float64) {
	c.c = [4]float64{
		c.Evaluate(shift),
		c.Derivative(shift),
		c.SecondDerivative(shift) / 2,
		c.c[3],
	}
}

// ShiftRight re-centers the polynomial so that the new curve g
// satisfies g(x) = f(x - shift).
func (c *CubicCurve) ShiftRight(shift float64) {
	c.ShiftLeft(-shift)
}

// UniformCurvature reports whether the second derivative keeps a single
// sign across xLimits. Since f'' is linear in x, checking the two
// endpoints suffices. Near-zero curvature at an endpoint is flushed to
// zero first, so a segment that is analytically parabolic or linear
// still counts as uniform.
//
// Segments without uniform curvature contain an inflection and read
// visually as S-shaped; AddNode's EnsureCubicWellBehaved policy splits
// them in two.
func (c CubicCurve) UniformCurvature(xLimits Range) bool {
	startCurvature := c.SecondDerivative(xLimits.Start)
	endCurvature := c.SecondDerivative(xLimits.End)
	epsilon := curvatureEpsilonScale * math.Max(math.Abs(startCurvature), math.Abs(endCurvature))
	return mathutil.ClampNearZero(startCurvature, epsilon)*
		mathutil.ClampNearZero(endCurvature, epsilon) >= 0
}
