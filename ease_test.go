package spline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-spline/internal/testutil"
)

// TestEase_SymmetricRise verifies the canonical symmetric case: equal
// curvature magnitudes moving 0 to 1 from rest meet exactly halfway.
func TestEase_SymmetricRise(t *testing.T) {
	const curvature = 0.1
	e := CalculateQuadraticEaseInEaseOut(0, 0, curvature, 1, 0, curvature, 10)

	wantTotal := math.Sqrt(40) // solves 2 * (c/2) * (T/2)^2 = 1 with c = 0.1
	assert.InDelta(t, wantTotal, e.TotalX(), 1e-9)
	assert.InDelta(t, wantTotal/2, e.IntersectionX(), 1e-9)

	assert.InDelta(t, 0.0, e.Evaluate(0), 1e-10)
	assert.InDelta(t, 0.5, e.Evaluate(e.TotalX()/2), 1e-9)
	assert.InDelta(t, 1.0, e.Evaluate(e.TotalX()), 1e-9)
	assert.InDelta(t, 0.0, e.Derivative(0), 1e-10)
	assert.InDelta(t, 0.0, e.Derivative(e.TotalX()), 1e-9)
}

// TestEase_C1AtIntersection verifies value and derivative continuity
// where the pieces meet, for asymmetric curvatures too.
func TestEase_C1AtIntersection(t *testing.T) {
	cases := []struct {
		name                             string
		startValue, startDerivative      float64
		startAbs                         float64
		endValue, endDerivative, endAbs  float64
	}{
		{"symmetric", 0, 0, 0.1, 1, 0, 0.1},
		{"asymmetric curvature", 0, 0, 0.4, 1, 0, 0.05},
		{"downward", 2, 0, 0.3, -1, 0, 0.3},
		{"moving start", 0, 0.2, 0.5, 3, 0, 0.25},
		{"nonzero end derivative", 0, 0, 0.5, 1, 0.1, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := CalculateQuadraticEaseInEaseOut(
				tc.startValue, tc.startDerivative, tc.startAbs,
				tc.endValue, tc.endDerivative, tc.endAbs, 10)
			require.Greater(t, e.TotalX(), 0.0)

			u := e.IntersectionX()
			assert.InDelta(t, e.InCurve().Evaluate(u), e.OutCurve().Evaluate(u), 1e-7,
				"value jump at intersection")
			assert.InDelta(t, e.InCurve().Derivative(u), e.OutCurve().Derivative(u), 1e-7,
				"derivative jump at intersection")

			// Boundary conditions hold.
			assert.InDelta(t, tc.startValue, e.Evaluate(0), 1e-8)
			assert.InDelta(t, tc.startDerivative, e.Derivative(0), 1e-8)
			assert.InDelta(t, tc.endValue, e.Evaluate(e.TotalX()), 1e-7)
			assert.InDelta(t, tc.endDerivative, e.Derivative(e.TotalX()), 1e-7)
		})
	}
}

// TestEase_AlreadyAtTarget verifies the flat short-circuit when start
// and end agree.
func TestEase_AlreadyAtTarget(t *testing.T) {
	e := CalculateQuadraticEaseInEaseOut(0.7, 0.1, 0.5, 0.7, 0.1, 0.5, 1)
	assert.Equal(t, 0.0, e.TotalX())
	assert.InDelta(t, 0.7, e.Evaluate(0), 1e-10)
	assert.InDelta(t, 0.7, e.Evaluate(5), 1e-10, "evaluation clamps to the flat point")
}

// TestEase_EvaluateClamps verifies evaluation outside [0, TotalX]
// holds the boundary values.
func TestEase_EvaluateClamps(t *testing.T) {
	e := CalculateQuadraticEaseInEaseOut(0, 0, 0.1, 1, 0, 0.1, 10)
	assert.InDelta(t, 0.0, e.Evaluate(-5), 1e-10)
	assert.InDelta(t, 1.0, e.Evaluate(e.TotalX()+5), 1e-9)
	assert.InDelta(t, 0.0, e.Derivative(-5), 1e-10)
}

// TestEase_FlyOutFallback verifies the zero-curvature degenerate case
// rides the start derivative to the end value.
func TestEase_FlyOutFallback(t *testing.T) {
	// No curvature available, but a positive derivative reaches the
	// target: the fly-out crosses it at x = 2.
	e := CalculateQuadraticEaseInEaseOut(0, 1, 0, 2, 0, 0, 10)
	require.Greater(t, e.TotalX(), 0.0)
	assert.InDelta(t, 2.0, e.TotalX(), 1e-9)
	assert.InDelta(t, 2.0, e.Evaluate(e.TotalX()), 1e-9)
}

// TestEase_FlyOutUnreachable verifies the direct-quadratic fallback
// when the ease-in piece can never reach the end value.
func TestEase_FlyOutUnreachable(t *testing.T) {
	const typicalX = 4.0
	// Flat start with zero curvature never moves; the fallback spends
	// the typical duration on a curve landing exactly on the target.
	e := CalculateQuadraticEaseInEaseOut(0, 0, 0, 1, 0, 0, typicalX)
	require.Greater(t, e.TotalX(), 0.0)
	assert.InDelta(t, typicalX, e.TotalX(), 1e-9)
	assert.InDelta(t, 1.0, e.Evaluate(e.TotalX()), 1e-9)
	assert.InDelta(t, 0.0, e.Evaluate(0), 1e-10)
}

// TestEase_SecondDerivativesFromTypicalCurve verifies the shape
// helper's closed forms.
func TestEase_SecondDerivativesFromTypicalCurve(t *testing.T) {
	start, end := CalculateSecondDerivativesFromTypicalCurve(1, 2, 0.5)
	assert.InDelta(t, 1.0, start, testutil.DefaultTolerance)
	assert.InDelta(t, 1.0, end, testutil.DefaultTolerance)

	// Bias 0.25: ease-in gets a quarter of the time, so it needs four
	// times the acceleration of the even split relative half.
	start, end = CalculateSecondDerivativesFromTypicalCurve(1, 2, 0.25)
	assert.InDelta(t, 2.0, start, testutil.DefaultTolerance)
	assert.InDelta(t, 2.0/3.0, end, testutil.DefaultTolerance)

	// Bias clamps away from 0 and 1.
	start, _ = CalculateSecondDerivativesFromTypicalCurve(1, 1, 0)
	assert.InDelta(t, 2.0/0.01, start, 1e-6)
}

// TestEase_RoundTripWithTypicalCurve verifies the two helpers compose:
// shape-derived curvatures produce a curve close to the typical
// duration.
func TestEase_RoundTripWithTypicalCurve(t *testing.T) {
	const delta, totalX = 1.0, 2.0
	startAbs, endAbs := CalculateSecondDerivativesFromTypicalCurve(delta, totalX, 0.5)
	e := CalculateQuadraticEaseInEaseOut(0, 0, startAbs, delta, 0, endAbs, totalX)
	assert.InDelta(t, totalX, e.TotalX(), 1e-6)
	assert.InDelta(t, delta, e.Evaluate(e.TotalX()), 1e-9)
}
