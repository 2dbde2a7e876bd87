package spline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-spline/internal/testutil"
)

// newBoundEvaluator binds each spline to its own index starting at x 0.
func newBoundEvaluator(t *testing.T, opts EvaluatorOptions, splines ...*CompactSpline) *BulkSplineEvaluator {
	t.Helper()
	ev := NewBulkSplineEvaluatorWithOptions(opts)
	ev.SetNumIndices(len(splines))
	for i, sp := range splines {
		ev.SetYRange(i, sp.YRange(), false)
		ev.SetSpline(i, sp, NewSplinePlayback())
	}
	return ev
}

// TestEvaluator_MatchesSlowPath verifies frame-by-frame playback
// agrees with from-scratch evaluation at the evaluator's own cursor.
func TestEvaluator_MatchesSlowPath(t *testing.T) {
	s := buildTestSpline(t, BaseCubic)
	ev := newBoundEvaluator(t, EvaluatorOptions{}, s)

	assert.InDelta(t, s.StartY(), ev.Y(0), 1e-9, "initial bind")

	const frames, deltaX = 400, 0.3
	for frame := 0; frame < frames; frame++ {
		ev.AdvanceFrame(deltaX)
		x := ev.X(0)
		require.InDelta(t, s.YCalculatedSlowly(x), ev.Y(0), 1e-6,
			"frame %d at x=%g", frame, x)
	}

	// 400 frames of 0.3 run past the end: the end value holds.
	assert.InDelta(t, s.EndY(), ev.Y(0), 1e-9)
	assert.True(t, ev.Valid(0))
}

// TestEvaluator_StrategiesAgree verifies scalar and vectorized
// evaluators produce the same samples.
func TestEvaluator_StrategiesAgree(t *testing.T) {
	a := buildTestSpline(t, BaseCubic)
	b := ConstantSpline(0.25, 100)

	scalar := newBoundEvaluator(t, EvaluatorOptions{Optimization: OptimizationScalar}, a, b)
	vectorized := newBoundEvaluator(t, EvaluatorOptions{Optimization: OptimizationVectorized}, a, b)

	for frame := 0; frame < 300; frame++ {
		scalar.AdvanceFrame(0.4)
		vectorized.AdvanceFrame(0.4)
		for i := 0; i < 2; i++ {
			require.InDelta(t, scalar.Y(i), vectorized.Y(i), 1e-12,
				"frame %d index %d", frame, i)
			require.InDelta(t, scalar.X(i), vectorized.X(i), 1e-12,
				"frame %d index %d cursor", frame, i)
		}
	}
}

// TestEvaluator_PlaybackRate verifies delta_x scaling, including a
// paused cursor.
func TestEvaluator_PlaybackRate(t *testing.T) {
	s := buildTestSpline(t, BaseCubic)
	ev := newBoundEvaluator(t, EvaluatorOptions{}, s, s)
	ev.SetPlaybackRate(0, 2)
	ev.SetPlaybackRate(1, 0)

	for i := 0; i < 10; i++ {
		ev.AdvanceFrame(1)
	}
	assert.InDelta(t, 20.0, ev.X(0), 1e-9)
	assert.InDelta(t, s.YCalculatedSlowly(20), ev.Y(0), 1e-6)

	assert.InDelta(t, 0.0, ev.X(1), 1e-12, "paused cursor does not move")
	assert.InDelta(t, s.StartY(), ev.Y(1), 1e-9)
}

// TestEvaluator_StartBeforeSpline verifies a cursor bound ahead of the
// spline's domain holds the start value until the domain begins.
func TestEvaluator_StartBeforeSpline(t *testing.T) {
	s := buildTestSpline(t, BaseCubic)
	ev := NewBulkSplineEvaluator()
	ev.SetNumIndices(1)
	ev.SetYRange(0, s.YRange(), false)

	playback := NewSplinePlayback()
	playback.StartX = -5
	ev.SetSpline(0, s, playback)

	assert.InDelta(t, s.StartY(), ev.Y(0), 1e-9)

	// Advance into the domain: playback proceeds normally.
	for i := 0; i < 10; i++ {
		ev.AdvanceFrame(1)
	}
	assert.InDelta(t, 5.0, ev.X(0), 1e-9)
	assert.InDelta(t, s.YCalculatedSlowly(5), ev.Y(0), 1e-6)
}

// TestEvaluator_Repeat verifies looping playback wraps the cursor back
// into the spline domain.
func TestEvaluator_Repeat(t *testing.T) {
	s := buildTestSpline(t, BaseCubic)
	ev := NewBulkSplineEvaluator()
	ev.SetNumIndices(1)
	ev.SetYRange(0, s.YRange(), false)

	playback := NewSplinePlayback()
	playback.Repeat = true
	ev.SetSpline(0, s, playback)

	// 35 frames of 3.1 cross the 100-long domain once.
	for i := 0; i < 35; i++ {
		ev.AdvanceFrame(3.1)
	}
	x := ev.X(0)
	assert.Less(t, x, s.EndX())
	assert.GreaterOrEqual(t, x, s.StartX())
	assert.InDelta(t, math.Mod(35*3.1, s.LengthX()), x, 1e-6)
	assert.InDelta(t, s.YCalculatedSlowly(x), ev.Y(0), 1e-6)
}

// TestEvaluator_BlendContinuity verifies blending onto a new spline
// keeps the value continuous and lands on the target.
func TestEvaluator_BlendContinuity(t *testing.T) {
	a := buildTestSpline(t, BaseCubic)
	b := ConstantSpline(0.8, 100)
	ev := newBoundEvaluator(t, EvaluatorOptions{}, a)

	for i := 0; i < 10; i++ {
		ev.AdvanceFrame(1)
	}
	yBefore := ev.Y(0)
	dBefore := ev.Derivative(0)

	const blendX = 5.0
	playback := NewSplinePlayback()
	playback.StartX = ev.X(0)
	playback.BlendX = blendX
	ev.SetSpline(0, b, playback)

	assert.InDelta(t, yBefore, ev.Y(0), 1e-9, "value jumps at blend start")
	assert.InDelta(t, dBefore, ev.Derivative(0), 1e-9, "derivative jumps at blend start")
	assert.Same(t, b, ev.SourceSpline(0))

	// During the blend the value moves smoothly; afterwards it tracks
	// the new spline.
	prev := ev.Y(0)
	maxStep := 0.0
	for i := 0; i < 50; i++ {
		ev.AdvanceFrame(0.2)
		maxStep = math.Max(maxStep, math.Abs(ev.Y(0)-prev))
		prev = ev.Y(0)
	}
	assert.Less(t, maxStep, 0.2, "blend should move gradually")
	assert.InDelta(t, b.YCalculatedSlowly(ev.X(0)), ev.Y(0), 1e-6)
}

// TestEvaluator_BlendZeroWidthJumps verifies a zero BlendX binds
// immediately at the playback start.
func TestEvaluator_BlendZeroWidthJumps(t *testing.T) {
	a := buildTestSpline(t, BaseCubic)
	b := ConstantSpline(0.8, 100)
	ev := newBoundEvaluator(t, EvaluatorOptions{}, a)

	ev.SetSpline(0, b, NewSplinePlayback())
	assert.InDelta(t, b.StartY(), ev.Y(0), 1e-3)
	assert.InDelta(t, 0.0, ev.X(0), 1e-12)
}

// TestEvaluator_ModularBlendTakesShortestPath verifies an angular
// blend crosses the wrap boundary instead of sweeping the long way.
func TestEvaluator_ModularBlendTakesShortestPath(t *testing.T) {
	angles := AngleRange()
	from := &CompactSpline{}
	from.Init(angles, RecommendXGranularity(100), 2)
	from.AddNode(0, 3, 0, BaseCubic)
	from.AddNode(100, 3, 0, BaseCubic)

	to := &CompactSpline{}
	to.Init(angles, RecommendXGranularity(100), 2)
	to.AddNode(0, -3, 0, BaseCubic)
	to.AddNode(100, -3, 0, BaseCubic)

	ev := NewBulkSplineEvaluator()
	ev.SetNumIndices(1)
	ev.SetYRange(0, angles, true)
	ev.SetSpline(0, from, NewSplinePlayback())
	ev.AdvanceFrame(1)
	require.InDelta(t, 3.0, ev.Y(0), 1e-3)

	playback := NewSplinePlayback()
	playback.StartX = ev.X(0)
	playback.BlendX = 10
	ev.SetSpline(0, to, playback)

	// Midway through the blend the value has moved up toward pi, not
	// down through zero.
	for i := 0; i < 5; i++ {
		ev.AdvanceFrame(1)
	}
	assert.Greater(t, ev.Y(0), 3.0)

	// After the blend the value sits on the target (normalized into
	// the range).
	for i := 0; i < 10; i++ {
		ev.AdvanceFrame(1)
	}
	assert.InDelta(t, -3.0, ev.Y(0), 1e-3)
}

// TestEvaluator_ModularYStaysNormalized verifies modular playback
// keeps outputs inside the valid range.
func TestEvaluator_ModularYStaysNormalized(t *testing.T) {
	angles := AngleRange()
	s := &CompactSpline{}
	s.Init(angles, RecommendXGranularity(10), 3)
	s.AddNode(0, -3, 0, BaseCubic)
	s.AddNode(5, 0, 1, BaseCubic)
	s.AddNode(10, 3, 0, BaseCubic)

	ev := NewBulkSplineEvaluator()
	ev.SetNumIndices(1)
	ev.SetYRange(0, angles, true)
	ev.SetSpline(0, s, NewSplinePlayback())

	for i := 0; i < 100; i++ {
		ev.AdvanceFrame(0.11)
		assert.True(t, angles.Contains(ev.Y(0)), "y %g escaped range at frame %d", ev.Y(0), i)
	}
}

// TestEvaluator_EndReadbacks verifies EndX, EndY, EndDerivative,
// NextY, and YDifferenceToEnd.
func TestEvaluator_EndReadbacks(t *testing.T) {
	s := buildTestSpline(t, BaseCubic)
	ev := newBoundEvaluator(t, EvaluatorOptions{}, s)

	assert.InDelta(t, s.EndX(), ev.EndX(0), 1e-9)
	assert.InDelta(t, s.EndY(), ev.EndY(0), 1e-9)
	assert.InDelta(t, s.EndDerivative(), ev.EndDerivative(0), 1e-9)
	assert.InDelta(t, s.EndY()-s.StartY(), ev.YDifferenceToEnd(0), 1e-9)

	// NextY at the initial bind is the second node's value.
	assert.InDelta(t, s.NodeY(1), ev.NextY(0), 1e-9)

	// Past the end of the spline NextY degenerates to the held value.
	for i := 0; i < 100; i++ {
		ev.AdvanceFrame(2)
	}
	assert.InDelta(t, s.EndY(), ev.NextY(0), 1e-9)
}

// TestEvaluator_ModularEndYTakesCloseForm verifies the end-value
// readback picks the wrap-adjacent representation.
func TestEvaluator_ModularEndYTakesCloseForm(t *testing.T) {
	angles := AngleRange()
	s := &CompactSpline{}
	s.Init(angles, RecommendXGranularity(10), 2)
	s.AddNode(0, 3, 0, BaseCubic)
	s.AddNode(10, -3, 0, BaseCubic)

	ev := NewBulkSplineEvaluator()
	ev.SetNumIndices(1)
	ev.SetYRange(0, angles, true)
	ev.SetSpline(0, s, NewSplinePlayback())

	// From y=3, the end value -3 is 2*pi-6 away upward, not 6 downward.
	assert.InDelta(t, -3+2*math.Pi, ev.EndY(0), 1e-3)
	assert.InDelta(t, 2*math.Pi-6, ev.YDifferenceToEnd(0), 1e-3)
}

// TestEvaluator_IndexManagement verifies SetNumIndices growth,
// shrink, and MoveIndex column transfer.
func TestEvaluator_IndexManagement(t *testing.T) {
	a := buildTestSpline(t, BaseCubic)
	b := ConstantSpline(0.25, 100)

	ev := newBoundEvaluator(t, EvaluatorOptions{}, a, b)
	require.Equal(t, 2, ev.NumIndices())
	for i := 0; i < 7; i++ {
		ev.AdvanceFrame(0.5)
	}
	yB := ev.Y(1)

	// Fill index 0's hole with index 1, then shrink.
	ev.MoveIndex(1, 0)
	ev.SetNumIndices(1)
	require.Equal(t, 1, ev.NumIndices())
	assert.Same(t, b, ev.SourceSpline(0))
	assert.InDelta(t, yB, ev.Y(0), 1e-12)

	// Growth adds unbound indices that evaluate to zero and survive
	// frame advancement.
	ev.SetNumIndices(40)
	require.Equal(t, 40, ev.NumIndices())
	assert.False(t, ev.Valid(25))
	ev.AdvanceFrame(1)
	assert.Equal(t, 0.0, ev.Y(25))
	assert.InDelta(t, b.YCalculatedSlowly(ev.X(0)), ev.Y(0), 1e-6,
		"surviving index keeps playing after growth")
}

// TestEvaluator_ClearSpline verifies unbinding resets the index.
func TestEvaluator_ClearSpline(t *testing.T) {
	s := buildTestSpline(t, BaseCubic)
	ev := newBoundEvaluator(t, EvaluatorOptions{}, s)
	ev.AdvanceFrame(1)
	require.True(t, ev.Valid(0))

	ev.ClearSpline(0)
	assert.False(t, ev.Valid(0))
	assert.Nil(t, ev.SourceSpline(0))
	assert.Equal(t, 0.0, ev.Y(0))

	// Advancing an unbound evaluator is harmless.
	ev.AdvanceFrame(5)
	assert.Equal(t, 0.0, ev.Y(0))
}

// TestEvaluator_YsView verifies the bulk value view aliases evaluator
// storage.
func TestEvaluator_YsView(t *testing.T) {
	a := buildTestSpline(t, BaseCubic)
	b := ConstantSpline(0.25, 100)
	ev := newBoundEvaluator(t, EvaluatorOptions{}, a, b)
	ev.AdvanceFrame(1)

	ys := ev.Ys(0, 2)
	require.Len(t, ys, 2)
	assert.Equal(t, ev.Y(0), ys[0])
	assert.Equal(t, ev.Y(1), ys[1])
	testutil.AssertNoNaNOrInf(t, ys)
}

// TestEvaluator_CubicReadback verifies the active cubic reproduces the
// current value and derivative.
func TestEvaluator_CubicReadback(t *testing.T) {
	s := buildTestSpline(t, BaseCubic)
	ev := newBoundEvaluator(t, EvaluatorOptions{}, s)
	ev.AdvanceFrame(0.4)

	cubic := ev.Cubic(0)
	localX := ev.X(0) - s.NodeX(0)
	assert.InDelta(t, ev.Y(0), cubic.Evaluate(localX), 1e-9)
	assert.InDelta(t, ev.Derivative(0), cubic.Derivative(localX), 1e-9)
}

// TestEvaluator_SetSplinesBulk verifies the bulk bind helpers cover a
// contiguous index run.
func TestEvaluator_SetSplinesBulk(t *testing.T) {
	a := buildTestSpline(t, BaseCubic)
	b := ConstantSpline(0.25, 100)

	ev := NewBulkSplineEvaluator()
	ev.SetNumIndices(3)
	for i := 0; i < 3; i++ {
		ev.SetYRange(i, UnitRange(), false)
	}
	ev.SetSplines(1, []*CompactSpline{a, b}, NewSplinePlayback())

	assert.False(t, ev.Valid(0))
	assert.Same(t, a, ev.SourceSpline(1))
	assert.Same(t, b, ev.SourceSpline(2))

	ev.SetPlaybackRates(1, 2, 0.5)
	ev.AdvanceFrame(2)
	assert.InDelta(t, 1.0, ev.X(1), 1e-9)

	ev.ClearSplines(1, 2)
	assert.False(t, ev.Valid(1))
	assert.False(t, ev.Valid(2))
}
