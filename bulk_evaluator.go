package spline

import (
	"math"

	"github.com/tphakala/go-spline/internal/evalops"
)

// Optimization selects the bulk-operation strategy of an evaluator.
// All strategies produce identical results.
type Optimization int

const (
	// OptimizationAuto picks the best available strategy.
	OptimizationAuto Optimization = iota

	// OptimizationScalar forces plain Go loops with one-pass
	// segment-crossing detection.
	OptimizationScalar

	// OptimizationVectorized forces the SIMD-backed strategy with
	// two-pass (mask, then compact) segment-crossing detection.
	OptimizationVectorized
)

// EvaluatorOptions configures a BulkSplineEvaluator.
type EvaluatorOptions struct {
	// Optimization selects the bulk-operation strategy.
	Optimization Optimization
}

// SplinePlayback describes how a spline is bound to an evaluator
// index.
type SplinePlayback struct {
	// StartX is the spline x at which playback begins.
	StartX float64

	// BlendX is the x width over which the previous motion blends into
	// the new spline. Zero jumps immediately.
	BlendX float64

	// PlaybackRate scales delta_x on every AdvanceFrame: 0 pauses,
	// 1 plays at authored speed.
	PlaybackRate float64

	// Repeat restarts playback from StartX of the spline domain when x
	// runs off the end.
	Repeat bool

	// Direction constrains how a modular blend approaches its target.
	Direction BlendDirection
}

// NewSplinePlayback returns a playback starting at x 0 with rate 1.
func NewSplinePlayback() SplinePlayback {
	return SplinePlayback{PlaybackRate: 1}
}

// splineSource is the per-index binding to an externally-owned spline.
type splineSource struct {
	spline *CompactSpline
	xIndex int // current segment, or a sentinel index
	repeat bool
}

// valueRange is the per-index output range.
type valueRange struct {
	valid   Range
	modular bool
}

// BulkSplineEvaluator advances many independent playback cursors over
// CompactSplines, one cursor per index. State is stored column-wise
// (structure of arrays) so each phase of AdvanceFrame touches only the
// columns it needs; no index's update reads another index's state, so
// the frame advance is data-parallel by construction.
//
// The evaluator never owns the splines it references. Callers must
// keep every referenced spline alive for as long as an index is bound
// to it, and callers own the mapping from logical entities to indices;
// MoveIndex and SetNumIndices exist so an external index allocator can
// keep the live range dense.
//
// A BulkSplineEvaluator is not safe for concurrent use.
type BulkSplineEvaluator struct {
	ops *evalops.Ops

	sources        []splineSource
	yRanges        []valueRange
	xStarts        []float64 // absolute spline x of each cursor's local origin
	cubicXs        []float64 // local x within the active cubic
	cubicXEnds     []float64 // local x at which the active cubic expires
	playbackRates  []float64
	c0, c1, c2, c3 []float64 // active cubic coefficient columns
	ys             []float64

	expired []int // scratch for AdvanceFrame
}

// NewBulkSplineEvaluator returns an evaluator with no indices, using
// the automatically selected strategy.
func NewBulkSplineEvaluator() *BulkSplineEvaluator {
	return NewBulkSplineEvaluatorWithOptions(EvaluatorOptions{})
}

// NewBulkSplineEvaluatorWithOptions returns an evaluator with no
// indices, using the requested strategy.
func NewBulkSplineEvaluatorWithOptions(opts EvaluatorOptions) *BulkSplineEvaluator {
	e := &BulkSplineEvaluator{}
	switch opts.Optimization {
	case OptimizationScalar:
		e.ops = evalops.Scalar()
	default:
		e.ops = evalops.Vectorized()
	}
	return e
}

// NumIndices returns the current index count.
func (e *BulkSplineEvaluator) NumIndices() int { return len(e.ys) }

// SetNumIndices grows or shrinks the index range [0, n). New indices
// are unbound with playback rate 0. Shrinking truncates trailing
// indices without releasing storage, so recycling indices through an
// external allocator does not churn allocations; the memory
// high-water mark is retained by design of the tradeoff.
func (e *BulkSplineEvaluator) SetNumIndices(n int) {
	old := len(e.ys)
	if n <= old {
		e.truncate(n)
		return
	}
	e.grow(n)
	for i := old; i < n; i++ {
		e.resetIndex(i)
	}
}

func (e *BulkSplineEvaluator) truncate(n int) {
	e.sources = e.sources[:n]
	e.yRanges = e.yRanges[:n]
	e.xStarts = e.xStarts[:n]
	e.cubicXs = e.cubicXs[:n]
	e.cubicXEnds = e.cubicXEnds[:n]
	e.playbackRates = e.playbackRates[:n]
	e.c0, e.c1, e.c2, e.c3 = e.c0[:n], e.c1[:n], e.c2[:n], e.c3[:n]
	e.ys = e.ys[:n]
}

func (e *BulkSplineEvaluator) grow(n int) {
	if cap(e.ys) < n {
		c := max(n, defaultEvaluatorCapacity, 2*cap(e.ys))
		e.sources = append(make([]splineSource, 0, c), e.sources...)
		e.yRanges = append(make([]valueRange, 0, c), e.yRanges...)
		e.xStarts = append(make([]float64, 0, c), e.xStarts...)
		e.cubicXs = append(make([]float64, 0, c), e.cubicXs...)
		e.cubicXEnds = append(make([]float64, 0, c), e.cubicXEnds...)
		e.playbackRates = append(make([]float64, 0, c), e.playbackRates...)
		e.c0 = append(make([]float64, 0, c), e.c0...)
		e.c1 = append(make([]float64, 0, c), e.c1...)
		e.c2 = append(make([]float64, 0, c), e.c2...)
		e.c3 = append(make([]float64, 0, c), e.c3...)
		e.ys = append(make([]float64, 0, c), e.ys...)
	}
	e.sources = e.sources[:n]
	e.yRanges = e.yRanges[:n]
	e.xStarts = e.xStarts[:n]
	e.cubicXs = e.cubicXs[:n]
	e.cubicXEnds = e.cubicXEnds[:n]
	e.playbackRates = e.playbackRates[:n]
	e.c0, e.c1, e.c2, e.c3 = e.c0[:n], e.c1[:n], e.c2[:n], e.c3[:n]
	e.ys = e.ys[:n]
}

// resetIndex returns index i to the unbound state.
func (e *BulkSplineEvaluator) resetIndex(i int) {
	e.sources[i] = splineSource{xIndex: AfterSplineIndex}
	e.yRanges[i] = valueRange{}
	e.xStarts[i] = 0
	e.cubicXs[i] = 0
	e.cubicXEnds[i] = math.Inf(1) // an unbound cursor never expires
	e.playbackRates[i] = 0
	e.c0[i], e.c1[i], e.c2[i], e.c3[i] = 0, 0, 0, 0
	e.ys[i] = 0
}

// MoveIndex relocates the full state of index from onto index to. The
// source keeps its (now stale) state; rebind or truncate it. External
// index allocators use this to swap a trailing live index into a hole
// before shrinking.
func (e *BulkSplineEvaluator) MoveIndex(from, to int) {
	if from == to {
		return
	}
	e.sources[to] = e.sources[from]
	e.yRanges[to] = e.yRanges[from]
	e.xStarts[to] = e.xStarts[from]
	e.cubicXs[to] = e.cubicXs[from]
	e.cubicXEnds[to] = e.cubicXEnds[from]
	e.playbackRates[to] = e.playbackRates[from]
	e.c0[to], e.c1[to], e.c2[to], e.c3[to] = e.c0[from], e.c1[from], e.c2[from], e.c3[from]
	e.ys[to] = e.ys[from]
}

// SetYRange declares the valid output interval of index i. With
// modular set, the interval wraps around (min and max identify the
// same value, as for angles) and blend targets take the shortest path.
func (e *BulkSplineEvaluator) SetYRange(i int, valid Range, modular bool) {
	e.yRanges[i] = valueRange{valid: valid, modular: modular}
}

// SetPlaybackRate sets the delta_x multiplier of index i.
func (e *BulkSplineEvaluator) SetPlaybackRate(i int, rate float64) {
	e.playbackRates[i] = rate
}

// SetPlaybackRates sets the delta_x multiplier of count indices
// starting at index start.
func (e *BulkSplineEvaluator) SetPlaybackRates(start, count int, rate float64) {
	for i := start; i < start+count; i++ {
		e.playbackRates[i] = rate
	}
}

// SetSpline binds index i to a spline. When the index already has an
// active spline and playback requests a positive BlendX, the previous
// motion blends smoothly into the new spline; otherwise the binding
// jumps immediately to playback.StartX.
//
// The evaluator stores only a reference: spline must outlive the
// binding.
func (e *BulkSplineEvaluator) SetSpline(i int, spline *CompactSpline, playback SplinePlayback) {
	if playback.BlendX > 0 && e.Valid(i) {
		e.BlendToSpline(i, spline, playback)
		return
	}
	e.JumpToSpline(i, spline, playback)
}

// SetSplines binds count consecutive indices starting at start to the
// corresponding splines, all with the same playback.
func (e *BulkSplineEvaluator) SetSplines(start int, splines []*CompactSpline, playback SplinePlayback) {
	for j, sp := range splines {
		e.SetSpline(start+j, sp, playback)
	}
}

// JumpToSpline binds index i to spline at playback.StartX, discarding
// any prior state. Use when there is no current motion to blend from.
func (e *BulkSplineEvaluator) JumpToSpline(i int, spline *CompactSpline, playback SplinePlayback) {
	e.sources[i].spline = spline
	e.sources[i].repeat = playback.Repeat
	e.playbackRates[i] = playback.PlaybackRate
	e.bindAt(i, playback.StartX, 0)
	e.evaluateIndex(i)
}

// BlendToSpline smoothly transitions index i onto spline. A transition
// cubic covering [0, BlendX] matches the current value and derivative
// exactly at its start and the target spline's value and derivative at
// playback.StartX+BlendX at its end. The transition is then
// right-shifted onto the target segment's local x axis, so when it
// expires, evaluation falls through into normal segment advancement
// with no special casing.
func (e *BulkSplineEvaluator) BlendToSpline(i int, spline *CompactSpline, playback SplinePlayback) {
	if playback.BlendX <= 0 || !e.Valid(i) {
		e.JumpToSpline(i, spline, playback)
		return
	}

	currentY := e.ys[i]
	currentDerivative := e.Derivative(i)

	blendEndX := playback.StartX + playback.BlendX
	targetY, targetDerivative := splineValueAt(spline, blendEndX)
	if yr := e.yRanges[i]; yr.modular {
		targetY = yr.valid.NormalizeWithDirection(targetY, currentY, playback.Direction)
	}

	transition := CubicFromInit(CubicInit{
		StartY:          currentY,
		StartDerivative: currentDerivative,
		EndY:            targetY,
		EndDerivative:   targetDerivative,
		WidthX:          playback.BlendX,
	})

	e.sources[i].spline = spline
	e.sources[i].repeat = playback.Repeat
	e.playbackRates[i] = playback.PlaybackRate

	index := spline.IndexForX(blendEndX, 0)
	if index < 0 {
		// The blend ends outside the spline's domain; its target is the
		// flat boundary curve, which the expiry rebind reproduces.
		e.sources[i].xIndex = index
		e.xStarts[i] = playback.StartX
		e.cubicXs[i] = 0
		e.cubicXEnds[i] = playback.BlendX
		e.setCubic(i, transition)
		e.evaluateIndex(i)
		return
	}

	// Shift the transition so its x axis is the target segment's local
	// axis: local blend end minus blend width lands on the current
	// absolute x exactly.
	segmentStartX := spline.NodeX(index)
	localBlendEndX := blendEndX - segmentStartX
	shift := localBlendEndX - playback.BlendX
	transition.ShiftRight(shift)

	e.sources[i].xIndex = index
	e.xStarts[i] = segmentStartX
	e.cubicXs[i] = shift
	e.cubicXEnds[i] = localBlendEndX
	e.setCubic(i, transition)
	e.evaluateIndex(i)
}

// ClearSpline unbinds index i without touching evaluator storage.
func (e *BulkSplineEvaluator) ClearSpline(i int) {
	e.resetIndex(i)
}

// ClearSplines unbinds count consecutive indices starting at start.
func (e *BulkSplineEvaluator) ClearSplines(start, count int) {
	for i := start; i < start+count; i++ {
		e.resetIndex(i)
	}
}

// AdvanceFrame advances every cursor by deltaX (scaled by its playback
// rate) and re-evaluates all outputs. Cursors that run past the end of
// their active cubic re-derive their segment: forward playback finds
// the next segment in O(1) via the segment-index guess, repeat
// bindings wrap around the spline domain, and non-repeat bindings hold
// the spline's end value forever.
func (e *BulkSplineEvaluator) AdvanceFrame(deltaX float64) {
	e.ops.AdvanceX(e.cubicXs, e.playbackRates, deltaX)

	e.expired = e.ops.FindExpired(e.expired[:0], e.cubicXs, e.cubicXEnds)
	for _, i := range e.expired {
		e.rederive(i)
	}

	e.ops.EvaluateCubics(e.ys, e.cubicXs, e.c0, e.c1, e.c2, e.c3)
}

// rederive rebinds index i's cubic for the segment containing its
// current absolute x.
func (e *BulkSplineEvaluator) rederive(i int) {
	if e.sources[i].spline == nil {
		e.cubicXEnds[i] = math.Inf(1)
		return
	}
	x := e.xStarts[i] + e.cubicXs[i]
	e.bindAt(i, x, e.sources[i].xIndex+1)
}

// bindAt points index i's cubic at the segment containing absolute
// spline x, rebasing the cursor onto the segment's local axis. guess
// seeds the segment search.
func (e *BulkSplineEvaluator) bindAt(i int, x float64, guess int) {
	sp := e.sources[i].spline
	if sp == nil || sp.NodeCount() == 0 {
		src := e.sources[i]
		e.resetIndex(i)
		e.sources[i] = splineSource{spline: src.spline, xIndex: AfterSplineIndex, repeat: src.repeat}
		return
	}

	if e.sources[i].repeat && x >= sp.EndX() && sp.LengthX() > 0 {
		x = sp.StartX() + math.Mod(x-sp.StartX(), sp.LengthX())
		guess = 0
	}

	index := sp.IndexForX(x, guess)
	e.sources[i].xIndex = index

	switch index {
	case BeforeSplineIndex:
		// Hold the start value until x reaches the spline's domain.
		e.xStarts[i] = x
		e.cubicXs[i] = 0
		e.cubicXEnds[i] = sp.StartX() - x
		e.setCubic(i, e.normalizedFlat(i, sp.StartY()))

	case AfterSplineIndex:
		// Hold the end value forever.
		e.xStarts[i] = x
		e.cubicXs[i] = 0
		e.cubicXEnds[i] = math.Inf(1)
		e.setCubic(i, e.normalizedFlat(i, sp.EndY()))

	default:
		init := sp.CreateCubicInit(index)
		cubic := CubicFromInit(init)
		segmentStartX := sp.NodeX(index)
		e.xStarts[i] = segmentStartX
		e.cubicXs[i] = x - segmentStartX
		e.cubicXEnds[i] = init.WidthX
		if yr := e.yRanges[i]; yr.modular {
			// Re-anchor the whole segment so the cursor's value lands
			// inside the range; the curve stays continuous and later
			// reads need no per-frame normalization.
			raw := cubic.Evaluate(e.cubicXs[i])
			cubic.c[0] += yr.valid.Normalize(raw) - raw
		}
		e.setCubic(i, cubic)
	}
}

// normalizedFlat returns a constant curve at y, normalized into
// modular ranges.
func (e *BulkSplineEvaluator) normalizedFlat(i int, y float64) CubicCurve {
	if yr := e.yRanges[i]; yr.modular {
		y = yr.valid.Normalize(y)
	}
	return NewCubicCurve(y, 0, 0, 0)
}

func (e *BulkSplineEvaluator) setCubic(i int, c CubicCurve) {
	e.c0[i], e.c1[i], e.c2[i], e.c3[i] = c.Coeff(0), c.Coeff(1), c.Coeff(2), c.Coeff(3)
}

// evaluateIndex refreshes ys[i] so the "y equals the cubic evaluated
// at the cursor" invariant holds immediately after mutators.
func (e *BulkSplineEvaluator) evaluateIndex(i int) {
	x := e.cubicXs[i]
	e.ys[i] = ((e.c3[i]*x+e.c2[i])*x+e.c1[i])*x + e.c0[i]
}

// Valid reports whether index i is bound to a spline.
func (e *BulkSplineEvaluator) Valid(i int) bool {
	return e.sources[i].spline != nil
}

// SourceSpline returns the spline bound to index i, or nil.
func (e *BulkSplineEvaluator) SourceSpline(i int) *CompactSpline {
	return e.sources[i].spline
}

// X returns the absolute spline x of index i's cursor.
func (e *BulkSplineEvaluator) X(i int) float64 {
	return e.xStarts[i] + e.cubicXs[i]
}

// Y returns the last-evaluated value of index i.
func (e *BulkSplineEvaluator) Y(i int) float64 {
	return e.ys[i]
}

// Ys returns the evaluated values of count indices starting at start.
// The returned slice aliases evaluator storage and is valid until the
// next AdvanceFrame or mutator call.
func (e *BulkSplineEvaluator) Ys(start, count int) []float64 {
	return e.ys[start : start+count]
}

// Derivative returns the derivative of index i at its cursor, in y per
// spline x (unscaled by the playback rate).
func (e *BulkSplineEvaluator) Derivative(i int) float64 {
	x := e.cubicXs[i]
	return (3*e.c3[i]*x+2*e.c2[i])*x + e.c1[i]
}

// Cubic returns a copy of index i's active cubic.
func (e *BulkSplineEvaluator) Cubic(i int) CubicCurve {
	return NewCubicCurve(e.c0[i], e.c1[i], e.c2[i], e.c3[i])
}

// EndX returns the x at which index i's spline ends.
func (e *BulkSplineEvaluator) EndX(i int) float64 {
	if sp := e.sources[i].spline; sp != nil {
		return sp.EndX()
	}
	return e.X(i)
}

// EndY returns the value at the end of index i's spline. For modular
// ranges the representation closest to the current value is returned.
func (e *BulkSplineEvaluator) EndY(i int) float64 {
	sp := e.sources[i].spline
	if sp == nil {
		return e.ys[i]
	}
	endY := sp.EndY()
	if yr := e.yRanges[i]; yr.modular {
		endY = yr.valid.NormalizeCloseValue(endY, e.ys[i])
	}
	return endY
}

// EndDerivative returns the derivative at the end of index i's spline.
func (e *BulkSplineEvaluator) EndDerivative(i int) float64 {
	if sp := e.sources[i].spline; sp != nil {
		return sp.EndDerivative()
	}
	return 0
}

// NextY returns the value index i will have when its active cubic
// expires (the next node's value during normal segment playback).
func (e *BulkSplineEvaluator) NextY(i int) float64 {
	end := e.cubicXEnds[i]
	if math.IsInf(end, 1) {
		return e.ys[i]
	}
	return ((e.c3[i]*end+e.c2[i])*end+e.c1[i])*end + e.c0[i]
}

// YDifferenceToEnd returns how far index i's current value is from its
// spline's end value. For modular ranges the shortest-path difference
// is returned, so a rotation 359 degrees from a 360-degree target
// reports 1 degree, not -359.
func (e *BulkSplineEvaluator) YDifferenceToEnd(i int) float64 {
	return e.EndY(i) - e.ys[i]
}

// splineValueAt evaluates a spline's value and derivative at x,
// holding boundary values outside the domain.
func splineValueAt(sp *CompactSpline, x float64) (y, derivative float64) {
	index := sp.IndexForX(x, 0)
	cubic := CubicFromInit(sp.CreateCubicInit(index))
	if index < 0 {
		return cubic.Evaluate(0), 0
	}
	local := x - sp.NodeX(index)
	return cubic.Evaluate(local), cubic.Derivative(local)
}
