// Package spline provides deterministic piecewise-curve animation in
// pure Go.
//
// The package covers the full path from curve math to per-frame
// playback: quadratic and cubic polynomial algebra with numerically
// stabilized root finding, procedural curve generators (ease-in/
// ease-out pairs and quadratic springs), a compact quantized spline
// format, and a bulk evaluator that advances many spline cursors per
// frame with constant-time segment tracking.
//
// # Features
//
//   - Stabilized quadratic root finding that stays accurate across
//     extreme coefficient magnitudes
//   - Cubic Hermite segments with dual-cubic splitting for uniform
//     curvature
//   - Ease-in/ease-out curve solving from boundary conditions and
//     curvature magnitudes
//   - Quadratic spring oscillation with O(1) frame-to-frame context
//     advancement
//   - CompactSpline: 6 bytes per node (quantized x, y, and derivative
//     angle) with bit-exact round-tripping via [CompactSpline.AddNodeVerbatim]
//   - BulkSplineEvaluator: struct-of-arrays playback of many splines
//     with blending, looping, and modular (angular) value ranges
//   - Optional SIMD acceleration via github.com/tphakala/simd and
//     gonum, selectable per evaluator
//
// # Quick Start
//
// Author a spline and sample it:
//
//	s, err := spline.SplineFromKeys([]spline.SplineKey{
//	    {X: 0, Y: 0},
//	    {X: 1, Y: 0.8, Derivative: 0.2},
//	    {X: 2, Y: 1},
//	}, spline.NewRange(0, 1), 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ys := make([]float64, 60)
//	s.Ys(0, 2.0/59, ys)
//
// Drive many splines frame by frame:
//
//	ev := spline.NewBulkSplineEvaluator()
//	ev.SetNumIndices(len(splines))
//	for i, sp := range splines {
//	    ev.SetYRange(i, sp.YRange(), false)
//	    ev.SetSpline(i, sp, spline.NewSplinePlayback())
//	}
//	for running {
//	    ev.AdvanceFrame(deltaTime)
//	    use(ev.Ys(0, len(splines)))
//	}
//
// # Procedural Curves
//
// [CalculateQuadraticEaseInEaseOut] builds a C1-continuous two-piece
// curve from start/end values, derivatives, and curvature magnitudes;
// [CalculateSecondDerivativesFromTypicalCurve] derives those magnitudes
// from a "distance, duration, bias" description. [NewQuadraticSpring]
// models damped, sustained, or growing oscillation around a target
// with closed-form evaluation at any x.
//
// # Determinism
//
// All evaluation strategies produce identical results: the vectorized
// evaluator path, the scalar path, and [CompactSpline.YCalculatedSlowly]
// agree on every sample, so simulation replay and lockstep networking
// can mix them freely.
//
// # Thread Safety
//
// CompactSpline values are immutable after authoring and safe for
// concurrent readers. A [BulkSplineEvaluator] is single-threaded;
// shard indices across evaluators to parallelize.
package spline
