package spline

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by the convenience constructors.
var (
	// ErrInvalidKeys indicates key data that cannot form a spline.
	ErrInvalidKeys = errors.New("spline: invalid keys")

	// ErrInvalidRange indicates an inverted or non-finite value range.
	ErrInvalidRange = errors.New("spline: invalid range")
)

// SplineKey is one keyframe for SplineFromKeys.
type SplineKey struct {
	X          float64
	Y          float64
	Derivative float64
}

// SplineFromKeys builds a compact spline through the given keys, which
// must be in strictly increasing x order. Key values must lie inside
// yRange. A non-positive xGranularity picks the recommended granularity
// for the keys' x extent automatically.
//
// Nodes are added with EnsureCubicWellBehaved, so intermediate nodes
// may be inserted to keep every segment's curvature uniform.
func SplineFromKeys(keys []SplineKey, yRange Range, xGranularity float64) (*CompactSpline, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no keys", ErrInvalidKeys)
	}
	if !yRange.Valid() {
		return nil, fmt.Errorf("%w: start %g > end %g", ErrInvalidRange, yRange.Start, yRange.End)
	}
	for i, k := range keys {
		if math.IsNaN(k.X) || math.IsInf(k.X, 0) || math.IsNaN(k.Y) || math.IsInf(k.Y, 0) {
			return nil, fmt.Errorf("%w: non-finite key %d", ErrInvalidKeys, i)
		}
		if i > 0 && k.X <= keys[i-1].X {
			return nil, fmt.Errorf("%w: key %d x %g does not increase past %g",
				ErrInvalidKeys, i, k.X, keys[i-1].X)
		}
		if !yRange.Contains(k.Y) {
			return nil, fmt.Errorf("%w: key %d y %g outside range [%g, %g]",
				ErrInvalidKeys, i, k.Y, yRange.Start, yRange.End)
		}
	}

	if xGranularity <= 0 {
		xGranularity = RecommendXGranularity(keys[len(keys)-1].X)
	}

	s := &CompactSpline{}
	s.Init(yRange, xGranularity, len(keys))
	for _, k := range keys {
		s.AddNode(k.X, k.Y, k.Derivative, EnsureCubicWellBehaved)
	}
	return s, nil
}

// ConstantSpline returns a two-node spline holding y over [0, lengthX].
func ConstantSpline(y, lengthX float64) *CompactSpline {
	s := &CompactSpline{}
	s.Init(NewRange(y, y).Expanded(1), RecommendXGranularity(lengthX), 2)
	s.AddNode(0, y, 0, BaseCubic)
	s.AddNode(lengthX, y, 0, BaseCubic)
	return s
}

// EaseSpline samples an ease-in/ease-out curve into a compact spline
// with nodeCount evenly spaced nodes (at least two). The spline's value
// range is fitted to the sampled values with a small margin so
// quantization noise cannot push a node out of range.
func EaseSpline(curve QuadraticEaseInEaseOut, nodeCount int) (*CompactSpline, error) {
	if nodeCount < 2 {
		return nil, fmt.Errorf("%w: need at least 2 nodes, got %d", ErrInvalidKeys, nodeCount)
	}
	totalX := curve.TotalX()
	if totalX <= 0 {
		return ConstantSpline(curve.Evaluate(0), 1), nil
	}

	xs := make([]float64, nodeCount)
	ys := make([]float64, nodeCount)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range xs {
		x := totalX * float64(i) / float64(nodeCount-1)
		xs[i] = x
		ys[i] = curve.Evaluate(x)
		minY = math.Min(minY, ys[i])
		maxY = math.Max(maxY, ys[i])
	}

	s := &CompactSpline{}
	s.Init(NewRange(minY, maxY).Expanded(math.Max(1e-6, (maxY-minY)*0.01)),
		RecommendXGranularity(totalX), nodeCount)
	for i := range xs {
		s.AddNode(xs[i], ys[i], curve.Derivative(xs[i]), BaseCubic)
	}
	return s, nil
}

// NewEvaluatorForSplines binds each spline to its own index of a fresh
// evaluator, all starting at x 0 with rate 1.
func NewEvaluatorForSplines(splines []*CompactSpline) *BulkSplineEvaluator {
	e := NewBulkSplineEvaluator()
	e.SetNumIndices(len(splines))
	playback := NewSplinePlayback()
	for i, sp := range splines {
		if sp == nil {
			continue
		}
		e.SetYRange(i, sp.YRange(), false)
		e.SetSpline(i, sp, playback)
	}
	return e
}
