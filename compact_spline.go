package spline

import (
	"math"
	"sort"

	"github.com/tphakala/go-spline/internal/mathutil"
)

// CompactSplineNode is one quantized key point of a CompactSpline.
//
// X is stored in grains of the spline's x granularity, Y as a 16-bit
// fraction of the spline's y range, and the derivative as the angle
// atan(derivative) scaled so the full int16 range spans (-pi/2, pi/2).
// Storing the angle rather than the slope gives uniform precision
// across slope magnitudes. The bit layout is a compatibility contract:
// nodes round-trip bit-for-bit through external storage via
// AddNodeVerbatim.
type CompactSplineNode struct {
	X     uint16
	Y     uint16
	Angle int16
}

// quantizeAngle converts a derivative to its stored angle.
func quantizeAngle(derivative float64) int16 {
	scaled := math.Round(math.Atan(derivative) * angleToQuantized)
	return int16(mathutil.Clamp(scaled, minQuantizedAngle, maxQuantizedAngle))
}

// dequantizeAngle converts a stored angle back to a derivative.
func dequantizeAngle(angle int16) float64 {
	return math.Tan(float64(angle) / angleToQuantized)
}

// AddMethod selects the node insertion policy of AddNode.
type AddMethod int

const (
	// BaseCubic appends the node as-is.
	BaseCubic AddMethod = iota

	// EnsureCubicWellBehaved checks the curvature of the segment the
	// new node would create and, when the segment would contain an
	// inflection, first inserts a dual-cubic midpoint node so that each
	// resulting segment has uniform curvature.
	EnsureCubicWellBehaved
)

// Sentinel segment indices returned by IndexForX for x values outside
// the spline's domain [StartX, EndX).
const (
	BeforeSplineIndex = -1
	AfterSplineIndex  = -2
)

// CompactSpline is an ordered sequence of quantized nodes plus the two
// range parameters used to quantize them. Node x values are strictly
// increasing in quantized space.
//
// The y range and x granularity are fixed at Init and must not change
// while nodes exist. A CompactSpline owns its node storage exclusively;
// evaluators reference splines without owning them, so a spline must
// outlive every evaluator index bound to it.
type CompactSpline struct {
	nodes        []CompactSplineNode
	yRange       Range
	xGranularity float64
}

// NewCompactSpline returns an empty spline that quantizes y over yRange
// and x in grains of xGranularity.
func NewCompactSpline(yRange Range, xGranularity float64) *CompactSpline {
	s := &CompactSpline{}
	s.Init(yRange, xGranularity, 0)
	return s
}

// Init resets the spline to empty and fixes its quantization
// parameters. hintNodeCount pre-sizes the node storage.
func (s *CompactSpline) Init(yRange Range, xGranularity float64, hintNodeCount int) {
	s.yRange = yRange
	s.xGranularity = xGranularity
	if cap(s.nodes) < hintNodeCount {
		s.nodes = make([]CompactSplineNode, 0, hintNodeCount)
	} else {
		s.nodes = s.nodes[:0]
	}
}

// Clear removes all nodes, keeping the quantization parameters.
func (s *CompactSpline) Clear() {
	s.nodes = s.nodes[:0]
}

// YRange returns the valid y interval of the spline.
func (s *CompactSpline) YRange() Range { return s.yRange }

// XGranularity returns the width of one x grain.
func (s *CompactSpline) XGranularity() float64 { return s.xGranularity }

// NodeCount returns the number of nodes.
func (s *CompactSpline) NodeCount() int { return len(s.nodes) }

// Node returns the quantized node at index i.
func (s *CompactSpline) Node(i int) CompactSplineNode { return s.nodes[i] }

// NodeX returns the dequantized x of node i.
func (s *CompactSpline) NodeX(i int) float64 {
	return float64(s.nodes[i].X) * s.xGranularity
}

// NodeY returns the dequantized y of node i.
func (s *CompactSpline) NodeY(i int) float64 {
	return mathutil.DequantizeUint16(s.nodes[i].Y, s.yRange.Start, s.yRange.Length())
}

// NodeDerivative returns the dequantized derivative of node i.
func (s *CompactSpline) NodeDerivative(i int) float64 {
	return dequantizeAngle(s.nodes[i].Angle)
}

// StartX returns the x of the first node, or 0 for an empty spline.
func (s *CompactSpline) StartX() float64 {
	if len(s.nodes) == 0 {
		return 0
	}
	return s.NodeX(0)
}

// EndX returns the x of the last node, or 0 for an empty spline.
func (s *CompactSpline) EndX() float64 {
	if len(s.nodes) == 0 {
		return 0
	}
	return s.NodeX(len(s.nodes) - 1)
}

// LengthX returns EndX - StartX.
func (s *CompactSpline) LengthX() float64 { return s.EndX() - s.StartX() }

// RangeX returns the x domain [StartX, EndX].
func (s *CompactSpline) RangeX() Range {
	return Range{Start: s.StartX(), End: s.EndX()}
}

// StartY returns the y of the first node, or 0 for an empty spline.
func (s *CompactSpline) StartY() float64 {
	if len(s.nodes) == 0 {
		return 0
	}
	return s.NodeY(0)
}

// EndY returns the y of the last node, or 0 for an empty spline.
func (s *CompactSpline) EndY() float64 {
	if len(s.nodes) == 0 {
		return 0
	}
	return s.NodeY(len(s.nodes) - 1)
}

// StartDerivative returns the derivative at the first node.
func (s *CompactSpline) StartDerivative() float64 {
	if len(s.nodes) == 0 {
		return 0
	}
	return s.NodeDerivative(0)
}

// EndDerivative returns the derivative at the last node.
func (s *CompactSpline) EndDerivative() float64 {
	if len(s.nodes) == 0 {
		return 0
	}
	return s.NodeDerivative(len(s.nodes) - 1)
}

// quantizeX converts x to grains, clamped to the representable range.
func (s *CompactSpline) quantizeX(x float64) uint16 {
	grains := math.Round(x / s.xGranularity)
	return uint16(mathutil.Clamp(grains, 0, MaxXGrain))
}

// quantizeNode builds the quantized form of a key point.
func (s *CompactSpline) quantizeNode(x, y, derivative float64) CompactSplineNode {
	return CompactSplineNode{
		X:     s.quantizeX(x),
		Y:     mathutil.QuantizeUint16(y, s.yRange.Start, s.yRange.Length()),
		Angle: quantizeAngle(derivative),
	}
}

// AddNode appends a key point. x must strictly exceed the previous
// node's x after quantization; a node whose quantized x does not is
// silently dropped, since authored curves may carry near-duplicate
// timestamps that collapse under quantization. y values outside the
// spline's y range clamp to it.
//
// With EnsureCubicWellBehaved, a segment whose cubic would contain a
// curvature inflection is split by first inserting a dual-cubic
// midpoint node, skipped when its quantized x would coincide with
// either neighbor.
func (s *CompactSpline) AddNode(x, y, derivative float64, method AddMethod) {
	node := s.quantizeNode(x, y, derivative)

	if method == EnsureCubicWellBehaved && len(s.nodes) > 0 {
		lastX := s.EndX()
		init := CubicInit{
			StartY:          s.EndY(),
			StartDerivative: s.EndDerivative(),
			EndY:            y,
			EndDerivative:   derivative,
			WidthX:          x - lastX,
		}
		if init.WidthX > 0 && !CubicFromInit(init).UniformCurvature(Range{Start: 0, End: init.WidthX}) {
			midX, midY, midDerivative := CalculateDualCubicMidNode(init)
			mid := s.quantizeNode(lastX+midX, midY, midDerivative)
			if mid.X > s.lastGrain() && mid.X < node.X {
				s.nodes = append(s.nodes, mid)
			}
		}
	}

	if len(s.nodes) == 0 || node.X > s.lastGrain() {
		s.nodes = append(s.nodes, node)
	}
}

// AddNodeVerbatim appends a pre-quantized node without re-deriving any
// of its fields, so data loaded from storage keeps its exact bits. The
// caller is responsible for maintaining the strictly-increasing x
// invariant.
func (s *CompactSpline) AddNodeVerbatim(node CompactSplineNode) {
	s.nodes = append(s.nodes, node)
}

// AddNodesVerbatim appends a run of pre-quantized nodes.
func (s *CompactSpline) AddNodesVerbatim(nodes []CompactSplineNode) {
	s.nodes = append(s.nodes, nodes...)
}

func (s *CompactSpline) lastGrain() uint16 {
	return s.nodes[len(s.nodes)-1].X
}

// IndexForX returns the index of the segment containing x: segment i
// spans [NodeX(i), NodeX(i+1)). For x outside [StartX, EndX) the
// sentinels BeforeSplineIndex and AfterSplineIndex are returned.
//
// guess is checked first; sequential forward playback hits it (or its
// successor) nearly always, making lookup O(1) amortized. Cold lookups
// binary-search the node array.
func (s *CompactSpline) IndexForX(x float64, guess int) int {
	n := len(s.nodes)
	if n == 0 || x < s.StartX() {
		return BeforeSplineIndex
	}
	if x >= s.EndX() {
		return AfterSplineIndex
	}

	// Fast path: the guessed segment or the one after it.
	for probe := guess; probe <= guess+1; probe++ {
		if probe >= 0 && probe < n-1 &&
			s.NodeX(probe) <= x && x < s.NodeX(probe+1) {
			return probe
		}
	}

	// First node with x beyond the query, minus one.
	idx := sort.Search(n, func(i int) bool { return x < s.NodeX(i) }) - 1
	if idx < 0 {
		idx = 0
	}
	return idx
}

// CreateCubicInit returns the Hermite boundary data of segment index.
// The sentinel indices produce flat zero-width curves pinned at the
// spline's start or end value, so out-of-domain evaluation holds the
// boundary value.
func (s *CompactSpline) CreateCubicInit(index int) CubicInit {
	switch index {
	case BeforeSplineIndex:
		return flatCubicInit(s.StartY())
	case AfterSplineIndex:
		return flatCubicInit(s.EndY())
	}
	return CubicInit{
		StartY:          s.NodeY(index),
		StartDerivative: s.NodeDerivative(index),
		EndY:            s.NodeY(index + 1),
		EndDerivative:   s.NodeDerivative(index + 1),
		WidthX:          s.NodeX(index+1) - s.NodeX(index),
	}
}

func flatCubicInit(y float64) CubicInit {
	return CubicInit{StartY: y, EndY: y}
}

// YCalculatedSlowly evaluates the spline at x from scratch: segment
// lookup, cubic construction, then evaluation. It is the reference
// implementation that BulkSplineEvaluator must agree with; per-frame
// sampling should use the evaluator instead.
func (s *CompactSpline) YCalculatedSlowly(x float64) float64 {
	index := s.IndexForX(x, 0)
	cubic := CubicFromInit(s.CreateCubicInit(index))
	if index < 0 {
		return cubic.Evaluate(0)
	}
	return cubic.Evaluate(x - s.NodeX(index))
}

// Ys samples the spline at len(out) points starting at startX and
// spaced deltaX apart. Sampling drives a single-index evaluator, so
// the traversal semantics are identical to per-frame playback.
func (s *CompactSpline) Ys(startX, deltaX float64, out []float64) {
	BulkYs([]*CompactSpline{s}, startX, deltaX, [][]float64{out})
}

// BulkYs samples several splines in lockstep. Sample i of spline j is
// written to out[j][i]; every out row must have the same length. The
// splines are bound to one evaluator and advanced together, which is
// the canonical traversal algorithm of this package.
func BulkYs(splines []*CompactSpline, startX, deltaX float64, out [][]float64) {
	if len(splines) == 0 || len(out) != len(splines) || len(out[0]) == 0 {
		return
	}
	numSamples := len(out[0])

	ev := NewBulkSplineEvaluator()
	ev.SetNumIndices(len(splines))
	playback := NewSplinePlayback()
	playback.StartX = startX
	for i, sp := range splines {
		ev.SetYRange(i, sp.YRange(), false)
		ev.SetSpline(i, sp, playback)
	}

	for sample := 0; sample < numSamples; sample++ {
		if sample > 0 {
			ev.AdvanceFrame(deltaX)
		}
		for i := range splines {
			out[i][sample] = ev.Y(i)
		}
	}
}

// RecommendXGranularity returns the granularity that maximizes
// quantization precision for a spline whose x domain extends to maxX.
func RecommendXGranularity(maxX float64) float64 {
	if maxX <= 0 {
		return 1.0 / MaxXGrain
	}
	return maxX / MaxXGrain
}
