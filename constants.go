package spline

import "math"

// Quantization constants for CompactSplineNode.
//
// These define the on-disk/in-memory bit layout of quantized nodes and
// must not change: AddNodeVerbatim exists so that pre-quantized data can
// round-trip bit-for-bit through external storage.
const (
	// MaxXGrain is the largest representable quantized x value.
	MaxXGrain = math.MaxUint16

	// maxYRung is the largest representable quantized y value.
	maxYRung = math.MaxUint16

	// angleToQuantized scales an atan(derivative) angle in
	// (-pi/2, pi/2) onto the full int16 range.
	angleToQuantized = 32768 / (math.Pi / 2)

	// minQuantizedAngle and maxQuantizedAngle bound the stored angle.
	minQuantizedAngle = math.MinInt16
	maxQuantizedAngle = math.MaxInt16
)

// Curve tolerance constants.
const (
	// quadraticDiscriminantEpsilonScale clamps near-zero discriminants
	// to exactly zero, relative to the magnitude of the discriminant's
	// terms. Keeps float rounding from turning a double root into zero
	// roots (spurious complex pair) or two roots a hair apart.
	quadraticDiscriminantEpsilonScale = 1e-12

	// rootsInRangeEpsilonScale is the tolerance, as a fraction of the
	// range length, for accepting roots that fall just outside the
	// requested range.
	rootsInRangeEpsilonScale = 1e-5

	// curvatureEpsilonScale flushes near-zero second derivatives before
	// the sign comparison in UniformCurvature.
	curvatureEpsilonScale = 1e-6

	// easeMatchEpsilonScale decides when ease-in/ease-out start and end
	// states already match, relative to the magnitudes involved.
	easeMatchEpsilonScale = 1e-8
)

// Spring constants.
const (
	// springBiasClampBand is the half-width of the band around bias = 1
	// inside which the bias is clamped to exactly 1. Near 1 the
	// logarithmic peak-index derivation loses precision, so sustained
	// oscillation is used instead.
	springBiasClampBand = 0.05

	// SpringSettledIterations is the zero-crossing count after which a
	// decaying spring is treated as settled for practical purposes
	// (residual amplitude around 1% for typical biases).
	SpringSettledIterations = 4

	// springMinAmplitude is the displacement below which a decaying
	// spring evaluates as flat at its target.
	springMinAmplitude = 1e-9
)

// Evaluator constants.
const (
	// defaultEvaluatorCapacity is the initial per-column capacity so
	// that the first few SetNumIndices calls do not reallocate.
	defaultEvaluatorCapacity = 16
)
