package spline

import (
	"math"

	"github.com/tphakala/go-spline/internal/mathutil"
)

// QuadraticSpring models a value oscillating around a target as a
// sequence of constant-acceleration (quadratic) legs. While the value
// moves toward the target it accelerates with one magnitude; while it
// recedes it decelerates with another. The ratio of the two is the
// bias, and it is exactly the factor by which each successive peak
// amplitude scales: bias < 1 decays, bias > 1 grows, bias = 1 sustains.
//
// The value starts at a peak (zero derivative) displaced from the
// target by the initial amplitude. Legs alternate between
// peak-to-crossing ("toward") and crossing-to-peak ("away"), and both
// legs of a half-cycle curve in the same direction, so curvature
// alternates per half-cycle as the value swings across the target.
//
// Because peak amplitudes form a geometric sequence, both the leg
// containing any x and the x of any zero crossing have closed forms
// (logarithmic in the decay ratio). SpringContext caches the active
// leg so that frame-by-frame advancement is O(1).
type QuadraticSpring struct {
	target    float64
	amplitude float64 // signed initial displacement from target
	bias      float64 // peak amplitude ratio per half-cycle
	toward    float64 // |f''| while approaching the target
	away      float64 // |f''| while receding from it
	firstLegX float64 // duration of the initial peak-to-crossing leg
}

// NewQuadraticSpring returns a spring released from rest at startValue,
// oscillating around target. period is the duration of one full
// oscillation when bias is 1 (for other biases it sets the initial
// acceleration and the first cycle runs close to it). bias within
// springBiasClampBand of 1 is clamped to exactly 1; see the package
// constants.
//
// A zero amplitude or non-positive period yields a spring that is flat
// at the target.
func NewQuadraticSpring(startValue, target, period, bias float64) QuadraticSpring {
	s := QuadraticSpring{
		target:    target,
		amplitude: startValue - target,
		bias:      bias,
	}
	if math.Abs(s.bias-1) < springBiasClampBand {
		s.bias = 1
	}
	if s.amplitude == 0 || period <= 0 || s.bias <= 0 {
		s.amplitude = 0
		return s
	}

	// At bias 1 a full oscillation is four equal legs of length
	// sqrt(2*A/a), so period = 4*sqrt(2*A/a).
	absAmplitude := math.Abs(s.amplitude)
	s.toward = 32 * absAmplitude / (period * period)
	s.away = s.toward / s.bias
	s.firstLegX = math.Sqrt(2 * absAmplitude / s.toward)
	return s
}

// Target returns the value the spring oscillates around.
func (s QuadraticSpring) Target() float64 { return s.target }

// Bias returns the per-half-cycle peak amplitude ratio after clamping.
func (s QuadraticSpring) Bias() float64 { return s.bias }

// peakX returns the x position of peak n (peak 0 is at x = 0).
func (s QuadraticSpring) peakX(n int) float64 {
	r := math.Sqrt(s.bias)
	if s.bias == 1 {
		return 2 * s.firstLegX * float64(n)
	}
	return s.firstLegX * (1 + s.bias) * (1 - math.Pow(r, float64(n))) / (1 - r)
}

// peakValue returns the signed displacement of peak n from the target.
func (s QuadraticSpring) peakValue(n int) float64 {
	return s.amplitude * math.Pow(-s.bias, float64(n))
}

// IterationX returns the x position of the nth zero crossing of the
// displacement (n >= 0). Crossing n ends the toward leg of half-cycle
// n. For a decaying spring, SpringSettledIterations crossings mark a
// practical settling horizon.
func (s QuadraticSpring) IterationX(n int) float64 {
	if s.amplitude == 0 {
		return 0
	}
	r := math.Sqrt(s.bias)
	return s.peakX(n) + s.firstLegX*math.Pow(r, float64(n))
}

// SettleX returns the x after which a decaying spring is practically at
// its target (SpringSettledIterations zero crossings). Growing and
// sustained springs never settle and report +Inf.
func (s QuadraticSpring) SettleX() float64 {
	if s.amplitude == 0 {
		return 0
	}
	if s.bias >= 1 {
		return math.Inf(1)
	}
	return s.IterationX(SpringSettledIterations)
}

// SpringContext caches the leg of the spring active at some x, so that
// advancing x frame by frame avoids the logarithmic re-derivation.
type SpringContext struct {
	// Curve is the quadratic for the active leg, in absolute x.
	Curve QuadraticCurve

	// ValidX is the x window on which Curve describes the spring.
	ValidX Range

	halfCycle int
	toward    bool
	settled   bool
}

// Settled reports whether the spring has decayed below its amplitude
// floor within this context's window.
func (c SpringContext) Settled() bool { return c.settled }

// ContextAt derives the active leg at x in closed form. The half-cycle
// index comes from inverting the geometric series of half-cycle
// durations, which costs one logarithm; everything after that is
// arithmetic.
func (s QuadraticSpring) ContextAt(x float64) SpringContext {
	if s.amplitude == 0 {
		return s.settledContext(0)
	}
	if x <= 0 {
		return s.legContext(0, true)
	}
	if s.bias < 1 {
		// A decaying spring completes its infinitely many half-cycles
		// in finite x; past that horizon it sits at the target.
		r := math.Sqrt(s.bias)
		horizon := s.firstLegX * (1 + s.bias) / (1 - r)
		if x >= horizon {
			return s.settledContext(horizon)
		}
	}

	n := s.halfCycleIndexAt(x)
	peakX := s.peakX(n)
	if math.Abs(s.peakValue(n)) < springMinAmplitude {
		return s.settledContext(peakX)
	}

	toward := x-peakX < s.towardLegX(n)
	return s.legContext(n, toward)
}

// IncrementContext advances ctx so that it covers x. Stepping to the
// next leg is O(1); when x skips several oscillation legs at once the
// closed-form ContextAt is used instead.
func (s QuadraticSpring) IncrementContext(ctx *SpringContext, x float64) {
	const maxLegSteps = 3

	if ctx.settled || x <= ctx.ValidX.End {
		return
	}
	for steps := 0; steps < maxLegSteps; steps++ {
		*ctx = s.nextLeg(*ctx)
		if ctx.settled || x <= ctx.ValidX.End {
			return
		}
	}
	*ctx = s.ContextAt(x)
}

// Evaluate returns the spring value at x, deriving the context from
// scratch. Callers advancing x incrementally should hold a
// SpringContext and use EvaluateWithContext.
func (s QuadraticSpring) Evaluate(x float64) float64 {
	ctx := s.ContextAt(x)
	return s.EvaluateWithContext(&ctx, x)
}

// EvaluateWithContext returns the spring value at x, updating ctx as
// needed. x must not move backwards past ctx.ValidX.Start; rewinding
// requires a fresh ContextAt.
func (s QuadraticSpring) EvaluateWithContext(ctx *SpringContext, x float64) float64 {
	s.IncrementContext(ctx, x)
	if ctx.settled {
		return s.target
	}
	return ctx.Curve.Evaluate(mathutil.Clamp(x, ctx.ValidX.Start, ctx.ValidX.End))
}

// towardLegX returns the duration of half-cycle n's toward leg.
func (s QuadraticSpring) towardLegX(n int) float64 {
	return s.firstLegX * math.Pow(math.Sqrt(s.bias), float64(n))
}

// halfCycleIndexAt inverts peakX to find the half-cycle containing x.
func (s QuadraticSpring) halfCycleIndexAt(x float64) int {
	if s.bias == 1 {
		return int(x / (2 * s.firstLegX))
	}
	r := math.Sqrt(s.bias)
	// peakX(n) = L*(1-r^n)/(1-r) with L = firstLegX*(1+bias); solve for
	// the largest n with peakX(n) <= x.
	l := s.firstLegX * (1 + s.bias)
	// ContextAt screens out x past the convergence horizon, so the
	// argument is positive here.
	arg := 1 - x*(1-r)/l
	n := int(math.Floor(math.Log(arg) / math.Log(r)))
	if n < 0 {
		n = 0
	}
	// Guard against the log landing one cycle off at a boundary.
	for n > 0 && s.peakX(n) > x {
		n--
	}
	for s.peakX(n+1) <= x {
		n++
	}
	return n
}

// legContext builds the context for one leg of half-cycle n.
func (s QuadraticSpring) legContext(n int, toward bool) SpringContext {
	peakX := s.peakX(n)
	peakValue := s.peakValue(n)
	towardX := s.towardLegX(n)

	if toward {
		// Peak to crossing, accelerating at s.toward opposing the
		// displacement sign.
		curve := QuadraticFromPoint(
			s.target+peakValue, 0, -mathutil.Sign(peakValue)*s.toward, peakX)
		return SpringContext{
			Curve:     curve,
			ValidX:    Range{Start: peakX, End: peakX + towardX},
			halfCycle: n,
			toward:    true,
		}
	}

	// Crossing to the next peak, decelerating at s.away. Anchoring at
	// the next peak keeps the leg exact: value and derivative are known
	// there by construction.
	nextPeakX := s.peakX(n + 1)
	nextPeakValue := s.peakValue(n + 1)
	curve := QuadraticFromPoint(
		s.target+nextPeakValue, 0, -mathutil.Sign(nextPeakValue)*s.away, nextPeakX)
	return SpringContext{
		Curve:     curve,
		ValidX:    Range{Start: peakX + towardX, End: nextPeakX},
		halfCycle: n,
		toward:    false,
	}
}

// nextLeg returns the leg following ctx.
func (s QuadraticSpring) nextLeg(ctx SpringContext) SpringContext {
	n, toward := ctx.halfCycle, ctx.toward
	if toward {
		toward = false
	} else {
		n++
		toward = true
	}
	if math.Abs(s.peakValue(n)) < springMinAmplitude {
		return s.settledContext(ctx.ValidX.End)
	}
	return s.legContext(n, toward)
}

// settledContext is a flat leg at the target extending forever.
func (s QuadraticSpring) settledContext(fromX float64) SpringContext {
	return SpringContext{
		Curve:   QuadraticFromOrigin(s.target, 0, 0),
		ValidX:  Range{Start: fromX, End: math.Inf(1)},
		settled: true,
	}
}
