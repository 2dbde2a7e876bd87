package spline

import (
	"math"

	"github.com/tphakala/go-spline/internal/mathutil"
)

// Range is a closed interval [Start, End] on the x or y axis.
//
// When used as a modular range (e.g. angles in [-pi, pi)), Start and End
// identify the same value and the modular helpers below choose the
// representation of a value that is most useful to the caller.
type Range struct {
	Start float64
	End   float64
}

// NewRange returns the interval [start, end].
func NewRange(start, end float64) Range {
	return Range{Start: start, End: end}
}

// AngleRange is the canonical modular range for radian values.
func AngleRange() Range {
	return Range{Start: -math.Pi, End: math.Pi}
}

// UnitRange is the interval [0, 1].
func UnitRange() Range {
	return Range{Start: 0, End: 1}
}

// Length returns End - Start.
func (r Range) Length() float64 {
	return r.End - r.Start
}

// Middle returns the midpoint of the interval.
func (r Range) Middle() float64 {
	return (r.Start + r.End) / 2
}

// Valid reports whether Start <= End.
func (r Range) Valid() bool {
	return r.Start <= r.End
}

// Contains reports whether x lies inside the closed interval.
func (r Range) Contains(x float64) bool {
	return x >= r.Start && x <= r.End
}

// ContainsExcludingEnd reports whether x lies in [Start, End).
func (r Range) ContainsExcludingEnd(x float64) bool {
	return x >= r.Start && x < r.End
}

// Clamp limits x to the interval.
func (r Range) Clamp(x float64) float64 {
	return mathutil.Clamp(x, r.Start, r.End)
}

// DistanceFrom returns how far x lies outside the interval, or 0 when x
// is inside it.
func (r Range) DistanceFrom(x float64) float64 {
	switch {
	case x < r.Start:
		return r.Start - x
	case x > r.End:
		return x - r.End
	default:
		return 0
	}
}

// Lerp maps t in [0, 1] onto the interval.
func (r Range) Lerp(t float64) float64 {
	return mathutil.Lerp(r.Start, r.End, t)
}

// Expanded returns the interval grown by amount on both sides.
func (r Range) Expanded(amount float64) Range {
	return Range{Start: r.Start - amount, End: r.End + amount}
}

// Normalize wraps y into [Start, End). The interval is treated as
// modular: y and y + k*Length() are the same value for any integer k.
// Returns y unchanged when the interval has no extent.
func (r Range) Normalize(y float64) float64 {
	length := r.Length()
	if length <= 0 {
		return y
	}
	return r.Start + mathutil.Mod(y-r.Start, length)
}

// NormalizeCloseValue returns the representation of y (modulo the
// interval length) that lies within half a length of center. This is
// the shortest-path form used for blending angular values: the returned
// value may lie outside [Start, End), but |result - center| is at most
// Length()/2.
func (r Range) NormalizeCloseValue(y, center float64) float64 {
	length := r.Length()
	if length <= 0 {
		return y
	}
	return y - length*math.Round((y-center)/length)
}

// NormalizeWithDirection returns the representation of y reached from
// center by travelling in the requested direction. DirectionClosest is
// equivalent to NormalizeCloseValue; DirectionUp yields a result at or
// above center, DirectionDown at or below it.
func (r Range) NormalizeWithDirection(y, center float64, direction BlendDirection) float64 {
	length := r.Length()
	if length <= 0 {
		return y
	}
	switch direction {
	case DirectionUp:
		return center + mathutil.Mod(y-center, length)
	case DirectionDown:
		return center - mathutil.Mod(center-y, length)
	default:
		return r.NormalizeCloseValue(y, center)
	}
}

// BlendDirection selects how a modular blend target is approached.
type BlendDirection int

const (
	// DirectionClosest takes the shortest path to the target.
	DirectionClosest BlendDirection = iota

	// DirectionUp always approaches the target with increasing values.
	DirectionUp

	// DirectionDown always approaches the target with decreasing values.
	DirectionDown
)
