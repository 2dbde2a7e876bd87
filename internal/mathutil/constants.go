package mathutil

// Numerical tolerance constants shared across curve math.
const (
	// DefaultEpsilon is the baseline absolute tolerance for float64
	// comparisons where no better scale is available.
	DefaultEpsilon = 1e-10

	// RelativeEpsilonScale converts a magnitude into a comparison
	// tolerance. Roughly 2^-32, comfortably above float64 rounding noise
	// accumulated over a handful of arithmetic operations.
	RelativeEpsilonScale = 2.3e-10
)
