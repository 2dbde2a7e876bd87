// Package evalops provides the bulk array operations at the heart of
// spline evaluation in interchangeable scalar and vectorized forms.
//
// The two strategies must produce identical results; only their cost
// profile differs. The scalar strategy is plain loops with one-pass
// expiry detection. The vectorized strategy leans on SIMD kernels from
// github.com/tphakala/simd and gonum's floats package, and detects
// expiry in two passes (mask generation, then mask-to-index
// compaction), the split that vectorizes well.
package evalops

import (
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
)

// Ops is a strategy table of the bulk operations an evaluator performs
// each frame. Function pointers keep the strategy choice out of the
// hot loops.
type Ops struct {
	// AdvanceX accumulates deltaX*rates[i] into xs[i].
	AdvanceX func(xs, rates []float64, deltaX float64)

	// EvaluateCubics writes ((c3*x+c2)*x+c1)*x+c0 per index into ys.
	EvaluateCubics func(ys, xs, c0, c1, c2, c3 []float64)

	// FindExpired appends every index with xs[i] > ends[i] to expired
	// (in ascending order) and returns the extended slice.
	FindExpired func(expired []int, xs, ends []float64) []int
}

// Scalar returns the plain-Go strategy.
func Scalar() *Ops {
	return &Ops{
		AdvanceX:       advanceXScalar,
		EvaluateCubics: evaluateCubicsScalar,
		FindExpired:    findExpiredOnePass,
	}
}

// Vectorized returns the SIMD-backed strategy. The returned Ops owns
// scratch buffers and must not be shared across goroutines.
func Vectorized() *Ops {
	v := &vectorized{}
	return &Ops{
		AdvanceX:       v.advanceX,
		EvaluateCubics: v.evaluateCubics,
		FindExpired:    v.findExpiredTwoPass,
	}
}

func advanceXScalar(xs, rates []float64, deltaX float64) {
	for i := range xs {
		xs[i] += deltaX * rates[i]
	}
}

func evaluateCubicsScalar(ys, xs, c0, c1, c2, c3 []float64) {
	for i, x := range xs {
		ys[i] = ((c3[i]*x+c2[i])*x+c1[i])*x + c0[i]
	}
}

// findExpiredOnePass records crossed indices as it finds them.
func findExpiredOnePass(expired []int, xs, ends []float64) []int {
	for i := range xs {
		if xs[i] > ends[i] {
			expired = append(expired, i)
		}
	}
	return expired
}

// vectorized carries the scratch state of the SIMD strategy.
type vectorized struct {
	scratch []float64
	mask    []bool
}

func (v *vectorized) grow(n int) {
	if cap(v.scratch) < n {
		v.scratch = make([]float64, n)
		v.mask = make([]bool, n)
	}
	v.scratch = v.scratch[:n]
	v.mask = v.mask[:n]
}

// advanceX scales the rates with a SIMD kernel, then folds the scaled
// step into xs.
func (v *vectorized) advanceX(xs, rates []float64, deltaX float64) {
	v.grow(len(xs))
	f64.Scale(v.scratch, rates, deltaX)
	floats.Add(xs, v.scratch)
}

// evaluateCubics runs Horner's rule column-wise over the coefficient
// arrays: each step is one fused elementwise multiply-add over the
// whole index range.
func (v *vectorized) evaluateCubics(ys, xs, c0, c1, c2, c3 []float64) {
	floats.MulTo(ys, c3, xs)
	floats.Add(ys, c2)
	floats.Mul(ys, xs)
	floats.Add(ys, c1)
	floats.Mul(ys, xs)
	floats.Add(ys, c0)
}

// findExpiredTwoPass computes a crossing mask first, then compacts the
// mask into indices. Produces the same index set and order as the
// one-pass form.
func (v *vectorized) findExpiredTwoPass(expired []int, xs, ends []float64) []int {
	v.grow(len(xs))
	for i := range xs {
		v.mask[i] = xs[i] > ends[i]
	}
	for i, crossed := range v.mask {
		if crossed {
			expired = append(expired, i)
		}
	}
	return expired
}
