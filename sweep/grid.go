package sweep

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// Range returns the integers in [lo, hi].
func Range(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	vals := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		vals = append(vals, i)
	}
	return vals
}

// MaxIters is the number of distinct mismatch position sets for a gapped
// k-mer of length g with m mismatches, C(g, m). Sampling more iterations
// than this can never help the approximate kernel.
func MaxIters(g, m int) int {
	if m < 0 || m > g {
		return 0
	}
	return combin.Binomial(g, m)
}

// IterValues returns the iteration budgets swept by the iteration
// experiment. The maximum is C(g, m) capped at limit (when limit > 0). A
// mismatch count of zero is treated as one.
//
// Small maxima are swept exhaustively. Otherwise the sweep is fine from 1
// to 9 and then coarse in steps of 10, always ending at the maximum.
func IterValues(g, m, limit int) []int {
	if m == 0 {
		m = 1
	}
	top := MaxIters(g, m)
	if limit > 0 && top > limit {
		top = limit
	}
	if top <= 10 {
		return Range(1, top)
	}

	vals := Range(1, 9)
	for i := 10; i < top; i += 10 {
		vals = append(vals, i)
	}
	return append(vals, top)
}

// DeltaValues returns the convergence thresholds swept by the delta
// experiment: 0, 0.005, ..., 0.095 followed by 0.1, 0.2, ..., 1.0.
func DeltaValues() []float64 {
	vals := make([]float64, 0, 30)
	for i := 0; i < 20; i++ {
		vals = append(vals, 0.005*float64(i))
	}
	for i := 1; i <= 10; i++ {
		vals = append(vals, 0.1*float64(i))
	}
	return vals
}

// CValues returns the regularization constants tried when searching for
// the best C: 0.001 through 100 in powers of ten.
func CValues() []float64 {
	vals := make([]float64, 0, 6)
	for i := -3; i < 3; i++ {
		vals = append(vals, math.Pow(10, float64(i)))
	}
	return vals
}
