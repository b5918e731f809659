package stat

import (
	"math"
	"testing"
)

// Wilkinson's "nasty" datasets. The extreme scales shake out catastrophic
// cancellation in anything that forms raw cross-products.
var (
	testX      = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	testZero   = []float64{0, 0, 0, 0, 0, 0, 0, 0, 0}
	testBig    = []float64{99999991, 99999992, 99999993, 99999994, 99999995, 99999996, 99999997, 99999998, 99999999}
	testLittle = []float64{0.99999991, 0.99999992, 0.99999993, 0.99999994, 0.99999995, 0.99999996, 0.99999997, 0.99999998, 0.99999999}
	testHuge   = []float64{1e12, 2e12, 3e12, 4e12, 5e12, 6e12, 7e12, 8e12, 9e12}
	testTiny   = []float64{1e-12, 2e-12, 3e-12, 4e-12, 5e-12, 6e-12, 7e-12, 8e-12, 9e-12}
	testRound  = []float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5, 8.5}
)

func within(got, want, tol float64) bool {
	if math.IsNaN(want) {
		return math.IsNaN(got)
	}
	if math.IsInf(want, 0) {
		return got == want
	}
	return math.Abs(got-want) <= tol
}

func checkClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if !within(got, want, tol) {
		t.Fatalf("%s = %.15g, want %.15g (tol %g)", name, got, want, tol)
	}
}

func hasAdvisory(advisories []Advisory, kind AdvisoryKind) bool {
	for _, a := range advisories {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

func withNaN(a []float64, at ...int) []float64 {
	out := make([]float64, len(a))
	copy(out, a)
	for _, i := range at {
		out[i] = math.NaN()
	}
	return out
}
