package stat

import (
	"math"

	"statkit/dist"
	"statkit/domain/core"
)

// nearConstantThreshold flags inputs whose centered norm is vanishingly
// small relative to their magnitude; results are returned but numerically
// poor.
const nearConstantThreshold = 1e-13

// PearsonR computes the Pearson correlation coefficient and the two-sided
// p-value for the hypothesis of no correlation.
//
// Data is centered before any cross-product is formed and norms are computed
// with scaling, so the result stays accurate for magnitudes from 1e-245 up
// to 1e300. Constant input yields (NaN, NaN) with a ConstantInput advisory
// rather than a division-by-zero failure.
func PearsonR(x, y []float64, policy NaNPolicy) (CorrelationResult, error) {
	if len(x) != len(y) {
		return CorrelationResult{}, core.NewInvalidArgument("samples must have the same length, got %d and %d", len(x), len(y))
	}
	filtered, err := applyPolicy([][]float64{x, y}, policy, true)
	if err != nil {
		return CorrelationResult{}, err
	}
	x, y = filtered[0], filtered[1]
	if len(x) < 2 {
		return CorrelationResult{}, core.NewInvalidArgument("pearsonr requires at least two observations, got %d", len(x))
	}

	d := &Diagnostics{}
	r := pearsonCore(x, y, d)
	res := CorrelationResult{Correlation: r, Advisories: d.Advisories()}
	if math.IsNaN(r) {
		res.PValue = math.NaN()
		return res, nil
	}
	if len(x) == 2 {
		res.PValue = 1
		return res, nil
	}
	res.PValue = pearsonPValue(r, len(x))
	return res, nil
}

// pearsonCore computes r on already-filtered equal-length slices, reporting
// degenerate inputs on d.
func pearsonCore(x, y []float64, d *Diagnostics) float64 {
	n := len(x)
	xm := centered(x)
	ym := centered(y)
	normx := stableNorm(xm)
	normy := stableNorm(ym)

	if normx == 0 || normy == 0 {
		d.add(ConstantInput, "an input array is constant; the correlation coefficient is not defined")
		return math.NaN()
	}
	if normx < nearConstantThreshold*math.Abs(mean(x))*math.Sqrt(float64(n)) ||
		normy < nearConstantThreshold*math.Abs(mean(y))*math.Sqrt(float64(n)) {
		d.add(NearConstantInput, "an input array is nearly constant; the computed correlation coefficient may be inaccurate")
	}

	r := 0.0
	for i := 0; i < n; i++ {
		r += (xm[i] / normx) * (ym[i] / normy)
	}
	return clampCorrelation(r)
}

func pearsonPValue(r float64, n int) float64 {
	if r >= 1 || r <= -1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/((1-r)*(1+r)))
	return 2 * dist.StudentsTSF(math.Abs(t), df)
}

func centered(a []float64) []float64 {
	m := mean(a)
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = v - m
	}
	return out
}

func clampCorrelation(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}

// PointBiserialR computes the point-biserial correlation between a binary
// variable and a continuous one. It is Pearson's r applied to the 0/1
// grouping variable, with the same degenerate-input behavior.
func PointBiserialR(x, y []float64, policy NaNPolicy) (CorrelationResult, error) {
	return PearsonR(x, y, policy)
}
