package stat

import (
	"math"

	"statkit/dist"
	"statkit/domain/core"
)

// Linregress fits y = slope*x + intercept by least squares and reports the
// correlation coefficient, the two-sided p-value for a zero-slope null, and
// the standard error of the slope.
//
// Sums of squares are computed on centered data so large offsets (such as
// regressing values near 1e8 on small indices) lose no precision.
func Linregress(x, y []float64, policy NaNPolicy) (LinregressResult, error) {
	if len(x) != len(y) {
		return LinregressResult{}, core.NewInvalidArgument("samples must have the same length, got %d and %d", len(x), len(y))
	}
	filtered, err := applyPolicy([][]float64{x, y}, policy, true)
	if err != nil {
		return LinregressResult{}, err
	}
	x, y = filtered[0], filtered[1]
	n := len(x)
	if n < 2 {
		return LinregressResult{}, core.NewInvalidArgument("linregress requires at least two observations, got %d", n)
	}

	xmean := mean(x)
	ymean := mean(y)
	ssxm, ssym, ssxym := 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		dx := x[i] - xmean
		dy := y[i] - ymean
		ssxm += dx * dx
		ssym += dy * dy
		ssxym += dx * dy
	}

	d := &Diagnostics{}
	if ssxm == 0 {
		d.add(ConstantInput, "x is constant; the regression line is not defined")
		nan := math.NaN()
		return LinregressResult{
			Slope: nan, Intercept: nan, RValue: nan, PValue: nan, StdErr: nan,
			Advisories: d.Advisories(),
		}, nil
	}

	var r float64
	if ssym == 0 {
		// y constant: the fit is exact with zero slope and the
		// correlation is defined to be zero.
		r = 0
	} else {
		r = clampCorrelation(ssxym / math.Sqrt(ssxm*ssym))
	}

	slope := ssxym / ssxm
	intercept := ymean - slope*xmean
	res := LinregressResult{Slope: slope, Intercept: intercept, RValue: r, Advisories: d.Advisories()}

	df := float64(n - 2)
	// A perfect fit pins the p-value at zero even with two points, where
	// there are no residual degrees of freedom.
	if math.Abs(r) >= 1 {
		res.PValue = 0
		res.StdErr = 0
		return res, nil
	}
	if df <= 0 {
		res.PValue = 1
		res.StdErr = 0
		return res, nil
	}
	t := r * math.Sqrt(df/((1-r)*(1+r)))
	res.PValue = 2 * dist.StudentsTSF(math.Abs(t), df)
	res.StdErr = math.Sqrt((1 - r*r) * ssym / ssxm / df)
	return res, nil
}
