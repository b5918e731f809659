package stat

import (
	"math"

	"statkit/dist"
	"statkit/domain/core"
)

// TTestOptions configures the t-test family.
type TTestOptions struct {
	NaNPolicy   NaNPolicy
	Alternative Alternative
	// EqualVar pools the variance estimate (classic two-sample t-test).
	// When false, Welch's unequal-variance form is used. Only TTestInd
	// reads this.
	EqualVar bool
}

// TTest1Samp tests whether the sample mean differs from popmean.
func TTest1Samp(a []float64, popmean float64, opts TTestOptions) (TestResult, error) {
	if err := opts.Alternative.validate(); err != nil {
		return TestResult{}, err
	}
	a, err := filterOne(a, opts.NaNPolicy)
	if err != nil {
		return TestResult{}, err
	}
	n := len(a)
	if n < 2 {
		return TestResult{Statistic: math.NaN(), PValue: math.NaN()}, nil
	}
	d := &Diagnostics{}
	v := variance(a, 1)
	t := tStatistic(mean(a)-popmean, v/float64(n), d)
	df := float64(n - 1)
	return TestResult{
		Statistic:  t,
		PValue:     pvalueFromT(t, df, opts.Alternative),
		Advisories: d.Advisories(),
	}, nil
}

// TTestInd tests whether two independent samples have equal means. Lengths
// may differ. With EqualVar the pooled-variance form is used; otherwise
// Welch's statistic with the Welch-Satterthwaite degrees of freedom.
func TTestInd(a, b []float64, opts TTestOptions) (TestResult, error) {
	if err := opts.Alternative.validate(); err != nil {
		return TestResult{}, err
	}
	filtered, err := applyPolicy([][]float64{a, b}, opts.NaNPolicy, false)
	if err != nil {
		return TestResult{}, err
	}
	a, b = filtered[0], filtered[1]
	n1, n2 := len(a), len(b)
	if n1 < 2 || n2 < 2 {
		return TestResult{Statistic: math.NaN(), PValue: math.NaN()}, nil
	}
	v1 := variance(a, 1)
	v2 := variance(b, 1)
	d := &Diagnostics{}

	var denomSq, df float64
	if opts.EqualVar {
		df = float64(n1 + n2 - 2)
		sv := (float64(n1-1)*v1 + float64(n2-1)*v2) / df
		denomSq = sv * (1/float64(n1) + 1/float64(n2))
	} else {
		vn1 := v1 / float64(n1)
		vn2 := v2 / float64(n2)
		denomSq = vn1 + vn2
		if denomSq > 0 {
			df = denomSq * denomSq / (vn1*vn1/float64(n1-1) + vn2*vn2/float64(n2-1))
		}
	}
	t := tStatistic(mean(a)-mean(b), denomSq, d)
	return TestResult{
		Statistic:  t,
		PValue:     pvalueFromT(t, df, opts.Alternative),
		Advisories: d.Advisories(),
	}, nil
}

// TTestRel tests whether the means of two paired samples differ. Samples
// must have equal length; pairing is preserved through NaN omission.
func TTestRel(a, b []float64, opts TTestOptions) (TestResult, error) {
	if err := opts.Alternative.validate(); err != nil {
		return TestResult{}, err
	}
	if len(a) != len(b) {
		return TestResult{}, core.NewInvalidArgument("paired samples must have the same length, got %d and %d", len(a), len(b))
	}
	filtered, err := applyPolicy([][]float64{a, b}, opts.NaNPolicy, true)
	if err != nil {
		return TestResult{}, err
	}
	a, b = filtered[0], filtered[1]
	n := len(a)
	if n < 2 {
		return TestResult{Statistic: math.NaN(), PValue: math.NaN()}, nil
	}
	diff := make([]float64, n)
	for i := range a {
		diff[i] = a[i] - b[i]
	}
	d := &Diagnostics{}
	t := tStatistic(mean(diff), variance(diff, 1)/float64(n), d)
	df := float64(n - 1)
	return TestResult{
		Statistic:  t,
		PValue:     pvalueFromT(t, df, opts.Alternative),
		Advisories: d.Advisories(),
	}, nil
}

// tStatistic forms num/sqrt(denomSq), reporting zero-variance input instead
// of dividing by zero.
func tStatistic(num, denomSq float64, d *Diagnostics) float64 {
	if denomSq == 0 {
		d.add(ConstantInput, "the variance of the data is zero; the t statistic is not defined")
		if num == 0 {
			return math.NaN()
		}
		return math.Inf(sign64(num))
	}
	return num / math.Sqrt(denomSq)
}

func sign64(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

func pvalueFromT(t, df float64, alt Alternative) float64 {
	if math.IsNaN(t) || df <= 0 {
		return math.NaN()
	}
	switch alt {
	case Greater:
		return dist.StudentsTSF(t, df)
	case Less:
		return dist.StudentsTCDF(t, df)
	default:
		return 2 * dist.StudentsTSF(math.Abs(t), df)
	}
}
