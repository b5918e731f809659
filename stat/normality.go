package stat

import (
	"math"

	"statkit/dist"
	"statkit/domain/core"
)

// SkewTest tests whether the sample skewness differs from that of a normal
// distribution (D'Agostino). The asymptotic-normal transformation is only
// reliable from eight observations up; smaller samples are an error.
func SkewTest(a []float64, policy NaNPolicy) (TestResult, error) {
	a, err := filterOne(a, policy)
	if err != nil {
		return TestResult{}, err
	}
	n := len(a)
	if n < 8 {
		return TestResult{}, core.NewInvalidArgument("skewtest requires at least 8 observations, got %d", n)
	}
	if hasNaN(a) {
		return TestResult{Statistic: math.NaN(), PValue: math.NaN()}, nil
	}

	b2 := skewValue(a)
	fn := float64(n)
	y := b2 * math.Sqrt((fn+1)*(fn+3)/(6*(fn-2)))
	beta2 := 3 * (fn*fn + 27*fn - 70) * (fn + 1) * (fn + 3) / ((fn - 2) * (fn + 5) * (fn + 7) * (fn + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	if y == 0 {
		y = 1
	}
	z := delta * math.Log(y/alpha+math.Sqrt((y/alpha)*(y/alpha)+1))
	return TestResult{Statistic: z, PValue: 2 * dist.NormalSF(math.Abs(z))}, nil
}

// KurtosisTest tests whether the sample kurtosis differs from that of a
// normal distribution (Anscombe-Glynn). Valid from five observations up; a
// BadInputSizes advisory flags samples below twenty where the approximation
// is rough.
func KurtosisTest(a []float64, policy NaNPolicy) (TestResult, error) {
	a, err := filterOne(a, policy)
	if err != nil {
		return TestResult{}, err
	}
	n := len(a)
	if n < 5 {
		return TestResult{}, core.NewInvalidArgument("kurtosistest requires at least 5 observations, got %d", n)
	}
	if hasNaN(a) {
		return TestResult{Statistic: math.NaN(), PValue: math.NaN()}, nil
	}

	d := &Diagnostics{}
	if n < 20 {
		d.add(BadInputSizes, "kurtosistest is only valid for n >= 20; continuing with n=%d", n)
	}

	fn := float64(n)
	b2 := kurtosisValue(a)
	e := 3 * (fn - 1) / (fn + 1)
	varb2 := 24 * fn * (fn - 2) * (fn - 3) / ((fn + 1) * (fn + 1) * (fn + 3) * (fn + 5))
	x := (b2 - e) / math.Sqrt(varb2)
	sqrtbeta1 := 6 * (fn*fn - 5*fn + 2) / ((fn + 7) * (fn + 9)) *
		math.Sqrt(6*(fn+3)*(fn+5)/(fn*(fn-2)*(fn-3)))
	aa := 6 + 8/sqrtbeta1*(2/sqrtbeta1+math.Sqrt(1+4/(sqrtbeta1*sqrtbeta1)))
	term1 := 1 - 2/(9*aa)
	denom := 1 + x*math.Sqrt(2/(aa-4))
	var term2 float64
	if denom == 0 {
		term2 = math.NaN()
	} else {
		term2 = math.Copysign(math.Cbrt((1-2/aa)/math.Abs(denom)), denom)
	}
	z := (term1 - term2) / math.Sqrt(2/(9*aa))
	return TestResult{
		Statistic:  z,
		PValue:     2 * dist.NormalSF(math.Abs(z)),
		Advisories: d.Advisories(),
	}, nil
}

// NormalTest combines the skew and kurtosis tests into D'Agostino-Pearson's
// omnibus K^2 statistic, chi-squared with two degrees of freedom under the
// null.
func NormalTest(a []float64, policy NaNPolicy) (TestResult, error) {
	s, err := SkewTest(a, policy)
	if err != nil {
		return TestResult{}, err
	}
	k, err := KurtosisTest(a, policy)
	if err != nil {
		return TestResult{}, err
	}
	k2 := s.Statistic*s.Statistic + k.Statistic*k.Statistic
	return TestResult{
		Statistic:  k2,
		PValue:     dist.ChiSquaredSF(k2, 2),
		Advisories: append(s.Advisories, k.Advisories...),
	}, nil
}

// JarqueBera tests normality through the sample skewness and excess
// kurtosis jointly, chi-squared with two degrees of freedom.
func JarqueBera(a []float64, policy NaNPolicy) (TestResult, error) {
	a, err := filterOne(a, policy)
	if err != nil {
		return TestResult{}, err
	}
	n := len(a)
	if n == 0 {
		return TestResult{}, core.NewInvalidArgument("jarque_bera requires at least one observation")
	}
	s := skewValue(a)
	k := kurtosisValue(a) - 3
	jb := float64(n) / 6 * (s*s + k*k/4)
	return TestResult{Statistic: jb, PValue: dist.ChiSquaredSF(jb, 2)}, nil
}
