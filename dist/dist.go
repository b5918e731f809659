// Package dist provides unified access to the reference distributions the
// statistic kernels need for p-values. This replaces fragmented CDF
// calculations: every kernel goes through these stateless helpers.
package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalCDF computes the standard normal cumulative distribution function.
func NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalSF computes the standard normal survival function.
func NormalSF(x float64) float64 {
	return distuv.UnitNormal.Survival(x)
}

// NormalQuantile computes the standard normal inverse CDF.
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// StudentsTCDF computes the CDF of Student's t with df degrees of freedom.
func StudentsTCDF(t, df float64) float64 {
	if df <= 0 {
		return math.NaN()
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.CDF(t)
}

// StudentsTSF computes the survival function of Student's t.
func StudentsTSF(t, df float64) float64 {
	if df <= 0 {
		return math.NaN()
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Survival(t)
}

// ChiSquaredSF computes the survival function of chi-squared with k degrees
// of freedom.
func ChiSquaredSF(x, k float64) float64 {
	if k <= 0 {
		return math.NaN()
	}
	if x <= 0 {
		return 1
	}
	return distuv.ChiSquared{K: k}.Survival(x)
}

// FSF computes the survival function of the F distribution.
func FSF(x, d1, d2 float64) float64 {
	if d1 <= 0 || d2 <= 0 {
		return math.NaN()
	}
	if x <= 0 {
		return 1
	}
	return distuv.F{D1: d1, D2: d2}.Survival(x)
}

// KolmogorovSF computes the survival function of the Kolmogorov distribution,
// P(sup|B(t)| >= lambda), used by the asymptotic two-sample KS test.
func KolmogorovSF(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}
	sum := 0.0
	for k := 1; k <= 100; k++ {
		term := math.Exp(-2 * float64(k) * float64(k) * lambda * lambda)
		if k%2 == 1 {
			sum += term
		} else {
			sum -= term
		}
		if term < 1e-18 {
			break
		}
	}
	p := 2 * sum
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// HypergeomLogPMF computes the log of the hypergeometric probability of
// drawing k successes in a sample of size n from a population of size popSize
// containing nSuccess successes.
func HypergeomLogPMF(k, nSuccess, popSize, n int) float64 {
	if k < 0 || k > nSuccess || n-k > popSize-nSuccess || n-k < 0 {
		return math.Inf(-1)
	}
	return logChoose(nSuccess, k) + logChoose(popSize-nSuccess, n-k) - logChoose(popSize, n)
}

func logChoose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	ln1, _ := math.Lgamma(float64(n + 1))
	lk, _ := math.Lgamma(float64(k + 1))
	lnk, _ := math.Lgamma(float64(n - k + 1))
	return ln1 - lk - lnk
}
