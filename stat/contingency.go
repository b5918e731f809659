package stat

import (
	"math"

	"statkit/dist"
	"statkit/domain/core"
)

// FisherExact performs Fisher's exact test on a 2x2 contingency table of
// non-negative integer counts. The p-value is exact under the
// hypergeometric null for all three alternatives; no asymptotic mode
// exists because the exact sum is linear in the table total.
func FisherExact(table [2][2]int, alt Alternative) (FisherExactResult, error) {
	if err := alt.validate(); err != nil {
		return FisherExactResult{}, err
	}
	a, b := table[0][0], table[0][1]
	c, cc := table[1][0], table[1][1]
	if a < 0 || b < 0 || c < 0 || cc < 0 {
		return FisherExactResult{}, core.NewInvalidArgument("all values in the contingency table must be non-negative")
	}

	var odds float64
	switch {
	case b*c == 0 && a*cc == 0:
		odds = math.NaN()
	case b*c == 0:
		odds = math.Inf(1)
	default:
		odds = float64(a) * float64(cc) / (float64(b) * float64(c))
	}

	popSize := a + b + c + cc
	if popSize == 0 {
		return FisherExactResult{OddsRatio: math.NaN(), PValue: 1}, nil
	}
	nSuccess := a + b // row-one total
	n := a + c        // column-one total

	lo := 0
	if n-(popSize-nSuccess) > 0 {
		lo = n - (popSize - nSuccess)
	}
	hi := nSuccess
	if n < hi {
		hi = n
	}

	pmf := func(k int) float64 {
		return math.Exp(dist.HypergeomLogPMF(k, nSuccess, popSize, n))
	}

	var p float64
	switch alt {
	case Less:
		for k := lo; k <= a; k++ {
			p += pmf(k)
		}
	case Greater:
		for k := a; k <= hi; k++ {
			p += pmf(k)
		}
	default:
		// Sum every table at most as probable as the observed one, with
		// a small relative slack against rounding in the PMF.
		obs := pmf(a)
		const slack = 1 + 1e-7
		for k := lo; k <= hi; k++ {
			if q := pmf(k); q <= obs*slack {
				p += q
			}
		}
	}
	if p > 1 {
		p = 1
	}
	return FisherExactResult{OddsRatio: odds, PValue: p}, nil
}

// ChiSquareContingency performs the chi-square test of independence on an
// r x c table. Yates' continuity correction is applied to 2x2 tables unless
// disabled. A zero row or column margin leaves expected frequencies
// undefined and is an error.
func ChiSquareContingency(observed [][]float64, correction bool) (ChiSquareResult, error) {
	rows := len(observed)
	if rows == 0 || len(observed[0]) == 0 {
		return ChiSquareResult{}, core.NewInvalidArgument("the contingency table must not be empty")
	}
	cols := len(observed[0])
	for _, row := range observed {
		if len(row) != cols {
			return ChiSquareResult{}, core.NewInvalidArgument("the contingency table must be rectangular")
		}
		for _, v := range row {
			if v < 0 || math.IsNaN(v) {
				return ChiSquareResult{}, core.NewInvalidArgument("all values in the contingency table must be non-negative")
			}
		}
	}

	rowSum := make([]float64, rows)
	colSum := make([]float64, cols)
	total := 0.0
	for i, row := range observed {
		for j, v := range row {
			rowSum[i] += v
			colSum[j] += v
			total += v
		}
	}
	for i, v := range rowSum {
		if v == 0 {
			return ChiSquareResult{}, core.NewInvalidArgument("row %d of the contingency table sums to zero", i)
		}
	}
	for j, v := range colSum {
		if v == 0 {
			return ChiSquareResult{}, core.NewInvalidArgument("column %d of the contingency table sums to zero", j)
		}
	}

	expected := make([][]float64, rows)
	chi2 := 0.0
	useYates := correction && rows == 2 && cols == 2
	for i := range observed {
		expected[i] = make([]float64, cols)
		for j := range observed[i] {
			e := rowSum[i] * colSum[j] / total
			expected[i][j] = e
			diff := math.Abs(observed[i][j] - e)
			if useYates {
				diff = math.Max(0, diff-0.5)
			}
			chi2 += diff * diff / e
		}
	}

	dof := (rows - 1) * (cols - 1)
	res := ChiSquareResult{Statistic: chi2, DoF: dof, Expected: expected}
	if dof == 0 {
		res.PValue = 1
	} else {
		res.PValue = dist.ChiSquaredSF(chi2, float64(dof))
	}
	return res, nil
}
