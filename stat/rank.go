package stat

import (
	"math"
	"sort"

	"statkit/dist"
	"statkit/domain/core"
)

// kendallExactLimit is the auto-mode crossover between the exact permutation
// distribution and the normal approximation. The value is empirical tuning,
// not a law; it is a variable so callers with different budgets can move it.
var kendallExactLimit = 33

// RankData assigns ranks to the sample, averaging ranks over ties
// (midranks). The input is not modified.
func RankData(a []float64) []float64 {
	n := len(a)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return a[idx[i]] < a[idx[j]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && a[idx[j+1]] == a[idx[i]] {
			j++
		}
		// ranks i+1..j+1 averaged over the tie group
		r := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = r
		}
		i = j + 1
	}
	return ranks
}

// SpearmanR computes the Spearman rank-order correlation coefficient and the
// two-sided p-value from the t approximation. Fewer than two usable
// observations yield (NaN, NaN).
func SpearmanR(x, y []float64, policy NaNPolicy) (CorrelationResult, error) {
	if len(x) != len(y) {
		return CorrelationResult{}, core.NewInvalidArgument("samples must have the same length, got %d and %d", len(x), len(y))
	}
	filtered, err := applyPolicy([][]float64{x, y}, policy, true)
	if err != nil {
		return CorrelationResult{}, err
	}
	x, y = filtered[0], filtered[1]
	n := len(x)
	if n < 2 {
		return CorrelationResult{Correlation: math.NaN(), PValue: math.NaN()}, nil
	}
	if hasNaN(x) || hasNaN(y) {
		return CorrelationResult{Correlation: math.NaN(), PValue: math.NaN()}, nil
	}

	d := &Diagnostics{}
	rho := pearsonCore(RankData(x), RankData(y), d)
	res := CorrelationResult{Correlation: rho, Advisories: d.Advisories()}
	if math.IsNaN(rho) {
		res.PValue = math.NaN()
		return res, nil
	}
	if math.Abs(rho) >= 1 {
		res.PValue = 0
		return res, nil
	}
	df := float64(n - 2)
	if df <= 0 {
		res.PValue = 1
		return res, nil
	}
	t := rho * math.Sqrt(df/((1-rho)*(1+rho)))
	res.PValue = 2 * dist.StudentsTSF(math.Abs(t), df)
	return res, nil
}

// KendallOptions configures the Kendall tau kernel.
type KendallOptions struct {
	NaNPolicy   NaNPolicy
	Method      Method
	Alternative Alternative
}

// KendallTau computes Kendall's tau-b rank correlation.
//
// In auto mode the p-value is exact for small tie-free samples and switches
// to the normal approximation (with tie correction) otherwise, reporting an
// ExactFallback advisory when size forces the switch. Requesting the exact
// method with ties present is an error: the exact distribution assumes none.
func KendallTau(x, y []float64, opts KendallOptions) (CorrelationResult, error) {
	if err := opts.Method.validate(); err != nil {
		return CorrelationResult{}, err
	}
	if err := opts.Alternative.validate(); err != nil {
		return CorrelationResult{}, err
	}
	if len(x) != len(y) {
		return CorrelationResult{}, core.NewInvalidArgument("samples must have the same length, got %d and %d", len(x), len(y))
	}
	filtered, err := applyPolicy([][]float64{x, y}, opts.NaNPolicy, true)
	if err != nil {
		return CorrelationResult{}, err
	}
	x, y = filtered[0], filtered[1]
	n := len(x)
	if n < 2 || hasNaN(x) || hasNaN(y) {
		return CorrelationResult{Correlation: math.NaN(), PValue: math.NaN()}, nil
	}

	var con, dis, xtie, ytie int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := sign(x[i] - x[j])
			dy := sign(y[i] - y[j])
			switch {
			case dx == 0 && dy == 0:
				xtie++
				ytie++
			case dx == 0:
				xtie++
			case dy == 0:
				ytie++
			case dx == dy:
				con++
			default:
				dis++
			}
		}
	}
	tot := n * (n - 1) / 2

	d := &Diagnostics{}
	if xtie == tot || ytie == tot {
		d.add(ConstantInput, "an input array is constant; tau is not defined")
		return CorrelationResult{Correlation: math.NaN(), PValue: math.NaN(), Advisories: d.Advisories()}, nil
	}

	tau := float64(con-dis) / math.Sqrt(float64(tot-xtie)*float64(tot-ytie))
	tau = clampCorrelation(tau)

	method := opts.Method
	hasTies := xtie > 0 || ytie > 0
	if method == MethodExact && hasTies {
		return CorrelationResult{}, core.NewInvalidArgument("the exact method does not permit ties in the input")
	}
	if method == MethodAuto {
		if !hasTies && n <= kendallExactLimit {
			method = MethodExact
		} else {
			if !hasTies && n > kendallExactLimit {
				d.add(ExactFallback, "sample size %d exceeds the exact-method limit %d; using the normal approximation", n, kendallExactLimit)
			}
			method = MethodAsymptotic
		}
	}

	var p float64
	if method == MethodExact {
		p = kendallExactPValue(n, dis, opts.Alternative)
	} else {
		p = kendallAsymptoticPValue(x, y, con-dis, opts.Alternative)
	}
	return CorrelationResult{Correlation: tau, PValue: p, Advisories: d.Advisories()}, nil
}

// kendallExactPValue computes the p-value from the exact null distribution
// of the discordant-pair count over all permutations, built by convolving
// the uniform inversion counts step by step in probability space so no
// factorial ever overflows.
func kendallExactPValue(n, dis int, alt Alternative) float64 {
	probs := []float64{1}
	for i := 2; i <= n; i++ {
		next := make([]float64, len(probs)+i-1)
		window := 0.0
		for k := 0; k < len(next); k++ {
			if k < len(probs) {
				window += probs[k]
			}
			if k-i >= 0 {
				window -= probs[k-i]
			}
			next[k] = window / float64(i)
		}
		probs = next
	}
	cdf := func(k int) float64 {
		if k < 0 {
			return 0
		}
		if k >= len(probs)-1 {
			return 1
		}
		s := 0.0
		for j := 0; j <= k; j++ {
			s += probs[j]
		}
		return s
	}
	pLess := cdf(dis)         // P(Dis <= dis) = P(Tau >= observed)
	pMore := 1 - cdf(dis-1)   // P(Dis >= dis) = P(Tau <= observed)
	switch alt {
	case Greater:
		return math.Min(1, pLess)
	case Less:
		return math.Min(1, pMore)
	default:
		return math.Min(1, 2*math.Min(pLess, pMore))
	}
}

// kendallAsymptoticPValue uses the normal approximation with the standard
// tie correction for the variance of con-dis.
func kendallAsymptoticPValue(x, y []float64, conMinusDis int, alt Alternative) float64 {
	n := float64(len(x))
	m := n * (n - 1)
	xt1, xt2, xt3 := tieTerms(x)
	yt1, yt2, yt3 := tieTerms(y)

	v := (m*(2*n+5) - xt1 - yt1) / 18
	v += xt2 * yt2 / (2 * m)
	if n > 2 {
		v += xt3 * yt3 / (9 * m * (n - 2))
	}
	if v <= 0 {
		return math.NaN()
	}
	z := float64(conMinusDis) / math.Sqrt(v)
	switch alt {
	case Greater:
		return dist.NormalSF(z)
	case Less:
		return dist.NormalCDF(z)
	default:
		return 2 * dist.NormalSF(math.Abs(z))
	}
}

// tieTerms returns Sum t(t-1)(2t+5), Sum t(t-1) and Sum t(t-1)(t-2) over the
// tie groups of a.
func tieTerms(a []float64) (t1, t2, t3 float64) {
	sorted := make([]float64, len(a))
	copy(sorted, a)
	sort.Float64s(sorted)
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[i] {
			j++
		}
		t := float64(j - i + 1)
		t1 += t * (t - 1) * (2*t + 5)
		t2 += t * (t - 1)
		t3 += t * (t - 1) * (t - 2)
		i = j + 1
	}
	return t1, t2, t3
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
