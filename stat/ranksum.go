package stat

import (
	"math"
	"sort"

	"statkit/dist"
	"statkit/domain/core"
)

// mannWhitneyExactLimit bounds the larger sample size for the exact U
// distribution in auto mode. Above it the normal approximation is used.
// Empirical crossover, kept adjustable.
var mannWhitneyExactLimit = 25

// RankSums computes the Wilcoxon rank-sum statistic for two independent
// samples (which may differ in length) and the p-value from the large-sample
// normal approximation.
func RankSums(x, y []float64, alt Alternative, policy NaNPolicy) (TestResult, error) {
	if err := alt.validate(); err != nil {
		return TestResult{}, err
	}
	filtered, err := applyPolicy([][]float64{x, y}, policy, false)
	if err != nil {
		return TestResult{}, err
	}
	x, y = filtered[0], filtered[1]
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return TestResult{Statistic: math.NaN(), PValue: math.NaN()}, nil
	}
	if hasNaN(x) || hasNaN(y) {
		return TestResult{Statistic: math.NaN(), PValue: math.NaN()}, nil
	}

	combined := make([]float64, 0, n1+n2)
	combined = append(combined, x...)
	combined = append(combined, y...)
	ranks := RankData(combined)
	s := sum(ranks[:n1])

	n := float64(n1 + n2)
	expected := float64(n1) * (n + 1) / 2
	z := (s - expected) / math.Sqrt(float64(n1)*float64(n2)*(n+1)/12)

	var p float64
	switch alt {
	case Greater:
		p = dist.NormalSF(z)
	case Less:
		p = dist.NormalCDF(z)
	default:
		p = 2 * dist.NormalSF(math.Abs(z))
	}
	return TestResult{Statistic: z, PValue: p}, nil
}

// MannWhitneyOptions configures the Mann-Whitney U test.
type MannWhitneyOptions struct {
	NaNPolicy   NaNPolicy
	Alternative Alternative
	Method      Method
	// NoContinuity disables the 0.5 continuity correction in the normal
	// approximation.
	NoContinuity bool
}

// MannWhitneyU computes the Mann-Whitney U statistic of the first sample
// against the second. Sample lengths may differ.
//
// In auto mode the p-value is exact when the samples are small and tie-free,
// and the tie-corrected normal approximation otherwise; an ExactFallback
// advisory reports the switch when size forces it. Requesting the exact
// method with ties present is an error.
func MannWhitneyU(x, y []float64, opts MannWhitneyOptions) (TestResult, error) {
	if err := opts.Alternative.validate(); err != nil {
		return TestResult{}, err
	}
	if err := opts.Method.validate(); err != nil {
		return TestResult{}, err
	}
	filtered, err := applyPolicy([][]float64{x, y}, opts.NaNPolicy, false)
	if err != nil {
		return TestResult{}, err
	}
	x, y = filtered[0], filtered[1]
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return TestResult{Statistic: math.NaN(), PValue: math.NaN()}, nil
	}
	if hasNaN(x) || hasNaN(y) {
		return TestResult{Statistic: math.NaN(), PValue: math.NaN()}, nil
	}

	combined := make([]float64, 0, n1+n2)
	combined = append(combined, x...)
	combined = append(combined, y...)
	ranks := RankData(combined)
	r1 := sum(ranks[:n1])
	u1 := r1 - float64(n1)*float64(n1+1)/2

	tieSum := tieCorrectionSum(combined)
	hasTies := tieSum > 0

	d := &Diagnostics{}
	method := opts.Method
	if method == MethodExact && hasTies {
		return TestResult{}, core.NewInvalidArgument("the exact method does not permit ties in the input")
	}
	if method == MethodAuto {
		if !hasTies && n1 <= mannWhitneyExactLimit && n2 <= mannWhitneyExactLimit {
			method = MethodExact
		} else {
			if !hasTies {
				d.add(ExactFallback, "sample sizes (%d, %d) exceed the exact-method limit %d; using the normal approximation", n1, n2, mannWhitneyExactLimit)
			}
			method = MethodAsymptotic
		}
	}

	var p float64
	if method == MethodExact {
		p = mannWhitneyExactPValue(n1, n2, u1, opts.Alternative)
	} else {
		p = mannWhitneyAsymptoticPValue(n1, n2, u1, tieSum, opts.Alternative, !opts.NoContinuity)
	}
	return TestResult{Statistic: u1, PValue: p, Advisories: d.Advisories()}, nil
}

// mannWhitneyExactPValue evaluates the exact null distribution of U via the
// standard recurrence f(m, n, u) = f(m-1, n, u-n) + f(m, n-1, u), carried in
// count space.
func mannWhitneyExactPValue(n1, n2 int, u1 float64, alt Alternative) float64 {
	counts := exactUCounts(n1, n2)
	total := 0.0
	for _, c := range counts {
		total += c
	}
	cdf := func(u int) float64 {
		if u < 0 {
			return 0
		}
		if u >= len(counts)-1 {
			return 1
		}
		s := 0.0
		for i := 0; i <= u; i++ {
			s += counts[i]
		}
		return s / total
	}
	u := int(math.Round(u1))
	pLess := cdf(u)
	pMore := 1 - cdf(u-1)
	switch alt {
	case Greater:
		return math.Min(1, pMore)
	case Less:
		return math.Min(1, pLess)
	default:
		return math.Min(1, 2*math.Min(pLess, pMore))
	}
}

// exactUCounts returns the number of arrangements for each U value, using
// the recurrence over partitions with at most n1 parts each at most n2.
func exactUCounts(n1, n2 int) []float64 {
	umax := n1 * n2
	counts := make([]float64, umax+1)
	counts[0] = 1
	// counts after pass m holds g_m(u), the number of partitions of u into
	// at most m parts each <= n2, via
	//   g_m(u) = g_m(u-m) + g_{m-1}(u) - g_{m-1}(u-m-n2).
	for m := 1; m <= n1; m++ {
		next := make([]float64, umax+1)
		for u := 0; u <= umax; u++ {
			if u-m >= 0 {
				next[u] = next[u-m]
			}
			next[u] += counts[u]
			if u-m-n2 >= 0 {
				next[u] -= counts[u-m-n2]
			}
		}
		counts = next
	}
	return counts
}

func mannWhitneyAsymptoticPValue(n1, n2 int, u1, tieSum float64, alt Alternative, continuity bool) float64 {
	f1, f2 := float64(n1), float64(n2)
	n := f1 + f2
	mu := f1 * f2 / 2
	sigmaSq := f1 * f2 / 12 * ((n + 1) - tieSum/(n*(n-1)))
	if sigmaSq <= 0 {
		return math.NaN()
	}
	sigma := math.Sqrt(sigmaSq)
	cc := 0.0
	if continuity {
		cc = 0.5
	}
	switch alt {
	case Greater:
		return dist.NormalSF((u1 - mu - cc) / sigma)
	case Less:
		return dist.NormalCDF((u1 - mu + cc) / sigma)
	default:
		num := math.Abs(u1-mu) - cc
		if num < 0 {
			num = 0
		}
		return math.Min(1, 2*dist.NormalSF(num/sigma))
	}
}

// tieCorrectionSum returns Sum t^3 - t over the tie groups of the combined
// sample.
func tieCorrectionSum(a []float64) float64 {
	sorted := make([]float64, len(a))
	copy(sorted, a)
	sort.Float64s(sorted)
	s := 0.0
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[i] {
			j++
		}
		t := float64(j - i + 1)
		s += t*t*t - t
		i = j + 1
	}
	return s
}
