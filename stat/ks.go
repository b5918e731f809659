package stat

import (
	"math"
	"sort"

	"statkit/dist"
)

// ksExactLimit bounds n1*n2 for the exact path-counting p-value in auto
// mode; ksExactHardLimit is the point past which even an explicit exact
// request is downgraded because the lattice walk is too expensive.
var (
	ksExactLimit     = 10000
	ksExactHardLimit = 25000000
)

// KSOptions configures the two-sample Kolmogorov-Smirnov test.
type KSOptions struct {
	NaNPolicy   NaNPolicy
	Alternative Alternative
	Method      Method
}

// KS2Samp computes the two-sample Kolmogorov-Smirnov statistic. Sample
// lengths may differ. The statistic is the supremum difference of the two
// empirical CDFs: both directions for two-sided, F1-F2 for greater, F2-F1
// for less.
//
// In auto mode the p-value is exact (lattice path counting) when n1*n2 is
// small and the asymptotic Kolmogorov distribution otherwise. An explicit
// exact request past the memory limit is downgraded with an ExactFallback
// advisory.
func KS2Samp(x, y []float64, opts KSOptions) (TestResult, error) {
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

	sx := make([]float64, n1)
	copy(sx, x)
	sort.Float64s(sx)
	sy := make([]float64, n2)
	copy(sy, y)
	sort.Float64s(sy)

	// CDF differences in integer units of 1/(n1*n2): at a point with i of
	// x and j of y consumed, F1-F2 = (i*n2 - j*n1)/(n1*n2). Integer
	// arithmetic keeps the boundary comparisons in the exact p-value free
	// of float rounding.
	dPlus, dMinus := 0, 0
	i, j := 0, 0
	for i < n1 || j < n2 {
		var v float64
		switch {
		case i >= n1:
			v = sy[j]
		case j >= n2:
			v = sx[i]
		default:
			v = math.Min(sx[i], sy[j])
		}
		for i < n1 && sx[i] == v {
			i++
		}
		for j < n2 && sy[j] == v {
			j++
		}
		diff := i*n2 - j*n1
		if diff > dPlus {
			dPlus = diff
		}
		if -diff > dMinus {
			dMinus = -diff
		}
	}

	var h int
	switch opts.Alternative {
	case Greater:
		h = dPlus
	case Less:
		h = dMinus
	default:
		h = dPlus
		if dMinus > h {
			h = dMinus
		}
	}
	stat := float64(h) / float64(n1*n2)

	d := &Diagnostics{}
	method := opts.Method
	if method == MethodExact && n1*n2 > ksExactHardLimit {
		d.add(ExactFallback, "lattice of %d cells exceeds the exact-method limit; using the asymptotic approximation", n1*n2)
		method = MethodAsymptotic
	}
	if method == MethodAuto {
		if n1*n2 <= ksExactLimit {
			method = MethodExact
		} else {
			method = MethodAsymptotic
		}
	}

	var p float64
	if method == MethodExact {
		p = ksExactPValue(n1, n2, h, opts.Alternative == TwoSided)
	} else {
		p = ksAsymptoticPValue(n1, n2, stat, opts.Alternative == TwoSided)
	}
	return TestResult{Statistic: stat, PValue: p, Advisories: d.Advisories()}, nil
}

// ksExactPValue computes one minus the probability that a uniformly random
// monotone lattice path from (0,0) to (n1,n2) stays inside |i*n2 - j*n1| < h
// (one-sided: i*n2 - j*n1 < h). The recursion carries path fractions rather
// than raw counts: a random path reaches (i,j) from (i-1,j) with probability
// i/(i+j) and from (i,j-1) with probability j/(i+j), so every intermediate
// value lives in [0,1] and no binomial normalizer is ever formed. Raw counts
// overflow float64 near n1+n2 = 1030; this form is finite at any size.
func ksExactPValue(n1, n2, h int, twoSided bool) float64 {
	if h == 0 {
		return 1
	}
	inside := func(i, j int) bool {
		diff := i*n2 - j*n1
		if twoSided {
			return diff < h && -diff < h
		}
		return diff < h
	}
	row := make([]float64, n2+1)
	row[0] = 1
	for j := 1; j <= n2; j++ {
		if inside(0, j) {
			row[j] = row[j-1]
		}
	}
	for i := 1; i <= n1; i++ {
		// (i,0) is reached from (i-1,0) with probability one.
		if !inside(i, 0) {
			row[0] = 0
		}
		for j := 1; j <= n2; j++ {
			if !inside(i, j) {
				row[j] = 0
				continue
			}
			fi, fj := float64(i), float64(j)
			row[j] = (row[j]*fi + row[j-1]*fj) / (fi + fj)
		}
	}
	p := 1 - row[n2]
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func ksAsymptoticPValue(n1, n2 int, d float64, twoSided bool) float64 {
	en := float64(n1) * float64(n2) / float64(n1+n2)
	if twoSided {
		return dist.KolmogorovSF(math.Sqrt(en) * d)
	}
	p := math.Exp(-2 * en * d * d)
	if p > 1 {
		return 1
	}
	return p
}
