package stat

import (
	"math"
	"sort"

	mfstats "github.com/montanaflynn/stats"

	"statkit/domain/core"
)

// Basic shared helpers. All kernels center data before computing higher
// products so results stay accurate regardless of absolute magnitude.

func sum(a []float64) float64 {
	s := 0.0
	for _, v := range a {
		s += v
	}
	return s
}

func mean(a []float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	return sum(a) / float64(len(a))
}

// centralMoment computes the n-th central moment without overflow for large
// magnitudes: deviations are accumulated after centering.
func centralMoment(a []float64, order int) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	if order == 0 {
		return 1
	}
	if order == 1 {
		return 0
	}
	m := mean(a)
	s := 0.0
	for _, v := range a {
		d := v - m
		p := d
		for i := 1; i < order; i++ {
			p *= d
		}
		s += p
	}
	return s / float64(len(a))
}

func variance(a []float64, ddof int) float64 {
	n := len(a)
	if n-ddof <= 0 {
		return math.NaN()
	}
	m := mean(a)
	s := 0.0
	for _, v := range a {
		d := v - m
		s += d * d
	}
	return s / float64(n-ddof)
}

// stableNorm computes the Euclidean norm with scaling so that values up to
// 1e300 or down to 1e-245 neither overflow nor underflow when squared.
func stableNorm(a []float64) float64 {
	maxAbs := 0.0
	for _, v := range a {
		if av := math.Abs(v); av > maxAbs {
			maxAbs = av
		}
	}
	if maxAbs == 0 || math.IsInf(maxAbs, 0) || math.IsNaN(maxAbs) {
		return maxAbs * math.Sqrt(float64(len(a)))
	}
	s := 0.0
	for _, v := range a {
		d := v / maxAbs
		s += d * d
	}
	return maxAbs * math.Sqrt(s)
}

func filterOne(a []float64, policy NaNPolicy) ([]float64, error) {
	out, err := applyPolicy([][]float64{a}, policy, false)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Moment computes the order-th central moment of the sample. An empty sample
// yields NaN rather than an error.
func Moment(a []float64, order int, policy NaNPolicy) (float64, error) {
	if order < 0 {
		return 0, core.NewInvalidArgument("moment order must be non-negative, got %d", order)
	}
	a, err := filterOne(a, policy)
	if err != nil {
		return 0, err
	}
	return centralMoment(a, order), nil
}

// Skew computes the (biased) Fisher-Pearson coefficient of skewness.
func Skew(a []float64, policy NaNPolicy) (float64, error) {
	a, err := filterOne(a, policy)
	if err != nil {
		return 0, err
	}
	return skewValue(a), nil
}

func skewValue(a []float64) float64 {
	m2 := centralMoment(a, 2)
	m3 := centralMoment(a, 3)
	if m2 == 0 {
		return math.NaN()
	}
	return m3 / math.Pow(m2, 1.5)
}

// Kurtosis computes the (biased) excess kurtosis: the fourth standardized
// moment minus three.
func Kurtosis(a []float64, policy NaNPolicy) (float64, error) {
	a, err := filterOne(a, policy)
	if err != nil {
		return 0, err
	}
	return kurtosisValue(a) - 3, nil
}

// kurtosisValue is the Pearson (non-excess) kurtosis m4/m2^2.
func kurtosisValue(a []float64) float64 {
	m2 := centralMoment(a, 2)
	m4 := centralMoment(a, 4)
	if m2 == 0 {
		return math.NaN()
	}
	return m4 / (m2 * m2)
}

// Describe summarizes a sample: observation count, min/max, mean, sample
// variance (ddof=1), skewness and excess kurtosis.
func Describe(a []float64, policy NaNPolicy) (DescribeResult, error) {
	a, err := filterOne(a, policy)
	if err != nil {
		return DescribeResult{}, err
	}
	res := DescribeResult{NObs: len(a)}
	if len(a) == 0 {
		res.Min, res.Max, res.Mean = math.NaN(), math.NaN(), math.NaN()
		res.Variance, res.Skewness, res.Kurtosis = math.NaN(), math.NaN(), math.NaN()
		return res, nil
	}
	res.Min, res.Max = a[0], a[0]
	for _, v := range a {
		res.Min = math.Min(res.Min, v)
		res.Max = math.Max(res.Max, v)
	}
	res.Mean = mean(a)
	res.Variance = variance(a, 1)
	res.Skewness = skewValue(a)
	res.Kurtosis = kurtosisValue(a) - 3
	return res, nil
}

// SEM computes the standard error of the mean with the given delta degrees
// of freedom (1 for the conventional sample estimate).
func SEM(a []float64, ddof int, policy NaNPolicy) (float64, error) {
	a, err := filterOne(a, policy)
	if err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return math.NaN(), nil
	}
	return math.Sqrt(variance(a, ddof) / float64(len(a))), nil
}

// ZScore standardizes the sample relative to its own mean and standard
// deviation. The input is not modified.
func ZScore(a []float64, ddof int) ([]float64, error) {
	if len(a) == 0 {
		return nil, core.NewInvalidArgument("zscore requires at least one observation")
	}
	m := mean(a)
	sd := math.Sqrt(variance(a, ddof))
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = (v - m) / sd
	}
	return out, nil
}

// ZMap standardizes scores against the mean and standard deviation of a
// separate comparison sample. Neither input is modified.
func ZMap(scores, compare []float64, ddof int) ([]float64, error) {
	if len(compare) == 0 {
		return nil, core.NewInvalidArgument("zmap requires a non-empty comparison sample")
	}
	m := mean(compare)
	sd := math.Sqrt(variance(compare, ddof))
	out := make([]float64, len(scores))
	for i, v := range scores {
		out[i] = (v - m) / sd
	}
	return out, nil
}

// GMean computes the geometric mean. Non-positive or empty input yields NaN.
func GMean(a []float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	v, err := mfstats.GeometricMean(a)
	if err != nil {
		return math.NaN()
	}
	return v
}

// HMean computes the harmonic mean. Empty input yields NaN.
func HMean(a []float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	v, err := mfstats.HarmonicMean(a)
	if err != nil {
		return math.NaN()
	}
	return v
}

// IQR computes the interquartile range.
func IQR(a []float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	v, err := mfstats.InterQuartileRange(a)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Median computes the sample median.
func Median(a []float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	v, err := mfstats.Median(a)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Limits bounds the trimmed-statistics family. Values outside the closed or
// open interval (per the inclusive flags) are ignored.
type Limits struct {
	Lower          float64
	Upper          float64
	LowerInclusive bool
	UpperInclusive bool
}

func (l *Limits) keep(v float64) bool {
	if l == nil {
		return true
	}
	if l.LowerInclusive {
		if v < l.Lower {
			return false
		}
	} else if v <= l.Lower {
		return false
	}
	if l.UpperInclusive {
		if v > l.Upper {
			return false
		}
	} else if v >= l.Upper {
		return false
	}
	return true
}

func applyLimits(a []float64, limits *Limits) []float64 {
	if limits == nil {
		out := make([]float64, len(a))
		copy(out, a)
		return out
	}
	out := make([]float64, 0, len(a))
	for _, v := range a {
		if limits.keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// TMean computes the mean of values inside the limits. An empty result after
// trimming yields NaN.
func TMean(a []float64, limits *Limits, policy NaNPolicy) (float64, error) {
	a, err := filterOne(a, policy)
	if err != nil {
		return 0, err
	}
	kept := applyLimits(a, limits)
	if len(kept) == 0 {
		return math.NaN(), nil
	}
	v, err := mfstats.Mean(kept)
	if err != nil {
		return math.NaN(), nil
	}
	return v, nil
}

// TVar computes the sample variance (ddof=1) of values inside the limits.
func TVar(a []float64, limits *Limits, policy NaNPolicy) (float64, error) {
	a, err := filterOne(a, policy)
	if err != nil {
		return 0, err
	}
	kept := applyLimits(a, limits)
	if len(kept) == 0 {
		return math.NaN(), nil
	}
	return variance(kept, 1), nil
}

// TStd computes the sample standard deviation of values inside the limits.
func TStd(a []float64, limits *Limits, policy NaNPolicy) (float64, error) {
	v, err := TVar(a, limits, policy)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// TSem computes the standard error of the trimmed mean.
func TSem(a []float64, limits *Limits, policy NaNPolicy) (float64, error) {
	a, err := filterOne(a, policy)
	if err != nil {
		return 0, err
	}
	kept := applyLimits(a, limits)
	if len(kept) == 0 {
		return math.NaN(), nil
	}
	return math.Sqrt(variance(kept, 1) / float64(len(kept))), nil
}

// TMin returns the smallest value at or above the lower limit (nil for no
// limit). An empty result yields NaN.
func TMin(a []float64, lower *float64, inclusive bool, policy NaNPolicy) (float64, error) {
	a, err := filterOne(a, policy)
	if err != nil {
		return 0, err
	}
	out := math.NaN()
	for _, v := range a {
		if lower != nil {
			if inclusive {
				if v < *lower {
					continue
				}
			} else if v <= *lower {
				continue
			}
		}
		if math.IsNaN(out) || v < out {
			out = v
		}
	}
	return out, nil
}

// TMax returns the largest value at or below the upper limit (nil for no
// limit). An empty result yields NaN.
func TMax(a []float64, upper *float64, inclusive bool, policy NaNPolicy) (float64, error) {
	a, err := filterOne(a, policy)
	if err != nil {
		return 0, err
	}
	out := math.NaN()
	for _, v := range a {
		if upper != nil {
			if inclusive {
				if v > *upper {
					continue
				}
			} else if v >= *upper {
				continue
			}
		}
		if math.IsNaN(out) || v > out {
			out = v
		}
	}
	return out, nil
}

// TrimMean computes the mean after cutting the given proportion of sorted
// observations from each end. The caller's slice is not modified.
func TrimMean(a []float64, proportionToCut float64, policy NaNPolicy) (float64, error) {
	if proportionToCut < 0 || proportionToCut >= 0.5 {
		return 0, core.NewInvalidArgument("proportion to cut must be in [0, 0.5), got %g", proportionToCut)
	}
	a, err := filterOne(a, policy)
	if err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return math.NaN(), nil
	}
	sorted := make([]float64, len(a))
	copy(sorted, a)
	sort.Float64s(sorted)
	cut := int(proportionToCut * float64(len(sorted)))
	kept := sorted[cut : len(sorted)-cut]
	if len(kept) == 0 {
		return math.NaN(), nil
	}
	v, err := mfstats.Mean(kept)
	if err != nil {
		return math.NaN(), nil
	}
	return v, nil
}

// SigmaClip iteratively removes values more than low standard deviations
// below or high standard deviations above the mean until the sample is
// stable or maxIters passes have run (0 means iterate to convergence).
// The caller's input is never modified.
func SigmaClip(a []float64, low, high float64, maxIters int) (SigmaClipResult, error) {
	if low <= 0 || high <= 0 {
		return SigmaClipResult{}, core.NewInvalidArgument("clip factors must be positive, got low=%g high=%g", low, high)
	}
	clipped := make([]float64, len(a))
	copy(clipped, a)
	lower, upper := math.Inf(-1), math.Inf(1)
	for iter := 0; maxIters == 0 || iter < maxIters; iter++ {
		if len(clipped) == 0 {
			break
		}
		m := mean(clipped)
		sd := math.Sqrt(variance(clipped, 0))
		lower = m - low*sd
		upper = m + high*sd
		kept := clipped[:0:0]
		for _, v := range clipped {
			if v >= lower && v <= upper {
				kept = append(kept, v)
			}
		}
		if len(kept) == len(clipped) {
			break
		}
		clipped = kept
	}
	return SigmaClipResult{Clipped: clipped, Lower: lower, Upper: upper}, nil
}
