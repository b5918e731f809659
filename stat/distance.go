package stat

import (
	"math"
	"math/rand"

	"statkit/domain/core"
)

// DistanceCorrOptions configures the distance-correlation independence test.
type DistanceCorrOptions struct {
	NaNPolicy NaNPolicy
	// Permutations sets the resample count for the permutation p-value;
	// zero means the default of 200.
	Permutations int
	Seed         int64
}

// DistanceCorrelation computes the distance correlation between two paired
// samples and a permutation p-value for independence. Distance correlation
// is zero if and only if the variables are independent, so it detects
// nonlinear association that Pearson's r misses. The pairwise-distance
// formulation needs at least three observations.
func DistanceCorrelation(x, y []float64, opts DistanceCorrOptions) (CorrelationResult, error) {
	if len(x) != len(y) {
		return CorrelationResult{}, core.NewInvalidArgument("samples must have the same length, got %d and %d", len(x), len(y))
	}
	filtered, err := applyPolicy([][]float64{x, y}, opts.NaNPolicy, true)
	if err != nil {
		return CorrelationResult{}, err
	}
	x, y = filtered[0], filtered[1]
	n := len(x)
	if n < 3 {
		return CorrelationResult{}, core.NewInvalidArgument("distance correlation requires at least 3 observations, got %d", n)
	}
	if hasNaN(x) || hasNaN(y) {
		return CorrelationResult{Correlation: math.NaN(), PValue: math.NaN()}, nil
	}

	ax := centeredDistances(x)
	ay := centeredDistances(y)
	dcovXY := matrixMean(ax, ay)
	dvarX := matrixMean(ax, ax)
	dvarY := matrixMean(ay, ay)

	d := &Diagnostics{}
	if dvarX <= 0 || dvarY <= 0 {
		d.add(ConstantInput, "an input array is constant; distance correlation is not defined")
		return CorrelationResult{Correlation: math.NaN(), PValue: math.NaN(), Advisories: d.Advisories()}, nil
	}
	dcor := math.Sqrt(dcovXY / math.Sqrt(dvarX*dvarY))
	if math.IsNaN(dcor) {
		dcor = 0
	}

	perms := opts.Permutations
	if perms <= 0 {
		perms = 200
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	exceed := 0
	perm := make([][]float64, n)
	for i := range perm {
		perm[i] = make([]float64, n)
	}
	for r := 0; r < perms; r++ {
		rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				perm[i][j] = ay[idx[i]][idx[j]]
			}
		}
		permCov := matrixMean(ax, perm)
		permCor := math.Sqrt(math.Max(0, permCov) / math.Sqrt(dvarX*dvarY))
		if permCor >= dcor {
			exceed++
		}
	}
	p := float64(1+exceed) / float64(1+perms)

	return CorrelationResult{Correlation: dcor, PValue: p, Advisories: d.Advisories()}, nil
}

// centeredDistances builds the double-centered pairwise distance matrix:
// each entry minus its row mean and column mean, plus the grand mean.
func centeredDistances(a []float64) [][]float64 {
	n := len(a)
	m := make([][]float64, n)
	rowMean := make([]float64, n)
	grand := 0.0
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			d := math.Abs(a[i] - a[j])
			m[i][j] = d
			rowMean[i] += d
		}
		rowMean[i] /= float64(n)
		grand += rowMean[i]
	}
	grand /= float64(n)
	for i := range m {
		for j := range m[i] {
			m[i][j] += grand - rowMean[i] - rowMean[j]
		}
	}
	return m
}

func matrixMean(a, b [][]float64) float64 {
	n := len(a)
	s := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			s += a[i][j] * b[i][j]
		}
	}
	return s / float64(n*n)
}
