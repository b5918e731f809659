package stat

import (
	"math"

	"statkit/domain/core"
)

// NaNPolicy governs how NaN values in input samples affect computation.
type NaNPolicy int

const (
	// Propagate performs no filtering; IEEE NaN contagion through the
	// arithmetic poisons the affected result. This is the default.
	Propagate NaNPolicy = iota
	// Omit drops NaN-bearing positions before computation. For paired
	// samples a NaN in either sequence drops that index from both.
	Omit
	// Raise treats any NaN as a fatal input error.
	Raise
)

// ParseNaNPolicy maps the wire names onto a NaNPolicy.
func ParseNaNPolicy(s string) (NaNPolicy, error) {
	switch s {
	case "propagate":
		return Propagate, nil
	case "omit":
		return Omit, nil
	case "raise":
		return Raise, nil
	default:
		return 0, core.NewInvalidArgument("nan_policy must be one of 'propagate', 'omit' or 'raise', got %q", s)
	}
}

func (p NaNPolicy) String() string {
	switch p {
	case Propagate:
		return "propagate"
	case Omit:
		return "omit"
	case Raise:
		return "raise"
	default:
		return "unknown"
	}
}

func (p NaNPolicy) validate() error {
	if p < Propagate || p > Raise {
		return core.NewInvalidArgument("nan_policy must be one of 'propagate', 'omit' or 'raise'")
	}
	return nil
}

func hasNaN(a []float64) bool {
	for _, v := range a {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// applyPolicy filters the given slices according to the policy. The input
// slices are never mutated: Omit builds fresh slices, the other policies
// return the inputs untouched. paired controls whether omission removes the
// union of NaN positions in lock-step (paired tests) or filters each sample
// independently (unpaired tests).
func applyPolicy(slices [][]float64, policy NaNPolicy, paired bool) ([][]float64, error) {
	if err := policy.validate(); err != nil {
		return nil, err
	}
	switch policy {
	case Raise:
		for _, s := range slices {
			if hasNaN(s) {
				return nil, core.NewInvalidInput("input contains nan")
			}
		}
		return slices, nil
	case Omit:
		if !paired || len(slices) < 2 {
			out := make([][]float64, len(slices))
			for i, s := range slices {
				out[i] = dropNaN(s)
			}
			return out, nil
		}
		// Paired omission: pairing must be preserved, so positions where
		// any operand is NaN are removed from every operand.
		n := len(slices[0])
		for _, s := range slices[1:] {
			if len(s) != n {
				return nil, core.NewInvalidArgument("paired samples must have equal length, got %d and %d", n, len(s))
			}
		}
		keep := make([]bool, n)
		kept := 0
		for i := 0; i < n; i++ {
			ok := true
			for _, s := range slices {
				if math.IsNaN(s[i]) {
					ok = false
					break
				}
			}
			keep[i] = ok
			if ok {
				kept++
			}
		}
		out := make([][]float64, len(slices))
		for j, s := range slices {
			f := make([]float64, 0, kept)
			for i, ok := range keep {
				if ok {
					f = append(f, s[i])
				}
			}
			out[j] = f
		}
		return out, nil
	default:
		return slices, nil
	}
}

func dropNaN(a []float64) []float64 {
	out := make([]float64, 0, len(a))
	for _, v := range a {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
