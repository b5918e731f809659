package stat

// ExactLimits carries the auto-method crossover points between exact
// combinatorial p-values and asymptotic approximations. KSHard additionally
// bounds explicit exact requests: past it the lattice walk is downgraded to
// the asymptotic approximation with an advisory.
type ExactLimits struct {
	Kendall     int
	MannWhitney int
	KS          int
	KSHard      int
}

// DefaultExactLimits returns the built-in crossover points.
func DefaultExactLimits() ExactLimits {
	return ExactLimits{Kendall: 33, MannWhitney: 25, KS: 10000, KSHard: 25000000}
}

// ConfigureExactLimits overrides the auto-method crossover points for the
// whole package. Zero or negative fields are ignored. Not safe to call
// concurrently with evaluations.
func ConfigureExactLimits(l ExactLimits) {
	if l.Kendall > 0 {
		kendallExactLimit = l.Kendall
	}
	if l.MannWhitney > 0 {
		mannWhitneyExactLimit = l.MannWhitney
	}
	if l.KS > 0 {
		ksExactLimit = l.KS
	}
	if l.KSHard > 0 {
		ksExactHardLimit = l.KSHard
	}
}
