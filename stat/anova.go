package stat

import (
	"math"

	"statkit/dist"
	"statkit/domain/core"
)

// FOneway performs a one-way ANOVA across two or more groups. Group sizes
// may differ. A fully empty group is a recoverable condition: it yields a
// DegenerateGroup advisory and NaN outputs rather than a fatal error.
//
// All sums of squares are formed after centering by the grand mean, so
// groups offset far from zero lose no precision.
func FOneway(groups ...[]float64) (TestResult, error) {
	return FOnewayPolicy(Propagate, groups...)
}

// FOnewayPolicy is FOneway with an explicit NaN policy.
func FOnewayPolicy(policy NaNPolicy, groups ...[]float64) (TestResult, error) {
	if len(groups) < 2 {
		return TestResult{}, core.NewInvalidArgument("at least two groups are required, got %d", len(groups))
	}
	filtered, err := applyPolicy(groups, policy, false)
	if err != nil {
		return TestResult{}, err
	}
	groups = filtered

	d := &Diagnostics{}
	totalN := 0
	for i, g := range groups {
		if len(g) == 0 {
			d.add(DegenerateGroup, "group %d is empty", i)
			return TestResult{Statistic: math.NaN(), PValue: math.NaN(), Advisories: d.Advisories()}, nil
		}
		totalN += len(g)
	}
	if totalN <= len(groups) {
		d.add(DegenerateGroup, "no within-group degrees of freedom")
		return TestResult{Statistic: math.NaN(), PValue: math.NaN(), Advisories: d.Advisories()}, nil
	}

	grand := 0.0
	for _, g := range groups {
		grand += sum(g)
	}
	grand /= float64(totalN)

	ssTot, ssBetween := 0.0, 0.0
	for _, g := range groups {
		gm := mean(g) - grand
		ssBetween += float64(len(g)) * gm * gm
		for _, v := range g {
			dv := v - grand
			ssTot += dv * dv
		}
	}
	ssWithin := ssTot - ssBetween

	dfBetween := float64(len(groups) - 1)
	dfWithin := float64(totalN - len(groups))
	msBetween := ssBetween / dfBetween
	msWithin := ssWithin / dfWithin

	if msWithin == 0 {
		if msBetween == 0 {
			d.add(ConstantInput, "all values are identical; F is not defined")
			return TestResult{Statistic: math.NaN(), PValue: math.NaN(), Advisories: d.Advisories()}, nil
		}
		return TestResult{Statistic: math.Inf(1), PValue: 0, Advisories: d.Advisories()}, nil
	}

	f := msBetween / msWithin
	return TestResult{
		Statistic:  f,
		PValue:     dist.FSF(f, dfBetween, dfWithin),
		Advisories: d.Advisories(),
	}, nil
}
