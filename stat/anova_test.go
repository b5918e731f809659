package stat

import (
	"math"
	"testing"

	"statkit/domain/core"
)

func TestFOnewayTrivial(t *testing.T) {
	res, err := FOneway([]float64{0, 2}, []float64{0, 2})
	if err != nil {
		t.Fatalf("f_oneway: %v", err)
	}
	checkClose(t, "F", res.Statistic, 0, 0)
	checkClose(t, "p", res.PValue, 1, 1e-14)
}

func TestFOnewayBasic(t *testing.T) {
	// this data makes F exactly 2.0 despite the floating point path
	res, err := FOneway([]float64{0, 2}, []float64{2, 4})
	if err != nil {
		t.Fatalf("f_oneway: %v", err)
	}
	checkClose(t, "F", res.Statistic, 2.0, 1e-14)
	checkClose(t, "p", res.PValue, 1-math.Sqrt(0.5), 1e-13)
}

func TestFOnewayKnownExact(t *testing.T) {
	res, err := FOneway([]float64{2}, []float64{2}, []float64{2, 3, 4})
	if err != nil {
		t.Fatalf("f_oneway: %v", err)
	}
	checkClose(t, "F", res.Statistic, 3.0/5, 1e-14)
	checkClose(t, "p", res.PValue, 5.0/8, 1e-13)
}

func TestFOnewayLargeOffset(t *testing.T) {
	// verified to 40 digits with mpmath; centering keeps the precision
	res, err := FOneway([]float64{655, 788}, []float64{789, 772})
	if err != nil {
		t.Fatalf("f_oneway: %v", err)
	}
	checkClose(t, "F", res.Statistic, 0.77450216931805540, 1e-13)
}

func TestFOnewayTooFewGroups(t *testing.T) {
	if _, err := FOneway([]float64{1, 2, 3}); !core.IsInvalidArgument(err) {
		t.Fatalf("one group: got %v, want invalid argument", err)
	}
}

func TestFOnewayEmptyGroup(t *testing.T) {
	res, err := FOneway([]float64{1, 2}, nil, []float64{3, 4})
	if err != nil {
		t.Fatalf("f_oneway: %v", err)
	}
	if !math.IsNaN(res.Statistic) || !math.IsNaN(res.PValue) {
		t.Fatalf("empty group: (%v, %v), want NaN, NaN", res.Statistic, res.PValue)
	}
	if !hasAdvisory(res.Advisories, DegenerateGroup) {
		t.Fatalf("empty group must carry a DegenerateGroup advisory")
	}
}

func TestFOnewayNoWithinDF(t *testing.T) {
	res, err := FOneway([]float64{1}, []float64{2})
	if err != nil {
		t.Fatalf("f_oneway: %v", err)
	}
	if !math.IsNaN(res.Statistic) {
		t.Fatalf("singleton groups: F = %v, want NaN", res.Statistic)
	}
	if !hasAdvisory(res.Advisories, DegenerateGroup) {
		t.Fatalf("singleton groups must carry a DegenerateGroup advisory")
	}
}

func TestFOnewayConstantInput(t *testing.T) {
	res, err := FOneway([]float64{5, 5, 5}, []float64{5, 5})
	if err != nil {
		t.Fatalf("f_oneway: %v", err)
	}
	if !math.IsNaN(res.Statistic) {
		t.Fatalf("all identical: F = %v, want NaN", res.Statistic)
	}
	if !hasAdvisory(res.Advisories, ConstantInput) {
		t.Fatalf("all-identical input must carry a ConstantInput advisory")
	}
}

func TestFOnewayZeroWithinVariance(t *testing.T) {
	res, err := FOneway([]float64{1, 1, 1}, []float64{2, 2, 2})
	if err != nil {
		t.Fatalf("f_oneway: %v", err)
	}
	if !math.IsInf(res.Statistic, 1) {
		t.Fatalf("separated constant groups: F = %v, want +Inf", res.Statistic)
	}
	checkClose(t, "p", res.PValue, 0, 0)
}

func TestFOnewayNaNPolicies(t *testing.T) {
	a := withNaN([]float64{0, 2, 4}, 2)
	b := []float64{2, 4}

	res, err := FOnewayPolicy(Omit, a, b)
	if err != nil {
		t.Fatalf("omit: %v", err)
	}
	want, err := FOneway([]float64{0, 2}, b)
	if err != nil {
		t.Fatalf("f_oneway: %v", err)
	}
	checkClose(t, "F after omit", res.Statistic, want.Statistic, 1e-14)
	checkClose(t, "p after omit", res.PValue, want.PValue, 1e-14)

	if _, err := FOnewayPolicy(Raise, a, b); !core.IsInvalidInput(err) {
		t.Fatalf("raise: got %v, want invalid input", err)
	}
}
