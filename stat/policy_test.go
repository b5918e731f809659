package stat

import (
	"math"
	"testing"

	"statkit/domain/core"
)

func TestParseNaNPolicy(t *testing.T) {
	cases := map[string]NaNPolicy{
		"propagate": Propagate,
		"omit":      Omit,
		"raise":     Raise,
	}
	for name, want := range cases {
		got, err := ParseNaNPolicy(name)
		if err != nil {
			t.Fatalf("ParseNaNPolicy(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseNaNPolicy(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseNaNPolicy("foobar"); !core.IsInvalidArgument(err) {
		t.Fatalf("ParseNaNPolicy(foobar): got %v, want invalid argument", err)
	}
	if _, err := ParseNaNPolicy(""); err == nil {
		t.Fatalf("empty policy must not parse")
	}
}

func TestApplyPolicyRaise(t *testing.T) {
	clean := [][]float64{{1, 2}, {3, 4}}
	if _, err := applyPolicy(clean, Raise, true); err != nil {
		t.Fatalf("raise on clean input: %v", err)
	}
	dirty := [][]float64{{1, math.NaN()}, {3, 4}}
	if _, err := applyPolicy(dirty, Raise, true); !core.IsInvalidInput(err) {
		t.Fatalf("raise on NaN input: got %v, want invalid input", err)
	}
}

func TestApplyPolicyPairedOmitLockstep(t *testing.T) {
	x := []float64{1, math.NaN(), 3, 4}
	y := []float64{10, 20, math.NaN(), 40}
	out, err := applyPolicy([][]float64{x, y}, Omit, true)
	if err != nil {
		t.Fatalf("omit: %v", err)
	}
	if len(out[0]) != 2 || len(out[1]) != 2 {
		t.Fatalf("lengths after paired omit: %d, %d (want 2, 2)", len(out[0]), len(out[1]))
	}
	if out[0][0] != 1 || out[0][1] != 4 || out[1][0] != 10 || out[1][1] != 40 {
		t.Fatalf("paired omit kept wrong positions: %v, %v", out[0], out[1])
	}
}

func TestApplyPolicyUnpairedOmitIsIndependent(t *testing.T) {
	x := []float64{1, math.NaN(), 3}
	y := []float64{10, 20, 30, math.NaN(), 50}
	out, err := applyPolicy([][]float64{x, y}, Omit, false)
	if err != nil {
		t.Fatalf("omit: %v", err)
	}
	if len(out[0]) != 2 || len(out[1]) != 4 {
		t.Fatalf("lengths after unpaired omit: %d, %d (want 2, 4)", len(out[0]), len(out[1]))
	}
}

func TestApplyPolicyPairedOmitRequiresEqualLengths(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{1, 2}
	if _, err := applyPolicy([][]float64{x, y}, Omit, true); !core.IsInvalidArgument(err) {
		t.Fatalf("unequal paired lengths: got %v, want invalid argument", err)
	}
}

func TestApplyPolicyNeverMutatesInputs(t *testing.T) {
	x := []float64{1, math.NaN(), 3}
	y := []float64{math.NaN(), 2, 3}
	xBits := append([]float64(nil), x...)
	yBits := append([]float64(nil), y...)

	for _, policy := range []NaNPolicy{Propagate, Omit} {
		for _, paired := range []bool{true, false} {
			if _, err := applyPolicy([][]float64{x, y}, policy, paired); err != nil {
				t.Fatalf("applyPolicy(%v, paired=%v): %v", policy, paired, err)
			}
		}
	}

	for i := range x {
		if math.Float64bits(x[i]) != math.Float64bits(xBits[i]) || math.Float64bits(y[i]) != math.Float64bits(yBits[i]) {
			t.Fatalf("inputs mutated: %v, %v", x, y)
		}
	}
}

func TestApplyPolicyPropagatePassesThrough(t *testing.T) {
	x := []float64{1, math.NaN()}
	out, err := applyPolicy([][]float64{x}, Propagate, false)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	if len(out[0]) != 2 {
		t.Fatalf("propagate must not filter, got %v", out[0])
	}
}
