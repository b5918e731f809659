package stat

import (
	"math"
	"testing"

	"statkit/domain/core"
)

func TestRankDataMidranks(t *testing.T) {
	got := RankData([]float64{3, 1, 4, 1, 5})
	want := []float64{3, 1.5, 4, 1.5, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranks = %v, want %v", got, want)
		}
	}

	got = RankData([]float64{2, 2, 2})
	for _, r := range got {
		if r != 2 {
			t.Fatalf("all-tied ranks = %v, want all 2", got)
		}
	}
}

func TestSpearmanNastyDatasets(t *testing.T) {
	for name, other := range map[string][]float64{
		"BIG": testBig, "LITTLE": testLittle, "HUGE": testHuge, "TINY": testTiny, "ROUND": testRound,
	} {
		res, err := SpearmanR(testX, other, Propagate)
		if err != nil {
			t.Fatalf("spearmanr(X, %s): %v", name, err)
		}
		checkClose(t, "rho(X, "+name+")", res.Correlation, 1.0, 1e-12)
	}
}

func TestSpearmanVsR(t *testing.T) {
	// cor.test(c(1,2,3,4,5), c(5,6,7,8,7), method="spearman")
	res, err := SpearmanR([]float64{1, 2, 3, 4, 5}, []float64{5, 6, 7, 8, 7}, Propagate)
	if err != nil {
		t.Fatalf("spearmanr: %v", err)
	}
	checkClose(t, "rho", res.Correlation, 0.82078268166812329, 1e-12)
	checkClose(t, "p", res.PValue, 0.088587005313543798, 1e-10)
}

func TestSpearmanNaNPolicies(t *testing.T) {
	x := withNaN([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 9)

	res, err := SpearmanR(x, x, Propagate)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	if !math.IsNaN(res.Correlation) || !math.IsNaN(res.PValue) {
		t.Fatalf("propagate: (%v, %v), want NaN, NaN", res.Correlation, res.PValue)
	}

	res, err = SpearmanR(x, x, Omit)
	if err != nil {
		t.Fatalf("omit: %v", err)
	}
	checkClose(t, "rho after omit", res.Correlation, 1.0, 1e-12)
	checkClose(t, "p after omit", res.PValue, 0.0, 1e-12)

	if _, err := SpearmanR(x, x, Raise); !core.IsInvalidInput(err) {
		t.Fatalf("raise: got %v, want invalid input", err)
	}
}

func TestSpearmanUnevenLengths(t *testing.T) {
	if _, err := SpearmanR([]float64{1, 2, 1}, []float64{8, 9}, Propagate); !core.IsInvalidArgument(err) {
		t.Fatalf("uneven lengths: got %v", err)
	}
}

func TestKendallExactNoTies(t *testing.T) {
	// Cross-checked with R: cor.test(x, y, method="kendall", exact=1)
	cases := []struct {
		x, y       []float64
		tau, p     float64
	}{
		{[]float64{5, 2, 1, 3, 6, 4, 7, 8}, []float64{5, 2, 6, 3, 1, 8, 7, 4}, 0.0, 1.0},
		{[]float64{0, 5, 2, 1, 3, 6, 4, 7, 8}, []float64{5, 2, 0, 6, 3, 1, 8, 7, 4}, 0.0, 1.0},
		{[]float64{5, 2, 1, 3, 6, 4, 7}, []float64{5, 2, 6, 3, 1, 7, 4}, -0.14285714286, 0.77261904762},
		{[]float64{2, 1, 3, 6, 4, 7, 8}, []float64{2, 6, 3, 1, 8, 7, 4}, 0.047619047619, 1.0},
	}
	for i, c := range cases {
		res, err := KendallTau(c.x, c.y, KendallOptions{})
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		checkClose(t, "tau", res.Correlation, c.tau, 1e-10)
		checkClose(t, "p", res.PValue, c.p, 1e-10)
	}
}

func TestKendallExactMonotone(t *testing.T) {
	x := make([]float64, 10)
	y := make([]float64, 10)
	rev := make([]float64, 10)
	for i := range x {
		x[i] = float64(i)
		y[i] = float64(i)
		rev[i] = float64(9 - i)
	}

	res, err := KendallTau(x, y, KendallOptions{})
	if err != nil {
		t.Fatalf("kendalltau: %v", err)
	}
	checkClose(t, "tau", res.Correlation, 1.0, 1e-12)
	checkClose(t, "p", res.PValue, 5.511463844797e-07, 1e-15)

	res, err = KendallTau(x, rev, KendallOptions{})
	if err != nil {
		t.Fatalf("kendalltau: %v", err)
	}
	checkClose(t, "tau", res.Correlation, -1.0, 1e-12)
	checkClose(t, "p", res.PValue, 5.511463844797e-07, 1e-15)

	// one swap away from perfect order
	y[1], y[2] = y[2], y[1]
	res, err = KendallTau(x, y, KendallOptions{})
	if err != nil {
		t.Fatalf("kendalltau: %v", err)
	}
	checkClose(t, "tau", res.Correlation, 0.9555555555555556, 1e-12)
	checkClose(t, "p", res.PValue, 5.511463844797e-06, 1e-14)

	y[5], y[6] = y[6], y[5]
	res, err = KendallTau(x, y, KendallOptions{})
	if err != nil {
		t.Fatalf("kendalltau: %v", err)
	}
	checkClose(t, "tau", res.Correlation, 0.9111111111111111, 1e-12)
	checkClose(t, "p", res.PValue, 2.976190476190e-05, 1e-13)
}

func TestKendallTiesUseAsymptotic(t *testing.T) {
	// cor.test(c(12,2,1,12,2), c(1,4,7,1,0), method="kendall", exact=FALSE)
	res, err := KendallTau([]float64{12, 2, 1, 12, 2}, []float64{1, 4, 7, 1, 0}, KendallOptions{})
	if err != nil {
		t.Fatalf("kendalltau: %v", err)
	}
	checkClose(t, "tau-b", res.Correlation, -0.47140452079103173, 1e-12)
	checkClose(t, "p", res.PValue, 0.28274545993277478, 1e-10)
}

func TestKendallExactRejectsTies(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{1, 1, 3, 4}
	if _, err := KendallTau(x, y, KendallOptions{Method: MethodExact}); !core.IsInvalidArgument(err) {
		t.Fatalf("exact with ties: got %v, want invalid argument", err)
	}
}

func TestKendallDegenerateInputs(t *testing.T) {
	for _, c := range [][2][]float64{
		{{2, 2, 2}, {2, 2, 2}},
		{{2, 0, 2}, {2, 2, 2}},
		{{2, 2, 2}, {2, 0, 2}},
	} {
		res, err := KendallTau(c[0], c[1], KendallOptions{})
		if err != nil {
			t.Fatalf("kendalltau(%v, %v): %v", c[0], c[1], err)
		}
		if !math.IsNaN(res.Correlation) || !math.IsNaN(res.PValue) {
			t.Fatalf("constant input: (%v, %v), want NaN, NaN", res.Correlation, res.PValue)
		}
		if !hasAdvisory(res.Advisories, ConstantInput) {
			t.Fatalf("constant input must carry an advisory")
		}
	}

	res, err := KendallTau(nil, nil, KendallOptions{})
	if err != nil {
		t.Fatalf("empty input: %v", err)
	}
	if !math.IsNaN(res.Correlation) || !math.IsNaN(res.PValue) {
		t.Fatalf("empty input: (%v, %v), want NaN, NaN", res.Correlation, res.PValue)
	}
}

func TestKendallExactFallbackAdvisory(t *testing.T) {
	n := kendallExactLimit + 5
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = math.Sin(float64(i) * 1.7)
	}
	res, err := KendallTau(x, y, KendallOptions{})
	if err != nil {
		t.Fatalf("kendalltau: %v", err)
	}
	if !hasAdvisory(res.Advisories, ExactFallback) {
		t.Fatalf("tie-free sample beyond the exact limit must carry an ExactFallback advisory")
	}
}
