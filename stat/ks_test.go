package stat

import (
	"math"
	"testing"
)

func ksCheck(t *testing.T, x, y []float64, alt Alternative, method Method, wantStat, wantP float64) {
	t.Helper()
	res, err := KS2Samp(x, y, KSOptions{Alternative: alt, Method: method})
	if err != nil {
		t.Fatalf("ks_2samp: %v", err)
	}
	checkClose(t, "statistic", res.Statistic, wantStat, 1e-12)
	checkClose(t, "pvalue", res.PValue, wantP, 1e-10)
}

func TestKSSingleObservations(t *testing.T) {
	ksCheck(t, []float64{0}, []float64{1}, TwoSided, MethodAuto, 1, 1)
	ksCheck(t, []float64{0}, []float64{1}, Greater, MethodAuto, 1, 0.5)
	ksCheck(t, []float64{0}, []float64{1}, Less, MethodAuto, 0, 1)
	ksCheck(t, []float64{1}, []float64{0}, TwoSided, MethodAuto, 1, 1)
	ksCheck(t, []float64{1}, []float64{0}, Greater, MethodAuto, 0, 1)
	ksCheck(t, []float64{1}, []float64{0}, Less, MethodAuto, 1, 0.5)
}

func TestKSTwoVsThree(t *testing.T) {
	data1p := []float64{1.01, 2.01}
	data1m := []float64{0.99, 1.99}
	data2 := []float64{1, 2, 3}

	ksCheck(t, data1p, data2, TwoSided, MethodAuto, 1.0/3, 1.0)
	ksCheck(t, data1p, data2, Greater, MethodAuto, 1.0/3, 0.7)
	ksCheck(t, data1p, data2, Less, MethodAuto, 1.0/3, 0.7)
	ksCheck(t, data1m, data2, TwoSided, MethodAuto, 2.0/3, 0.6)
	ksCheck(t, data1m, data2, Greater, MethodAuto, 2.0/3, 0.3)
	ksCheck(t, data1m, data2, Less, MethodAuto, 0, 1.0)
}

func TestKSTwoVsFour(t *testing.T) {
	data1p := []float64{1.01, 2.01}
	data1m := []float64{0.99, 1.99}
	data2 := []float64{1, 2, 3, 4}

	ksCheck(t, data1p, data2, TwoSided, MethodAuto, 2.0/4, 14.0/15)
	ksCheck(t, data1p, data2, Greater, MethodAuto, 2.0/4, 8.0/15)
	ksCheck(t, data1p, data2, Less, MethodAuto, 1.0/4, 12.0/15)
	ksCheck(t, data1m, data2, TwoSided, MethodAuto, 3.0/4, 6.0/15)
	ksCheck(t, data1m, data2, Greater, MethodAuto, 3.0/4, 3.0/15)
	ksCheck(t, data1m, data2, Less, MethodAuto, 0, 1.0)
}

func TestKSHundredVsHundred(t *testing.T) {
	x100 := linspace(1, 100, 100)
	shifted := make([]float64, 100)
	for i, v := range x100 {
		shifted[i] = v + 2.1
	}
	ksCheck(t, x100, shifted, TwoSided, MethodAuto, 3.0/100, 0.9999999999962055)
	ksCheck(t, x100, shifted, Greater, MethodAuto, 3.0/100, 0.9143290114276248)
	ksCheck(t, x100, shifted, Less, MethodAuto, 0, 1.0)
}

func TestKSHundredVsHundredTenExact(t *testing.T) {
	x100 := linspace(1, 100, 100)
	x110 := linspace(1, 100, 110)
	p1 := make([]float64, len(x110))
	for i, v := range x110 {
		p1[i] = v + 20.1
	}
	ksCheck(t, x100, p1, TwoSided, MethodExact, 232.0/1100, 0.015739183865607353)
	ksCheck(t, x100, p1, Greater, MethodExact, 232.0/1100, 0.007869594319053203)
	ksCheck(t, x100, p1, Less, MethodExact, 0, 1.0)
}

func TestKSRepeatedValues(t *testing.T) {
	var x2233, x3344, x2356, x3467 []float64
	add := func(dst *[]float64, v float64, k int) {
		for i := 0; i < k; i++ {
			*dst = append(*dst, v)
		}
	}
	add(&x2233, 2, 3)
	add(&x2233, 3, 4)
	add(&x2233, 5, 5)
	add(&x2233, 6, 4)
	for _, v := range x2233 {
		x3344 = append(x3344, v+1)
	}
	add(&x2356, 2, 3)
	add(&x2356, 3, 4)
	add(&x2356, 5, 10)
	add(&x2356, 6, 4)
	add(&x3467, 3, 10)
	add(&x3467, 4, 2)
	add(&x3467, 6, 10)
	add(&x3467, 7, 4)

	ksCheck(t, x2233, x3344, TwoSided, MethodAuto, 5.0/16, 0.4262934613454952)
	ksCheck(t, x2233, x3344, Greater, MethodAuto, 5.0/16, 0.21465428276573786)
	ksCheck(t, x2233, x3344, Less, MethodAuto, 0, 1.0)
	ksCheck(t, x2356, x3467, TwoSided, MethodAuto, 190.0/21/26, 0.0919245790168125)
	ksCheck(t, x2356, x3467, Greater, MethodAuto, 190.0/21/26, 0.0459633806858544)
	ksCheck(t, x2356, x3467, Less, MethodAuto, 70.0/21/26, 0.6121593130022775)
}

func TestKSEqualSizes(t *testing.T) {
	data := []float64{1, 2, 3}
	shifted := []float64{2, 3, 4}
	ksCheck(t, data, shifted, TwoSided, MethodAuto, 1.0/3, 1.0)
	ksCheck(t, data, shifted, Greater, MethodAuto, 1.0/3, 0.75)
}

func TestKSAsymptoticLargeSamples(t *testing.T) {
	// beyond the auto crossover the Kolmogorov asymptotic takes over
	n := 150
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = float64(i) + 0.5*float64(i%7)
	}
	res, err := KS2Samp(x, y, KSOptions{})
	if err != nil {
		t.Fatalf("ks_2samp: %v", err)
	}
	en := float64(n) * float64(n) / float64(2*n)
	want := ksAsymptoticPValue(n, n, res.Statistic, true)
	checkClose(t, "asymptotic p", res.PValue, want, 1e-14)
	if res.PValue <= 0 || res.PValue > 1 {
		t.Fatalf("p out of range: %v (en=%v)", res.PValue, en)
	}
}

func TestKSHardLimitFallback(t *testing.T) {
	old := ksExactHardLimit
	ksExactHardLimit = 10
	defer func() { ksExactHardLimit = old }()

	res, err := KS2Samp(linspace(0, 1, 6), linspace(0.5, 1.5, 6), KSOptions{Method: MethodExact})
	if err != nil {
		t.Fatalf("ks_2samp: %v", err)
	}
	if !hasAdvisory(res.Advisories, ExactFallback) {
		t.Fatalf("explicit exact beyond the hard limit must carry an ExactFallback advisory")
	}
}

func TestKSExactLargeSamples(t *testing.T) {
	// 600x600 lattice: raw path counts would overflow float64 long before
	// this size, so the exact p-value must still come out finite.
	n := 600
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = float64(i) + 30
	}
	res, err := KS2Samp(x, y, KSOptions{Method: MethodExact})
	if err != nil {
		t.Fatalf("ks_2samp: %v", err)
	}
	checkClose(t, "stat", res.Statistic, 0.05, 1e-15)
	if math.IsNaN(res.PValue) || res.PValue <= 0 || res.PValue >= 1 {
		t.Fatalf("exact p = %v, want a probability in (0, 1)", res.PValue)
	}
	asym := ksAsymptoticPValue(n, n, res.Statistic, true)
	if math.Abs(res.PValue-asym) > 0.05 {
		t.Fatalf("exact p = %v too far from asymptotic %v", res.PValue, asym)
	}
	if hasAdvisory(res.Advisories, ExactFallback) {
		t.Fatalf("within the hard limit an explicit exact request must stay exact")
	}

	one, err := KS2Samp(x, y, KSOptions{Method: MethodExact, Alternative: Greater})
	if err != nil {
		t.Fatalf("ks_2samp: %v", err)
	}
	if math.IsNaN(one.PValue) || one.PValue <= 0 || one.PValue >= 1 {
		t.Fatalf("one-sided exact p = %v, want a probability in (0, 1)", one.PValue)
	}
}

func TestKSEmptyAndNaN(t *testing.T) {
	res, err := KS2Samp(nil, []float64{1}, KSOptions{})
	if err != nil {
		t.Fatalf("ks_2samp: %v", err)
	}
	if !math.IsNaN(res.Statistic) {
		t.Fatalf("empty sample: stat = %v, want NaN", res.Statistic)
	}

	res, err = KS2Samp(withNaN([]float64{1, 2, 3}, 0), []float64{1, 2}, KSOptions{})
	if err != nil {
		t.Fatalf("ks_2samp: %v", err)
	}
	if !math.IsNaN(res.PValue) {
		t.Fatalf("NaN input with propagate: p = %v, want NaN", res.PValue)
	}
}
