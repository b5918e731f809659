package stat

import (
	"math"

	"statkit/array"
	"statkit/domain/core"
)

// Kernel describes one statistic for n-dimensional evaluation: its output
// fields, how many input samples it takes, and whether those samples are
// paired (which controls lock-step NaN omission).
type Kernel struct {
	Name      string
	Fields    []string
	NumInputs int // -1 accepts any number of inputs (grouped tests)
	Paired    bool
	// MinLen is the smallest usable slice length; shorter slices (for
	// example after NaN omission) yield NaN fields without invoking Fn.
	MinLen int
	Fn     func(slices [][]float64, d *Diagnostics) ([]float64, error)
}

// EvalOptions configures an n-dimensional kernel evaluation.
type EvalOptions struct {
	// Axis selects the reduction dimensions. The zero value reduces
	// along axis 0.
	Axis      array.Axis
	NaNPolicy NaNPolicy
	KeepDims  bool
	// Workers bounds concurrent slice evaluations; values below two run
	// sequentially.
	Workers int
}

// EvalResult holds one output array per kernel field plus the diagnostics
// collected across all slices.
type EvalResult struct {
	Kernel      string
	Names       []string
	Fields      []*array.Array
	Diagnostics *Diagnostics
}

// Field returns the output array for a named field, or nil.
func (r *EvalResult) Field(name string) *array.Array {
	for i, n := range r.Names {
		if n == name {
			return r.Fields[i]
		}
	}
	return nil
}

// Evaluate applies the kernel independently over every 1-D slice of the
// broadcast inputs along the chosen axis. The raise policy is enforced once
// at the boundary, before any slicing; omission happens per slice with
// pairing preserved.
func (k Kernel) Evaluate(inputs []*array.Array, opts EvalOptions) (*EvalResult, error) {
	if err := opts.NaNPolicy.validate(); err != nil {
		return nil, err
	}
	if k.NumInputs >= 0 && len(inputs) != k.NumInputs {
		return nil, core.NewInvalidArgument("%s requires %d input samples, got %d", k.Name, k.NumInputs, len(inputs))
	}
	if k.NumInputs < 0 && len(inputs) < 2 {
		return nil, core.NewInvalidArgument("%s requires at least two input samples, got %d", k.Name, len(inputs))
	}
	if opts.NaNPolicy == Raise {
		for _, in := range inputs {
			if in.HasNaN() {
				return nil, core.NewInvalidInput("input contains nan")
			}
		}
	}

	axis := opts.Axis
	if !axis.IsFlatten() && len(axis.Dims()) == 0 {
		axis = array.Along(0)
	}

	diags := &Diagnostics{}
	fn := func(pos []int, slices [][]float64) ([]float64, error) {
		filtered, err := applyPolicy(slices, opts.NaNPolicy, k.Paired)
		if err != nil {
			return nil, err
		}
		for _, s := range filtered {
			if len(s) < k.MinLen {
				return nanFields(len(k.Fields)), nil
			}
		}
		// Each slice collects into its own Diagnostics so advisories can
		// be tagged with the coordinate that raised them.
		local := &Diagnostics{}
		vals, err := k.Fn(filtered, local)
		if err != nil {
			return nil, err
		}
		diags.addAll(pos, local.Advisories())
		return vals, nil
	}

	outs, err := array.Apply(fn, inputs, axis, array.ApplyOptions{
		NumFields: len(k.Fields),
		KeepDims:  opts.KeepDims,
		Workers:   opts.Workers,
	})
	if err != nil {
		return nil, err
	}
	return &EvalResult{
		Kernel:      k.Name,
		Names:       append([]string(nil), k.Fields...),
		Fields:      outs,
		Diagnostics: diags,
	}, nil
}

func nanFields(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func mergeAdvisories(d *Diagnostics, advisories []Advisory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.advisories = append(d.advisories, advisories...)
}

// Kernels returns the registry of broadcastable statistic kernels.
func Kernels() []Kernel {
	return []Kernel{
		{
			Name: "pearsonr", Fields: []string{"correlation", "pvalue"},
			NumInputs: 2, Paired: true, MinLen: 2,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := PearsonR(s[0], s[1], Propagate)
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "spearmanr", Fields: []string{"correlation", "pvalue"},
			NumInputs: 2, Paired: true,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := SpearmanR(s[0], s[1], Propagate)
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "kendalltau", Fields: []string{"correlation", "pvalue"},
			NumInputs: 2, Paired: true,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := KendallTau(s[0], s[1], KendallOptions{})
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "linregress", Fields: []string{"slope", "intercept", "rvalue", "pvalue", "stderr"},
			NumInputs: 2, Paired: true, MinLen: 2,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := Linregress(s[0], s[1], Propagate)
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "ttest_ind", Fields: []string{"statistic", "pvalue"},
			NumInputs: 2,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := TTestInd(s[0], s[1], TTestOptions{EqualVar: true})
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "welch_ttest", Fields: []string{"statistic", "pvalue"},
			NumInputs: 2,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := TTestInd(s[0], s[1], TTestOptions{})
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "ttest_rel", Fields: []string{"statistic", "pvalue"},
			NumInputs: 2, Paired: true,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := TTestRel(s[0], s[1], TTestOptions{})
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "ranksums", Fields: []string{"statistic", "pvalue"},
			NumInputs: 2,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := RankSums(s[0], s[1], TwoSided, Propagate)
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "mannwhitneyu", Fields: []string{"statistic", "pvalue"},
			NumInputs: 2,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := MannWhitneyU(s[0], s[1], MannWhitneyOptions{})
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "ks_2samp", Fields: []string{"statistic", "pvalue"},
			NumInputs: 2,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := KS2Samp(s[0], s[1], KSOptions{})
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "f_oneway", Fields: []string{"statistic", "pvalue"},
			NumInputs: -1,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := FOneway(s...)
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "skewtest", Fields: []string{"statistic", "pvalue"},
			NumInputs: 1,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := SkewTest(s[0], Propagate)
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "kurtosistest", Fields: []string{"statistic", "pvalue"},
			NumInputs: 1,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := KurtosisTest(s[0], Propagate)
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "normaltest", Fields: []string{"statistic", "pvalue"},
			NumInputs: 1,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := NormalTest(s[0], Propagate)
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "jarque_bera", Fields: []string{"statistic", "pvalue"},
			NumInputs: 1, MinLen: 1,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := JarqueBera(s[0], Propagate)
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "distance_correlation", Fields: []string{"correlation", "pvalue"},
			NumInputs: 2, Paired: true, MinLen: 3,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := DistanceCorrelation(s[0], s[1], DistanceCorrOptions{})
				if err != nil {
					return nil, err
				}
				mergeAdvisories(d, res.Advisories)
				return res.Values(), nil
			},
		},
		{
			Name: "describe", Fields: []string{"nobs", "min", "max", "mean", "variance", "skewness", "kurtosis"},
			NumInputs: 1,
			Fn: func(s [][]float64, d *Diagnostics) ([]float64, error) {
				res, err := Describe(s[0], Propagate)
				if err != nil {
					return nil, err
				}
				return res.Values(), nil
			},
		},
	}
}

// LookupKernel finds a registered kernel by name.
func LookupKernel(name string) (Kernel, bool) {
	for _, k := range Kernels() {
		if k.Name == name {
			return k, true
		}
	}
	return Kernel{}, false
}
