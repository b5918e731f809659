package stat

// TestResult is the common record returned by hypothesis-test kernels.
// Fields are accessible by name or positionally through Values.
type TestResult struct {
	Statistic  float64
	PValue     float64
	Advisories []Advisory
}

// Values returns the fields in positional order (statistic, pvalue).
func (r TestResult) Values() []float64 {
	return []float64{r.Statistic, r.PValue}
}

// CorrelationResult is returned by correlation kernels.
type CorrelationResult struct {
	Correlation float64
	PValue      float64
	Advisories  []Advisory
}

// Values returns the fields in positional order (correlation, pvalue).
func (r CorrelationResult) Values() []float64 {
	return []float64{r.Correlation, r.PValue}
}

// LinregressResult is returned by the simple linear regression kernel.
type LinregressResult struct {
	Slope      float64
	Intercept  float64
	RValue     float64
	PValue     float64
	StdErr     float64
	Advisories []Advisory
}

// Values returns the fields in positional order
// (slope, intercept, rvalue, pvalue, stderr).
func (r LinregressResult) Values() []float64 {
	return []float64{r.Slope, r.Intercept, r.RValue, r.PValue, r.StdErr}
}

// FisherExactResult is returned by the Fisher exact test.
type FisherExactResult struct {
	OddsRatio  float64
	PValue     float64
	Advisories []Advisory
}

// Values returns the fields in positional order (oddsratio, pvalue).
func (r FisherExactResult) Values() []float64 {
	return []float64{r.OddsRatio, r.PValue}
}

// ChiSquareResult is returned by the chi-square contingency test.
type ChiSquareResult struct {
	Statistic  float64
	PValue     float64
	DoF        int
	Expected   [][]float64
	Advisories []Advisory
}

// Values returns the fields in positional order (statistic, pvalue, dof).
func (r ChiSquareResult) Values() []float64 {
	return []float64{r.Statistic, r.PValue, float64(r.DoF)}
}

// DescribeResult summarizes a sample.
type DescribeResult struct {
	NObs     int
	Min      float64
	Max      float64
	Mean     float64
	Variance float64
	Skewness float64
	Kurtosis float64
}

// Values returns the fields in positional order
// (nobs, min, max, mean, variance, skewness, kurtosis).
func (r DescribeResult) Values() []float64 {
	return []float64{float64(r.NObs), r.Min, r.Max, r.Mean, r.Variance, r.Skewness, r.Kurtosis}
}

// SigmaClipResult holds the output of iterative sigma clipping. Clipped is a
// fresh slice; the caller's input is never modified.
type SigmaClipResult struct {
	Clipped []float64
	Lower   float64
	Upper   float64
}
