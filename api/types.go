package api

// SampleInput is one input array in an evaluation request. Shape is optional;
// when omitted the data is treated as a 1-D sample.
type SampleInput struct {
	Data  []float64 `json:"data"`
	Shape []int     `json:"shape,omitempty"`
}

// EvaluateRequest is the body of POST /v1/tests/{name}.
type EvaluateRequest struct {
	Samples   []SampleInput `json:"samples"`
	Axis      *int          `json:"axis"`
	NaNPolicy string        `json:"nan_policy,omitempty"`
	KeepDims  bool          `json:"keepdims,omitempty"`
}

// EvaluateResponse reports one evaluation run.
type EvaluateResponse struct {
	RunID      string               `json:"run_id"`
	Kernel     string               `json:"kernel"`
	Shape      []int                `json:"shape"`
	Fields     map[string][]float64 `json:"fields"`
	Advisories []string             `json:"advisories"`
}

// KernelInfo describes one registered statistic kernel.
type KernelInfo struct {
	Name      string   `json:"name"`
	Fields    []string `json:"fields"`
	NumInputs int      `json:"num_inputs"`
	Paired    bool     `json:"paired"`
}

type errorResponse struct {
	Error string `json:"error"`
}
