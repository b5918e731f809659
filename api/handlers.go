package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"statkit/array"
	"statkit/domain/core"
	"statkit/models"
	"statkit/stat"
)

func (s *Server) handleListTests(w http.ResponseWriter, r *http.Request) {
	kernels := stat.Kernels()
	out := make([]KernelInfo, 0, len(kernels))
	for _, k := range kernels {
		out = append(out, KernelInfo{
			Name:      k.Name,
			Fields:    k.Fields,
			NumInputs: k.NumInputs,
			Paired:    k.Paired,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	kernel, ok := stat.LookupKernel(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown test %q", name))
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("samples must not be empty"))
		return
	}

	policy := stat.Propagate
	if req.NaNPolicy != "" {
		var err error
		policy, err = stat.ParseNaNPolicy(req.NaNPolicy)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	inputs := make([]*array.Array, len(req.Samples))
	for i, sample := range req.Samples {
		arr := array.FromSlice(sample.Data)
		if len(sample.Shape) > 0 {
			reshaped, err := arr.Reshape(sample.Shape...)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			arr = reshaped
		}
		inputs[i] = arr
	}

	axis := array.Flatten()
	if req.Axis != nil {
		axis = array.Along(*req.Axis)
	}

	result, err := kernel.Evaluate(inputs, stat.EvalOptions{
		Axis:      axis,
		NaNPolicy: policy,
		KeepDims:  req.KeepDims,
		Workers:   s.workers,
	})
	if err != nil {
		if core.IsInvalidArgument(err) || core.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.logger.Error("evaluate %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("evaluation failed"))
		return
	}

	fields := make(map[string][]float64, len(result.Names))
	for i, fieldName := range result.Names {
		fields[fieldName] = result.Fields[i].Ravel()
	}
	advisories := advisoryStrings(result)

	run := &models.Run{
		ID:         uuid.New(),
		Kernel:     name,
		NaNPolicy:  policy.String(),
		Axis:       req.Axis,
		Shape:      result.Fields[0].Shape(),
		Fields:     fields,
		Advisories: advisories,
		CreatedAt:  time.Now().UTC(),
	}
	if s.runs != nil {
		if err := s.runs.Save(r.Context(), run); err != nil {
			s.logger.Warn("failed to persist run %s: %v", run.ID, err)
		}
	}

	writeJSON(w, http.StatusOK, EvaluateResponse{
		RunID:      run.ID.String(),
		Kernel:     name,
		Shape:      run.Shape,
		Fields:     fields,
		Advisories: advisories,
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid run id"))
		return
	}
	if s.runs == nil {
		writeError(w, http.StatusNotFound, core.ErrRunNotFound)
		return
	}
	run, err := s.runs.Get(r.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.logger.Error("get run %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to fetch run"))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}
	if s.runs == nil {
		writeJSON(w, http.StatusOK, []*models.Run{})
		return
	}
	runs, err := s.runs.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("list runs: %v", err)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to list runs"))
		return
	}
	if runs == nil {
		runs = []*models.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func advisoryStrings(result *stat.EvalResult) []string {
	out := []string{}
	for _, a := range result.Diagnostics.Advisories() {
		if len(a.Pos) > 0 {
			out = append(out, fmt.Sprintf("%s at %v: %s", a.Kind, a.Pos, a.Message))
		} else {
			out = append(out, fmt.Sprintf("%s: %s", a.Kind, a.Message))
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
