package testkit

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/google/uuid"

	"statkit/domain/core"
	"statkit/models"
)

// InMemoryRunRepository is a map-backed run store for tests and for running
// the API without a database.
type InMemoryRunRepository struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*models.Run
}

// NewInMemoryRunRepository creates an empty in-memory run store
func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{runs: make(map[uuid.UUID]*models.Run)}
}

// Save stores a copy of the run
func (r *InMemoryRunRepository) Save(_ context.Context, run *models.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *run
	r.runs[run.ID] = &cp
	return nil
}

// Get fetches a run by id
func (r *InMemoryRunRepository) Get(_ context.Context, id uuid.UUID) (*models.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, core.ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

// List returns stored runs newest first
func (r *InMemoryRunRepository) List(_ context.Context, limit int) ([]*models.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Run, 0, len(r.runs))
	for _, run := range r.runs {
		cp := *run
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// NormalSample draws n values from N(mean, sd) with a fixed seed so test
// fixtures are reproducible.
func NormalSample(seed int64, n int, mean, sd float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + sd*rng.NormFloat64()
	}
	return out
}

// CorrelatedPair draws two samples of length n where y = slope*x + noise.
func CorrelatedPair(seed int64, n int, slope, noise float64) (x, y []float64) {
	rng := rand.New(rand.NewSource(seed))
	x = make([]float64, n)
	y = make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = rng.NormFloat64()
		y[i] = slope*x[i] + noise*rng.NormFloat64()
	}
	return x, y
}
