package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"statkit/domain/core"
	"statkit/models"
)

// RunRepository stores evaluation runs in PostgreSQL
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// EnsureSchema creates the runs table if it does not exist
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS evaluation_runs (
			id UUID PRIMARY KEY,
			kernel TEXT NOT NULL,
			nan_policy TEXT NOT NULL,
			axis INT,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure runs schema: %w", err)
	}
	return nil
}

type runPayload struct {
	Shape      []int                `json:"shape"`
	Fields     map[string][]float64 `json:"fields"`
	Advisories []string             `json:"advisories"`
}

// Save inserts an evaluation run
func (r *RunRepository) Save(ctx context.Context, run *models.Run) error {
	payload, err := json.Marshal(runPayload{
		Shape:      run.Shape,
		Fields:     run.Fields,
		Advisories: run.Advisories,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal run payload: %w", err)
	}

	query := `
		INSERT INTO evaluation_runs (id, kernel, nan_policy, axis, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.Kernel,
		run.NaNPolicy,
		run.Axis,
		payload,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Get fetches a run by id
func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	var row struct {
		ID        uuid.UUID      `db:"id"`
		Kernel    string         `db:"kernel"`
		NaNPolicy string         `db:"nan_policy"`
		Axis      sql.NullInt64  `db:"axis"`
		Payload   []byte         `db:"payload"`
		CreatedAt time.Time      `db:"created_at"`
	}
	query := `SELECT id, kernel, nan_policy, axis, payload, created_at FROM evaluation_runs WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to fetch run: %w", err)
	}
	return rowToRun(row.ID, row.Kernel, row.NaNPolicy, row.Axis, row.Payload, row.CreatedAt)
}

// List returns the most recent runs
func (r *RunRepository) List(ctx context.Context, limit int) ([]*models.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryxContext(ctx, `
		SELECT id, kernel, nan_policy, axis, payload, created_at
		FROM evaluation_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*models.Run
	for rows.Next() {
		var (
			id        uuid.UUID
			kernel    string
			nanPolicy string
			axis      sql.NullInt64
			payload   []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &kernel, &nanPolicy, &axis, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run, err := rowToRun(id, kernel, nanPolicy, axis, payload, createdAt)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func rowToRun(id uuid.UUID, kernel, nanPolicy string, axis sql.NullInt64, payload []byte, createdAt time.Time) (*models.Run, error) {
	var p runPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run payload: %w", err)
	}
	run := &models.Run{
		ID:         id,
		Kernel:     kernel,
		NaNPolicy:  nanPolicy,
		Shape:      p.Shape,
		Fields:     p.Fields,
		Advisories: p.Advisories,
		CreatedAt:  createdAt,
	}
	if axis.Valid {
		v := int(axis.Int64)
		run.Axis = &v
	}
	return run, nil
}
