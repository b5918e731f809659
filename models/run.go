package models

import (
	"time"

	"github.com/google/uuid"
)

// Run records one statistic evaluation submitted through the API: the
// kernel, the call options, and the resulting field arrays.
type Run struct {
	ID         uuid.UUID            `json:"id" db:"id"`
	Kernel     string               `json:"kernel" db:"kernel"`
	NaNPolicy  string               `json:"nan_policy" db:"nan_policy"`
	Axis       *int                 `json:"axis" db:"axis"`
	Shape      []int                `json:"shape"`
	Fields     map[string][]float64 `json:"fields"`
	Advisories []string             `json:"advisories"`
	CreatedAt  time.Time            `json:"created_at" db:"created_at"`
}
