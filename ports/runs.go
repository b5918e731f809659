package ports

import (
	"context"

	"github.com/google/uuid"

	"statkit/models"
)

// RunRepository persists evaluation runs
type RunRepository interface {
	Save(ctx context.Context, run *models.Run) error
	Get(ctx context.Context, id uuid.UUID) (*models.Run, error)
	List(ctx context.Context, limit int) ([]*models.Run, error)
}
