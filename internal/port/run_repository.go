package port

import (
	"context"

	"github.com/google/uuid"

	"docvet/internal/domain"
)

// RunRepository persists validation run history.
type RunRepository interface {
	Save(ctx context.Context, run *domain.RunResult) error
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RunSummary, error)
	Ping(ctx context.Context) error
	Close() error
}
