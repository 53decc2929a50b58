// Package noop provides a RunRepository that keeps nothing, used when run
// history is disabled.
package noop

import (
	"context"

	"github.com/google/uuid"

	"docvet/internal/domain"
	"docvet/internal/port"
)

type runRepo struct{}

// NewRunRepo creates a RunRepository that discards every run.
func NewRunRepo() port.RunRepository {
	return runRepo{}
}

func (runRepo) Save(context.Context, *domain.RunResult) error { return nil }

func (runRepo) List(context.Context, int) ([]domain.RunSummary, error) {
	return []domain.RunSummary{}, nil
}

func (runRepo) GetByID(context.Context, uuid.UUID) (*domain.RunSummary, error) {
	return nil, domain.ErrRunNotFound
}

func (runRepo) Ping(context.Context) error { return nil }

func (runRepo) Close() error { return nil }
