package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docvet/internal/domain"
	"docvet/internal/port"
)

type runRepo struct {
	db *sqlx.DB
}

// NewRunRepo creates a new PostgreSQL-backed RunRepository.
func NewRunRepo(db *sqlx.DB) port.RunRepository {
	return &runRepo{db: db}
}

func (r *runRepo) Save(ctx context.Context, run *domain.RunResult) error {
	summary, err := domain.Summarize(run)
	if err != nil {
		return fmt.Errorf("runRepo.Save: encoding reports: %w", err)
	}

	query := `INSERT INTO validation_runs (id, started_at, finished_at, passed, documents, failed, kinds, reports)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		summary.ID, summary.StartedAt, summary.FinishedAt, summary.Passed,
		summary.Documents, summary.Failed, summary.Kinds, []byte(summary.Reports))
	if err != nil {
		return fmt.Errorf("runRepo.Save: %w", err)
	}
	return nil
}

func (r *runRepo) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	var runs []domain.RunSummary
	err := r.db.SelectContext(ctx, &runs,
		`SELECT id, started_at, finished_at, passed, documents, failed, kinds
		FROM validation_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("runRepo.List: %w", err)
	}
	return runs, nil
}

func (r *runRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RunSummary, error) {
	var run domain.RunSummary
	err := r.db.GetContext(ctx, &run, "SELECT * FROM validation_runs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("runRepo.GetByID: %w", err)
	}
	return &run, nil
}

func (r *runRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *runRepo) Close() error {
	return r.db.Close()
}
