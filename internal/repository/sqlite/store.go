// Package sqlite keeps validation run history in a local SQLite file, for
// operators who run docvet without a database server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver

	"docvet/internal/domain"
	"docvet/internal/port"
	"docvet/internal/repository/sqlite/migrations"
)

// Store is a RunRepository backed by a SQLite file.
type Store struct {
	db   *sqlx.DB
	path string
}

var _ port.RunRepository = (*Store)(nil)

// row mirrors validation_runs; timestamps are stored as Unix milliseconds.
type row struct {
	ID         uuid.UUID `db:"id"`
	StartedAt  int64     `db:"started_at"`
	FinishedAt int64     `db:"finished_at"`
	Passed     bool      `db:"passed"`
	Documents  int       `db:"documents"`
	Failed     int       `db:"failed"`
	Kinds      string    `db:"kinds"`
	Reports    []byte    `db:"reports"`
}

func (r *row) summary() domain.RunSummary {
	return domain.RunSummary{
		ID:         r.ID,
		StartedAt:  time.UnixMilli(r.StartedAt).UTC(),
		FinishedAt: time.UnixMilli(r.FinishedAt).UTC(),
		Passed:     r.Passed,
		Documents:  r.Documents,
		Failed:     r.Failed,
		Kinds:      r.Kinds,
		Reports:    r.Reports,
	}
}

// NewStore opens (creating if needed) the database at path and applies pending migrations.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Save stores a run and its reports.
func (s *Store) Save(ctx context.Context, run *domain.RunResult) error {
	summary, err := domain.Summarize(run)
	if err != nil {
		return fmt.Errorf("sqlite.Save: encoding reports: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO validation_runs (id, started_at, finished_at, passed, documents, failed, kinds, reports)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.ID, summary.StartedAt.UnixMilli(), summary.FinishedAt.UnixMilli(), summary.Passed,
		summary.Documents, summary.Failed, summary.Kinds, []byte(summary.Reports))
	if err != nil {
		return fmt.Errorf("sqlite.Save: %w", err)
	}
	return nil
}

// List returns the most recent runs first, without their reports.
func (s *Store) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	var rows []row
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, started_at, finished_at, passed, documents, failed, kinds
		FROM validation_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite.List: %w", err)
	}

	runs := make([]domain.RunSummary, 0, len(rows))
	for i := range rows {
		runs = append(runs, rows[i].summary())
	}
	return runs, nil
}

// GetByID returns one run including its reports.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.RunSummary, error) {
	var r row
	err := s.db.GetContext(ctx, &r, "SELECT * FROM validation_runs WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("sqlite.GetByID: %w", err)
	}
	summary := r.summary()
	return &summary, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	if err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_validation_runs.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(name, version, string(content)); err != nil {
			return err
		}
	}
	return nil
}

// apply runs one migration and records its version in the same transaction.
func (s *Store) apply(name string, version int, stmts string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("beginning migration %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(stmts); err != nil {
		return fmt.Errorf("executing migration %s: %w", name, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return fmt.Errorf("recording migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %s: %w", name, err)
	}
	return nil
}
