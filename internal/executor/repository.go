package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound indicates no recorded run matches the requested ID.
var ErrRunNotFound = errors.New("executor: run not found")

// Repository defines the interface for run history persistence.
// This abstraction allows different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	CreateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	ListRunsByCue(ctx context.Context, cueName string, limit int) ([]Run, error)
}

// runColumns is the SELECT column list for run queries.
const runColumns = `id, cue_name, trigger_source, started_at, duration_ms, ok, error`

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateRun records one cue execution.
func (r *SQLiteRepository) CreateRun(ctx context.Context, run *Run) error {
	query := `INSERT INTO cue_runs (id, cue_name, trigger_source, started_at, duration_ms, ok, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.CueName, string(run.Trigger), run.StartedAt,
		run.DurationMS, run.OK, run.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// GetRun retrieves one run by its unique identifier.
func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM cue_runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("querying run by id: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs, newest first. A non-positive
// limit falls back to 50.
func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + runColumns + ` FROM cue_runs ORDER BY started_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only iteration

	return collectRuns(rows)
}

// ListRunsByCue retrieves the most recent runs of one cue, newest first.
func (r *SQLiteRepository) ListRunsByCue(ctx context.Context, cueName string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + runColumns + ` FROM cue_runs WHERE cue_name = ? ORDER BY started_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, cueName, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs for cue: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only iteration

	return collectRuns(rows)
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun maps one row to a Run.
func scanRun(s scanner) (*Run, error) {
	var run Run
	var trigger string
	if err := s.Scan(
		&run.ID, &run.CueName, &trigger, &run.StartedAt,
		&run.DurationMS, &run.OK, &run.Error,
	); err != nil {
		return nil, err
	}
	run.Trigger = Trigger(trigger)
	return &run, nil
}

// collectRuns drains a result set into a slice.
func collectRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}
