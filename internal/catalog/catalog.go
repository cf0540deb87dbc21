package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"curator/internal/config"
	"curator/internal/report"
)

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded consolidation run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Scanned    int
	Duplicates int
	Surviving  int
	Errors     int
}

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "catalog.db"))
}

// OpenPath connects to the catalog database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// RecordRun persists a completed run and its category distribution.
func (s *Store) RecordRun(ctx context.Context, run Run, summary report.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, scanned, duplicates, surviving, errors)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		summary.Scanned,
		summary.Duplicates,
		summary.Surviving,
		summary.Errors,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for _, cat := range summary.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_categories (run_id, category, count, percent) VALUES (?, ?, ?, ?)`,
			run.ID, cat.Name, cat.Count, cat.Percent,
		); err != nil {
			return fmt.Errorf("insert category %s for run %s: %w", cat.Name, run.ID, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first. A non-positive limit
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, finished_at, scanned, duplicates, surviving, errors
              FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LastRun returns the most recent run, or nil when the catalog is empty.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// RunCategories returns the category distribution recorded for a run, by
// descending count.
func (s *Store) RunCategories(ctx context.Context, runID string) ([]report.CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, count, percent FROM run_categories
         WHERE run_id = ? ORDER BY count DESC, category ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run categories: %w", err)
	}
	defer rows.Close()

	var categories []report.CategoryCount
	for rows.Next() {
		var cat report.CategoryCount
		if err := rows.Scan(&cat.Name, &cat.Count, &cat.Percent); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var started, finished string
	if err := rows.Scan(&run.ID, &started, &finished,
		&run.Scanned, &run.Duplicates, &run.Surviving, &run.Errors); err != nil {
		return Run{}, fmt.Errorf("scan run row: %w", err)
	}
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parse started_at %q: %w", started, err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return Run{}, fmt.Errorf("parse finished_at %q: %w", finished, err)
	}
	return run, nil
}
