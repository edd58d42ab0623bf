package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"winnow/internal/config"
)

// ErrNotFound indicates the requested run does not exist.
var ErrNotFound = errors.New("history: run not found")

// Store manages cleanup run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.StateDir, "history.db"))
}

// OpenPath opens the history database at an explicit location.
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
	if err := store.applyMigrations(context.Background()); err != nil {
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// RecordRun persists a finished run and its actions in one transaction and
// returns the stored row.
func (s *Store) RecordRun(ctx context.Context, run Run, actions []Action) (*Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO cleanup_runs (
            run_uuid, started_at, finished_at, dry_run, group_key,
            groups_total, duplicates_found, files_deleted, folders_deleted,
            bytes_reclaimed, failures, report
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.UUID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(run.DryRun),
		run.GroupKey,
		run.Groups,
		run.DuplicatesFound,
		run.FilesDeleted,
		run.FoldersDeleted,
		run.BytesReclaimed,
		run.Failures,
		run.Report,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, action := range actions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cleanup_actions (run_id, kind, path, provider_id, title, bytes)
             VALUES (?, ?, ?, ?, ?, ?)`,
			runID, action.Kind, action.Path, action.ProviderID, action.Title, action.Bytes,
		); err != nil {
			return nil, fmt.Errorf("insert action: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}
	return s.GetByID(ctx, runID)
}

const runColumns = `id, run_uuid, started_at, finished_at, dry_run, group_key,
    groups_total, duplicates_found, files_deleted, folders_deleted,
    bytes_reclaimed, failures, report`

// GetByID fetches one run.
func (s *Store) GetByID(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM cleanup_runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query run %d: %w", id, err)
	}
	return run, nil
}

// List returns up to limit runs, newest first. A non-positive limit returns
// every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM cleanup_runs ORDER BY id DESC"
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
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Actions returns the deletion actions for one run in insertion order.
func (s *Store) Actions(ctx context.Context, runID int64) ([]Action, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, kind, path, provider_id, title, bytes
         FROM cleanup_actions WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var action Action
		if err := rows.Scan(&action.ID, &action.RunID, &action.Kind, &action.Path,
			&action.ProviderID, &action.Title, &action.Bytes); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var started, finished string
	var dryRun int
	if err := row.Scan(&run.ID, &run.UUID, &started, &finished, &dryRun,
		&run.GroupKey, &run.Groups, &run.DuplicatesFound, &run.FilesDeleted,
		&run.FoldersDeleted, &run.BytesReclaimed, &run.Failures, &run.Report); err != nil {
		return nil, err
	}
	run.DryRun = dryRun != 0
	if ts, err := time.Parse(time.RFC3339Nano, started); err == nil {
		run.StartedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, finished); err == nil {
		run.FinishedAt = ts
	}
	return &run, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
