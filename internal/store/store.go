package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yangwenmai/prodpage/internal/model"
)

// Verify at compile time that Store implements all interfaces.
var (
	_ RunReader     = (*Store)(nil)
	_ RunWriter     = (*Store)(nil)
	_ RunClaimer    = (*Store)(nil)
	_ ArtifactStore = (*Store)(nil)
)

// Store provides data access to the SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and initialises the schema.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// currentSchemaVersion is bumped whenever the schema changes.
// Add a new migration function in the migrations slice below.
const currentSchemaVersion = 1

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("init schema version: %w", err)
		}
		version = 0
	} else if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	// migrations is an ordered list of migration functions.
	// Index 0 = migration from v0 to v1, etc.
	migrations := []func() error{
		s.migrateV1, // v0 → v1: initial schema
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](); err != nil {
			return fmt.Errorf("migration v%d→v%d: %w", i, i+1, err)
		}
		if _, err := s.db.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			return fmt.Errorf("update schema version to %d: %w", i+1, err)
		}
	}

	return nil
}

// migrateV1 creates the initial schema (v0 → v1).
func (s *Store) migrateV1() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id                TEXT PRIMARY KEY,
		product_name      TEXT,
		payload           TEXT NOT NULL,
		status            TEXT NOT NULL,
		is_valid          INTEGER NOT NULL DEFAULT 0,
		validation_errors TEXT,
		retry_count       INTEGER NOT NULL DEFAULT 0,
		error_info        TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status, updated_at);

	CREATE TABLE IF NOT EXISTS artifacts (
		id            TEXT PRIMARY KEY,
		run_id        TEXT NOT NULL REFERENCES runs(id),
		artifact_type TEXT NOT NULL,
		payload       TEXT NOT NULL,
		created_by    TEXT NOT NULL,
		created_at    TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_artifacts_unique ON artifacts(run_id, artifact_type);
	`
	_, err := s.db.Exec(schema)
	return err
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ---------------------------------------------------------------------------
// Runs
// ---------------------------------------------------------------------------

const runColumns = `id, product_name, payload, status, is_valid, validation_errors, retry_count, error_info, created_at, updated_at`

// CreateRun inserts a new run.
func (s *Store) CreateRun(ctx context.Context, run model.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ProductName, run.Payload, run.Status,
		boolToInt(run.IsValid), run.ValidationErrors, run.RetryCount,
		run.ErrorInfo, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// GetRun returns a run with its artifacts.
func (s *Store) GetRun(ctx context.Context, id string) (*model.RunWithArtifacts, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, artifact_type, payload, created_by, created_at
		FROM artifacts WHERE run_id = ? ORDER BY artifact_type`, id)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	result := &model.RunWithArtifacts{Run: *run, Artifacts: []model.Artifact{}}
	for rows.Next() {
		var a model.Artifact
		if err := rows.Scan(&a.ID, &a.RunID, &a.ArtifactType, &a.Payload, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		result.Artifacts = append(result.Artifacts, a)
	}
	return result, rows.Err()
}

// ListRuns returns runs matching the filter, newest first.
func (s *Store) ListRuns(ctx context.Context, f model.RunFilter) ([]model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if len(f.Status) > 0 {
		placeholders := strings.Repeat("?,", len(f.Status))
		query += ` WHERE status IN (` + placeholders[:len(placeholders)-1] + `)`
		for _, st := range f.Status {
			args = append(args, st)
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// CountByStatus returns the number of runs per status.
func (s *Store) CountByStatus(ctx context.Context) (StatusCounts, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	defer rows.Close()

	counts := StatusCounts{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// UpdateRunStatus sets a run's status and optional error info.
func (s *Store) UpdateRunStatus(ctx context.Context, id, newStatus string, errorInfo *string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, error_info = ?, updated_at = ? WHERE id = ?`,
		newStatus, errorInfo, nowISO(), id,
	)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	return requireRow(res)
}

// UpdateRunResult records the validation outcome of a finished run.
func (s *Store) UpdateRunResult(ctx context.Context, id string, isValid bool, validationErrors *string, retryCount int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET is_valid = ?, validation_errors = ?, retry_count = ?, updated_at = ?
		WHERE id = ?`,
		boolToInt(isValid), validationErrors, retryCount, nowISO(), id,
	)
	if err != nil {
		return fmt.Errorf("update run result: %w", err)
	}
	return requireRow(res)
}

// ---------------------------------------------------------------------------
// Claiming
// ---------------------------------------------------------------------------

// ClaimNextQueued atomically claims the oldest QUEUED run, moving it to
// PROCESSING. Returns (nil, nil) when no run is queued.
func (s *Store) ClaimNextQueued(ctx context.Context) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE runs SET status = ?, updated_at = ?
		WHERE id = (SELECT id FROM runs WHERE status = ? ORDER BY created_at ASC LIMIT 1)
		RETURNING `+runColumns,
		model.StatusProcessing, nowISO(), model.StatusQueued,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// ResetStaleProcessing moves PROCESSING runs back to QUEUED. Called on
// startup to recover runs orphaned by a previous crash.
func (s *Store) ResetStaleProcessing(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, updated_at = ? WHERE status = ?`,
		model.StatusQueued, nowISO(), model.StatusProcessing,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stale processing: %w", err)
	}
	return res.RowsAffected()
}

// ---------------------------------------------------------------------------
// Artifacts
// ---------------------------------------------------------------------------

// UpsertArtifact inserts or replaces the artifact of its type for a run.
func (s *Store) UpsertArtifact(ctx context.Context, a model.Artifact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts (id, run_id, artifact_type, payload, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, artifact_type) DO UPDATE SET
			payload = excluded.payload,
			created_by = excluded.created_by,
			created_at = excluded.created_at`,
		a.ID, a.RunID, a.ArtifactType, a.Payload, a.CreatedBy, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert artifact: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var run model.Run
	var isValid int
	err := row.Scan(
		&run.ID, &run.ProductName, &run.Payload, &run.Status,
		&isValid, &run.ValidationErrors, &run.RetryCount,
		&run.ErrorInfo, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.IsValid = isValid != 0
	return &run, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
