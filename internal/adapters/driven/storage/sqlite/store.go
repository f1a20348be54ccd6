package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Store is the SQLite-backed run state: per-file failure counts for
// dead-lettering and the retrieval audit log.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at dbPath and applies
// pending migrations.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL mode for concurrent folder workers
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// AttemptStore returns an AttemptStore backed by this store.
func (s *Store) AttemptStore() driven.AttemptStore {
	return &attemptStore{store: s}
}

// QueryLogStore returns a QueryLogStore backed by this store.
func (s *Store) QueryLogStore() driven.QueryLogStore {
	return &queryLogStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
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
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
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
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Attempt Store ====================

type attemptStore struct {
	store *Store
}

var _ driven.AttemptStore = (*attemptStore)(nil)

// Record increments the failure count for a file, creating the row on
// first failure.
func (s *attemptStore) Record(ctx context.Context, folder, path string, cause error) error {
	lastError := ""
	if cause != nil {
		lastError = cause.Error()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO file_attempts (folder, path, attempts, last_error, last_attempt)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(folder, path) DO UPDATE SET
			attempts = attempts + 1,
			last_error = excluded.last_error,
			last_attempt = excluded.last_attempt
	`, folder, path, lastError, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording attempt: %w", err)
	}
	return nil
}

// Attempts returns the recorded failure count, zero when unseen.
func (s *attemptStore) Attempts(ctx context.Context, folder, path string) (int, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT attempts FROM file_attempts WHERE folder = ? AND path = ?", folder, path)

	var n int
	if err := row.Scan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("scanning attempts: %w", err)
	}
	return n, nil
}

// Clear removes a file's record after successful processing.
func (s *attemptStore) Clear(ctx context.Context, folder, path string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM file_attempts WHERE folder = ? AND path = ?", folder, path)
	if err != nil {
		return fmt.Errorf("clearing attempts: %w", err)
	}
	return nil
}

// DeadLettered lists files at or above the given attempt count, worst
// offenders first.
func (s *attemptStore) DeadLettered(ctx context.Context, minAttempts int) ([]domain.FileAttempt, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT folder, path, attempts, last_error, last_attempt
		FROM file_attempts
		WHERE attempts >= ?
		ORDER BY attempts DESC, last_attempt DESC
	`, minAttempts)
	if err != nil {
		return nil, fmt.Errorf("querying dead letters: %w", err)
	}
	defer rows.Close()

	var out []domain.FileAttempt
	for rows.Next() {
		var a domain.FileAttempt
		if err := rows.Scan(&a.Folder, &a.Path, &a.Attempts, &a.LastError, &a.LastAttempt); err != nil {
			return nil, fmt.Errorf("scanning dead letter: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ==================== Query Log Store ====================

type queryLogStore struct {
	store *Store
}

var _ driven.QueryLogStore = (*queryLogStore)(nil)

// Record appends one retrieval invocation.
func (s *queryLogStore) Record(ctx context.Context, entry domain.QueryLogEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO query_log (id, query, collection, context_chars, source_count, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Query, entry.Collection, entry.ContextChars,
		entry.SourceCount, entry.Elapsed.Milliseconds(), createdAt)
	if err != nil {
		return fmt.Errorf("recording query: %w", err)
	}
	return nil
}

// Recent returns the newest entries, newest first.
func (s *queryLogStore) Recent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, query, collection, context_chars, source_count, elapsed_ms, created_at
		FROM query_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying log: %w", err)
	}
	defer rows.Close()

	var out []domain.QueryLogEntry
	for rows.Next() {
		var e domain.QueryLogEntry
		var elapsedMS int64
		if err := rows.Scan(&e.ID, &e.Query, &e.Collection, &e.ContextChars,
			&e.SourceCount, &elapsedMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}
		e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}
