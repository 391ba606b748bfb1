package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/jira-export/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
)

// Store is a SQLite database that backs both the document and run stores.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at path.
// If path is empty, defaults to ~/.jira-export/export.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".jira-export", "export.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

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

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
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
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
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
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or replaces the document for doc.Key.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.IssueDocument) error {
	if doc == nil || doc.Key == "" {
		return fmt.Errorf("%w: document without issue key", domain.ErrInvalidInput)
	}

	exportedAt := doc.ExportedAt
	if exportedAt.IsZero() {
		exportedAt = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (issue_key, content, exported_at)
		VALUES (?, ?, ?)
		ON CONFLICT(issue_key) DO UPDATE SET
			content = excluded.content,
			exported_at = excluded.exported_at
	`, doc.Key, doc.Content, exportedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document %s: %w", doc.Key, err)
	}
	return nil
}

// GetDocument retrieves a document by issue key.
func (s *documentStore) GetDocument(ctx context.Context, key string) (*domain.IssueDocument, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT issue_key, content, exported_at FROM documents WHERE issue_key = ?
	`, key)

	var doc domain.IssueDocument
	if err := row.Scan(&doc.Key, &doc.Content, &doc.ExportedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &doc, nil
}

// ListKeys returns the keys of all stored documents in sorted order.
func (s *documentStore) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT issue_key FROM documents ORDER BY issue_key")
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning document key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// ==================== Run Store ====================

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// SaveRun stores or updates a run.
func (s *runStore) SaveRun(ctx context.Context, run *domain.ExportRun) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("%w: run without id", domain.ErrInvalidInput)
	}

	failedKeys := run.FailedKeys
	if failedKeys == nil {
		failedKeys = []string{}
	}
	failedJSON, err := json.Marshal(failedKeys)
	if err != nil {
		return fmt.Errorf("marshalling failed keys: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO export_runs (id, query, started_at, finished_at, exported, failed_keys, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			query = excluded.query,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			exported = excluded.exported,
			failed_keys = excluded.failed_keys,
			error = excluded.error
	`, run.ID, run.Query, run.StartedAt.UTC(), nullTime(run.FinishedAt),
		run.Exported, string(failedJSON), run.Error)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *runStore) GetRun(ctx context.Context, id string) (*domain.ExportRun, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, query, started_at, finished_at, exported, failed_keys, error
		FROM export_runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return run, nil
}

// ListRuns returns runs, most recent first. A limit of zero or less returns all runs.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.ExportRun, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, query, started_at, finished_at, exported, failed_keys, error
		FROM export_runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.ExportRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.ExportRun, error) {
	var run domain.ExportRun
	var finishedAt sql.NullTime
	var failedJSON string
	if err := row.Scan(&run.ID, &run.Query, &run.StartedAt, &finishedAt,
		&run.Exported, &failedJSON, &run.Error); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	if err := json.Unmarshal([]byte(failedJSON), &run.FailedKeys); err != nil {
		return nil, fmt.Errorf("unmarshaling failed keys: %w", err)
	}
	if len(run.FailedKeys) == 0 {
		run.FailedKeys = nil
	}
	return &run, nil
}

// nullTime converts a zero time to SQL NULL.
func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
