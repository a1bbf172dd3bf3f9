// Package runlog keeps a local history of generate and reverse runs.
//
// Each run records the command, the template it operated on, the files
// it produced, and the outcome, so that a broken theme can be traced
// back to the run that wrote it.
//
// Storage is backed by a SQLite database at ~/.config/themegen/runs.db
// (or the platform-equivalent path returned by os.UserConfigDir).
package runlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	appDir = "themegen"
	dbFile = "runs.db"
)

// pathOverride, when non-empty, replaces the default database path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// Record is one persisted run.
type Record struct {
	// ID is the auto-increment primary key (assigned on insert).
	ID int64

	// Command is the verb that ran: "generate", "reverse", or "watch".
	Command string

	// Template is the template path the run operated on.
	Template string

	// Output is the file (or files, comma-joined) the run produced.
	Output string

	// Status is "success" or "error".
	Status string

	// ErrorMessage explains the failure when Status is "error".
	ErrorMessage string

	// DurationMs is the wall-clock run time in milliseconds.
	DurationMs int64

	// CreatedAt is when the run finished.
	CreatedAt time.Time
}

// Store persists run records in a local SQLite database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default database path.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("runlog: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, dbFile), nil
}

// Open creates or opens the run log at the default path.
func Open() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path. The
// parent directory is created if it does not exist.
func OpenAt(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("runlog: failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("runlog: failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			command       TEXT    NOT NULL,
			template      TEXT    NOT NULL DEFAULT '',
			output        TEXT    NOT NULL DEFAULT '',
			status        TEXT    NOT NULL DEFAULT 'success',
			error_message TEXT    NOT NULL DEFAULT '',
			duration_ms   INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT    NOT NULL DEFAULT (datetime('now'))
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("runlog: migration failed: %w", err)
	}
	return nil
}

// Save inserts a new record and assigns its ID.
func (s *Store) Save(r *Record) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	result, err := s.db.Exec(`
		INSERT INTO runs (command, template, output, status, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Command, r.Template, r.Output, r.Status, r.ErrorMessage, r.DurationMs,
		r.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("runlog: insert failed: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("runlog: failed to get last insert ID: %w", err)
	}
	r.ID = id
	return nil
}

// ListRecent returns the most recent n records, newest first.
func (s *Store) ListRecent(n int) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, command, template, output, status, error_message, duration_ms, created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("runlog: query failed: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var createdStr string
		err := rows.Scan(&r.ID, &r.Command, &r.Template, &r.Output,
			&r.Status, &r.ErrorMessage, &r.DurationMs, &createdStr)
		if err != nil {
			return nil, fmt.Errorf("runlog: scan failed: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteOlderThan removes records older than d and returns how many
// were removed.
func (s *Store) DeleteOlderThan(d time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-d).Format(time.RFC3339Nano)
	result, err := s.db.Exec(`DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("runlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (s *Store) Close() error {
	return s.db.Close()
}
