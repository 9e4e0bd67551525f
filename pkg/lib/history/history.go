// Package history keeps a small local record of past devkit runs so the
// dashboard can show trend data. The store is a single sqlite file;
// writes are serialized across processes with a sibling lock file, since
// matrix CI jobs may append concurrently to a shared workspace.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// Entry is one recorded tool invocation.
type Entry struct {
	ID       string
	Kind     string // "fuzz" or "report"
	Started  time.Time
	Duration time.Duration
	Outcome  string // "ok", "issues", "infra"
	ExitCode int
}

// Outcome names the exit-code convention for storage.
func Outcome(exitCode int) string {
	switch exitCode {
	case 0:
		return "ok"
	case 1:
		return "issues"
	default:
		return "infra"
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	started     INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	outcome     TEXT NOT NULL,
	exit_code   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_started ON runs (started DESC);
`

// Store wraps the sqlite file at a fixed path. Open lazily creates the
// parent directory and schema.
type Store struct {
	path string
	db   *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: init schema: %w", err)
	}
	return &Store{path: path, db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records one run. The cross-process file lock covers the write
// so concurrent CI jobs do not trip over sqlite's busy errors.
func (s *Store) Append(ctx context.Context, e Entry) error {
	lock := flock.New(s.path + ".lock")
	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("history: lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("history: lock not acquired")
	}
	defer func() { _ = lock.Unlock() }()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, started, duration_ms, outcome, exit_code)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.Started.UnixMilli(), e.Duration.Milliseconds(), e.Outcome, e.ExitCode)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, started, duration_ms, outcome, exit_code
		 FROM runs ORDER BY started DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var started, durationMS int64
		if err := rows.Scan(&e.ID, &e.Kind, &started, &durationMS, &e.Outcome, &e.ExitCode); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Started = time.UnixMilli(started)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}
