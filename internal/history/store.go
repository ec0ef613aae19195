// Package history persists an append-only log of statements executed
// through the shell. This is separate from readline's line history
// file: the line history drives arrow-key navigation, the statement
// log is an audit trail with timings and outcomes.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // sqlite driver
)

// Entry is one executed statement.
type Entry struct {
	ID        string
	Statement string
	StartedAt time.Time
	Duration  time.Duration
	RowCount  int64
	ErrText   string
}

// Store implements the statement log on SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new statement log store instance.
func NewStore() *Store {
	return &Store{}
}

// Open opens a connection to the log database, creating the parent
// directory as needed. Use ":memory:" for an in-memory store.
func (s *Store) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open log database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping log database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the log database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Append records one executed statement. A zero ID is assigned.
func (s *Store) Append(ctx context.Context, e Entry) error {
	if s.db == nil {
		return fmt.Errorf("log database not opened")
	}
	if e.ID == "" {
		e.ID = generateID()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}

	// started_at is unix nanoseconds: a fixed-width value orders
	// correctly, which RFC3339Nano text would not (it trims trailing
	// fraction zeros and sorts wrong within a second).
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO statement_log (id, statement, started_at, duration_ms, row_count, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.Statement, e.StartedAt.UTC().UnixNano(),
		e.Duration.Milliseconds(), e.RowCount, nullable(e.ErrText))
	if err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	return nil
}

// Recent returns the most recent n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("log database not opened")
	}
	if n <= 0 {
		n = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, statement, started_at, duration_ms, row_count, COALESCE(error, '')
		FROM statement_log
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var startedNS, durationMS int64
		if err := rows.Scan(&e.ID, &e.Statement, &startedNS, &durationMS, &e.RowCount, &e.ErrText); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		e.StartedAt = time.Unix(0, startedNS).UTC()
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log entries: %w", err)
	}
	return entries, nil
}

// Prune deletes entries older than keepDays days and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context, keepDays int) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("log database not opened")
	}
	if keepDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -keepDays).UnixNano()
	res, err := s.db.ExecContext(ctx, `DELETE FROM statement_log WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
