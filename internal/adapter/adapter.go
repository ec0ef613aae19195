// Package adapter provides the database adapter interface and
// implementations Quill's shell executes statements through.
package adapter

import (
	"context"
	"database/sql"
)

// Config holds the configuration for connecting to a database.
type Config struct {
	// Driver specifies the database driver (e.g., "sqlite", "duckdb", "postgres")
	Driver string

	// Path is the file path for file-based databases (e.g., SQLite, DuckDB)
	// Use ":memory:" for an in-memory database
	Path string

	// Host is the hostname for network-based databases
	Host string

	// Port is the port number for network-based databases
	Port int

	// Database is the database name
	Database string

	// User for authentication
	User string

	// Password for authentication
	Password string

	// Schema is the default schema to use
	Schema string

	// Options contains additional driver-specific options
	Options map[string]string
}

// Relation identifies a table or view on the target.
type Relation struct {
	Name string
	Kind string // "table" or "view"
}

// Column represents a column in a database table.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Position int
}

// Metadata holds metadata about a database table or view.
type Metadata struct {
	Schema   string
	Name     string
	Kind     string
	Columns  []Column
	RowCount int64
}

// Rows wraps sql.Rows to provide a consistent interface across adapters.
type Rows struct {
	*sql.Rows
}

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// Tables lists tables and views visible on the target.
	Tables(ctx context.Context) ([]Relation, error)

	// TableMetadata retrieves column metadata for a table or view.
	TableMetadata(ctx context.Context, table string) (*Metadata, error)

	// DialectName returns the SQL dialect name for this adapter.
	DialectName() string
}
