package shell

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-sh/quill/internal/adapter"
	"github.com/quill-sh/quill/internal/history"
)

type testShell struct {
	*Shell
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestShell(t *testing.T, opts Options) *testShell {
	t.Helper()
	ctx := t.Context()

	a, ok := adapter.Get("sqlite")
	require.True(t, ok)
	require.NoError(t, a.Connect(ctx, adapter.Config{Driver: "sqlite", Path: ":memory:"}))
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.Exec(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)`))
	require.NoError(t, a.Exec(ctx, `INSERT INTO users (id, name) VALUES (1, 'alice'), (2, 'bob')`))

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	opts.Adapter = a
	opts.Stdout = out
	opts.Stderr = errOut

	s := New(opts)
	s.refreshRelations(ctx)
	return &testShell{Shell: s, out: out, errOut: errOut}
}

func newTestLog(t *testing.T) *history.Store {
	t.Helper()
	log := history.NewStore()
	require.NoError(t, log.Open(":memory:"))
	require.NoError(t, log.Migrate())
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func TestExecuteRendersRows(t *testing.T) {
	s := newTestShell(t, Options{})

	s.execute(t.Context(), "SELECT name FROM users ORDER BY id;")

	assert.Contains(t, s.out.String(), "alice")
	assert.Contains(t, s.out.String(), "bob")
	assert.Contains(t, s.out.String(), "(2 rows)")
	assert.Empty(t, s.errOut.String())
}

func TestExecuteStatementError(t *testing.T) {
	s := newTestShell(t, Options{})

	s.execute(t.Context(), "SELECT * FROM missing;")

	assert.Contains(t, s.errOut.String(), "Error:")
	assert.Contains(t, s.errOut.String(), "missing")
}

func TestExecuteTimer(t *testing.T) {
	s := newTestShell(t, Options{Timer: true})

	s.execute(t.Context(), "SELECT 1;")

	assert.Contains(t, s.out.String(), "Time:")
}

func TestExecuteAppendsLog(t *testing.T) {
	ctx := t.Context()
	log := newTestLog(t)
	s := newTestShell(t, Options{Log: log})

	s.execute(ctx, "SELECT name FROM users;")
	s.execute(ctx, "SELECT * FROM missing;")

	entries, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first: the failing statement carries its error text.
	assert.Equal(t, "SELECT * FROM missing", entries[0].Statement)
	assert.NotEmpty(t, entries[0].ErrText)
	assert.Equal(t, "SELECT name FROM users", entries[1].Statement)
	assert.Empty(t, entries[1].ErrText)
	assert.Equal(t, int64(2), entries[1].RowCount)
}

func TestExecuteRefreshesRelationsAfterDDL(t *testing.T) {
	ctx := t.Context()
	s := newTestShell(t, Options{})
	assert.Equal(t, []string{"users"}, s.relations)

	s.execute(ctx, "CREATE TABLE orders (id INTEGER);")
	assert.Contains(t, s.relations, "orders")

	s.execute(ctx, "DROP TABLE orders;")
	assert.NotContains(t, s.relations, "orders")
}

func TestIsCatalogChange(t *testing.T) {
	tests := []struct {
		stmt string
		want bool
	}{
		{"CREATE TABLE t (id INTEGER)", true},
		{"create view v as select 1", true},
		{"DROP TABLE t", true},
		{"ALTER TABLE t ADD COLUMN x TEXT", true},
		{"-- comment\nCREATE TABLE t (id INTEGER)", true},
		{"SELECT * FROM created", false},
		{"INSERT INTO t VALUES (1)", false},
		{"", false},
		{"-- only a comment", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isCatalogChange(tt.stmt), "stmt: %q", tt.stmt)
	}
}

func TestDotCommandQuit(t *testing.T) {
	s := newTestShell(t, Options{})

	for _, cmd := range []string{".quit", ".exit", ".EXIT"} {
		handled, quit := s.handleDotCommand(t.Context(), cmd)
		assert.True(t, handled, cmd)
		assert.True(t, quit, cmd)
	}
}

func TestDotCommandHelp(t *testing.T) {
	s := newTestShell(t, Options{})

	handled, quit := s.handleDotCommand(t.Context(), ".help")
	assert.True(t, handled)
	assert.False(t, quit)
	assert.Contains(t, s.out.String(), ".tables")
	assert.Contains(t, s.out.String(), "semicolon")
}

func TestDotCommandTables(t *testing.T) {
	s := newTestShell(t, Options{})

	s.handleDotCommand(t.Context(), ".tables")
	assert.Contains(t, s.out.String(), "users")
}

func TestDotCommandViews(t *testing.T) {
	ctx := t.Context()
	s := newTestShell(t, Options{})
	require.NoError(t, s.adapter.Exec(ctx, `CREATE VIEW v_users AS SELECT name FROM users`))

	s.handleDotCommand(ctx, ".views")
	assert.Contains(t, s.out.String(), "v_users")
	assert.Contains(t, s.out.String(), "view")
}

func TestDotCommandSchema(t *testing.T) {
	s := newTestShell(t, Options{})

	s.handleDotCommand(t.Context(), ".schema users")
	assert.Contains(t, s.out.String(), "name")
	assert.Contains(t, s.out.String(), "TEXT")

	s.handleDotCommand(t.Context(), ".schema")
	assert.Contains(t, s.errOut.String(), "Usage: .schema")
}

func TestDotCommandFormat(t *testing.T) {
	s := newTestShell(t, Options{})

	s.handleDotCommand(t.Context(), ".format json")
	assert.Equal(t, "json", s.format)

	s.handleDotCommand(t.Context(), ".format bogus")
	assert.Equal(t, "json", s.format, "invalid format leaves the setting alone")
	assert.Contains(t, s.errOut.String(), "Unknown format: bogus")

	s.handleDotCommand(t.Context(), ".format")
	assert.Contains(t, s.out.String(), "Format: json")
}

func TestDotCommandTimer(t *testing.T) {
	s := newTestShell(t, Options{})

	s.handleDotCommand(t.Context(), ".timer")
	assert.True(t, s.timer)

	s.handleDotCommand(t.Context(), ".timer off")
	assert.False(t, s.timer)

	s.handleDotCommand(t.Context(), ".timer on")
	assert.True(t, s.timer)
}

func TestDotCommandLog(t *testing.T) {
	ctx := t.Context()
	log := newTestLog(t)
	s := newTestShell(t, Options{Log: log})

	s.execute(ctx, "SELECT name FROM users;")
	s.out.Reset()

	s.handleDotCommand(ctx, ".log")
	assert.Contains(t, s.out.String(), "SELECT name FROM users")
	assert.Contains(t, s.out.String(), "Statement")
}

func TestDotCommandLogDisabled(t *testing.T) {
	s := newTestShell(t, Options{})

	s.handleDotCommand(t.Context(), ".log")
	assert.Contains(t, s.errOut.String(), "not enabled")
}

func TestDotCommandUnknown(t *testing.T) {
	s := newTestShell(t, Options{})

	handled, quit := s.handleDotCommand(t.Context(), ".bogus")
	assert.True(t, handled)
	assert.False(t, quit)
	assert.Contains(t, s.errOut.String(), "Unknown command: .bogus")
}

func TestWriteLogTableTruncation(t *testing.T) {
	long := "SELECT " + string(bytes.Repeat([]byte("x"), 80))
	out := &bytes.Buffer{}

	writeLogTable(out, []history.Entry{
		{Statement: long, ErrText: "boom"},
	})

	assert.Contains(t, out.String(), "...")
	assert.Contains(t, out.String(), "[error]")
	assert.NotContains(t, out.String(), long)
}

func TestNewDefaults(t *testing.T) {
	s := New(Options{})
	assert.Equal(t, "table", s.format)
}
