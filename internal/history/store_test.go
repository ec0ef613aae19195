package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.Open(":memory:"))
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "log.db")

	s := NewStore()
	require.NoError(t, s.Open(path))
	defer s.Close()

	require.NoError(t, s.Migrate())

	version, err := s.MigrationVersion()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, int64(1))
}

func TestStoreAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Now().Add(-time.Minute)
	for i, stmt := range []string{"SELECT 1", "SELECT 2", "SELECT 3"} {
		err := s.Append(ctx, Entry{
			Statement: stmt,
			StartedAt: base.Add(time.Duration(i) * time.Second),
			Duration:  5 * time.Millisecond,
			RowCount:  1,
		})
		require.NoError(t, err)
	}

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first
	assert.Equal(t, "SELECT 3", entries[0].Statement)
	assert.Equal(t, "SELECT 2", entries[1].Statement)
	assert.NotEmpty(t, entries[0].ID, "entry should get a generated id")
	assert.Equal(t, 5*time.Millisecond, entries[0].Duration)
}

func TestStoreRecentOrderWithinOneSecond(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Sub-second spacing where a trimmed-fraction text timestamp would
	// sort backwards (".1" vs ".15").
	base := time.Now().Truncate(time.Second)
	require.NoError(t, s.Append(ctx, Entry{
		Statement: "older",
		StartedAt: base.Add(100 * time.Millisecond),
	}))
	require.NoError(t, s.Append(ctx, Entry{
		Statement: "newer",
		StartedAt: base.Add(150 * time.Millisecond),
	}))

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "newer", entries[0].Statement)
	assert.Equal(t, "older", entries[1].Statement)
	assert.Equal(t, base.Add(150*time.Millisecond).UTC(), entries[0].StartedAt)
}

func TestStoreAppendError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Append(ctx, Entry{
		Statement: "SELECT * FROM missing",
		ErrText:   "no such table: missing",
	}))

	entries, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "no such table: missing", entries[0].ErrText)
}

func TestStoreRecentDefaultLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 25; i++ {
		require.NoError(t, s.Append(ctx, Entry{Statement: "SELECT 1"}))
	}

	entries, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestStorePrune(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Append(ctx, Entry{
		Statement: "old",
		StartedAt: time.Now().AddDate(0, 0, -30),
	}))
	require.NoError(t, s.Append(ctx, Entry{
		Statement: "new",
		StartedAt: time.Now(),
	}))

	removed, err := s.Prune(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Statement)
}

func TestStorePruneDisabled(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	removed, err := s.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestStoreNotOpened(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	assert.Error(t, s.Append(ctx, Entry{Statement: "SELECT 1"}))

	_, err := s.Recent(ctx, 5)
	assert.Error(t, err)

	assert.NoError(t, s.Close(), "Close before Open should be a no-op")
}
