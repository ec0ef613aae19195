package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteAndRender(t *testing.T) {
	cfg := seededTarget(t)
	cmd, out := newTestCmd(t, NewExecCommand(), cfg)

	err := executeAndRender(t.Context(), cmd, cfg, "SELECT name FROM users ORDER BY id;")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "alice")
	assert.Contains(t, out.String(), "(2 rows)")
}

func TestExecuteAndRenderJSON(t *testing.T) {
	cfg := seededTarget(t)
	cfg.Format = "json"
	cmd, out := newTestCmd(t, NewExecCommand(), cfg)

	err := executeAndRender(t.Context(), cmd, cfg, "SELECT id, name FROM users ORDER BY id")
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"name": "alice"`)
}

func TestExecuteAndRenderQueryError(t *testing.T) {
	cfg := seededTarget(t)
	cmd, _ := newTestCmd(t, NewExecCommand(), cfg)

	err := executeAndRender(t.Context(), cmd, cfg, "SELECT * FROM missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")
}

func TestRunRootWithArgs(t *testing.T) {
	cfg := seededTarget(t)
	cmd, out := newTestCmd(t, NewExecCommand(), cfg)

	err := RunRoot(cmd, []string{"SELECT name FROM users", "ORDER BY id"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "bob", "args join into one statement")
}

func TestRunRootInputFile(t *testing.T) {
	cfg := seededTarget(t)
	sqlFile := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(sqlFile, []byte("SELECT name FROM users ORDER BY id;\n"), 0o644))

	cmd, out := newTestCmd(t, NewExecCommand(), cfg)
	cmd.Flags().String("input", "", "")
	require.NoError(t, cmd.Flags().Set("input", sqlFile))

	err := RunRoot(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "alice")
}

func TestRunRootInputFileMissing(t *testing.T) {
	cfg := seededTarget(t)
	cmd, _ := newTestCmd(t, NewExecCommand(), cfg)
	cmd.Flags().String("input", "", "")
	require.NoError(t, cmd.Flags().Set("input", filepath.Join(t.TempDir(), "nope.sql")))

	err := RunRoot(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestRunRootEmptySQL(t *testing.T) {
	cfg := seededTarget(t)
	cmd, _ := newTestCmd(t, NewExecCommand(), cfg)
	cmd.Flags().String("input", "", "")

	err := RunRoot(cmd, []string{"   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SQL to execute")
}
