package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesCommand(t *testing.T) {
	cfg := seededTarget(t)
	cmd, out := newTestCmd(t, NewTablesCommand(), cfg)

	require.NoError(t, cmd.RunE(cmd, nil))
	assert.Contains(t, out.String(), "users")
	assert.Contains(t, out.String(), "v_names")
}

func TestViewsCommand(t *testing.T) {
	cfg := seededTarget(t)
	cmd, out := newTestCmd(t, NewViewsCommand(), cfg)

	require.NoError(t, cmd.RunE(cmd, nil))
	assert.Contains(t, out.String(), "v_names")
	assert.Contains(t, out.String(), "view")
}

func TestSchemaCommand(t *testing.T) {
	cfg := seededTarget(t)
	cmd, out := newTestCmd(t, NewSchemaCommand(), cfg)

	require.NoError(t, cmd.RunE(cmd, []string{"users"}))
	assert.Contains(t, out.String(), "name")
	assert.Contains(t, out.String(), "TEXT")
}

func TestSchemaCommandNotFound(t *testing.T) {
	cfg := seededTarget(t)
	cmd, _ := newTestCmd(t, NewSchemaCommand(), cfg)

	err := cmd.RunE(cmd, []string{"missing"})
	assert.Error(t, err)
}
