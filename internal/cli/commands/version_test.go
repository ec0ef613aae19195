package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	cmd.Run(cmd, nil)
	assert.Contains(t, out.String(), "Quill v1.2.3")
}
