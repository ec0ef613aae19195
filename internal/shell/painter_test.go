package shell

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

// withColorProfile pins lipgloss to a profile for the test and restores
// the previous one afterwards.
func withColorProfile(t *testing.T, profile termenv.Profile) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(profile)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
}

func TestHighlightNoColorPassthrough(t *testing.T) {
	withColorProfile(t, termenv.Ascii)

	src := "SELECT name, 'a;b' FROM users -- trailing comment"
	assert.Equal(t, src, Highlight(src, DefaultTheme()))
}

func TestHighlightAppliesANSI(t *testing.T) {
	withColorProfile(t, termenv.TrueColor)

	out := Highlight("SELECT 1", DefaultTheme())
	assert.Contains(t, out, "\x1b[", "keywords should carry escape sequences")
	assert.Contains(t, out, "SELECT")
	assert.Contains(t, out, "1")
}

func TestHighlightPreservesWhitespace(t *testing.T) {
	withColorProfile(t, termenv.Ascii)

	src := "SELECT\n\t1  ,   2"
	assert.Equal(t, src, Highlight(src, DefaultTheme()))
}

func TestHighlightHalfTypedLine(t *testing.T) {
	withColorProfile(t, termenv.Ascii)

	// An unterminated string must not panic or drop bytes.
	src := "SELECT 'unterminated"
	assert.Equal(t, src, Highlight(src, DefaultTheme()))
}

func TestHighlightEmpty(t *testing.T) {
	assert.Equal(t, "", Highlight("", DefaultTheme()))
}

func TestPainterDisabled(t *testing.T) {
	withColorProfile(t, termenv.TrueColor)

	p := newPainter(DefaultTheme(), false)
	line := []rune("SELECT 1")
	assert.Equal(t, line, p.Paint(line, 0))
}

func TestPainterEnabled(t *testing.T) {
	withColorProfile(t, termenv.TrueColor)

	p := newPainter(DefaultTheme(), true)
	out := string(p.Paint([]rune("SELECT 1"), 0))
	assert.Contains(t, out, "\x1b[")
}
