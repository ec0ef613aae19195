// Package shell implements Quill's interactive SQL shell: a readline
// loop with history, tab completion, live syntax highlighting, and
// dot-commands, executing statements through a database adapter.
package shell

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the lipgloss styles the shell paints with.
type Theme struct {
	Keyword lipgloss.Style
	String  lipgloss.Style
	Number  lipgloss.Style
	Comment lipgloss.Style
	Banner  lipgloss.Style
	Error   lipgloss.Style
	Pass    lipgloss.Style
	Fail    lipgloss.Style
}

// DefaultTheme returns the standard shell theme.
func DefaultTheme() Theme {
	return Theme{
		Keyword: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		String:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Number:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Comment: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		Banner:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Pass:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// ColorEnabled reports whether the terminal supports color at all.
// Highlighting and styled output shut off on dumb terminals and pipes.
func ColorEnabled() bool {
	return termenv.ColorProfile() != termenv.Ascii
}
