package shell

import (
	"strings"

	"github.com/quill-sh/quill/pkg/lexer"
	"github.com/quill-sh/quill/pkg/token"
)

// painter implements readline's Painter interface: it recolors the
// in-progress line on every keystroke by lexing it and styling keyword,
// string, number, and comment spans. Identifiers, operators, and
// anything the lexer marks ILLEGAL pass through unstyled, so a
// half-typed line never flickers.
type painter struct {
	theme   Theme
	enabled bool
}

func newPainter(theme Theme, enabled bool) *painter {
	return &painter{theme: theme, enabled: enabled}
}

// Paint returns the line with ANSI color applied. pos is the cursor
// position; painting is position-independent here.
func (p *painter) Paint(line []rune, _ int) []rune {
	if !p.enabled || len(line) == 0 {
		return line
	}
	return []rune(Highlight(string(line), p.theme))
}

// Highlight lexes src and styles each classified span. Unstyled bytes
// between tokens (whitespace) are copied through verbatim.
func Highlight(src string, theme Theme) string {
	toks := lexer.Tokenize(src)
	if len(toks) == 0 {
		return src
	}

	var out strings.Builder
	out.Grow(len(src) * 2)

	last := 0
	for _, tok := range toks {
		if tok.Start > last {
			out.WriteString(src[last:tok.Start])
		}
		raw := src[tok.Start:tok.End]
		switch {
		case token.IsKeyword(tok.Type):
			out.WriteString(theme.Keyword.Render(raw))
		case tok.Type == token.STRING:
			out.WriteString(theme.String.Render(raw))
		case tok.Type == token.NUMBER:
			out.WriteString(theme.Number.Render(raw))
		case tok.Type == token.COMMENT:
			out.WriteString(theme.Comment.Render(raw))
		default:
			out.WriteString(raw)
		}
		last = tok.End
	}
	if last < len(src) {
		out.WriteString(src[last:])
	}
	return out.String()
}
