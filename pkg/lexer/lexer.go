// Package lexer tokenizes SQL input with exact byte spans.
//
// The lexer exists for two display concerns only: the shell's live
// syntax highlighter, which needs to know which spans of the input line
// are keywords, strings, numbers, and comments, and statement
// termination detection, which must ignore semicolons inside strings
// and comments. It builds no syntax tree.
package lexer

import (
	"strings"
	"unicode"

	"github.com/quill-sh/quill/pkg/token"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
}

// New creates a Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// Next returns the next token. Comments are returned as COMMENT tokens
// rather than skipped; whitespace is never returned.
func (l *Lexer) Next() token.Token {
	l.skipWhitespace()

	start := l.pos

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Start: start, End: start}
	case '-':
		if l.peekChar() == '-' {
			return l.readLineComment(start)
		}
		return l.single(token.MINUS, start)
	case '/':
		if l.peekChar() == '*' {
			return l.readBlockComment(start)
		}
		return l.single(token.SLASH, start)
	case '+':
		return l.single(token.PLUS, start)
	case '*':
		return l.single(token.STAR, start)
	case '%':
		return l.single(token.PERCENT, start)
	case '=':
		return l.single(token.EQ, start)
	case '<':
		switch l.peekChar() {
		case '=':
			return l.double(token.LE, start)
		case '>':
			return l.double(token.NE, start)
		}
		return l.single(token.LT, start)
	case '>':
		if l.peekChar() == '=' {
			return l.double(token.GE, start)
		}
		return l.single(token.GT, start)
	case '!':
		if l.peekChar() == '=' {
			return l.double(token.NE, start)
		}
		return l.single(token.ILLEGAL, start)
	case '|':
		if l.peekChar() == '|' {
			return l.double(token.DPIPE, start)
		}
		return l.single(token.ILLEGAL, start)
	case ':':
		if l.peekChar() == ':' {
			return l.double(token.CASTOP, start)
		}
		return l.single(token.ILLEGAL, start)
	case '.':
		// A leading digit after the dot would still lex as DOT then
		// NUMBER, which is fine for display purposes.
		return l.single(token.DOT, start)
	case ',':
		return l.single(token.COMMA, start)
	case ';':
		return l.single(token.SEMICOLON, start)
	case '(':
		return l.single(token.LPAREN, start)
	case ')':
		return l.single(token.RPAREN, start)
	case '[':
		return l.single(token.LBRACKET, start)
	case ']':
		return l.single(token.RBRACKET, start)
	case '\'':
		return l.readString(start)
	case '"':
		return l.readQuotedIdent(start)
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			lit := l.readIdentifier()
			return token.Token{
				Type:    token.LookupIdent(lit),
				Literal: lit,
				Start:   start,
				End:     l.pos,
			}
		case isDigit(l.ch):
			lit := l.readNumber()
			return token.Token{Type: token.NUMBER, Literal: lit, Start: start, End: l.pos}
		default:
			return l.single(token.ILLEGAL, start)
		}
	}
}

// single consumes the current character and returns a one-char token.
func (l *Lexer) single(t token.Type, start int) token.Token {
	lit := string(l.ch)
	l.readChar()
	return token.Token{Type: t, Literal: lit, Start: start, End: l.pos}
}

// double consumes two characters and returns a two-char token.
func (l *Lexer) double(t token.Type, start int) token.Token {
	lit := l.input[start : start+2]
	l.readChar()
	l.readChar()
	return token.Token{Type: t, Literal: lit, Start: start, End: l.pos}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readLineComment reads a -- comment through end of line.
func (l *Lexer) readLineComment(start int) token.Token {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	return token.Token{
		Type:    token.COMMENT,
		Literal: l.input[start:l.pos],
		Start:   start,
		End:     l.pos,
	}
}

// readBlockComment reads a /* ... */ comment. An unclosed comment runs
// to end of input; the shell treats that as an open statement.
func (l *Lexer) readBlockComment(start int) token.Token {
	l.readChar() // skip '/'
	l.readChar() // skip '*'

	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			break
		}
		l.readChar()
	}
	return token.Token{
		Type:    token.COMMENT,
		Literal: l.input[start:l.pos],
		Start:   start,
		End:     l.pos,
	}
}

// readString reads a single-quoted string literal.
// Handles doubled single quotes as escape: 'it''s' -> it's
func (l *Lexer) readString(start int) token.Token {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != 0 {
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				result.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			break
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return token.Token{
		Type:    token.STRING,
		Literal: result.String(),
		Start:   start,
		End:     l.pos,
	}
}

// readQuotedIdent reads a double-quoted identifier.
// Handles doubled double quotes as escape: "col""name" -> col"name
func (l *Lexer) readQuotedIdent(start int) token.Token {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != 0 {
		if l.ch == '"' {
			if l.peekChar() == '"' {
				result.WriteByte('"')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			break
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return token.Token{
		Type:    token.IDENT,
		Literal: result.String(),
		Start:   start,
		End:     l.pos,
	}
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input, excluding the final EOF.
func Tokenize(input string) []token.Token {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.Next()
		if tok.Type == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Terminated reports whether input forms a complete statement: its last
// token outside strings, quoted identifiers, and comments is a
// semicolon. A raw suffix check would mis-fire on inputs such as
// SELECT 'a;' -- the lexer sees through the quotes.
func Terminated(input string) bool {
	last := token.EOF
	l := New(input)
	for {
		tok := l.Next()
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.COMMENT {
			continue
		}
		last = tok.Type
	}
	return last == token.SEMICOLON
}
