package lexer

import (
	"testing"

	"github.com/quill-sh/quill/pkg/token"
)

func TestTokenizeBasicSelect(t *testing.T) {
	input := "SELECT id, name FROM users WHERE age >= 21;"

	expected := []struct {
		typ     token.Type
		literal string
	}{
		{token.SELECT, "SELECT"},
		{token.IDENT, "id"},
		{token.COMMA, ","},
		{token.IDENT, "name"},
		{token.FROM, "FROM"},
		{token.IDENT, "users"},
		{token.WHERE, "WHERE"},
		{token.IDENT, "age"},
		{token.GE, ">="},
		{token.NUMBER, "21"},
		{token.SEMICOLON, ";"},
	}

	toks := Tokenize(input)
	if len(toks) != len(expected) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Type != want.typ {
			t.Errorf("token %d: type = %v, want %v", i, toks[i].Type, want.typ)
		}
		if toks[i].Literal != want.literal {
			t.Errorf("token %d: literal = %q, want %q", i, toks[i].Literal, want.literal)
		}
	}
}

func TestTokenizeSpans(t *testing.T) {
	input := "SELECT 'a b' FROM t"
	toks := Tokenize(input)

	if len(toks) != 4 {
		t.Fatalf("got %d tokens, want 4", len(toks))
	}

	// Spans must reconstruct the raw source exactly
	for i, tok := range toks {
		if tok.Start >= tok.End {
			t.Errorf("token %d: empty span [%d,%d)", i, tok.Start, tok.End)
		}
		if tok.End > len(input) {
			t.Errorf("token %d: span end %d past input length %d", i, tok.End, len(input))
		}
	}

	str := toks[1]
	if str.Type != token.STRING {
		t.Fatalf("token 1: type = %v, want STRING", str.Type)
	}
	if got := input[str.Start:str.End]; got != "'a b'" {
		t.Errorf("string span = %q, want %q", got, "'a b'")
	}
	if str.Literal != "a b" {
		t.Errorf("string literal = %q, want %q", str.Literal, "a b")
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks := Tokenize("'it''s'")
	if len(toks) != 1 {
		t.Fatalf("got %d tokens, want 1", len(toks))
	}
	if toks[0].Type != token.STRING || toks[0].Literal != "it's" {
		t.Errorf("got %v %q, want STRING \"it's\"", toks[0].Type, toks[0].Literal)
	}
}

func TestTokenizeQuotedIdentifier(t *testing.T) {
	toks := Tokenize(`"col""name"`)
	if len(toks) != 1 {
		t.Fatalf("got %d tokens, want 1", len(toks))
	}
	if toks[0].Type != token.IDENT || toks[0].Literal != `col"name` {
		t.Errorf("got %v %q, want IDENT col\"name", toks[0].Type, toks[0].Literal)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		input   string
		literal string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"1e10", "1e10"},
		{"2.5E-3", "2.5E-3"},
	}
	for _, tt := range tests {
		toks := Tokenize(tt.input)
		if len(toks) != 1 || toks[0].Type != token.NUMBER {
			t.Errorf("Tokenize(%q): expected single NUMBER, got %v", tt.input, toks)
			continue
		}
		if toks[0].Literal != tt.literal {
			t.Errorf("Tokenize(%q): literal = %q, want %q", tt.input, toks[0].Literal, tt.literal)
		}
	}
}

func TestTokenizeComments(t *testing.T) {
	toks := Tokenize("SELECT 1 -- trailing\n+ /* block */ 2")

	var types []token.Type
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	expected := []token.Type{token.SELECT, token.NUMBER, token.COMMENT, token.PLUS, token.COMMENT, token.NUMBER}
	if len(types) != len(expected) {
		t.Fatalf("got %v, want %v", types, expected)
	}
	for i := range expected {
		if types[i] != expected[i] {
			t.Fatalf("got %v, want %v", types, expected)
		}
	}

	if toks[2].Literal != "-- trailing" {
		t.Errorf("line comment literal = %q", toks[2].Literal)
	}
	if toks[4].Literal != "/* block */" {
		t.Errorf("block comment literal = %q", toks[4].Literal)
	}
}

func TestTokenizeOperators(t *testing.T) {
	tests := []struct {
		input string
		typ   token.Type
	}{
		{"<=", token.LE},
		{">=", token.GE},
		{"<>", token.NE},
		{"!=", token.NE},
		{"||", token.DPIPE},
		{"::", token.CASTOP},
		{"<", token.LT},
		{"=", token.EQ},
	}
	for _, tt := range tests {
		toks := Tokenize(tt.input)
		if len(toks) != 1 || toks[0].Type != tt.typ {
			t.Errorf("Tokenize(%q): got %v, want single %v", tt.input, toks, tt.typ)
		}
	}
}

func TestTerminated(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"SELECT 1;", true},
		{"SELECT 1", false},
		{"SELECT 1; ", true},
		{"SELECT 1;  -- done", true},
		{"SELECT ';'", false},
		{"SELECT 'a;' ;", true},
		{"SELECT \"a;b\"", false},
		{"SELECT 1 /* ; */", false},
		{"", false},
		{"-- just a comment", false},
		{"INSERT INTO t VALUES ('x;y');", true},
		{"SELECT 'unterminated ;", false},
	}

	for _, tt := range tests {
		if got := Terminated(tt.input); got != tt.expected {
			t.Errorf("Terminated(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if toks := Tokenize(""); len(toks) != 0 {
		t.Errorf("Tokenize(\"\") = %v, want empty", toks)
	}
	if toks := Tokenize("   \t\n"); len(toks) != 0 {
		t.Errorf("Tokenize(whitespace) = %v, want empty", toks)
	}
}
