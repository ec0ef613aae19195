// Package token defines the lexical token types Quill uses to classify
// SQL input for display: syntax highlighting in the shell and keyword
// completion candidates. It deliberately carries no grammar.
package token

import (
	"fmt"
	"sort"
	"strings"
)

// Type represents the type of a lexical token.
type Type int32

const (
	// Special tokens
	EOF Type = iota
	ILLEGAL

	// Literals
	IDENT   // identifier, including "quoted" identifiers
	NUMBER  // 123, 45.67, 1e10
	STRING  // 'hello'
	COMMENT // -- line or /* block */

	// Operators and punctuation
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	DPIPE     // ||
	EQ        // =
	NE        // != or <>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	CASTOP    // ::
	DOT       // .
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]

	keywordStart

	// Keywords (alphabetical)
	ALL
	ALTER
	AND
	AS
	ASC
	BEGIN
	BETWEEN
	BY
	CASE
	CAST
	COMMIT
	CREATE
	CROSS
	DEFAULT
	DELETE
	DESC
	DISTINCT
	DROP
	ELSE
	END
	EXCEPT
	EXISTS
	EXPLAIN
	FALSE
	FROM
	FULL
	GROUP
	HAVING
	IN
	INDEX
	INNER
	INSERT
	INTERSECT
	INTO
	IS
	JOIN
	LEFT
	LIKE
	LIMIT
	NOT
	NULL
	OFFSET
	ON
	OR
	ORDER
	OUTER
	OVER
	PARTITION
	PRIMARY
	RIGHT
	ROLLBACK
	SELECT
	SET
	TABLE
	THEN
	TRUE
	UNION
	UPDATE
	VALUES
	VIEW
	WHEN
	WHERE
	WITH

	keywordEnd
)

// Token is a classified span of input. Start and End are byte offsets
// into the source text; End is exclusive. Literal is the processed
// content (string literals are unquoted, keywords keep source casing).
type Token struct {
	Type    Type
	Literal string
	Start   int
	End     int
}

var names = map[Type]string{
	EOF:       "EOF",
	ILLEGAL:   "ILLEGAL",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	COMMENT:   "COMMENT",
	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	DPIPE:     "||",
	EQ:        "=",
	NE:        "<>",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	CASTOP:    "::",
	DOT:       ".",
	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
}

var keywords = map[string]Type{
	"all":       ALL,
	"alter":     ALTER,
	"and":       AND,
	"as":        AS,
	"asc":       ASC,
	"begin":     BEGIN,
	"between":   BETWEEN,
	"by":        BY,
	"case":      CASE,
	"cast":      CAST,
	"commit":    COMMIT,
	"create":    CREATE,
	"cross":     CROSS,
	"default":   DEFAULT,
	"delete":    DELETE,
	"desc":      DESC,
	"distinct":  DISTINCT,
	"drop":      DROP,
	"else":      ELSE,
	"end":       END,
	"except":    EXCEPT,
	"exists":    EXISTS,
	"explain":   EXPLAIN,
	"false":     FALSE,
	"from":      FROM,
	"full":      FULL,
	"group":     GROUP,
	"having":    HAVING,
	"in":        IN,
	"index":     INDEX,
	"inner":     INNER,
	"insert":    INSERT,
	"intersect": INTERSECT,
	"into":      INTO,
	"is":        IS,
	"join":      JOIN,
	"left":      LEFT,
	"like":      LIKE,
	"limit":     LIMIT,
	"not":       NOT,
	"null":      NULL,
	"offset":    OFFSET,
	"on":        ON,
	"or":        OR,
	"order":     ORDER,
	"outer":     OUTER,
	"over":      OVER,
	"partition": PARTITION,
	"primary":   PRIMARY,
	"right":     RIGHT,
	"rollback":  ROLLBACK,
	"select":    SELECT,
	"set":       SET,
	"table":     TABLE,
	"then":      THEN,
	"true":      TRUE,
	"union":     UNION,
	"update":    UPDATE,
	"values":    VALUES,
	"view":      VIEW,
	"when":      WHEN,
	"where":     WHERE,
	"with":      WITH,
}

// keywordNames is the reverse of keywords, built once for String().
var keywordNames = func() map[Type]string {
	m := make(map[Type]string, len(keywords))
	for lit, t := range keywords {
		m[t] = strings.ToUpper(lit)
	}
	return m
}()

// String returns a readable name for the token type.
func (t Type) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	if name, ok := keywordNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int32(t))
}

// LookupIdent returns the keyword type for ident, or IDENT if it is not
// a keyword. Matching is case-insensitive.
func LookupIdent(ident string) Type {
	if kw, ok := keywords[strings.ToLower(ident)]; ok {
		return kw
	}
	return IDENT
}

// IsKeyword reports whether t is a keyword token type.
func IsKeyword(t Type) bool {
	return t > keywordStart && t < keywordEnd
}

// IsOperator reports whether t is an operator or punctuation type.
func IsOperator(t Type) bool {
	return t >= PLUS && t <= RBRACKET
}

// Keywords returns all keyword literals in upper case, sorted. The
// shell completer uses this as its keyword candidate set.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for lit := range keywords {
		out = append(out, strings.ToUpper(lit))
	}
	sort.Strings(out)
	return out
}
