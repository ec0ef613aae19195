package shell

import (
	"strings"
	"unicode"

	"github.com/quill-sh/quill/pkg/token"
)

// completer implements readline's AutoCompleter over three candidate
// sets: SQL keywords, relation (table/view) names snapshotted from the
// target, and dot-commands when the line starts with a dot.
//
// Matching is case-insensitive on the word under the cursor. Keyword
// candidates follow the typed case: SEL<tab> completes to SELECT,
// sel<tab> to select. Relation names complete verbatim.
type completer struct {
	keywords  []string        // upper case, sorted
	dotCmds   []string        // ".help", ".tables", ...
	relations func() []string // live view of the relation cache
}

func newCompleter(relations func() []string) *completer {
	return &completer{
		keywords:  token.Keywords(),
		dotCmds:   dotCommandNames(),
		relations: relations,
	}
}

// Do returns the candidate suffixes for the word ending at pos and the
// length of that word, per readline's AutoCompleter contract.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	word := currentWord(line, pos)

	trimmed := strings.TrimLeftFunc(string(line[:pos]), unicode.IsSpace)
	if strings.HasPrefix(trimmed, ".") {
		return c.complete(dotWord(line, pos), c.dotCmds, false)
	}

	candidates := make([]string, 0, len(c.keywords)+16)
	candidates = append(candidates, c.keywords...)
	if c.relations != nil {
		candidates = append(candidates, c.relations()...)
	}
	return c.complete(word, candidates, true)
}

// complete filters candidates by case-insensitive prefix and returns
// the remainders. foldCase re-cases keyword remainders to match the
// typed prefix.
func (c *completer) complete(word string, candidates []string, foldCase bool) ([][]rune, int) {
	lower := strings.ToLower(word)
	wantLower := foldCase && word != "" && word == lower

	var out [][]rune
	for _, cand := range candidates {
		if !strings.HasPrefix(strings.ToLower(cand), lower) {
			continue
		}
		rest := cand[len(word):]
		if wantLower && isKeywordCandidate(cand) {
			rest = strings.ToLower(rest)
		}
		out = append(out, []rune(rest+" "))
	}
	return out, len([]rune(word))
}

// isKeywordCandidate reports whether cand is one of the SQL keyword
// candidates (all-upper by construction). Relation names that happen to
// be all-upper are rare enough that folding them too does no harm.
func isKeywordCandidate(cand string) bool {
	return cand == strings.ToUpper(cand)
}

// currentWord returns the identifier fragment ending at pos.
func currentWord(line []rune, pos int) string {
	start := pos
	for start > 0 {
		ch := line[start-1]
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			start--
			continue
		}
		break
	}
	return string(line[start:pos])
}

// dotWord returns the word ending at pos including a leading dot, so
// ".ta" completes against ".tables".
func dotWord(line []rune, pos int) string {
	start := pos
	for start > 0 {
		ch := line[start-1]
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '.' {
			start--
			continue
		}
		break
	}
	return string(line[start:pos])
}
