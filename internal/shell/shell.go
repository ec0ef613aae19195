package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/quill-sh/quill/internal/adapter"
	"github.com/quill-sh/quill/internal/history"
	"github.com/quill-sh/quill/internal/render"
	"github.com/quill-sh/quill/pkg/lexer"
	"github.com/quill-sh/quill/pkg/token"
)

const (
	prompt     = "quill> "
	contPrompt = "  ...> "
)

// Options configures a Shell.
type Options struct {
	Adapter     adapter.Adapter
	Log         *history.Store // nil disables the statement log
	Format      string
	Timer       bool
	Highlight   bool
	HistoryFile string

	// Stdin/Stdout/Stderr override the process streams; tests drive the
	// shell through these.
	Stdin  io.ReadCloser
	Stdout io.Writer
	Stderr io.Writer
}

// Shell is an interactive SQL session over one adapter connection.
type Shell struct {
	adapter     adapter.Adapter
	log         *history.Store
	format      string
	timer       bool
	highlight   bool
	historyFile string
	theme       Theme

	stdin  io.ReadCloser
	out    io.Writer
	errOut io.Writer

	relations []string // completion snapshot, refreshed after DDL
}

// New creates a Shell. The adapter must already be connected.
func New(opts Options) *Shell {
	s := &Shell{
		adapter:     opts.Adapter,
		log:         opts.Log,
		format:      opts.Format,
		timer:       opts.Timer,
		highlight:   opts.Highlight && ColorEnabled(),
		historyFile: opts.HistoryFile,
		theme:       DefaultTheme(),
		stdin:       opts.Stdin,
		out:         opts.Stdout,
		errOut:      opts.Stderr,
	}
	if s.format == "" {
		s.format = "table"
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.errOut == nil {
		s.errOut = os.Stderr
	}
	return s
}

// Run reads statements until end-of-input. An interrupt discards the
// pending statement and re-prompts; EOF leaves the loop. Statement
// errors are printed and never abort the session.
func (s *Shell) Run(ctx context.Context) error {
	s.refreshRelations(ctx)

	cfg := &readline.Config{
		Prompt:          prompt,
		HistoryFile:     s.historyFile,
		AutoComplete:    newCompleter(func() []string { return s.relations }),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	}
	if s.highlight {
		cfg.Painter = newPainter(s.theme, true)
	}
	if s.stdin != nil {
		cfg.Stdin = s.stdin
		cfg.Stdout = s.out
		cfg.Stderr = s.errOut
		cfg.FuncIsTerminal = func() bool { return false }
	}
	if s.historyFile != "" && s.historyFile != ":memory:" {
		if dir := filepath.Dir(s.historyFile); dir != "." && dir != "" {
			_ = os.MkdirAll(dir, 0o750)
		}
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	s.printBanner()

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Dot-commands apply only when no statement is pending;
		// inside a statement a leading dot is just SQL.
		if buf.Len() == 0 && strings.HasPrefix(line, ".") {
			if handled, quit := s.handleDotCommand(ctx, line); handled {
				if quit {
					break
				}
				continue
			}
		}

		// Accumulate until the statement terminates outside quotes.
		buf.WriteString(line)
		if !lexer.Terminated(buf.String()) {
			buf.WriteString("\n")
			rl.SetPrompt(contPrompt)
			continue
		}
		rl.SetPrompt(prompt)

		stmt := buf.String()
		buf.Reset()

		s.execute(ctx, stmt)
		fmt.Fprintln(s.out)
	}

	return nil
}

// execute runs one terminated statement, renders the result, and
// appends to the statement log.
func (s *Shell) execute(ctx context.Context, stmt string) {
	query := strings.TrimSuffix(strings.TrimSpace(stmt), ";")

	start := time.Now()
	rows, err := s.adapter.Query(ctx, query)
	elapsed := time.Since(start)

	var rowCount int
	if err == nil {
		rowCount, err = render.Rows(s.out, rows, s.format)
		_ = rows.Close()
		elapsed = time.Since(start)
	}

	if err != nil {
		s.printError(err)
	} else if s.timer {
		fmt.Fprintf(s.out, "Time: %s\n", elapsed.Round(time.Millisecond))
	}

	s.appendLog(ctx, query, start, elapsed, int64(rowCount), err)

	if err == nil && isCatalogChange(query) {
		s.refreshRelations(ctx)
	}
}

// appendLog records the statement outcome; log failures are reported
// but never surface as statement errors.
func (s *Shell) appendLog(ctx context.Context, stmt string, start time.Time, elapsed time.Duration, rows int64, execErr error) {
	if s.log == nil {
		return
	}
	entry := history.Entry{
		Statement: stmt,
		StartedAt: start,
		Duration:  elapsed,
		RowCount:  rows,
	}
	if execErr != nil {
		entry.ErrText = execErr.Error()
	}
	if err := s.log.Append(ctx, entry); err != nil {
		fmt.Fprintf(s.errOut, "warning: statement log write failed: %v\n", err)
	}
}

// refreshRelations re-snapshots table and view names for completion.
func (s *Shell) refreshRelations(ctx context.Context) {
	relations, err := s.adapter.Tables(ctx)
	if err != nil {
		// Completion degrades to keywords only
		return
	}
	names := make([]string, 0, len(relations))
	for _, r := range relations {
		names = append(names, r.Name)
	}
	s.relations = names
}

// isCatalogChange reports whether the statement's leading keyword can
// change the set of relations.
func isCatalogChange(stmt string) bool {
	for _, tok := range lexer.Tokenize(stmt) {
		if tok.Type == token.COMMENT {
			continue
		}
		switch tok.Type {
		case token.CREATE, token.DROP, token.ALTER:
			return true
		default:
			return false
		}
	}
	return false
}

func (s *Shell) printBanner() {
	banner := fmt.Sprintf("Quill SQL Shell (%s)", s.adapter.DialectName())
	if ColorEnabled() {
		banner = s.theme.Banner.Render(banner)
	}
	fmt.Fprintln(s.out, banner)
	fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	fmt.Fprintln(s.out)
}

func (s *Shell) printError(err error) {
	msg := fmt.Sprintf("Error: %v", err)
	if ColorEnabled() {
		msg = s.theme.Error.Render(msg)
	}
	fmt.Fprintln(s.errOut, msg)
}
