package shell

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/quill-sh/quill/internal/history"
	"github.com/quill-sh/quill/internal/render"
)

// dotCommandNames returns the dot-command spellings for completion.
func dotCommandNames() []string {
	return []string{
		".clear",
		".exit",
		".format",
		".help",
		".log",
		".quit",
		".schema",
		".tables",
		".timer",
		".views",
	}
}

// handleDotCommand dispatches a dot-command line. It returns true when
// the line was a dot-command (known or not); the second result is true
// when the shell should exit.
func (s *Shell) handleDotCommand(ctx context.Context, line string) (handled, quit bool) {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true, true

	case ".help":
		s.printHelp()

	case ".tables":
		s.listRelations(ctx, false)

	case ".views":
		s.listRelations(ctx, true)

	case ".schema":
		if len(parts) < 2 {
			fmt.Fprintln(s.errOut, "Usage: .schema <table>")
			break
		}
		meta, err := s.adapter.TableMetadata(ctx, parts[1])
		if err != nil {
			s.printError(err)
			break
		}
		if err := render.Metadata(s.out, meta, s.format); err != nil {
			s.printError(err)
		}

	case ".format":
		if len(parts) < 2 {
			fmt.Fprintf(s.out, "Format: %s (options: %s)\n", s.format, strings.Join(render.Formats, ", "))
			break
		}
		if !render.ValidFormat(parts[1]) {
			fmt.Fprintf(s.errOut, "Unknown format: %s (options: %s)\n", parts[1], strings.Join(render.Formats, ", "))
			break
		}
		s.format = parts[1]

	case ".timer":
		if len(parts) < 2 {
			s.timer = !s.timer
		} else {
			s.timer = parts[1] == "on"
		}
		state := "off"
		if s.timer {
			state = "on"
		}
		fmt.Fprintf(s.out, "Timer: %s\n", state)

	case ".log":
		n := 20
		if len(parts) > 1 {
			if v, err := strconv.Atoi(parts[1]); err == nil && v > 0 {
				n = v
			}
		}
		s.showLog(ctx, n)

	case ".clear":
		fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}

	return true, false
}

func (s *Shell) printHelp() {
	help := `
Commands:
  .help           Show this help message
  .tables         List all tables and views
  .views          List views only
  .schema <name>  Show schema for a table or view
  .format [fmt]   Show or set the output format (table, json, csv, md)
  .timer [on|off] Toggle statement timing
  .log [n]        Show the last n logged statements
  .clear          Clear the screen
  .quit / .exit   Exit the shell

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for keywords and table names
`
	fmt.Fprintln(s.out, help)
}

func (s *Shell) listRelations(ctx context.Context, viewsOnly bool) {
	relations, err := s.adapter.Tables(ctx)
	if err != nil {
		s.printError(err)
		return
	}
	if viewsOnly {
		filtered := relations[:0]
		for _, r := range relations {
			if r.Kind == "view" {
				filtered = append(filtered, r)
			}
		}
		relations = filtered
	}
	if err := render.Relations(s.out, relations, s.format); err != nil {
		s.printError(err)
	}
}

func (s *Shell) showLog(ctx context.Context, n int) {
	if s.log == nil {
		fmt.Fprintln(s.errOut, "Statement log is not enabled")
		return
	}
	entries, err := s.log.Recent(ctx, n)
	if err != nil {
		s.printError(err)
		return
	}
	writeLogTable(s.out, entries)
}

// writeLogTable renders log entries oldest-first, truncating long
// statements to keep rows on one line.
func writeLogTable(w io.Writer, entries []history.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"When", "Duration", "Rows", "Statement"})

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		stmt := strings.Join(strings.Fields(e.Statement), " ")
		if len(stmt) > 60 {
			stmt = stmt[:57] + "..."
		}
		if e.ErrText != "" {
			stmt += " [error]"
		}
		t.AppendRow(table.Row{
			e.StartedAt.Local().Format("15:04:05"),
			e.Duration.String(),
			e.RowCount,
			stmt,
		})
	}
	t.Render()
}
