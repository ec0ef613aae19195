package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/quill-sh/quill/internal/cli/config"
	"github.com/quill-sh/quill/internal/history"
)

// NewLogCommand creates the log command.
func NewLogCommand() *cobra.Command {
	var prune int

	cmd := &cobra.Command{
		Use:   "log [n]",
		Short: "Show recently executed statements",
		Long: `Show the last n entries of the statement log (default 20).

The shell records every executed statement with its duration, row
count, and error, if any.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			store, err := openLog(cfg)
			if err != nil {
				return fmt.Errorf("failed to open statement log: %w", err)
			}
			if store == nil {
				return fmt.Errorf("statement log is disabled (shell.log_file is empty)")
			}
			defer func() { _ = store.Close() }()

			if prune > 0 {
				removed, err := store.Prune(ctx, prune)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entries older than %d days\n", removed, prune)
				return nil
			}

			n := 20
			if len(args) > 0 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v <= 0 {
					return fmt.Errorf("invalid count %q", args[0])
				}
				n = v
			}

			entries, err := store.Recent(ctx, n)
			if err != nil {
				return err
			}

			if cfg.Format == "json" {
				return writeLogJSON(cmd, entries)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"When", "Duration", "Rows", "Error", "Statement"})
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				stmt := strings.Join(strings.Fields(e.Statement), " ")
				if len(stmt) > 60 {
					stmt = stmt[:57] + "..."
				}
				errText := e.ErrText
				if len(errText) > 30 {
					errText = errText[:27] + "..."
				}
				t.AppendRow(table.Row{
					e.StartedAt.Local().Format(time.DateTime),
					e.Duration.String(),
					e.RowCount,
					errText,
					stmt,
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&prune, "prune", 0, "Delete entries older than this many days instead of listing")
	return cmd
}

type logEntryJSON struct {
	ID        string `json:"id"`
	Statement string `json:"statement"`
	StartedAt string `json:"started_at"`
	Duration  string `json:"duration"`
	RowCount  int64  `json:"row_count"`
	Error     string `json:"error,omitempty"`
}

func writeLogJSON(cmd *cobra.Command, entries []history.Entry) error {
	out := make([]logEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, logEntryJSON{
			ID:        e.ID,
			Statement: e.Statement,
			StartedAt: e.StartedAt.UTC().Format(time.RFC3339),
			Duration:  e.Duration.String(),
			RowCount:  e.RowCount,
			Error:     e.ErrText,
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
