package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quill-sh/quill/internal/cli/config"
	"github.com/quill-sh/quill/internal/render"
	"github.com/quill-sh/quill/internal/shell"
)

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exec [SQL]",
		Short: "Execute SQL and print the result",
		Long: `Execute a SQL statement against the configured target.

SQL may be given as an argument, via --input, or piped on stdin.
Invoked with no SQL on a terminal, quill enters the interactive shell
instead.`,
		Example: `  # Execute SQL directly
  quill exec "SELECT * FROM users"

  # Read SQL from a file
  quill exec --input report.sql

  # Pipe SQL in
  echo "SELECT 1" | quill exec

  # Output as JSON
  quill exec "SELECT * FROM users" -f json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunRoot(cmd, args)
		},
	}
}

// RunRoot is the root dispatch: execute supplied SQL once, or enter the
// interactive shell when stdin is a terminal and no SQL was given.
func RunRoot(cmd *cobra.Command, args []string) error {
	cfg := config.FromContext(cmd.Context())

	inputFile, _ := cmd.Flags().GetString("input")

	var sqlText string
	switch {
	case len(args) > 0:
		sqlText = strings.Join(args, " ")
	case inputFile != "":
		content, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlText = string(content)
	case !isTerminal(os.Stdin):
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlText = string(content)
	default:
		return runShell(cmd, cfg)
	}

	if strings.TrimSpace(sqlText) == "" {
		return fmt.Errorf("no SQL to execute")
	}
	return executeAndRender(cmd.Context(), cmd, cfg, sqlText)
}

func executeAndRender(ctx context.Context, cmd *cobra.Command, cfg *config.Config, sqlText string) error {
	a, err := openAdapter(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	query := strings.TrimSuffix(strings.TrimSpace(sqlText), ";")
	rows, err := a.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	_, err = render.Rows(cmd.OutOrStdout(), rows, cfg.Format)
	return err
}

// runShell connects and hands control to the interactive shell.
func runShell(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	logger := config.GetLogger(ctx)

	a, err := openAdapter(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	log, err := openLog(cfg)
	if err != nil {
		// The shell is usable without its audit log
		logger.Warn("statement log unavailable", "path", cfg.Shell.LogFile, "error", err)
		log = nil
	}
	if log != nil {
		defer func() { _ = log.Close() }()
		if cfg.Shell.LogKeepDays > 0 {
			if n, err := log.Prune(ctx, cfg.Shell.LogKeepDays); err == nil && n > 0 {
				logger.Debug("pruned statement log", "removed", n)
			}
		}
	}

	sh := shell.New(shell.Options{
		Adapter:     a,
		Log:         log,
		Format:      cfg.Format,
		Timer:       cfg.Shell.Timer,
		Highlight:   cfg.Shell.Highlight,
		HistoryFile: cfg.Shell.HistoryFile,
		Stdout:      cmd.OutOrStdout(),
		Stderr:      cmd.ErrOrStderr(),
	})
	return sh.Run(ctx)
}
