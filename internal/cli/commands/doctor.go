package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/quill-sh/quill/internal/adapter"
	"github.com/quill-sh/quill/internal/cli/config"
	"github.com/quill-sh/quill/internal/shell"
)

// connectTimeout bounds the doctor's connection attempt; a hung remote
// target should not hang the diagnosis.
const connectTimeout = 5 * time.Second

type checkResult struct {
	Name   string
	OK     bool
	Detail string
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment and target connectivity",
		Long: `Run environment checks: configuration, driver registration, database
connectivity, and the statement log store. Exits non-zero if any check
fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
}

func runDoctor(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	checks := []struct {
		name string
		fn   func(context.Context) checkResult
	}{
		{"config", func(context.Context) checkResult { return checkConfig() }},
		{"driver", func(context.Context) checkResult { return checkDriver(cfg) }},
		{"connection", func(ctx context.Context) checkResult { return checkConnection(ctx, cfg) }},
		{"statement log", func(context.Context) checkResult { return checkLog(cfg) }},
	}

	results := make([]checkResult, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range checks {
		g.Go(func() error {
			results[i] = c.fn(gctx)
			return nil
		})
	}
	_ = g.Wait()

	title := cases.Title(language.English)
	theme := shell.DefaultTheme()

	failed := 0
	for _, r := range results {
		mark := theme.Pass.Render("ok")
		if !r.OK {
			mark = theme.Fail.Render("FAIL")
			failed++
		}
		line := fmt.Sprintf("%-16s %s", title.String(r.Name), mark)
		if r.Detail != "" {
			line += "  " + r.Detail
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nAll checks passed")
	return nil
}

func checkConfig() checkResult {
	if used := config.ConfigFileUsed(); used != "" {
		return checkResult{Name: "config", OK: true, Detail: used}
	}
	return checkResult{Name: "config", OK: true, Detail: "no config file (using defaults)"}
}

func checkDriver(cfg *config.Config) checkResult {
	if adapter.IsRegistered(cfg.Target.Driver) {
		return checkResult{Name: "driver", OK: true, Detail: cfg.Target.Driver}
	}
	return checkResult{
		Name:   "driver",
		OK:     false,
		Detail: fmt.Sprintf("%q not registered (available: %v)", cfg.Target.Driver, adapter.Registered()),
	}
}

func checkConnection(ctx context.Context, cfg *config.Config) checkResult {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	a, err := openAdapter(ctx, cfg)
	if err != nil {
		return checkResult{Name: "connection", OK: false, Detail: err.Error()}
	}
	defer func() { _ = a.Close() }()
	return checkResult{Name: "connection", OK: true, Detail: describeTarget(cfg.Target)}
}

func checkLog(cfg *config.Config) checkResult {
	if cfg.Shell.LogFile == "" {
		return checkResult{Name: "statement log", OK: true, Detail: "disabled"}
	}
	store, err := openLog(cfg)
	if err != nil {
		return checkResult{Name: "statement log", OK: false, Detail: err.Error()}
	}
	defer func() { _ = store.Close() }()

	version, err := store.MigrationVersion()
	if err != nil {
		return checkResult{Name: "statement log", OK: false, Detail: err.Error()}
	}
	return checkResult{
		Name:   "statement log",
		OK:     true,
		Detail: fmt.Sprintf("%s (schema v%d)", cfg.Shell.LogFile, version),
	}
}

func describeTarget(t *config.TargetConfig) string {
	switch t.Driver {
	case "postgres":
		return fmt.Sprintf("%s://%s:%d/%s", t.Driver, t.Host, t.Port, t.Database)
	default:
		return fmt.Sprintf("%s:%s", t.Driver, t.Path)
	}
}
