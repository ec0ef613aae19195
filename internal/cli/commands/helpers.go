// Package commands implements the quill subcommands.
package commands

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/quill-sh/quill/internal/adapter"
	"github.com/quill-sh/quill/internal/cli/config"
	"github.com/quill-sh/quill/internal/history"
)

// openAdapter creates and connects the adapter for the configured target.
func openAdapter(ctx context.Context, cfg *config.Config) (adapter.Adapter, error) {
	a, ok := adapter.Get(cfg.Target.Driver)
	if !ok {
		return nil, fmt.Errorf("unknown driver %q (available: %v)", cfg.Target.Driver, adapter.Registered())
	}
	if err := a.Connect(ctx, cfg.Target.AdapterConfig()); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Target.Driver, err)
	}
	return a, nil
}

// openLog opens the statement log store, running migrations. A disabled
// log (empty path) returns nil without error.
func openLog(cfg *config.Config) (*history.Store, error) {
	if cfg.Shell.LogFile == "" {
		return nil, nil
	}
	store := history.NewStore()
	if err := store.Open(cfg.Shell.LogFile); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
