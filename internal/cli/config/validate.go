package config

import (
	"fmt"

	"github.com/quill-sh/quill/internal/adapter"
)

// ValidateTarget checks that a target is usable before any connection
// attempt: the driver must be registered and network drivers need a
// host and database name.
func ValidateTarget(t *TargetConfig) error {
	if t == nil {
		return fmt.Errorf("no target configured")
	}
	if !adapter.IsRegistered(t.Driver) {
		return fmt.Errorf("unknown driver %q (available: %v)", t.Driver, adapter.Registered())
	}

	switch t.Driver {
	case "postgres":
		if t.Host == "" {
			return fmt.Errorf("postgres target requires a host")
		}
		if t.Database == "" {
			return fmt.Errorf("postgres target requires a database name")
		}
	case "sqlite", "duckdb":
		if t.Path == "" {
			return fmt.Errorf("%s target requires a path (use \":memory:\" for in-memory)", t.Driver)
		}
	}
	return nil
}

// AdapterConfig converts a target into the adapter layer's config.
func (t *TargetConfig) AdapterConfig() adapter.Config {
	return adapter.Config{
		Driver:   t.Driver,
		Path:     t.Path,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		User:     t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
	}
}
