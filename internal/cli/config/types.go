// Package config provides configuration management for the Quill CLI.
//
// Configuration is layered: defaults, then quill.yaml, then QUILL_*
// environment variables (double underscore nests: QUILL_TARGET__DRIVER
// sets target.driver), then flags, highest last.
package config

// Defaults applied before any configuration source is read.
const (
	DefaultDriver      = "sqlite"
	DefaultPath        = ":memory:"
	DefaultFormat      = "table"
	DefaultHistoryFile = ".quill/history"
	DefaultLogFile     = ".quill/log.db"
)

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Driver   string            `koanf:"driver"`
	Path     string            `koanf:"path"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
}

// EnvConfig holds per-environment overrides.
type EnvConfig struct {
	Target *TargetConfig `koanf:"target"`
}

// ShellConfig holds interactive shell settings.
type ShellConfig struct {
	HistoryFile string `koanf:"history_file"`
	LogFile     string `koanf:"log_file"`
	Highlight   bool   `koanf:"highlight"`
	Timer       bool   `koanf:"timer"`
	LogKeepDays int    `koanf:"log_keep_days"`
}

// Config holds all CLI configuration options.
type Config struct {
	Target       *TargetConfig        `koanf:"target"`
	Environments map[string]EnvConfig `koanf:"environments"`
	Environment  string               `koanf:"environment"`
	Format       string               `koanf:"format"`
	Verbose      bool                 `koanf:"verbose"`
	Shell        ShellConfig          `koanf:"shell"`

	// ProjectRoot is the directory the config file was found in (or the
	// CWD). Not serialized.
	ProjectRoot string `koanf:"-"`
}

// MergeTargetConfig merges two target configs, with override taking precedence.
func MergeTargetConfig(base, override *TargetConfig) *TargetConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	merged.Options = make(map[string]string, len(base.Options)+len(override.Options))
	for k, v := range base.Options {
		merged.Options[k] = v
	}

	if override.Driver != "" {
		merged.Driver = override.Driver
	}
	if override.Path != "" {
		merged.Path = override.Path
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.Schema != "" {
		merged.Schema = override.Schema
	}
	for k, v := range override.Options {
		merged.Options[k] = v
	}

	return &merged
}
