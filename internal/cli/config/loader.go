package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// maxUpwardSearchLevels limits how far up the directory tree to search
// for config files.
const maxUpwardSearchLevels = 10

var configFileUsed string

// configExistsIn checks if a quill config file exists in the directory.
func configExistsIn(dir string) string {
	for _, name := range []string{"quill.yaml", "quill.yml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigFile finds the config file to use: an explicit path wins,
// otherwise search upward from CWD.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if found := configExistsIn(dir); found != "" {
			return found
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// flagKeyMap bridges flag names to config keys. Connection flags land
// under target.*; the rest map kebab-case to snake_case.
var flagKeyMap = map[string]string{
	"driver":   "target.driver",
	"path":     "target.path",
	"host":     "target.host",
	"port":     "target.port",
	"database": "target.database",
	"user":     "target.user",
	"schema":   "target.schema",
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// envOverride selects which environments.<name>.target to merge over
// the base target.
func Load(cfgFile, envOverride string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"target.driver":       DefaultDriver,
		"target.path":         DefaultPath,
		"format":              DefaultFormat,
		"verbose":             false,
		"shell.history_file":  DefaultHistoryFile,
		"shell.log_file":      DefaultLogFile,
		"shell.highlight":     true,
		"shell.timer":         false,
		"shell.log_keep_days": 0,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables (QUILL_ prefix)
	// Double underscore nests: QUILL_TARGET__DRIVER -> target.driver.
	// Single underscores stay literal so snake_case keys such as
	// shell.log_file remain reachable (QUILL_SHELL__LOG_FILE).
	if err := k.Load(env.Provider("QUILL_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "QUILL_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			if key, ok := flagKeyMap[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Project root: config file directory, else CWD
	if configFileUsed != "" {
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			cfg.ProjectRoot = filepath.Dir(abs)
		}
	}
	if cfg.ProjectRoot == "" {
		cwd, _ := os.Getwd()
		if cwd == "" {
			cwd = "."
		}
		cfg.ProjectRoot = cwd
	}

	// 7. Environment target merge
	envName := cfg.Environment
	if envOverride != "" {
		envName = envOverride
		cfg.Environment = envOverride
	}
	if envName != "" {
		envCfg, ok := cfg.Environments[envName]
		if !ok {
			return nil, fmt.Errorf("environment %q not defined in config", envName)
		}
		if envCfg.Target != nil {
			cfg.Target = MergeTargetConfig(cfg.Target, envCfg.Target)
		}
	}

	if cfg.Target == nil {
		cfg.Target = &TargetConfig{Driver: DefaultDriver, Path: DefaultPath}
	}
	applyTargetDefaults(cfg.Target)
	expandTargetEnvVars(cfg.Target)

	// Shell paths resolve against HOME so every project shares one
	// history and log unless configured otherwise.
	cfg.Shell.HistoryFile = resolveShellPath(cfg.Shell.HistoryFile)
	cfg.Shell.LogFile = resolveShellPath(cfg.Shell.LogFile)

	if err := ValidateTarget(cfg.Target); err != nil {
		return nil, fmt.Errorf("invalid target configuration: %w", err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the path to the config file being used, if any.
func ConfigFileUsed() string {
	return configFileUsed
}

// applyTargetDefaults fills driver-dependent defaults.
func applyTargetDefaults(t *TargetConfig) {
	if t.Driver == "" {
		t.Driver = DefaultDriver
	}
	switch t.Driver {
	case "sqlite", "duckdb":
		if t.Path == "" {
			t.Path = ":memory:"
		}
	case "postgres":
		if t.Port == 0 {
			t.Port = 5432
		}
	}
}

// resolveShellPath resolves a relative shell path against $HOME, and
// leaves absolute paths and ":memory:" untouched.
func resolveShellPath(path string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path)
}

// expandEnvVars expands ${VAR} patterns with environment variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // unset variables are left as-is
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
}
