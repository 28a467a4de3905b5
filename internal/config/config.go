// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultBackend  = "json"
	DefaultTheme    = "classic"
	DefaultLogLevel = "warn"
	DefaultSort     = "manual"
	dataFileName    = "todos.json"
	sqliteFileName  = "todos.db"
)

// Config holds the full configuration for the todo CLI.
type Config struct {
	// DataFile is the path of the persisted collection. Empty means the
	// per-user default under ~/.todo.
	DataFile string `toml:"data_file"`

	// Backend selects the storage backend: "json" or "sqlite".
	Backend string `toml:"backend"`

	// Theme selects the output theme: classic, neon, or mono.
	Theme string `toml:"theme"`

	// DefaultSort is the list ordering used when no --sort flag is
	// given: manual, due, prio, or created.
	DefaultSort string `toml:"default_sort"`

	// Logging.
	LogLevel  string `toml:"log_level"`  // debug, info, warn, error
	LogFormat string `toml:"log_format"` // text or json
}

// Load builds the configuration from, in priority order: defaults, the
// user config file (~/.config/todo/todo.toml or $TODO_CONFIG), a project
// todo.toml in the working directory, and environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Backend:     DefaultBackend,
		Theme:       DefaultTheme,
		DefaultSort: DefaultSort,
		LogLevel:    DefaultLogLevel,
		LogFormat:   "text",
	}

	if path := userConfigFile(); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config %s: %w", path, err)
		}
	}
	if path := projectConfigFile(); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading project config %s: %w", path, err)
		}
	}
	loadFromEnv(cfg)

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	return nil
}

// userConfigFile honors $TODO_CONFIG, then the OS config dir.
func userConfigFile() string {
	if p := os.Getenv("TODO_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "todo", "todo.toml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func projectConfigFile() string {
	for _, name := range []string{"todo.toml", ".todo.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("TODO_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// finalize validates enums and resolves the data file path.
func (c *Config) finalize() error {
	switch c.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("invalid backend %q, must be json or sqlite", c.Backend)
	}
	if c.DataFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("home: %w", err)
		}
		name := dataFileName
		if c.Backend == "sqlite" {
			name = sqliteFileName
		}
		c.DataFile = filepath.Join(home, ".todo", name)
	}
	return nil
}
