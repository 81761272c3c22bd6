// Package config loads the service configuration from an optional YAML
// file. Every field has a usable default so the service runs with no
// config at all; the candidate database paths are a deployment concern and
// the main thing operators override.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListen       = ":8001"
	DefaultDatabaseName = "database.wpersons"
)

type Config struct {
	// DatabasePaths is the ordered candidate list for the runner database
	// file; the first existing path wins.
	DatabasePaths []string `yaml:"database_paths"`

	// Listen is the HTTP listen address. When the port is taken, the
	// server walks up to ten successive ports before giving up.
	Listen string `yaml:"listen"`

	// Watch enables the fsnotify watcher that refreshes the index as soon
	// as the timing software rewrites the file.
	Watch bool `yaml:"watch"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration: look for the database next
// to the working directory first, then in the user's MeOS documents
// folder.
func Default() *Config {
	candidates := []string{DefaultDatabaseName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, "Documents", "MeOS", DefaultDatabaseName),
			filepath.Join(home, ".meos", DefaultDatabaseName),
		)
	}
	return &Config{
		DatabasePaths: candidates,
		Listen:        DefaultListen,
		LogLevel:      "info",
	}
}

// Load reads a YAML config file over the defaults. A missing file is not
// an error; it just yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	for i, p := range cfg.DatabasePaths {
		cfg.DatabasePaths[i] = expandHome(p)
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	return cfg, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
