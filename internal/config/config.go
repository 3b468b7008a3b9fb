// Package config provides configuration loading and structs for the pdfseek server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug  bool         `yaml:"debug"`
	Server ServerConfig `yaml:"server"`
	Search SearchConfig `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SearchConfig holds the settings of the search engine. It is read once at startup
// and handed to the engine by value.
type SearchConfig struct {
	Directory      string        `yaml:"directory"`
	CaseSensitive  bool          `yaml:"case_sensitive"`
	Recursive      *bool         `yaml:"recursive"`
	MaxResults     int           `yaml:"max_results"`
	MaxPages       int           `yaml:"max_pages"`
	Extensions     []string      `yaml:"extensions"`
	PatternTimeout time.Duration `yaml:"pattern_timeout"`
}

// RecursiveOrDefault returns whether subdirectories are scanned; defaults to true when unset.
func (s *SearchConfig) RecursiveOrDefault() bool {
	if s.Recursive != nil {
		return *s.Recursive
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Search.Directory = strings.Trim(strings.TrimSpace(cfg.Search.Directory), `"'`)
	ApplyDefaults(&cfg)
	cfg.Search.Directory = expandPath(cfg.Search.Directory, filepath.Dir(path))

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Relative paths ("./pdfs", "pdfs") are
// relative to configDir; "~/" is relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
		return path
	}
	return filepath.Join(configDir, path)
}
