package config

import "time"

const (
	// DefaultMaxResults caps the number of results per search.
	DefaultMaxResults = 100
	// DefaultMaxPages bounds how many pages of each document are read.
	DefaultMaxPages = 5
	// DefaultPatternTimeout bounds a single pattern match against one text.
	DefaultPatternTimeout = 2 * time.Second
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Search.Directory == "" {
		cfg.Search.Directory = "./pdfs"
	}
	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = DefaultMaxResults
	}
	if cfg.Search.MaxPages <= 0 {
		cfg.Search.MaxPages = DefaultMaxPages
	}
	if len(cfg.Search.Extensions) == 0 {
		cfg.Search.Extensions = []string{".pdf"}
	}
	if cfg.Search.PatternTimeout <= 0 {
		cfg.Search.PatternTimeout = DefaultPatternTimeout
	}
	// Recursive defaults to true when unset (nil).
	if cfg.Search.Recursive == nil {
		t := true
		cfg.Search.Recursive = &t
	}
}
