// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package config

import "time"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Data      DataConfig      `koanf:"data"`
	Graph     GraphConfig     `koanf:"graph"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`          // read/write timeout
	RequestTimeout  time.Duration `koanf:"request_timeout"`  // per-handler deadline
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // graceful shutdown window
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Data source types
const (
	SourceFile   = "file"
	SourceDuckDB = "duckdb"
)

// DataConfig selects where songs and playlists are loaded from.
type DataConfig struct {
	// Source is "file" (flat song and playlist files) or "duckdb" (catalog database).
	Source string `koanf:"source"`

	SongPath     string `koanf:"song_path"`
	PlaylistPath string `koanf:"playlist_path"`

	DuckDBPath    string `koanf:"duckdb_path"`
	SongsTable    string `koanf:"songs_table"`
	PlaylistTable string `koanf:"playlist_table"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker around the data source.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval after which closed-state counts reset.
	Interval time.Duration `koanf:"interval"`

	// Timeout before an open breaker moves to half-open.
	Timeout time.Duration `koanf:"timeout"`

	// ConsecutiveFailures that trip the breaker.
	ConsecutiveFailures uint32 `koanf:"consecutive_failures"`
}

// GraphConfig controls graph construction.
type GraphConfig struct {
	// ReloadInterval rebuilds the graph periodically. Zero disables reloading.
	ReloadInterval time.Duration `koanf:"reload_interval"`

	// BuildTimeout bounds a single load and build.
	BuildTimeout time.Duration `koanf:"build_timeout"`
}

// RecommendConfig holds recommendation engine limits and caching.
type RecommendConfig struct {
	DefaultK         int           `koanf:"default_k"`
	MaxK             int           `koanf:"max_k"`
	CacheEnabled     bool          `koanf:"cache_enabled"`
	CacheTTL         time.Duration `koanf:"cache_ttl"`
	InvalidateOnSwap bool          `koanf:"invalidate_on_swap"`
}

// SecurityConfig holds HTTP exposure settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}
