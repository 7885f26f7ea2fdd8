// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package config

import (
	"fmt"
	"regexp"
	"time"
)

// Rate limiting bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// tableNamePattern restricts table names to plain SQL identifiers, since
// they are interpolated into queries.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateData(); err != nil {
		return err
	}

	if err := c.validateGraph(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateData validates the data source selection and its settings
func (c *Config) validateData() error {
	switch c.Data.Source {
	case SourceFile:
		if c.Data.SongPath == "" {
			return fmt.Errorf("SONG_DATA_PATH is required when DATA_SOURCE=file")
		}
		if c.Data.PlaylistPath == "" {
			return fmt.Errorf("PLAYLIST_DATA_PATH is required when DATA_SOURCE=file")
		}
	case SourceDuckDB:
		if c.Data.DuckDBPath == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DATA_SOURCE=duckdb")
		}
		if !tableNamePattern.MatchString(c.Data.SongsTable) {
			return fmt.Errorf("DUCKDB_SONGS_TABLE %q is not a valid table name", c.Data.SongsTable)
		}
		if !tableNamePattern.MatchString(c.Data.PlaylistTable) {
			return fmt.Errorf("DUCKDB_PLAYLIST_TABLE %q is not a valid table name", c.Data.PlaylistTable)
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be one of: %s, %s", SourceFile, SourceDuckDB)
	}

	return c.validateBreaker()
}

// validateBreaker validates circuit breaker settings (only if enabled)
func (c *Config) validateBreaker() error {
	b := c.Data.Breaker
	if !b.Enabled {
		return nil
	}
	if b.MaxRequests == 0 {
		return fmt.Errorf("DATA_BREAKER_MAX_REQUESTS must be at least 1")
	}
	if b.ConsecutiveFailures == 0 {
		return fmt.Errorf("DATA_BREAKER_FAILURES must be at least 1")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("DATA_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateGraph validates graph build settings
func (c *Config) validateGraph() error {
	if c.Graph.ReloadInterval < 0 {
		return fmt.Errorf("GRAPH_RELOAD_INTERVAL must not be negative")
	}
	if c.Graph.ReloadInterval > 0 && c.Graph.ReloadInterval < time.Second {
		return fmt.Errorf("GRAPH_RELOAD_INTERVAL must be at least 1s when set")
	}
	if c.Graph.BuildTimeout <= 0 {
		return fmt.Errorf("GRAPH_BUILD_TIMEOUT must be positive")
	}
	return nil
}

// validateRecommend validates recommendation engine limits
func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultK < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be at least 1")
	}
	if c.Recommend.MaxK < c.Recommend.DefaultK {
		return fmt.Errorf("RECOMMEND_MAX_K (%d) must be >= RECOMMEND_DEFAULT_K (%d)",
			c.Recommend.MaxK, c.Recommend.DefaultK)
	}
	if c.Recommend.CacheEnabled && c.Recommend.CacheTTL <= 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must be positive when caching is enabled")
	}
	return nil
}

// validateSecurity validates HTTP exposure settings
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return c.validateRateLimits()
}

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
