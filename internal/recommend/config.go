// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/songgraph/internal/config"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains caching parameters.
	Cache CacheConfig `json:"cache"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the default number of recommendations.
	DefaultK int `json:"default_k"`

	// MaxK is the maximum number of recommendations per request.
	// Larger requests are clamped.
	MaxK int `json:"max_k"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// Enabled turns on response caching.
	Enabled bool `json:"enabled"`

	// TTL is how long cached responses remain valid.
	TTL time.Duration `json:"ttl"`

	// InvalidateOnSwap clears the cache when a new graph is published.
	InvalidateOnSwap bool `json:"invalidate_on_swap"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultK: DefaultMaxResults,
			MaxK:     100,
		},
		Cache: CacheConfig{
			Enabled:          true,
			TTL:              5 * time.Minute,
			InvalidateOnSwap: true,
		},
	}
}

// ConfigFromSettings maps the recommend section of the server config.
func ConfigFromSettings(rc config.RecommendConfig) *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultK: rc.DefaultK,
			MaxK:     rc.MaxK,
		},
		Cache: CacheConfig{
			Enabled:          rc.CacheEnabled,
			TTL:              rc.CacheTTL,
			InvalidateOnSwap: rc.InvalidateOnSwap,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when caching is enabled, got %v", c.Cache.TTL)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	return &Config{
		Limits: c.Limits,
		Cache:  c.Cache,
	}
}
