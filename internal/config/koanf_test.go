// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfigFile writes a YAML config into a temp dir and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	return path
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Data.Source != SourceFile {
		t.Errorf("Data.Source = %q, want %q", cfg.Data.Source, SourceFile)
	}
	if cfg.Data.SongsTable != "songs" {
		t.Errorf("Data.SongsTable = %q, want songs", cfg.Data.SongsTable)
	}
	if !cfg.Data.Breaker.Enabled {
		t.Error("Data.Breaker.Enabled should be true by default")
	}
	if cfg.Graph.ReloadInterval != 0 {
		t.Errorf("Graph.ReloadInterval = %v, want 0", cfg.Graph.ReloadInterval)
	}
	if cfg.Recommend.DefaultK != 5 {
		t.Errorf("Recommend.DefaultK = %d, want 5", cfg.Recommend.DefaultK)
	}
	if cfg.Recommend.CacheTTL != 5*time.Minute {
		t.Errorf("Recommend.CacheTTL = %v, want 5m", cfg.Recommend.CacheTTL)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() = %v, want nil", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"HTTP_SHUTDOWN_TIMEOUT", "server.shutdown_timeout"},
		{"LOG_LEVEL", "logging.level"},
		{"DATA_SOURCE", "data.source"},
		{"SONG_DATA_PATH", "data.song_path"},
		{"PLAYLIST_DATA_PATH", "data.playlist_path"},
		{"DUCKDB_PATH", "data.duckdb_path"},
		{"DATA_BREAKER_FAILURES", "data.breaker.consecutive_failures"},
		{"GRAPH_RELOAD_INTERVAL", "graph.reload_interval"},
		{"RECOMMEND_MAX_K", "recommend.max_k"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"log_format", "logging.format"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		path := writeConfigFile(t, "server:\n  port: 9000\n")
		t.Setenv(ConfigPathEnvVar, path)

		if got := findConfigFile(); got != path {
			t.Errorf("findConfigFile() = %q, want %q", got, path)
		}
		if got := ConfigFilePath(); got != path {
			t.Errorf("ConfigFilePath() = %q, want %q", got, path)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")

		got := findConfigFile()
		if got == "/non/existent/config.yaml" {
			t.Errorf("findConfigFile() returned a missing file")
		}
	})
}

func TestLoadFrom_EnvVars(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_MAX_K", "20")
	t.Setenv("GRAPH_RELOAD_INTERVAL", "30m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.MaxK != 20 {
		t.Errorf("Recommend.MaxK = %d, want 20", cfg.Recommend.MaxK)
	}
	if cfg.Graph.ReloadInterval != 30*time.Minute {
		t.Errorf("Graph.ReloadInterval = %v, want 30m", cfg.Graph.ReloadInterval)
	}
	want := []string{"https://a.example", "https://b.example"}
	if strings.Join(cfg.Security.CORSOrigins, "|") != strings.Join(want, "|") {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}

	// Defaults survive for unset values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
}

func TestLoadFrom_ConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8888
  host: "127.0.0.1"
data:
  source: duckdb
  duckdb_path: /tmp/catalog.duckdb
  breaker:
    consecutive_failures: 5
recommend:
  default_k: 3
logging:
  level: warn
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want 8888", cfg.Server.Port)
	}
	if cfg.Data.Source != SourceDuckDB {
		t.Errorf("Data.Source = %q, want duckdb", cfg.Data.Source)
	}
	if cfg.Data.DuckDBPath != "/tmp/catalog.duckdb" {
		t.Errorf("Data.DuckDBPath = %q", cfg.Data.DuckDBPath)
	}
	if cfg.Data.Breaker.ConsecutiveFailures != 5 {
		t.Errorf("Data.Breaker.ConsecutiveFailures = %d, want 5", cfg.Data.Breaker.ConsecutiveFailures)
	}
	if cfg.Data.Breaker.MaxRequests != 1 {
		t.Errorf("Data.Breaker.MaxRequests = %d, want 1 (default)", cfg.Data.Breaker.MaxRequests)
	}
	if cfg.Recommend.DefaultK != 3 {
		t.Errorf("Recommend.DefaultK = %d, want 3", cfg.Recommend.DefaultK)
	}
	if cfg.Data.SongsTable != "songs" {
		t.Errorf("Data.SongsTable = %q, want songs (default)", cfg.Data.SongsTable)
	}
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 8888\nlogging:\n  level: warn\n")
	t.Setenv("HTTP_PORT", "7777")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777 (env)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn (file)", cfg.Logging.Level)
	}
}

func TestLoadFrom_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("LoadFrom(missing) error = nil")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DATA_SOURCE", "postgres")
		_, err := LoadFrom("")
		if err == nil || !strings.Contains(err.Error(), "DATA_SOURCE") {
			t.Errorf("LoadFrom() error = %v, want DATA_SOURCE error", err)
		}
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "HTTP_TIMEOUT"},
		{"unknown source", func(c *Config) { c.Data.Source = "s3" }, "DATA_SOURCE"},
		{"file without songs", func(c *Config) { c.Data.SongPath = "" }, "SONG_DATA_PATH"},
		{"file without playlists", func(c *Config) { c.Data.PlaylistPath = "" }, "PLAYLIST_DATA_PATH"},
		{"duckdb without path", func(c *Config) {
			c.Data.Source = SourceDuckDB
			c.Data.DuckDBPath = ""
		}, "DUCKDB_PATH"},
		{"duckdb bad table", func(c *Config) {
			c.Data.Source = SourceDuckDB
			c.Data.SongsTable = "songs; DROP TABLE x"
		}, "DUCKDB_SONGS_TABLE"},
		{"breaker zero failures", func(c *Config) { c.Data.Breaker.ConsecutiveFailures = 0 }, "DATA_BREAKER_FAILURES"},
		{"breaker disabled skips checks", func(c *Config) {
			c.Data.Breaker.Enabled = false
			c.Data.Breaker.ConsecutiveFailures = 0
		}, ""},
		{"negative reload", func(c *Config) { c.Graph.ReloadInterval = -time.Second }, "GRAPH_RELOAD_INTERVAL"},
		{"tiny reload", func(c *Config) { c.Graph.ReloadInterval = time.Millisecond }, "GRAPH_RELOAD_INTERVAL"},
		{"zero default k", func(c *Config) { c.Recommend.DefaultK = 0 }, "RECOMMEND_DEFAULT_K"},
		{"max below default", func(c *Config) { c.Recommend.MaxK = 2 }, "RECOMMEND_MAX_K"},
		{"cache without ttl", func(c *Config) { c.Recommend.CacheTTL = 0 }, "RECOMMEND_CACHE_TTL"},
		{"no cors origins", func(c *Config) { c.Security.CORSOrigins = nil }, "CORS_ORIGINS"},
		{"rate limit zero", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQS"},
		{"rate limit disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad window", func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, "RATE_LIMIT_WINDOW"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.wantErr)
			}
		})
	}
}

func TestHasWildcardCORS(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if !cfg.HasWildcardCORS() {
		t.Error("HasWildcardCORS() = false for default origins")
	}
	cfg.Security.CORSOrigins = []string{"https://a.example"}
	if cfg.HasWildcardCORS() {
		t.Error("HasWildcardCORS() = true for explicit origins")
	}
}
