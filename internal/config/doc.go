// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

/*
Package config provides centralized configuration management for Songgraph.

Configuration is layered with Koanf, each layer overriding the previous one:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, config.yaml, /etc/songgraph/config.yaml)
 3. Environment variables

# Configuration Structure

  - ServerConfig: HTTP listener, timeouts
  - LoggingConfig: zerolog level, format, caller
  - DataConfig: song and playlist source (flat files or DuckDB) and its circuit breaker
  - GraphConfig: build timeout and periodic reload
  - RecommendConfig: default and maximum K, result cache
  - SecurityConfig: CORS origins and rate limiting

# Environment Variables

Only explicitly mapped variables are read:

	HTTP_PORT=8080
	LOG_LEVEL=debug
	DATA_SOURCE=file
	SONG_DATA_PATH=/data/song_data.txt
	PLAYLIST_DATA_PATH=/data/playlist_data.txt
	GRAPH_RELOAD_INTERVAL=1h
	RECOMMEND_MAX_K=50
	CORS_ORIGINS=https://a.example,https://b.example

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}

Load validates the result; an invalid configuration is returned as an error
naming the offending environment variable.
*/
package config
