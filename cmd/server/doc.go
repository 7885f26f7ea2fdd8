// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

/*
Package main is the entry point for the Songgraph recommendation server.

Songgraph builds a bipartite graph of users and songs from listening data and
serves greedy top-k song recommendations over HTTP.

# Application Architecture

	RootSupervisor ("songgraph")
	├── DataSupervisor ("data-layer")
	│   └── Graph loader (build, periodic rebuild, on-demand reload)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router, /api/v1 and /metrics)

Startup order:

 1. Configuration: koanf v2 (defaults, YAML file, environment)
 2. Logging: zerolog with JSON or console output
 3. Recommendation engine with its response cache
 4. Data source: flat files or DuckDB, behind a circuit breaker
 5. Supervisor tree: suture v4 with events logged through zerolog
 6. HTTP server

The HTTP server starts before the first graph is published. Until then
/api/v1/health/ready returns 503 and recommendation endpoints return
SERVICE_UNAVAILABLE.

# Configuration

	Priority: Environment variables > Config file > Defaults

	HTTP_PORT=8080
	LOG_LEVEL=info                 # trace, debug, info, warn, error
	LOG_FORMAT=json                # json or console
	DATA_SOURCE=file               # file or duckdb
	SONG_DATA_PATH=data/song_data.txt
	PLAYLIST_DATA_PATH=data/playlist_data.txt
	DUCKDB_PATH=data/catalog.duckdb
	GRAPH_RELOAD_INTERVAL=0        # 0 builds once
	RECOMMEND_DEFAULT_K=5
	RECOMMEND_MAX_K=100

The config file is found through CONFIG_PATH or ./config.yaml. When a file is
in use it is watched: recommendation limits and the log level are applied
without a restart. Other settings need one.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
server.shutdown_timeout and the graph loader abandons any build in progress.
*/
package main
