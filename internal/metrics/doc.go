// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rejected by rate limiter (counter)

Recommendation Metrics:
  - recommendation_requests_total: Requests by outcome (counter)
    Labels: result (ok, invalid, not_found, not_ready, error)
  - recommendation_duration_seconds: Greedy selection latency (histogram)
  - recommendation_result_size: Songs returned per request (histogram)
  - recommendation_cache_hits_total, recommendation_cache_misses_total
  - similarity_requests_total: Pairwise lookups by outcome (counter)

Graph Metrics:
  - graph_vertices: Vertices by kind (gauge)
  - graph_edges: Undirected edges (gauge)
  - graph_version: Active graph version (gauge)
  - graph_build_duration_seconds, graph_build_failures_total
  - graph_last_build_success_timestamp

Ingest Metrics:
  - ingest_records_total: Loaded songs and playlist entries (counter)
  - ingest_skipped_total: Records skipped during a build (counter)
  - duckdb_query_duration_seconds, duckdb_query_errors_total
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_state_transitions_total

# Usage

	start := time.Now()
	ids, err := engine.Recommend(ctx, req)
	metrics.RecordRecommendation(metrics.OutcomeOK, time.Since(start), len(ids))
*/
package metrics
