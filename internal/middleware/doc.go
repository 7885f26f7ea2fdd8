// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

/*
Package middleware provides the HTTP middleware shared by the API router.

Key Components:

  - RequestID: X-Request-ID propagation with a request-scoped zerolog logger
  - AccessLog: one structured log line per request
  - PrometheusMetrics: request count, latency and in-flight gauges
  - LatencyTracker: sliding-window latency percentiles per route

Endpoints are labelled by their chi route pattern (for example
"/api/v1/recommendations/{song}") rather than the raw path, so song names
never become metric label values.

Usage Example:

	tracker := middleware.NewLatencyTracker(1000, 500*time.Millisecond)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(tracker.Middleware)

Thread Safety:

All middleware is safe for concurrent use. LatencyTracker guards its window
with a mutex.
*/
package middleware
