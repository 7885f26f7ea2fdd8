// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

/*
Package api provides the HTTP REST API for Songgraph.

Every endpoint answers in the same envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
	{"success": false, "error": {"code": "INVALID_INPUT", "message": "..."}, "meta": {...}}

Endpoints:

	GET  /api/v1/health                    liveness, graph readiness and last build
	GET  /api/v1/health/live               liveness probe
	GET  /api/v1/health/ready              503 until the first graph is published
	GET  /api/v1/songs?q=&limit=           song ids, optional case-insensitive prefix
	GET  /api/v1/songs/{song}/neighbours   users who listed the song
	GET  /api/v1/attributes                attribute names usable for scoring
	GET  /api/v1/similarity?a=&b=&attributes=
	GET  /api/v1/recommendations/{song}?k=&attributes=Energy,Tempo
	GET  /api/v1/recommendations/status    engine status, counters and limits
	GET  /api/v1/stats/latency             per-route latency percentiles
	POST /api/v1/graph/reload              queue a graph rebuild
	GET  /metrics                          Prometheus

A song id is a path segment; names containing "/" must be sent as %2F.
A song literally named "status" is shadowed by the status route.

Error mapping:

  - graph still loading: 503 SERVICE_UNAVAILABLE
  - unknown song: 404 INVALID_INPUT
  - user id given where a song is expected, unknown attribute: 400 INVALID_INPUT
  - malformed parameters: 400 VALIDATION_FAILED or BAD_REQUEST
  - rate limited: 429 TOO_MANY_REQUESTS

Usage Example:

	handler := api.NewHandler(engine, loader, latency, api.HandlerConfig{Version: version})
	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security))
	srv := &http.Server{Handler: api.NewRouter(handler, mw, latency).Setup()}
*/
package api
