// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/songgraph/internal/middleware"
)

// Router wires the handler and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	latency       *middleware.LatencyTracker
}

// NewRouter creates a router. latency may be nil.
func NewRouter(handler *Handler, mw *ChiMiddleware, latency *middleware.LatencyTracker) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw, latency: latency}
}

// Setup builds the HTTP handler for all routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		if router.latency != nil {
			r.Use(router.latency.Middleware)
		}
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/songs", router.handler.Songs)
		r.Get("/songs/{song}/neighbours", router.handler.Neighbours)
		r.Get("/attributes", router.handler.Attributes)
		r.Get("/similarity", router.handler.Similarity)
		r.Get("/recommendations/status", router.handler.RecommendationStatus)
		r.Get("/recommendations/{song}", router.handler.Recommendations)
		r.Get("/stats/latency", router.handler.Latency)
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitReload)).
			Post("/graph/reload", router.handler.ReloadGraph)
	})

	return r
}
