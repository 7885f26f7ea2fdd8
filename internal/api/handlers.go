// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/songgraph/internal/ingest"
	"github.com/tomtom215/songgraph/internal/middleware"
	"github.com/tomtom215/songgraph/internal/recommend"
)

// GraphLoader is the graph loading service as seen by the API.
type GraphLoader interface {
	// RequestReload queues a rebuild. It returns false if one is already queued.
	RequestReload() bool

	// LastBuild reports the most recent build attempt. The time is zero
	// before the first attempt finishes.
	LastBuild() (ingest.BuildStats, time.Time, error)
}

// HandlerConfig holds the handler settings taken from the server config.
type HandlerConfig struct {
	Version        string
	RequestTimeout time.Duration
}

// Handler serves the HTTP API.
type Handler struct {
	engine    *recommend.Engine
	loader    GraphLoader
	latency   *middleware.LatencyTracker
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a handler. loader and latency may be nil, which disables
// reloads and latency reporting respectively.
func NewHandler(engine *recommend.Engine, loader GraphLoader, latency *middleware.LatencyTracker, cfg HandlerConfig) *Handler {
	return &Handler{
		engine:    engine,
		loader:    loader,
		latency:   latency,
		config:    cfg,
		startTime: time.Now(),
	}
}

// requestContext bounds engine work by the configured request timeout.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.config.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.config.RequestTimeout)
}
