// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/songgraph/internal/ingest"
	"github.com/tomtom215/songgraph/internal/recommend"
)

// Health states.
const (
	StatusHealthy  = "healthy"
	StatusStarting = "starting"
	StatusDegraded = "degraded"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string           `json:"status"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Graph         recommend.Status `json:"graph"`
	LastBuild     *BuildInfo       `json:"last_build,omitempty"`
}

// BuildInfo describes the most recent graph build attempt.
type BuildInfo struct {
	ingest.BuildStats
	FinishedAt time.Time `json:"finished_at"`
	Error      string    `json:"error,omitempty"`
}

// Health handles GET /api/v1/health. A server still building its first graph
// reports "starting"; one whose latest rebuild failed while still serving an
// older graph reports "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        StatusHealthy,
		Version:       h.config.Version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Graph:         h.engine.GetStatus(),
		LastBuild:     h.lastBuild(),
	}
	switch {
	case !resp.Graph.Ready:
		resp.Status = StatusStarting
	case resp.LastBuild != nil && resp.LastBuild.Error != "":
		resp.Status = StatusDegraded
	}

	NewResponseWriter(w, r).Success(resp)
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready. It fails until a graph is published.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.engine.IsReady() {
		rw.ServiceUnavailable("Graph is still loading")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}

func (h *Handler) lastBuild() *BuildInfo {
	if h.loader == nil {
		return nil
	}
	stats, finished, err := h.loader.LastBuild()
	if finished.IsZero() {
		return nil
	}
	info := &BuildInfo{BuildStats: stats, FinishedAt: finished}
	if err != nil {
		info.Error = err.Error()
	}
	return info
}
