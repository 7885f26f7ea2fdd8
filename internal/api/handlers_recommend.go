// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/songgraph/internal/graph"
	"github.com/tomtom215/songgraph/internal/logging"
	"github.com/tomtom215/songgraph/internal/metrics"
	"github.com/tomtom215/songgraph/internal/middleware"
	"github.com/tomtom215/songgraph/internal/recommend"
)

// SimilarityResponse is the body of GET /similarity.
type SimilarityResponse struct {
	A          string   `json:"a"`
	B          string   `json:"b"`
	Attributes []string `json:"attributes"`
	graph.Score
}

// StatusResponse is the body of GET /recommendations/status.
type StatusResponse struct {
	Graph   recommend.Status       `json:"graph"`
	Metrics recommend.Metrics      `json:"metrics"`
	Limits  recommend.LimitsConfig `json:"limits"`
}

// Recommendations handles GET /api/v1/recommendations/{song}.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	k, err := getIntParam(r, "k", h.engine.GetConfig().Limits.DefaultK)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req := RecommendRequest{
		Song:       pathParam(r, "song"),
		K:          k,
		Attributes: getListParam(r, "attributes"),
	}
	if !validate(rw, &req) {
		return
	}

	g := h.engine.Graph()
	if g == nil {
		WriteDomainError(rw, recommend.ErrGraphNotReady)
		return
	}
	if err := checkAttributes(g, req.Attributes); err != nil {
		WriteDomainError(rw, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	resp, err := h.engine.Recommend(ctx, recommend.Request{
		RequestID:  logging.RequestIDFromContext(r.Context()),
		Song:       req.Song,
		Attributes: req.Attributes,
		K:          req.K,
	})
	if err != nil {
		WriteDomainError(rw, err)
		return
	}
	rw.Success(resp)
}

// Similarity handles GET /api/v1/similarity.
func (h *Handler) Similarity(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := SimilarityRequest{
		A:          r.URL.Query().Get("a"),
		B:          r.URL.Query().Get("b"),
		Attributes: getListParam(r, "attributes"),
	}
	if !validate(rw, &req) {
		metrics.RecordSimilarity(metrics.OutcomeInvalid)
		return
	}

	g := h.engine.Graph()
	if g == nil {
		metrics.RecordSimilarity(metrics.OutcomeNotReady)
		WriteDomainError(rw, recommend.ErrGraphNotReady)
		return
	}

	score, err := similarity(g, req)
	outcome := recommend.Outcome(err)
	if errors.Is(err, ErrUnknownAttribute) {
		outcome = metrics.OutcomeInvalid
	}
	metrics.RecordSimilarity(outcome)
	if err != nil {
		WriteDomainError(rw, err)
		return
	}

	attrs := req.Attributes
	if attrs == nil {
		attrs = []string{}
	}
	rw.Success(SimilarityResponse{A: req.A, B: req.B, Attributes: attrs, Score: score})
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func similarity(g *graph.Graph, req SimilarityRequest) (graph.Score, error) {
	if err := checkAttributes(g, req.Attributes); err != nil {
		return graph.Score{}, err
	}
	return g.Score(req.A, req.B, req.Attributes)
}

// RecommendationStatus handles GET /api/v1/recommendations/status.
func (h *Handler) RecommendationStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(StatusResponse{
		Graph:   h.engine.GetStatus(),
		Metrics: h.engine.GetMetrics(),
		Limits:  h.engine.GetConfig().Limits,
	})
}

// ReloadGraph handles POST /api/v1/graph/reload. The rebuild runs in the
// background; the published graph changes when it succeeds.
func (h *Handler) ReloadGraph(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.loader == nil {
		rw.ServiceUnavailable(ErrReloadUnavailable.Error())
		return
	}
	if !h.loader.RequestReload() {
		rw.Conflict("A graph reload is already queued")
		return
	}

	log := logging.Ctx(r.Context())
	log.Info().Msg("Graph reload requested")
	rw.Accepted(map[string]bool{"queued": true})
}

// Latency handles GET /api/v1/stats/latency.
func (h *Handler) Latency(w http.ResponseWriter, r *http.Request) {
	routes := []middleware.RouteStats{}
	samples := 0
	if h.latency != nil {
		routes = h.latency.Stats()
		samples = h.latency.Len()
	}
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"samples": samples,
		"routes":  routes,
	})
}

// checkAttributes rejects attribute names that no song in g carries.
func checkAttributes(g *graph.Graph, attributes []string) error {
	if len(attributes) == 0 {
		return nil
	}
	known := make(map[string]struct{})
	for _, name := range g.Attributes() {
		known[name] = struct{}{}
	}
	for _, name := range attributes {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("%w %q", ErrUnknownAttribute, name)
		}
	}
	return nil
}
