// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/songgraph/internal/cache"
	"github.com/tomtom215/songgraph/internal/graph"
	"github.com/tomtom215/songgraph/internal/metrics"
)

// Engine serves recommendations from the most recently published graph.
// It is safe for concurrent use.
type Engine struct {
	config   *Config
	configMu sync.RWMutex
	logger   zerolog.Logger

	// Published graph. Replaced wholesale, never mutated through the engine.
	current atomic.Pointer[graphState]
	version atomic.Int64

	cache *cache.Cache

	// Metrics
	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
	latencyNanos atomic.Int64
	served       atomic.Int64
}

// graphState is an immutable record of one published graph.
type graphState struct {
	graph    *graph.Graph
	version  int64
	source   string
	loadedAt time.Time
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	if cfg.Cache.Enabled {
		e.cache = cache.New(cfg.Cache.TTL)
	}
	return e, nil
}

// Close releases background resources.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Stop()
	}
}

// SetGraph publishes g as the graph for subsequent requests. Requests already
// in flight finish against the graph they started with.
func (e *Engine) SetGraph(g *graph.Graph, source string) {
	state := &graphState{
		graph:    g,
		version:  e.version.Add(1),
		source:   source,
		loadedAt: time.Now(),
	}
	e.current.Store(state)

	if e.cache != nil && e.getConfig().Cache.InvalidateOnSwap {
		e.cache.Clear()
	}

	stats := g.Stats()
	e.logger.Info().
		Int64("graph_version", state.version).
		Str("source", source).
		Int("users", stats.Users).
		Int("items", stats.Items).
		Int("edges", stats.Edges).
		Msg("graph published")
}

// Graph returns the currently published graph, or nil before the first publish.
func (e *Engine) Graph() *graph.Graph {
	state := e.current.Load()
	if state == nil {
		return nil
	}
	return state.graph
}

// IsReady reports whether a graph has been published.
func (e *Engine) IsReady() bool {
	return e.current.Load() != nil
}

// Recommend returns the songs most similar to req.Song.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	resp, err := e.recommend(ctx, req, start)
	results := 0
	if resp != nil {
		results = len(resp.Items)
	}
	metrics.RecordRecommendation(Outcome(err), time.Since(start), results)
	return resp, err
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommend(ctx context.Context, req Request, start time.Time) (*Response, error) {

	state := e.current.Load()
	if state == nil {
		e.errorCount.Add(1)
		return nil, ErrGraphNotReady
	}

	if err := ctx.Err(); err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	req, err := e.prepareRequest(req)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	key := e.cacheKey(req, state.version)
	if resp := e.tryGetCachedResponse(key, req, start, logger); resp != nil {
		e.observeLatency(start)
		return resp, nil
	}

	ids, err := Recommend(state.graph, req.Song, req.Attributes, req.K)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("recommend %q: %w", req.Song, err)
	}

	items, err := e.scoreItems(state.graph, req, ids)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	resp := &Response{
		Items:           items,
		TotalCandidates: e.countCandidates(state.graph),
		Metadata:        e.buildResponseMetadata(req, state, start, false),
	}
	e.cacheResponse(key, resp)
	e.observeLatency(start)

	logger.Debug().
		Int("returned", len(items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) (Request, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	limits := e.getConfig().Limits
	switch {
	case req.K < 0:
		return req, fmt.Errorf("%w: got %d", ErrInvalidMaxResults, req.K)
	case req.K == 0:
		req.K = limits.DefaultK
	case req.K > limits.MaxK:
		req.K = limits.MaxK
	}

	if req.Attributes == nil {
		req.Attributes = []string{}
	}
	return req, nil
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("song", req.Song).
		Strs("attributes", req.Attributes).
		Int("k", req.K).
		Logger()
}

// tryGetCachedResponse returns a copy of a cached response, or nil on a miss.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetCachedResponse(key string, req Request, start time.Time, logger zerolog.Logger) *Response {
	if e.cache == nil {
		return nil
	}

	v, ok := e.cache.Get(key)
	cached, isResp := v.(*Response)
	if !ok || !isResp {
		e.cacheMisses.Add(1)
		metrics.RecordRecommendationCache(false)
		return nil
	}

	e.cacheHits.Add(1)
	metrics.RecordRecommendationCache(true)
	resp := copyResponse(cached)
	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	resp.Metadata.Timestamp = time.Now()
	logger.Debug().Msg("cache hit")
	return resp
}

// cacheResponse stores a copy of the response if caching is enabled.
func (e *Engine) cacheResponse(key string, resp *Response) {
	if e.cache != nil {
		e.cache.Set(key, copyResponse(resp))
	}
}

// scoreItems attaches the score breakdown to each selected song.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) scoreItems(g *graph.Graph, req Request, ids []string) ([]ScoredItem, error) {
	items := make([]ScoredItem, 0, len(ids))
	for i, id := range ids {
		s, err := g.Score(req.Song, id, req.Attributes)
		if err != nil {
			return nil, fmt.Errorf("score %q: %w", id, err)
		}
		items = append(items, ScoredItem{
			ID:                id,
			Rank:              i + 1,
			Score:             s.Combined,
			Structural:        s.Structural,
			AttributeDistance: s.AttributeDistance,
		})
	}
	return items, nil
}

// countCandidates returns the number of songs other than the query.
func (e *Engine) countCandidates(g *graph.Graph) int {
	n := g.Stats().Items - 1
	if n < 0 {
		return 0
	}
	return n
}

// buildResponseMetadata constructs response metadata.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponseMetadata(req Request, state *graphState, start time.Time, cacheHit bool) ResponseMetadata {
	return ResponseMetadata{
		RequestID:    req.RequestID,
		Song:         req.Song,
		Attributes:   req.Attributes,
		K:            req.K,
		LatencyMS:    time.Since(start).Milliseconds(),
		CacheHit:     cacheHit,
		GraphVersion: state.version,
		GraphBuiltAt: state.loadedAt,
		Timestamp:    time.Now(),
	}
}

// cacheKey identifies a request against one graph version.
//
//nolint:gocritic // hugeParam: req passed by value for simplicity
func (e *Engine) cacheKey(req Request, version int64) string {
	return cache.GenerateKey("recommend", struct {
		Song       string   `json:"song"`
		Attributes []string `json:"attributes"`
		K          int      `json:"k"`
		Version    int64    `json:"version"`
	}{req.Song, req.Attributes, req.K, version})
}

// observeLatency accumulates latency for the running average.
func (e *Engine) observeLatency(start time.Time) {
	e.latencyNanos.Add(int64(time.Since(start)))
	e.served.Add(1)
}

// GetStatus describes the currently published graph.
func (e *Engine) GetStatus() Status {
	state := e.current.Load()
	if state == nil {
		return Status{}
	}
	return Status{
		Ready:        true,
		GraphVersion: state.version,
		Source:       state.source,
		LoadedAt:     state.loadedAt,
		Stats:        state.graph.Stats(),
	}
}

// GetMetrics returns the current engine metrics.
func (e *Engine) GetMetrics() Metrics {
	m := Metrics{
		RequestCount: e.requestCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		ErrorCount:   e.errorCount.Load(),
		GraphSwaps:   e.version.Load(),
	}
	if served := e.served.Load(); served > 0 {
		m.AverageLatencyMS = float64(e.latencyNanos.Load()) / float64(served) / float64(time.Millisecond)
	}
	return m
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.getConfig().Clone()
}

// UpdateConfig replaces the limits and cache invalidation policy. Enabling or
// disabling the cache requires a new engine.
func (e *Engine) UpdateConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	e.configMu.Lock()
	e.config = cfg.Clone()
	e.configMu.Unlock()

	if e.cache != nil {
		e.cache.Clear()
	}
	e.logger.Info().Msg("configuration updated")
	return nil
}

func (e *Engine) getConfig() *Config {
	e.configMu.RLock()
	defer e.configMu.RUnlock()
	return e.config
}

// copyResponse creates a copy of a response so callers cannot mutate cached state.
func copyResponse(resp *Response) *Response {
	items := make([]ScoredItem, len(resp.Items))
	copy(items, resp.Items)

	meta := resp.Metadata
	meta.Attributes = make([]string, len(resp.Metadata.Attributes))
	copy(meta.Attributes, resp.Metadata.Attributes)

	return &Response{
		Items:           items,
		TotalCandidates: resp.TotalCandidates,
		Metadata:        meta,
	}
}

// Outcome classifies a recommendation or similarity error for metrics labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrGraphNotReady):
		return metrics.OutcomeNotReady
	case errors.Is(err, graph.ErrInvalidReference):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrInvalidMaxResults), errors.Is(err, ErrNotAnItem), errors.Is(err, graph.ErrMissingAttribute):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
