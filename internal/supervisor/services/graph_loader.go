// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/songgraph/internal/graph"
	"github.com/tomtom215/songgraph/internal/ingest"
	"github.com/tomtom215/songgraph/internal/logging"
	"github.com/tomtom215/songgraph/internal/metrics"
	"github.com/tomtom215/songgraph/internal/recommend"
)

const defaultRetryInterval = 30 * time.Second

// GraphPublisher receives freshly built graphs. *recommend.Engine satisfies it.
type GraphPublisher interface {
	SetGraph(g *graph.Graph, source string)
	GetStatus() recommend.Status
}

// GraphLoaderConfig controls when the graph is rebuilt.
type GraphLoaderConfig struct {
	// ReloadInterval rebuilds periodically. Zero builds once at start and
	// then only on request.
	ReloadInterval time.Duration

	// BuildTimeout bounds one load and build. Zero means no bound.
	BuildTimeout time.Duration

	// RetryInterval spaces attempts while no graph has been published yet.
	RetryInterval time.Duration
}

// GraphLoaderService owns the data layer: it loads the dataset, builds the
// graph and publishes it. A failed rebuild keeps the previous graph serving.
type GraphLoaderService struct {
	source    ingest.Source
	publisher GraphPublisher
	config    GraphLoaderConfig
	reload    chan struct{}
	name      string

	mu           sync.RWMutex
	lastStats    ingest.BuildStats
	lastFinished time.Time
	lastErr      error
}

// NewGraphLoaderService creates the loader. Nothing is built until Serve runs.
func NewGraphLoaderService(source ingest.Source, publisher GraphPublisher, cfg GraphLoaderConfig) *GraphLoaderService {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultRetryInterval
	}
	return &GraphLoaderService{
		source:    source,
		publisher: publisher,
		config:    cfg,
		reload:    make(chan struct{}, 1),
		name:      "graph-loader",
	}
}

// Serve implements suture.Service. Build failures are recorded and retried
// rather than returned, so the supervisor only restarts on panics.
func (s *GraphLoaderService) Serve(ctx context.Context) error {
	s.build(ctx)

	var tick <-chan time.Time
	if s.config.ReloadInterval > 0 {
		ticker := time.NewTicker(s.config.ReloadInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	retry := time.NewTimer(s.config.RetryInterval)
	defer retry.Stop()

	for {
		var retryC <-chan time.Time
		if !s.publisher.GetStatus().Ready {
			retryC = retry.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			s.build(ctx)
		case <-s.reload:
			s.build(ctx)
		case <-retryC:
			s.build(ctx)
			retry.Reset(s.config.RetryInterval)
		}
	}
}

// RequestReload queues a rebuild. It reports false when one is already queued.
func (s *GraphLoaderService) RequestReload() bool {
	select {
	case s.reload <- struct{}{}:
		return true
	default:
		return false
	}
}

// LastBuild returns the outcome of the most recent build attempt. The time is
// zero before the first attempt finishes.
func (s *GraphLoaderService) LastBuild() (ingest.BuildStats, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStats, s.lastFinished, s.lastErr
}

func (s *GraphLoaderService) build(ctx context.Context) {
	buildCtx := ctx
	if s.config.BuildTimeout > 0 {
		var cancel context.CancelFunc
		buildCtx, cancel = context.WithTimeout(ctx, s.config.BuildTimeout)
		defer cancel()
	}

	g, stats, err := ingest.LoadGraph(buildCtx, s.source)
	if err != nil && ctx.Err() != nil {
		// Shutting down; the attempt was not a real failure.
		return
	}

	s.mu.Lock()
	s.lastStats = stats
	s.lastFinished = time.Now()
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		log := logging.WithComponent(s.name)
		ev := log.Warn().Err(err).Str("source", s.source.Name())
		if errors.Is(err, ingest.ErrSourceUnavailable) {
			ev = ev.Bool("breaker_open", true)
		}
		if s.publisher.GetStatus().Ready {
			ev.Msg("Graph rebuild failed, keeping previous graph")
		} else {
			ev.Dur("retry_in", s.config.RetryInterval).Msg("Graph build failed, no graph to serve")
		}
		return
	}

	s.publisher.SetGraph(g, s.source.Name())
	status := s.publisher.GetStatus()
	metrics.UpdateGraphSize(uint64(status.GraphVersion), stats.Users, stats.Songs, stats.Edges)
}

func (s *GraphLoaderService) String() string {
	return s.name
}
