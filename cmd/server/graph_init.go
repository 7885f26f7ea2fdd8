// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package main

import (
	"fmt"
	"io"

	"github.com/tomtom215/songgraph/internal/config"
	"github.com/tomtom215/songgraph/internal/ingest"
	"github.com/tomtom215/songgraph/internal/logging"
	"github.com/tomtom215/songgraph/internal/recommend"
	"github.com/tomtom215/songgraph/internal/supervisor"
	"github.com/tomtom215/songgraph/internal/supervisor/services"
)

// GraphComponents holds the engine and the loader that feeds it.
type GraphComponents struct {
	Engine *recommend.Engine
	Loader *services.GraphLoaderService
	source ingest.Source
}

// initGraph creates the engine, opens the data source and registers the
// loader in the data layer. Nothing is loaded until the tree is served.
func initGraph(cfg *config.Config, tree *supervisor.SupervisorTree) (*GraphComponents, error) {
	engine, err := recommend.NewEngine(recommend.ConfigFromSettings(cfg.Recommend), logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	source, err := ingest.Open(cfg.Data)
	if err != nil {
		engine.Close()
		return nil, fmt.Errorf("open data source: %w", err)
	}

	loader := services.NewGraphLoaderService(source, engine, services.GraphLoaderConfig{
		ReloadInterval: cfg.Graph.ReloadInterval,
		BuildTimeout:   cfg.Graph.BuildTimeout,
	})
	tree.AddDataService(loader)

	logging.Info().
		Str("source", source.Name()).
		Bool("breaker", cfg.Data.Breaker.Enabled).
		Int("default_k", cfg.Recommend.DefaultK).
		Int("max_k", cfg.Recommend.MaxK).
		Bool("cache", cfg.Recommend.CacheEnabled).
		Msg("Graph loader added to supervisor tree")

	return &GraphComponents{Engine: engine, Loader: loader, source: source}, nil
}

// Close stops the engine cache and releases the data source.
func (c *GraphComponents) Close() {
	c.Engine.Close()
	if closer, ok := c.source.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logging.Error().Err(err).Str("source", c.source.Name()).Msg("Error closing data source")
		}
	}
}
