// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

/*
Package services provides suture.Service wrappers for Songgraph components.

# Available Services

GraphLoaderService (data layer):
  - Builds the graph from the configured ingest.Source when started
  - Rebuilds on ReloadInterval and whenever RequestReload is called
  - Retries every RetryInterval until the first graph is published
  - A failed rebuild is recorded in LastBuild and the previous graph keeps serving

HTTPServerService (API layer):
  - Runs ListenAndServe in a goroutine
  - Drains connections with Shutdown when the supervisor cancels the context

# Usage

	engine, _ := recommend.NewEngine(recommend.ConfigFromSettings(cfg.Recommend), logger)
	loader := services.NewGraphLoaderService(source, engine, services.GraphLoaderConfig{
	    ReloadInterval: cfg.Graph.ReloadInterval,
	    BuildTimeout:   cfg.Graph.BuildTimeout,
	})
	tree.AddDataService(loader)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

# Return Values

	nil        -> stopped cleanly, not restarted
	error      -> failed, restarted with backoff
	ctx.Err()  -> shutdown requested
*/
package services
