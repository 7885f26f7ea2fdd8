// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

/*
Package supervisor runs Songgraph's long-lived services under suture v4.

The tree has two layers so a crashing HTTP listener never interrupts graph
loading and a failing data source never takes the API down:

	RootSupervisor ("songgraph")
	├── DataSupervisor ("data-layer")
	│   └── GraphLoaderService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (starts, failures, backoff) are logged through sutureslog
with the zerolog slog adapter from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(loader)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)

The service implementations live in the services subpackage.
*/
package supervisor
