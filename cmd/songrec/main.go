// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

// Package main is songrec, a command line client that builds the song graph
// locally and answers recommendation queries without running the server.
//
//	songrec recommend "Song A" --attr Energy --attr Tempo -k 5
//	songrec songs --prefix "mr"
//	songrec similarity "Song A" "Song B" --attr Energy
//	songrec import --duckdb data/catalog.duckdb
//	songrec version
//
// Configuration is read the same way as the server (config file, then
// environment). An unknown song or attribute is reported as invalid input and
// the command exits with status 1.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
