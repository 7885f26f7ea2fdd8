// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

/*
Package ingest loads song catalogues and user playlists and turns them into a
similarity graph.

# Sources

A Source produces a Dataset:

  - FileSource reads a comma-separated song file (one header row) and a playlist
    file with one user per line.
  - DuckDBSource reads the same data from a DuckDB catalog database.
  - BreakerSource wraps any Source with a circuit breaker so repeated reload
    failures stop hitting the backing store.

Open builds the configured Source from config.DataConfig.

# Song File Format

Column 9 holds the song name. Columns 1, 6, 7 and 13 hold Energy, Liveness,
Loudness and Tempo. Rows that are too short or carry non-numeric attributes are
rejected with ErrMalformedRecord and the line number.

# Building

Build adds one user vertex per playlist (user:1, user:2, ... in line order) and,
for every listed song found in the catalogue, the song vertex and a user-song
edge. Songs missing from the catalogue are counted in BuildStats and skipped.

	src, err := ingest.Open(cfg.Data)
	g, stats, err := ingest.LoadGraph(ctx, src)
*/
package ingest
