// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

// Package recommend selects the songs most similar to a query song.
//
// # Algorithm
//
// Recommend runs a greedy, round-based selection over the item vertices of a
// graph. Each round scans every candidate except the query and the songs already
// chosen, and keeps the best one under this comparator:
//
//   - a strictly positive score beats any lower score
//   - on an equal positive score, the lexicographically greater id wins
//
// Zero scores never win. When a round finds no winner, selection stops, so the
// result may hold fewer than the requested number of songs. Because the
// comparator is a total order on (score, id), the result does not depend on the
// order in which candidates are enumerated.
//
// # Engine
//
// Engine wraps Recommend for long-running services. It holds the current graph
// behind an atomic pointer so that a freshly built graph can be published
// without blocking in-flight requests, applies request limits, caches responses
// with a TTL, and tracks request counters.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	engine.SetGraph(g, "file")
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    Song:       "Blinding Lights",
//	    Attributes: []string{"Energy", "Tempo"},
//	    K:          5,
//	})
//
// # Thread Safety
//
// Both Recommend and Engine are safe for concurrent use. The graph itself
// serializes writers against readers.
package recommend
