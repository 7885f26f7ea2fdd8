// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

// Package graph provides the user/song co-occurrence graph used for recommendations.
//
// # Model
//
// The graph is undirected and vertex-typed. Every vertex is either a user or an
// item (a song). Edges record that a user listed a song; the stored weight starts
// at 0 for the first co-occurrence and grows by 1 on every repeat.
//
// All vertices live in a single map keyed by identifier. Adjacency is stored as
// neighbour identifier to weight and resolved through the same map, so there are
// no pointer cycles and no dangling neighbours.
//
// # Similarity
//
// SimilarityScore combines two terms by direct sum:
//
//   - Structural: Jaccard index over the neighbour id sets (0 if either side has no neighbours)
//   - Attribute: mean absolute difference over the chosen attribute names
//
// The attribute term is a distance, not a similarity, and is not normalized.
// Callers only rely on the relative ordering of scores.
//
// # Thread Safety
//
// Graph is safe for concurrent use. Mutations take an exclusive lock and all
// queries take a shared lock, so scoring never observes a half-applied edge.
//
// # Usage
//
//	g := graph.New()
//	_ = g.AddVertex("user:1", graph.KindUser, nil)
//	_ = g.AddVertex("Blinding Lights", graph.KindItem, map[string]float64{"Energy": 0.73})
//	_ = g.AddEdge("user:1", "Blinding Lights")
//
//	score, err := g.SimilarityScore("Blinding Lights", "Levitating", []string{"Energy"})
package graph
