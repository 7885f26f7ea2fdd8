// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/songgraph/internal/graph"
)

var (
	// ErrInvalidMaxResults is returned when fewer than one result is requested.
	ErrInvalidMaxResults = errors.New("max results must be at least 1")

	// ErrNotAnItem is returned when the query names a vertex that is not a song.
	ErrNotAnItem = errors.New("query vertex is not an item")

	// ErrGraphNotReady is returned by the engine before any graph has been published.
	ErrGraphNotReady = errors.New("graph not loaded")
)

// DefaultMaxResults is the number of recommendations returned when none is requested.
const DefaultMaxResults = 5

// Scorer is the view of the graph the recommender needs.
type Scorer interface {
	AllVertices(kind ...graph.Kind) []string
	Contains(id string, kind graph.Kind) bool
	SimilarityScore(id1, id2 string, attributes []string) (float64, error)
}

// Recommend returns up to maxResults item ids most similar to query, best first.
func Recommend(g Scorer, query string, attributes []string, maxResults int) ([]string, error) {
	if maxResults < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxResults, maxResults)
	}
	if !g.Contains(query, graph.KindItem) {
		if g.Contains(query, graph.KindUser) {
			return nil, fmt.Errorf("%w: %q", ErrNotAnItem, query)
		}
		return nil, fmt.Errorf("recommend %q: %w", query, graph.ErrInvalidReference)
	}

	candidates := g.AllVertices(graph.KindItem)
	selected := make([]string, 0, maxResults)
	chosen := make(map[string]struct{}, maxResults)

	for round := 0; round < maxResults; round++ {
		best, ok, err := bestCandidate(g, query, candidates, chosen, attributes)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		selected = append(selected, best)
		chosen[best] = struct{}{}
	}

	return selected, nil
}

// bestCandidate scans candidates once and returns the winner of the round.
func bestCandidate(g Scorer, query string, candidates []string, chosen map[string]struct{}, attributes []string) (string, bool, error) {
	bestID := ""
	bestScore := 0.0
	found := false

	for _, c := range candidates {
		if c == query {
			continue
		}
		if _, done := chosen[c]; done {
			continue
		}

		score, err := g.SimilarityScore(query, c, attributes)
		if err != nil {
			return "", false, fmt.Errorf("score %q against %q: %w", c, query, err)
		}

		if beats(score, c, bestScore, bestID) {
			bestScore = score
			bestID = c
			found = true
		}
	}

	return bestID, found, nil
}

// beats reports whether a candidate replaces the current best. Only positive
// scores can win; equal scores fall back to the greater id.
func beats(score float64, id string, bestScore float64, bestID string) bool {
	if score <= 0 {
		return false
	}
	if score > bestScore {
		return true
	}
	return score == bestScore && id > bestID
}
