// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package graph

import (
	"fmt"
	"math"
)

// Score breaks a similarity score into its two terms.
type Score struct {
	Structural        float64 `json:"structural"`
	AttributeDistance float64 `json:"attribute_distance"`
	Combined          float64 `json:"combined"`
}

// SimilarityScore returns the structural similarity of two vertices plus the
// attribute distance over the chosen attribute names.
func (g *Graph) SimilarityScore(id1, id2 string, attributes []string) (float64, error) {
	s, err := g.Score(id1, id2, attributes)
	if err != nil {
		return 0, err
	}
	return s.Combined, nil
}

// Score is SimilarityScore with both terms reported separately.
func (g *Graph) Score(id1, id2 string, attributes []string) (Score, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v1, v2, err := g.pair(id1, id2)
	if err != nil {
		return Score{}, fmt.Errorf("similarity score: %w", err)
	}

	dist, err := attributeDistance(id1, v1, id2, v2, attributes)
	if err != nil {
		return Score{}, fmt.Errorf("similarity score: %w", err)
	}

	structural := jaccard(v1.neighbours, v2.neighbours)
	return Score{
		Structural:        structural,
		AttributeDistance: dist,
		Combined:          structural + dist,
	}, nil
}

// StructuralSimilarity returns the Jaccard index of the two neighbour id sets.
func (g *Graph) StructuralSimilarity(id1, id2 string) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v1, v2, err := g.pair(id1, id2)
	if err != nil {
		return 0, fmt.Errorf("structural similarity: %w", err)
	}
	return jaccard(v1.neighbours, v2.neighbours), nil
}

// AttributeDistance returns the mean absolute difference of the chosen attributes.
func (g *Graph) AttributeDistance(id1, id2 string, attributes []string) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v1, v2, err := g.pair(id1, id2)
	if err != nil {
		return 0, fmt.Errorf("attribute distance: %w", err)
	}
	dist, err := attributeDistance(id1, v1, id2, v2, attributes)
	if err != nil {
		return 0, fmt.Errorf("attribute distance: %w", err)
	}
	return dist, nil
}

// pair resolves both ids. Caller must hold the read lock.
func (g *Graph) pair(id1, id2 string) (*vertex, *vertex, error) {
	v1, ok := g.vertices[id1]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidReference, id1)
	}
	v2, ok := g.vertices[id2]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidReference, id2)
	}
	return v1, v2, nil
}

// jaccard computes |A ∩ B| / |A ∪ B| over the key sets of two adjacency maps.
// Either set being empty yields 0.
func jaccard(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the smaller set
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	intersection := 0
	for id := range small {
		if _, ok := large[id]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func attributeDistance(id1 string, v1 *vertex, id2 string, v2 *vertex, attributes []string) (float64, error) {
	if len(attributes) == 0 {
		return 0, nil
	}

	total := 0.0
	for _, name := range attributes {
		a, ok := v1.attributes[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q on %q", ErrMissingAttribute, name, id1)
		}
		b, ok := v2.attributes[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q on %q", ErrMissingAttribute, name, id2)
		}
		total += math.Abs(a - b)
	}
	return total / float64(len(attributes)), nil
}
