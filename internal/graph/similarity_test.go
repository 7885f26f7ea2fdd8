// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package graph

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestGraph_SimilarityScore_Scenario(t *testing.T) {
	t.Parallel()

	g := newScenarioGraph(t)

	tests := []struct {
		a, b string
		want float64
	}{
		{"B", "C", 0},
		{"A", "B", 0.5},
		{"B", "A", 0.5},
		{"A", "C", 0.5},
		{"A", "A", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"-"+tt.b, func(t *testing.T) {
			t.Parallel()
			got, err := g.SimilarityScore(tt.a, tt.b, nil)
			if err != nil {
				t.Fatalf("SimilarityScore() error = %v", err)
			}
			if !approxEqual(got, tt.want) {
				t.Errorf("SimilarityScore(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestGraph_SimilarityScore_Errors(t *testing.T) {
	t.Parallel()

	g := newScenarioGraph(t)
	_ = g.AddVertex("D", KindItem, map[string]float64{"Tempo": 90})

	if _, err := g.SimilarityScore("A", "missing", nil); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("SimilarityScore(A, missing) error = %v, want ErrInvalidReference", err)
	}
	if _, err := g.SimilarityScore("missing", "A", nil); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("SimilarityScore(missing, A) error = %v, want ErrInvalidReference", err)
	}
	if _, err := g.SimilarityScore("D", "A", []string{"Tempo"}); !errors.Is(err, ErrMissingAttribute) {
		t.Errorf("SimilarityScore(D, A, [Tempo]) error = %v, want ErrMissingAttribute", err)
	}
}

func TestGraph_AttributeDistance(t *testing.T) {
	t.Parallel()

	g := New()
	_ = g.AddVertex("x", KindItem, map[string]float64{"Energy": 0.2, "Tempo": 100, "Loudness": -5})
	_ = g.AddVertex("y", KindItem, map[string]float64{"Energy": 0.8, "Tempo": 120, "Loudness": -5})

	tests := []struct {
		name  string
		attrs []string
		want  float64
	}{
		{"none chosen", nil, 0},
		{"single", []string{"Energy"}, 0.6},
		{"mean of two", []string{"Energy", "Tempo"}, (0.6 + 20) / 2},
		{"identical value", []string{"Loudness"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := g.AttributeDistance("x", "y", tt.attrs)
			if err != nil {
				t.Fatalf("AttributeDistance() error = %v", err)
			}
			if !approxEqual(got, tt.want) {
				t.Errorf("AttributeDistance(%v) = %v, want %v", tt.attrs, got, tt.want)
			}

			// No neighbours, so the combined score is the distance alone.
			combined, err := g.SimilarityScore("x", "y", tt.attrs)
			if err != nil {
				t.Fatalf("SimilarityScore() error = %v", err)
			}
			if !approxEqual(combined, tt.want) {
				t.Errorf("SimilarityScore(%v) = %v, want %v", tt.attrs, combined, tt.want)
			}
		})
	}
}

func TestGraph_Score_Terms(t *testing.T) {
	t.Parallel()

	g := New()
	_ = g.AddVertex("u", KindUser, nil)
	_ = g.AddVertex("x", KindItem, map[string]float64{"Tempo": 100})
	_ = g.AddVertex("y", KindItem, map[string]float64{"Tempo": 110})
	_ = g.AddEdge("u", "x")
	_ = g.AddEdge("u", "y")

	s, err := g.Score("x", "y", []string{"Tempo"})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if !approxEqual(s.Structural, 1) {
		t.Errorf("Structural = %v, want 1", s.Structural)
	}
	if !approxEqual(s.AttributeDistance, 10) {
		t.Errorf("AttributeDistance = %v, want 10", s.AttributeDistance)
	}
	if !approxEqual(s.Combined, 11) {
		t.Errorf("Combined = %v, want 11", s.Combined)
	}
}

func TestGraph_StructuralSimilarity_Bounds(t *testing.T) {
	t.Parallel()

	g := New()
	for i := 0; i < 6; i++ {
		_ = g.AddVertex(fmt.Sprintf("u%d", i), KindUser, nil)
	}
	_ = g.AddVertex("lonely", KindItem, nil)
	_ = g.AddVertex("p", KindItem, nil)
	_ = g.AddVertex("q", KindItem, nil)
	_ = g.AddVertex("r", KindItem, nil)

	// p and q share identical neighbour sets, r overlaps partially.
	for _, u := range []string{"u0", "u1", "u2"} {
		_ = g.AddEdge(u, "p")
		_ = g.AddEdge(u, "q")
	}
	for _, u := range []string{"u2", "u3", "u4", "u5"} {
		_ = g.AddEdge(u, "r")
	}

	tests := []struct {
		a, b string
		want float64
	}{
		{"p", "q", 1},
		{"p", "lonely", 0},
		{"lonely", "lonely", 0},
		{"p", "r", 1.0 / 6.0},
	}

	for _, tt := range tests {
		got, err := g.StructuralSimilarity(tt.a, tt.b)
		if err != nil {
			t.Fatalf("StructuralSimilarity(%q, %q) error = %v", tt.a, tt.b, err)
		}
		if !approxEqual(got, tt.want) {
			t.Errorf("StructuralSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	for _, a := range g.AllVertices() {
		for _, b := range g.AllVertices() {
			got, err := g.StructuralSimilarity(a, b)
			if err != nil {
				t.Fatalf("StructuralSimilarity(%q, %q) error = %v", a, b, err)
			}
			if got < 0 || got > 1 {
				t.Errorf("StructuralSimilarity(%q, %q) = %v, want in [0, 1]", a, b, got)
			}
		}
	}
}

// TestGraph_StructuralSimilarity_MonotoneOnOverlap holds the union at 4 users
// and grows the shared part, expecting a non-decreasing similarity.
func TestGraph_StructuralSimilarity_MonotoneOnOverlap(t *testing.T) {
	t.Parallel()

	prev := -1.0
	for shared := 0; shared <= 4; shared++ {
		g := New()
		_ = g.AddVertex("a", KindItem, nil)
		_ = g.AddVertex("b", KindItem, nil)
		for i := 0; i < 4; i++ {
			u := fmt.Sprintf("u%d", i)
			_ = g.AddVertex(u, KindUser, nil)
			switch {
			case i < shared:
				_ = g.AddEdge(u, "a")
				_ = g.AddEdge(u, "b")
			case i%2 == 0:
				_ = g.AddEdge(u, "a")
			default:
				_ = g.AddEdge(u, "b")
			}
		}

		got, err := g.StructuralSimilarity("a", "b")
		if err != nil {
			t.Fatalf("StructuralSimilarity() error = %v", err)
		}
		if !approxEqual(got, float64(shared)/4) {
			t.Errorf("shared=%d similarity = %v, want %v", shared, got, float64(shared)/4)
		}
		if got < prev {
			t.Errorf("shared=%d similarity %v decreased from %v", shared, got, prev)
		}
		prev = got
	}
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	set := func(ids ...string) map[string]float64 {
		m := make(map[string]float64, len(ids))
		for _, id := range ids {
			m[id] = 0
		}
		return m
	}

	tests := []struct {
		name string
		a, b map[string]float64
		want float64
	}{
		{"both empty", set(), set(), 0},
		{"one empty", set("x"), set(), 0},
		{"disjoint", set("x"), set("y"), 0},
		{"half", set("x", "y"), set("x"), 0.5},
		{"identical", set("x", "y"), set("y", "x"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := jaccard(tt.a, tt.b); !approxEqual(got, tt.want) {
				t.Errorf("jaccard() = %v, want %v", got, tt.want)
			}
			if got := jaccard(tt.b, tt.a); !approxEqual(got, tt.want) {
				t.Errorf("jaccard() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}
