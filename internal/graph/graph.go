// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package graph

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind discriminates the two vertex populations of the graph.
type Kind string

const (
	// KindUser marks a listener vertex. Users carry no attributes.
	KindUser Kind = "user"
	// KindItem marks a song vertex.
	KindItem Kind = "item"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindUser || k == KindItem
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Vertex is a read-only snapshot of a graph vertex.
type Vertex struct {
	ID         string             `json:"id"`
	Kind       Kind               `json:"kind"`
	Attributes map[string]float64 `json:"attributes,omitempty"`
	Neighbours map[string]float64 `json:"neighbours,omitempty"`
}

// Degree returns the number of neighbours.
func (v Vertex) Degree() int {
	return len(v.Neighbours)
}

// vertex is the record owned by the graph. Neighbours maps neighbour id to edge weight.
type vertex struct {
	kind       Kind
	attributes map[string]float64
	neighbours map[string]float64
}

// Stats summarizes the size of a graph.
type Stats struct {
	Users int `json:"users"`
	Items int `json:"items"`
	Edges int `json:"edges"`
}

// Graph is an undirected, weighted, vertex-typed graph of users and items.
type Graph struct {
	mu       sync.RWMutex
	vertices map[string]*vertex
	edges    int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		vertices: make(map[string]*vertex),
	}
}

// AddVertex inserts a vertex with no neighbours if id is not already present.
// Re-adding an existing id is a no-op and the new attributes are ignored.
// The attribute map is copied.
func (g *Graph) AddVertex(id string, kind Kind, attributes map[string]float64) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.vertices[id]; exists {
		return nil
	}

	attrs := make(map[string]float64, len(attributes))
	for name, value := range attributes {
		attrs[name] = value
	}

	g.vertices[id] = &vertex{
		kind:       kind,
		attributes: attrs,
		neighbours: make(map[string]float64),
	}
	return nil
}

// AddEdge connects two distinct vertices. A new edge starts with weight 0 on both
// sides; adding the same pair again increments the weight on both sides by 1.
func (g *Graph) AddEdge(id1, id2 string) error {
	if id1 == id2 {
		return fmt.Errorf("%w: %q", ErrSelfLoop, id1)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	v1, ok := g.vertices[id1]
	if !ok {
		return fmt.Errorf("add edge %q-%q: %w: %q", id1, id2, ErrInvalidReference, id1)
	}
	v2, ok := g.vertices[id2]
	if !ok {
		return fmt.Errorf("add edge %q-%q: %w: %q", id1, id2, ErrInvalidReference, id2)
	}

	if _, exists := v1.neighbours[id2]; exists {
		v1.neighbours[id2]++
		v2.neighbours[id1]++
		return nil
	}

	v1.neighbours[id2] = 0
	v2.neighbours[id1] = 0
	g.edges++
	return nil
}

// Neighbours returns the sorted neighbour ids of a vertex.
func (g *Graph) Neighbours(id string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.vertices[id]
	if !ok {
		return nil, fmt.Errorf("neighbours of %q: %w", id, ErrInvalidReference)
	}

	ids := make([]string, 0, len(v.neighbours))
	for n := range v.neighbours {
		ids = append(ids, n)
	}
	sort.Strings(ids)
	return ids, nil
}

// Weight returns the weight stored on the edge between two vertices and whether
// the edge exists.
func (g *Graph) Weight(id1, id2 string) (float64, bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v1, ok := g.vertices[id1]
	if !ok {
		return 0, false, fmt.Errorf("weight %q-%q: %w: %q", id1, id2, ErrInvalidReference, id1)
	}
	if _, ok := g.vertices[id2]; !ok {
		return 0, false, fmt.Errorf("weight %q-%q: %w: %q", id1, id2, ErrInvalidReference, id2)
	}

	w, exists := v1.neighbours[id2]
	return w, exists, nil
}

// AllVertices returns every vertex id, optionally restricted to one kind.
// Only the first kind argument is considered. The order is unspecified.
func (g *Graph) AllVertices(kind ...Kind) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	filter := Kind("")
	if len(kind) > 0 {
		filter = kind[0]
	}

	ids := make([]string, 0, len(g.vertices))
	for id, v := range g.vertices {
		if filter != "" && v.kind != filter {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// MatchPrefix returns the ids that start with prefix, ignoring case, in their
// original order. An empty prefix matches everything. ids is not modified.
func MatchPrefix(ids []string, prefix string) []string {
	if prefix == "" {
		return ids
	}
	prefix = strings.ToLower(prefix)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.HasPrefix(strings.ToLower(id), prefix) {
			out = append(out, id)
		}
	}
	return out
}

// Contains reports whether id is a vertex of the given kind.
func (g *Graph) Contains(id string, kind Kind) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.vertices[id]
	return ok && v.kind == kind
}

// Vertex returns a copy of the vertex with the given id.
func (g *Graph) Vertex(id string) (Vertex, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.vertices[id]
	if !ok {
		return Vertex{}, fmt.Errorf("vertex %q: %w", id, ErrInvalidReference)
	}

	snapshot := Vertex{
		ID:         id,
		Kind:       v.kind,
		Attributes: make(map[string]float64, len(v.attributes)),
		Neighbours: make(map[string]float64, len(v.neighbours)),
	}
	for name, value := range v.attributes {
		snapshot.Attributes[name] = value
	}
	for n, w := range v.neighbours {
		snapshot.Neighbours[n] = w
	}
	return snapshot, nil
}

// Attributes returns the sorted union of attribute names found on item vertices.
func (g *Graph) Attributes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, v := range g.vertices {
		if v.kind != KindItem {
			continue
		}
		for name := range v.attributes {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats returns vertex counts per kind and the number of distinct edges.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var s Stats
	for _, v := range g.vertices {
		switch v.kind {
		case KindUser:
			s.Users++
		case KindItem:
			s.Items++
		}
	}
	s.Edges = g.edges
	return s
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}
