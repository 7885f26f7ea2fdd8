// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package recommend

import (
	"time"

	"github.com/tomtom215/songgraph/internal/graph"
)

// Request contains parameters for a recommendation request.
type Request struct {
	// RequestID is used for tracing. Generated if empty.
	RequestID string `json:"request_id,omitempty"`

	// Song is the query item id.
	Song string `json:"song"`

	// Attributes are the attribute names included in the distance term.
	// Empty means structural similarity only.
	Attributes []string `json:"attributes,omitempty"`

	// K is the maximum number of recommendations. Zero uses the configured default.
	K int `json:"k"`
}

// ScoredItem is a recommended song with its score breakdown.
type ScoredItem struct {
	ID                string  `json:"id"`
	Rank              int     `json:"rank"`
	Score             float64 `json:"score"`
	Structural        float64 `json:"structural"`
	AttributeDistance float64 `json:"attribute_distance"`
}

// Response contains recommendation results.
type Response struct {
	// Items are ordered best first.
	Items []ScoredItem `json:"items"`

	// TotalCandidates is the number of songs that were eligible.
	TotalCandidates int `json:"total_candidates"`

	Metadata ResponseMetadata `json:"metadata"`
}

// IDs returns the recommended song ids in rank order.
func (r *Response) IDs() []string {
	ids := make([]string, len(r.Items))
	for i, item := range r.Items {
		ids[i] = item.ID
	}
	return ids
}

// ResponseMetadata contains information about how recommendations were generated.
type ResponseMetadata struct {
	RequestID    string    `json:"request_id"`
	Song         string    `json:"song"`
	Attributes   []string  `json:"attributes"`
	K            int       `json:"k"`
	LatencyMS    int64     `json:"latency_ms"`
	CacheHit     bool      `json:"cache_hit"`
	GraphVersion int64     `json:"graph_version"`
	GraphBuiltAt time.Time `json:"graph_built_at"`
	Timestamp    time.Time `json:"timestamp"`
}

// Status describes the graph currently served by the engine.
type Status struct {
	// Ready is false until the first graph is published.
	Ready bool `json:"ready"`

	// GraphVersion increments on every publish.
	GraphVersion int64 `json:"graph_version"`

	// Source names where the graph was built from.
	Source string `json:"source,omitempty"`

	// LoadedAt is when the current graph was published.
	LoadedAt time.Time `json:"loaded_at,omitempty"`

	Stats graph.Stats `json:"stats"`
}

// Metrics contains engine counters.
type Metrics struct {
	RequestCount     int64   `json:"request_count"`
	CacheHits        int64   `json:"cache_hits"`
	CacheMisses      int64   `json:"cache_misses"`
	ErrorCount       int64   `json:"error_count"`
	GraphSwaps       int64   `json:"graph_swaps"`
	AverageLatencyMS float64 `json:"average_latency_ms"`
}
