// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package graph

import "errors"

var (
	// ErrInvalidReference is returned when an operation names a vertex that is not in the graph.
	ErrInvalidReference = errors.New("vertex not found in graph")

	// ErrSelfLoop is returned by AddEdge when both endpoints are the same vertex.
	ErrSelfLoop = errors.New("edge endpoints must be distinct")

	// ErrInvalidKind is returned by AddVertex for a kind other than user or item.
	ErrInvalidKind = errors.New("invalid vertex kind")

	// ErrMissingAttribute is returned when a chosen attribute is absent on a scored vertex.
	ErrMissingAttribute = errors.New("attribute not present on vertex")
)
