// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/songgraph/internal/graph"
	"github.com/tomtom215/songgraph/internal/logging"
	"github.com/tomtom215/songgraph/internal/recommend"
)

var (
	// ErrUnknownAttribute is returned when a request names an attribute no song carries.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrReloadUnavailable is returned when the server runs without a graph loader.
	ErrReloadUnavailable = errors.New("graph reload is not available")
)

// WriteDomainError maps graph and recommender errors to an HTTP status and
// error code. Unrecognized errors are logged and reported as internal errors
// without exposing their text.
func WriteDomainError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrGraphNotReady):
		rw.ServiceUnavailable("Graph is still loading")
	case errors.Is(err, graph.ErrInvalidReference):
		rw.Error(http.StatusNotFound, ErrCodeInvalidInput, "Invalid input: song not found")
	case errors.Is(err, recommend.ErrNotAnItem):
		rw.Error(http.StatusBadRequest, ErrCodeInvalidInput, "Invalid input: not a song")
	case errors.Is(err, recommend.ErrInvalidMaxResults):
		rw.Error(http.StatusBadRequest, ErrCodeInvalidInput, "Invalid input: k must be at least 1")
	case errors.Is(err, graph.ErrMissingAttribute), errors.Is(err, ErrUnknownAttribute):
		rw.Error(http.StatusBadRequest, ErrCodeInvalidInput, "Invalid input: "+err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable("Request timed out")
	case errors.Is(err, context.Canceled):
		// The client is gone; the status is only seen by middleware.
		rw.Error(499, ErrCodeBadRequest, "Request canceled")
	default:
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Request failed")
		rw.InternalError("Internal server error")
	}
}
