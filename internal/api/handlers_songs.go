// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/tomtom215/songgraph/internal/graph"
	"github.com/tomtom215/songgraph/internal/recommend"
)

// NeighboursResponse is the body of GET /songs/{song}/neighbours.
type NeighboursResponse struct {
	Song       string   `json:"song"`
	Degree     int      `json:"degree"`
	Neighbours []string `json:"neighbours"`
}

// Songs handles GET /api/v1/songs. It lists song ids in lexical order,
// optionally filtered by a case-insensitive prefix.
func (h *Handler) Songs(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, err := getIntParam(r, "limit", defaultSongLimit)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req := SongsRequest{Prefix: strings.TrimSpace(r.URL.Query().Get("q")), Limit: limit}
	if !validate(rw, &req) {
		return
	}

	g := h.engine.Graph()
	if g == nil {
		WriteDomainError(rw, recommend.ErrGraphNotReady)
		return
	}

	songs := graph.MatchPrefix(g.AllVertices(graph.KindItem), req.Prefix)
	sort.Strings(songs)

	total := len(songs)
	if total > req.Limit {
		songs = songs[:req.Limit]
	}
	rw.SuccessWithPagination(songs, &PaginationMeta{
		Total:   total,
		Count:   len(songs),
		Limit:   req.Limit,
		HasMore: total > req.Limit,
	})
}

// Neighbours handles GET /api/v1/songs/{song}/neighbours.
func (h *Handler) Neighbours(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	song := pathParam(r, "song")

	g := h.engine.Graph()
	if g == nil {
		WriteDomainError(rw, recommend.ErrGraphNotReady)
		return
	}
	if g.Contains(song, graph.KindUser) {
		WriteDomainError(rw, recommend.ErrNotAnItem)
		return
	}

	neighbours, err := g.Neighbours(song)
	if err != nil {
		WriteDomainError(rw, err)
		return
	}
	rw.Success(NeighboursResponse{Song: song, Degree: len(neighbours), Neighbours: neighbours})
}

// Attributes handles GET /api/v1/attributes.
func (h *Handler) Attributes(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	g := h.engine.Graph()
	if g == nil {
		WriteDomainError(rw, recommend.ErrGraphNotReady)
		return
	}
	rw.Success(map[string][]string{"attributes": g.Attributes()})
}
