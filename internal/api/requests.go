// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/songgraph/internal/validation"
)

// defaultSongLimit applies when GET /songs has no limit. The upper bound is
// the max in SongsRequest.Limit.
const defaultSongLimit = 100

// SongsRequest is the query for GET /songs.
type SongsRequest struct {
	Prefix string `query:"q" validate:"max=256"`
	Limit  int    `query:"limit" validate:"min=1,max=1000"`
}

// RecommendRequest is the query for GET /recommendations/{song}.
// Attributes may be comma-separated, repeated, or both.
type RecommendRequest struct {
	Song       string   `query:"song" validate:"required,max=512"`
	K          int      `query:"k" validate:"min=1"`
	Attributes []string `query:"attributes" validate:"max=32,unique,dive,attrname"`
}

// SimilarityRequest is the query for GET /similarity.
type SimilarityRequest struct {
	A          string   `query:"a" validate:"required,max=512"`
	B          string   `query:"b" validate:"required,max=512"`
	Attributes []string `query:"attributes" validate:"max=32,unique,dive,attrname"`
}

// paramError is a query parameter that could not be parsed.
type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s must be an integer, got %q", e.name, e.value)
}

// getIntParam returns the named integer query parameter, or def when absent.
func getIntParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, value: raw}
	}
	return n, nil
}

// getListParam collects a list parameter given as "a,b", "x=a&x=b" or both.
// Blank entries are dropped.
func getListParam(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// pathParam returns a decoded chi URL parameter. chi matches on the raw path
// when the request carries escaped slashes, leaving the parameter encoded.
func pathParam(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value
	}
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}

// validate runs struct validation and writes a 400 on failure.
func validate(rw *ResponseWriter, req interface{}) bool {
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}
