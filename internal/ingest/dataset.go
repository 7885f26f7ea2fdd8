// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package ingest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrMalformedRecord is returned when a song or playlist row cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrSourceUnavailable is returned when the circuit breaker rejects a load.
	ErrSourceUnavailable = errors.New("data source unavailable")
)

// Song attribute names as they appear on item vertices.
const (
	AttrEnergy   = "Energy"
	AttrLiveness = "Liveness"
	AttrLoudness = "Loudness"
	AttrTempo    = "Tempo"
)

// Song is one catalogue entry.
type Song struct {
	Name       string
	Attributes map[string]float64
}

// Playlist is the set of songs one user listened to, in listed order.
type Playlist struct {
	UserID string
	Songs  []string
}

// Dataset is everything a graph is built from.
type Dataset struct {
	Songs     []Song
	Playlists []Playlist
}

// Source loads a Dataset.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
	Name() string
}

// UserID returns the vertex id for the n-th playlist, counting from 1.
func UserID(n int) string {
	return "user:" + strconv.Itoa(n)
}

// catalogue indexes songs by name. A later duplicate replaces an earlier one.
func (d *Dataset) catalogue() map[string]Song {
	songs := make(map[string]Song, len(d.Songs))
	for _, s := range d.Songs {
		songs[s.Name] = s
	}
	return songs
}

func malformed(source string, line int, format string, args ...interface{}) error {
	return fmt.Errorf("%s line %d: %w: %s", source, line, ErrMalformedRecord, fmt.Sprintf(format, args...))
}
