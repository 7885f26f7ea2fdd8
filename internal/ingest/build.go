// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/songgraph/internal/graph"
	"github.com/tomtom215/songgraph/internal/logging"
	"github.com/tomtom215/songgraph/internal/metrics"
)

// BuildStats summarizes one Build.
type BuildStats struct {
	Users        int           `json:"users"`
	Songs        int           `json:"songs"`
	Edges        int           `json:"edges"`
	Entries      int           `json:"entries"`
	UnknownSongs int           `json:"unknown_songs"`
	Duration     time.Duration `json:"duration"`
}

// Build adds every playlist in ds to g. Each playlist becomes a user vertex;
// each listed song present in the catalogue becomes an item vertex carrying its
// attributes, joined to the user. Listing a song twice raises the edge weight.
// Unknown songs are skipped and counted. Cancellation is checked between playlists.
// A dataset whose song names clash with user ids, or whose attributes are not
// finite, is rejected with ErrMalformedRecord before g is touched.
func Build(ctx context.Context, ds *Dataset, g *graph.Graph) (BuildStats, error) {
	start := time.Now()
	var stats BuildStats

	songs := ds.catalogue()
	if err := validateCatalogue(songs, ds.Playlists); err != nil {
		return stats, err
	}
	for _, p := range ds.Playlists {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if err := g.AddVertex(p.UserID, graph.KindUser, nil); err != nil {
			return stats, fmt.Errorf("add user %s: %w", p.UserID, err)
		}

		for _, name := range p.Songs {
			stats.Entries++
			song, ok := songs[name]
			if !ok {
				stats.UnknownSongs++
				continue
			}
			if err := g.AddVertex(song.Name, graph.KindItem, song.Attributes); err != nil {
				return stats, fmt.Errorf("add song %q: %w", song.Name, err)
			}
			if err := g.AddEdge(p.UserID, song.Name); err != nil {
				return stats, fmt.Errorf("link %s to %q: %w", p.UserID, song.Name, err)
			}
		}
	}

	gs := g.Stats()
	stats.Users = gs.Users
	stats.Songs = gs.Items
	stats.Edges = gs.Edges
	stats.Duration = time.Since(start)
	return stats, nil
}

// validateCatalogue checks the invariants Build relies on. Users and songs share
// one vertex namespace, and attribute distances must stay finite.
func validateCatalogue(songs map[string]Song, playlists []Playlist) error {
	for _, p := range playlists {
		if _, clash := songs[p.UserID]; clash {
			return fmt.Errorf("%w: song %q clashes with a user id", ErrMalformedRecord, p.UserID)
		}
	}
	for _, song := range songs {
		for name, value := range song.Attributes {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return fmt.Errorf("%w: song %q: %s is not finite", ErrMalformedRecord, song.Name, name)
			}
		}
	}
	return nil
}

// LoadGraph loads a dataset from src and builds a fresh graph from it.
func LoadGraph(ctx context.Context, src Source) (*graph.Graph, BuildStats, error) {
	start := time.Now()
	g, stats, err := loadGraph(ctx, src)
	metrics.RecordGraphBuild(time.Since(start), err)

	log := logging.WithComponent("ingest")
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Str("source", src.Name()).Msg("Graph build failed")
		}
		return nil, stats, err
	}

	metrics.RecordIngestSkipped("unknown_song", stats.UnknownSongs)
	log.Info().
		Str("source", src.Name()).
		Int("users", stats.Users).
		Int("songs", stats.Songs).
		Int("edges", stats.Edges).
		Int("unknown_songs", stats.UnknownSongs).
		Dur("duration", time.Since(start)).
		Msg("Graph built")
	return g, stats, nil
}

func loadGraph(ctx context.Context, src Source) (*graph.Graph, BuildStats, error) {
	ds, err := src.Load(ctx)
	if err != nil {
		return nil, BuildStats{}, fmt.Errorf("load %s: %w", src.Name(), err)
	}

	g := graph.New()
	stats, err := Build(ctx, ds, g)
	if err != nil {
		return nil, stats, fmt.Errorf("build graph: %w", err)
	}
	return g, stats, nil
}
