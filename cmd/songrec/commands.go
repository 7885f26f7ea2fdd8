// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package main

import (
	"fmt"
	"runtime"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/songgraph/internal/graph"
	"github.com/tomtom215/songgraph/internal/ingest"
	"github.com/tomtom215/songgraph/internal/logging"
	"github.com/tomtom215/songgraph/internal/recommend"
)

func recommendCmd(opts *cliOptions) *cobra.Command {
	var (
		attributes []string
		k          int
	)

	cmd := &cobra.Command{
		Use:   "recommend <song>",
		Short: "Recommend songs similar to a song",
		Long: `Recommend the k songs most similar to the given song. Similarity is the
share of listeners two songs have in common; each --attr adds the distance
between the songs' values for that attribute.

Examples:
  songrec recommend "Song A"
  songrec recommend "Song A" --attr Energy --attr Tempo -k 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := engine.Recommend(cmd.Context(), recommend.Request{
				Song:       args[0],
				Attributes: attributes,
				K:          k,
			})
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, resp.Items)
			}
			if len(resp.Items) == 0 {
				fmt.Fprintln(out, "No similar songs found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tSONG\tSCORE\tSTRUCTURAL\tATTRIBUTE DISTANCE")
			for _, item := range resp.Items {
				fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f\t%.4f\n",
					item.Rank, item.ID, item.Score, item.Structural, item.AttributeDistance)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&attributes, "attr", nil, "attribute to include in the score (repeatable)")
	cmd.Flags().IntVarP(&k, "k", "k", 0, "number of recommendations (default from config)")
	return cmd
}

func songsCmd(opts *cliOptions) *cobra.Command {
	var (
		prefix string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "songs",
		Short: "List songs in the graph",
		Long: `List the songs that appear in at least one playlist, sorted by name.

Examples:
  songrec songs
  songrec songs --prefix "the " --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer engine.Close()

			songs := engine.Graph().AllVertices(graph.KindItem)
			sort.Strings(songs)
			songs = graph.MatchPrefix(songs, prefix)
			if limit > 0 && len(songs) > limit {
				songs = songs[:limit]
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, songs)
			}
			for _, song := range songs {
				fmt.Fprintln(out, song)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "only songs starting with this text (case-insensitive)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of songs (0 for all)")
	return cmd
}

func similarityCmd(opts *cliOptions) *cobra.Command {
	var attributes []string

	cmd := &cobra.Command{
		Use:   "similarity <song> <song>",
		Short: "Score the similarity of two songs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer engine.Close()

			g := engine.Graph()
			for _, song := range args {
				if !g.Contains(song, graph.KindItem) {
					return fmt.Errorf("%w: %q is not a song", errInvalidInput, song)
				}
			}
			score, err := g.Score(args[0], args[1], attributes)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, score)
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "structural\t%.4f\n", score.Structural)
			fmt.Fprintf(w, "attribute distance\t%.4f\n", score.AttributeDistance)
			fmt.Fprintf(w, "combined\t%.4f\n", score.Combined)
			return w.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&attributes, "attr", nil, "attribute to include in the score (repeatable)")
	return cmd
}

func importCmd(opts *cliOptions) *cobra.Command {
	var songPath, playlistPath, dbPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the flat song and playlist files into DuckDB",
		Long: `Parse the song and playlist files and replace the contents of the DuckDB
catalogue with them. Paths default to the data section of the config.

Examples:
  songrec import
  songrec import --songs song_data.txt --playlists playlist_data.txt --duckdb catalog.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := opts.cfg.Data
			if songPath == "" {
				songPath = data.SongPath
			}
			if playlistPath == "" {
				playlistPath = data.PlaylistPath
			}
			if dbPath == "" {
				dbPath = data.DuckDBPath
			}

			ds, err := ingest.NewFileSource(songPath, playlistPath).Load(cmd.Context())
			if err != nil {
				return err
			}

			db, err := ingest.NewDuckDBSource(dbPath, data.SongsTable, data.PlaylistTable)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logging.Warn().Err(err).Str("path", dbPath).Msg("Error closing DuckDB")
				}
			}()

			if err := db.Import(cmd.Context(), ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d songs and %d playlists into %s\n",
				len(ds.Songs), len(ds.Playlists), dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&songPath, "songs", "", "song file")
	cmd.Flags().StringVar(&playlistPath, "playlists", "", "playlist file")
	cmd.Flags().StringVar(&dbPath, "duckdb", "", "DuckDB database file")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Overrides the root hook: version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "songrec %s\nGo version: %s\n", version, runtime.Version())
			return nil
		},
	}
}
