// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/songgraph/internal/config"
	"github.com/tomtom215/songgraph/internal/graph"
	"github.com/tomtom215/songgraph/internal/ingest"
	"github.com/tomtom215/songgraph/internal/logging"
	"github.com/tomtom215/songgraph/internal/recommend"
)

// errInvalidInput marks errors caused by what the user typed.
var errInvalidInput = errors.New("invalid input")

// cliOptions are the persistent flags plus the config they resolve to.
type cliOptions struct {
	configPath string
	verbose    bool
	jsonOutput bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "songrec",
		Short: "Song recommendations from listening data",
		Long: `songrec builds the user/song listening graph from the configured data
source and answers queries against it: recommendations for a song, the
song catalogue, and pairwise similarity.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (default: CONFIG_PATH or ./config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	cmd.AddCommand(
		recommendCmd(opts),
		songsCmd(opts),
		similarityCmd(opts),
		importCmd(opts),
		versionCmd(),
	)

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errInvalidInput, err)
	})
	return cmd
}

func (o *cliOptions) init(stderr io.Writer) error {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console", Output: stderr})

	var err error
	if o.configPath != "" {
		o.cfg, err = config.LoadFrom(o.configPath)
	} else {
		o.cfg, err = config.Load()
	}
	return err
}

// openSource opens the configured data source. The returned close function
// is always non-nil.
func (o *cliOptions) openSource() (ingest.Source, func(), error) {
	src, err := ingest.Open(o.cfg.Data)
	if err != nil {
		return nil, func() {}, err
	}
	closeFn := func() {
		if closer, ok := src.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				logging.Warn().Err(err).Msg("Error closing data source")
			}
		}
	}
	return src, closeFn, nil
}

// loadEngine builds the graph and publishes it to a fresh engine.
func (o *cliOptions) loadEngine(ctx context.Context) (*recommend.Engine, error) {
	src, closeSource, err := o.openSource()
	defer closeSource()
	if err != nil {
		return nil, err
	}

	buildCtx := ctx
	if o.cfg.Graph.BuildTimeout > 0 {
		var cancel context.CancelFunc
		buildCtx, cancel = context.WithTimeout(ctx, o.cfg.Graph.BuildTimeout)
		defer cancel()
	}
	g, _, err := ingest.LoadGraph(buildCtx, src)
	if err != nil {
		return nil, err
	}

	engineCfg := recommend.ConfigFromSettings(o.cfg.Recommend)
	engineCfg.Cache.Enabled = false
	engine, err := recommend.NewEngine(engineCfg, logging.Logger())
	if err != nil {
		return nil, err
	}
	engine.SetGraph(g, src.Name())
	return engine, nil
}

// userError rewrites lookup failures as invalid input.
func userError(err error) error {
	switch {
	case errors.Is(err, graph.ErrInvalidReference),
		errors.Is(err, recommend.ErrNotAnItem),
		errors.Is(err, graph.ErrMissingAttribute),
		errors.Is(err, recommend.ErrInvalidMaxResults):
		return fmt.Errorf("%w: %w", errInvalidInput, err)
	default:
		return err
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
