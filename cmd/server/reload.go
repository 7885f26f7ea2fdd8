// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package main

import (
	"fmt"

	"github.com/tomtom215/songgraph/internal/config"
	"github.com/tomtom215/songgraph/internal/logging"
	"github.com/tomtom215/songgraph/internal/recommend"
)

// watchConfig applies runtime-adjustable settings whenever the config file
// changes. A file that fails validation is ignored and the running settings stay.
func watchConfig(path string, engine *recommend.Engine) {
	log := logging.WithComponent("config")
	err := config.WatchConfigFile(path, func() {
		if err := applyConfigReload(path, engine); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Config change rejected")
			return
		}
		log.Info().Str("path", path).Msg("Config reloaded")
	})
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
		return
	}
	log.Debug().Str("path", path).Msg("Watching config file")
}

// applyConfigReload re-reads path and applies the log level and the
// recommendation limits. Whether the cache exists is fixed at startup.
func applyConfigReload(path string, engine *recommend.Engine) error {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	next := recommend.ConfigFromSettings(cfg.Recommend)
	next.Cache.Enabled = engine.GetConfig().Cache.Enabled
	if err := engine.UpdateConfig(next); err != nil {
		return fmt.Errorf("apply recommend settings: %w", err)
	}

	logging.SetLevelString(cfg.Logging.Level)
	return nil
}
