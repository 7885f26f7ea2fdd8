// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

// Package logging provides centralized zerolog-based structured logging for Songgraph.
//
// # Overview
//
// The package provides:
//   - JSON output for production and console output for development
//   - A global logger configured once from the loaded configuration
//   - Component child loggers (WithComponent)
//   - Request ID propagation through context (Ctx)
//   - An slog adapter so that the Suture supervisor logs through zerolog
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Graph build failed")
//	logging.Ctx(ctx).Info().Str("song", id).Msg("Recommendation served")
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
