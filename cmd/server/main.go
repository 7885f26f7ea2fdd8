// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/songgraph/internal/api"
	"github.com/tomtom215/songgraph/internal/config"
	"github.com/tomtom215/songgraph/internal/logging"
	"github.com/tomtom215/songgraph/internal/metrics"
	"github.com/tomtom215/songgraph/internal/middleware"
	"github.com/tomtom215/songgraph/internal/supervisor"
	"github.com/tomtom215/songgraph/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	latencyWindow        = 2048
	slowRequestThreshold = 500 * time.Millisecond
	uptimeInterval       = 15 * time.Second
)

func main() {
	start := time.Now()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("data_source", cfg.Data.Source).
		Dur("reload_interval", cfg.Graph.ReloadInterval).
		Msg("Starting Songgraph with supervisor tree")
	metrics.SetAppInfo(version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	graphComponents, err := initGraph(cfg, tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize graph components")
	}
	defer graphComponents.Close()

	latency := middleware.NewLatencyTracker(latencyWindow, slowRequestThreshold)
	handler := api.NewHandler(graphComponents.Engine, graphComponents.Loader, latency, api.HandlerConfig{
		Version:        version,
		RequestTimeout: cfg.Server.RequestTimeout,
	})
	chiMiddleware := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security))
	router := api.NewRouter(handler, chiMiddleware, latency)

	server := newHTTPServer(cfg.Server, router.Setup())
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if path := config.ConfigFilePath(); path != "" {
		watchConfig(path, graphComponents.Engine)
	}
	go trackUptime(ctx, start)

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Dur("uptime", time.Since(start)).Msg("Application stopped gracefully")
}

func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Timeout,
		ReadHeaderTimeout: cfg.Timeout,
		WriteTimeout:      cfg.Timeout,
		IdleTimeout:       60 * time.Second,
	}
}

func trackUptime(ctx context.Context, start time.Time) {
	ticker := time.NewTicker(uptimeInterval)
	defer ticker.Stop()
	for {
		metrics.TrackUptime(start)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
