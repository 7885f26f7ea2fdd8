// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/songgraph/internal/config"
	"github.com/tomtom215/songgraph/internal/logging"
	"github.com/tomtom215/songgraph/internal/metrics"
)

// BreakerSource wraps a Source with a circuit breaker.
//
// The breaker uses real time (via sony/gobreaker) for its interval and
// timeout. Tests should drive it with short timeouts or a failing Source.
type BreakerSource struct {
	source Source
	cb     *gobreaker.CircuitBreaker[*Dataset]
	name   string
}

// NewBreakerSource wraps source. The breaker opens after cfg.ConsecutiveFailures
// failed loads in a row and allows cfg.MaxRequests trial loads once cfg.Timeout
// has passed. Cancelled loads do not count as failures.
func NewBreakerSource(source Source, cfg config.BreakerConfig) *BreakerSource {
	name := "data-source-" + source.Name()
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 1
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(metrics.BreakerClosed)

	cb := gobreaker.NewCircuitBreaker[*Dataset](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= threshold
			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordBreakerTransition(name, from.String(), to.String(), stateValue(to))
		},
	})

	return &BreakerSource{source: source, cb: cb, name: name}
}

// Name reports the wrapped source's name.
func (b *BreakerSource) Name() string {
	return b.source.Name()
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *BreakerSource) State() string {
	return b.cb.State().String()
}

// Load runs the wrapped Load through the breaker. A rejected call returns an
// error wrapping both ErrSourceUnavailable and the gobreaker sentinel.
func (b *BreakerSource) Load(ctx context.Context) (*Dataset, error) {
	ds, err := b.cb.Execute(func() (*Dataset, error) {
		return b.source.Load(ctx)
	})
	if err == nil {
		metrics.RecordBreakerRequest(b.name, "success")
		return ds, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordBreakerRequest(b.name, "rejected")
		logging.Warn().Err(err).Str("breaker", b.name).Msg("[CIRCUIT BREAKER] Load rejected")
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	metrics.RecordBreakerRequest(b.name, "failure")
	return nil, err
}

// Close closes the wrapped source if it holds resources.
func (b *BreakerSource) Close() error {
	if c, ok := b.source.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return metrics.BreakerHalfOpen
	case gobreaker.StateOpen:
		return metrics.BreakerOpen
	default:
		return metrics.BreakerClosed
	}
}

// Open builds the Source described by cfg, wrapped in a BreakerSource when
// the breaker is enabled. Callers should close the result if it implements io.Closer.
func Open(cfg config.DataConfig) (Source, error) {
	var src Source
	switch cfg.Source {
	case config.SourceFile, "":
		src = NewFileSource(cfg.SongPath, cfg.PlaylistPath)
	case config.SourceDuckDB:
		db, err := NewDuckDBSource(cfg.DuckDBPath, cfg.SongsTable, cfg.PlaylistTable)
		if err != nil {
			return nil, err
		}
		src = db
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Source)
	}

	if !cfg.Breaker.Enabled {
		return src, nil
	}
	return NewBreakerSource(src, cfg.Breaker), nil
}
