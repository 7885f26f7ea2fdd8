// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package ingest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/songgraph/internal/config"
)

// flakySource fails until healthy is set.
type flakySource struct {
	healthy atomic.Bool
	calls   atomic.Int32
	err     error
}

func (s *flakySource) Name() string { return "flaky" }

func (s *flakySource) Load(ctx context.Context) (*Dataset, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.healthy.Load() {
		return nil, s.err
	}
	return testDataset(), nil
}

func testBreakerConfig() config.BreakerConfig {
	return config.BreakerConfig{
		Enabled:             true,
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             50 * time.Millisecond,
		ConsecutiveFailures: 2,
	}
}

func TestBreakerSource_OpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	src := &flakySource{err: errors.New("catalog locked")}
	b := NewBreakerSource(src, testBreakerConfig())

	for i := 0; i < 2; i++ {
		if _, err := b.Load(context.Background()); !errors.Is(err, src.err) {
			t.Fatalf("Load() #%d error = %v, want %v", i+1, err, src.err)
		}
	}
	if b.State() != "open" {
		t.Fatalf("State() = %q, want open", b.State())
	}

	_, err := b.Load(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Load() error = %v, want ErrSourceUnavailable wrapping ErrOpenState", err)
	}
	if got := src.calls.Load(); got != 2 {
		t.Errorf("source called %d times, want 2 (third call rejected)", got)
	}
}

func TestBreakerSource_RecoversAfterTimeout(t *testing.T) {
	t.Parallel()

	src := &flakySource{err: errors.New("catalog locked")}
	b := NewBreakerSource(src, testBreakerConfig())

	for i := 0; i < 2; i++ {
		_, _ = b.Load(context.Background())
	}
	if b.State() != "open" {
		t.Fatalf("State() = %q, want open", b.State())
	}

	src.healthy.Store(true)
	time.Sleep(80 * time.Millisecond)

	ds, err := b.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() after timeout error = %v", err)
	}
	if len(ds.Songs) == 0 {
		t.Error("Load() returned an empty dataset")
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreakerSource_CancellationDoesNotTrip(t *testing.T) {
	t.Parallel()

	src := &flakySource{}
	src.healthy.Store(true)
	b := NewBreakerSource(src, testBreakerConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		if _, err := b.Load(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("Load() error = %v, want context.Canceled", err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreakerSource_NameAndClose(t *testing.T) {
	t.Parallel()

	b := NewBreakerSource(staticSource{ds: testDataset()}, testBreakerConfig())
	if b.Name() != "static" {
		t.Errorf("Name() = %q, want static", b.Name())
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close() = %v, want nil for a source without resources", err)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("file with breaker", func(t *testing.T) {
		t.Parallel()
		src, err := Open(config.DataConfig{
			Source:       config.SourceFile,
			SongPath:     "songs.txt",
			PlaylistPath: "playlists.txt",
			Breaker:      testBreakerConfig(),
		})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if _, ok := src.(*BreakerSource); !ok {
			t.Errorf("Open() = %T, want *BreakerSource", src)
		}
	})

	t.Run("file without breaker", func(t *testing.T) {
		t.Parallel()
		src, err := Open(config.DataConfig{Source: config.SourceFile})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if _, ok := src.(*FileSource); !ok {
			t.Errorf("Open() = %T, want *FileSource", src)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		if _, err := Open(config.DataConfig{Source: "s3"}); err == nil {
			t.Error("Open(s3) error = nil")
		}
	})
}
