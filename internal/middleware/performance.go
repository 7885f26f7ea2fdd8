// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/songgraph/internal/logging"
)

// Sample is one observed request.
type Sample struct {
	Route    string
	Method   string
	Status   int
	Duration time.Duration
	At       time.Time
}

// RouteStats aggregates the samples of one method and route in the window.
type RouteStats struct {
	Route    string    `json:"route"`
	Method   string    `json:"method"`
	Count    int       `json:"count"`
	Errors   int       `json:"errors"`
	AvgMS    float64   `json:"avg_ms"`
	P50MS    float64   `json:"p50_ms"`
	P95MS    float64   `json:"p95_ms"`
	P99MS    float64   `json:"p99_ms"`
	MaxMS    float64   `json:"max_ms"`
	LastSeen time.Time `json:"last_seen"`
}

// LatencyTracker keeps the most recent requests in a fixed-size ring and
// reports per-route latency percentiles over them.
type LatencyTracker struct {
	mu      sync.RWMutex
	samples []Sample
	next    int
	full    bool

	slowThreshold time.Duration
}

// NewLatencyTracker creates a tracker holding up to window samples. Requests
// slower than slowThreshold are logged; zero disables slow request logging.
func NewLatencyTracker(window int, slowThreshold time.Duration) *LatencyTracker {
	if window < 1 {
		window = 1
	}
	return &LatencyTracker{
		samples:       make([]Sample, window),
		slowThreshold: slowThreshold,
	}
}

// Record adds a sample, evicting the oldest once the window is full.
//
//nolint:gocritic // hugeParam: Sample passed by value to keep the ring immutable to callers
func (lt *LatencyTracker) Record(s Sample) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	lt.samples[lt.next] = s
	lt.next = (lt.next + 1) % len(lt.samples)
	if lt.next == 0 {
		lt.full = true
	}
}

// Len returns the number of samples currently in the window.
func (lt *LatencyTracker) Len() int {
	lt.mu.RLock()
	defer lt.mu.RUnlock()
	return lt.lenLocked()
}

func (lt *LatencyTracker) lenLocked() int {
	if lt.full {
		return len(lt.samples)
	}
	return lt.next
}

// Stats returns per-route statistics sorted by request count, busiest first.
func (lt *LatencyTracker) Stats() []RouteStats {
	lt.mu.RLock()
	grouped := make(map[[2]string][]Sample)
	for i := 0; i < lt.lenLocked(); i++ {
		s := lt.samples[i]
		key := [2]string{s.Method, s.Route}
		grouped[key] = append(grouped[key], s)
	}
	lt.mu.RUnlock()

	stats := make([]RouteStats, 0, len(grouped))
	for key, samples := range grouped {
		stats = append(stats, summarize(key[0], key[1], samples))
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		if stats[i].Route != stats[j].Route {
			return stats[i].Route < stats[j].Route
		}
		return stats[i].Method < stats[j].Method
	})
	return stats
}

func summarize(method, route string, samples []Sample) RouteStats {
	durations := make([]time.Duration, len(samples))
	var total time.Duration
	rs := RouteStats{Route: route, Method: method, Count: len(samples)}
	for i, s := range samples {
		durations[i] = s.Duration
		total += s.Duration
		if s.Status >= http.StatusInternalServerError {
			rs.Errors++
		}
		if s.At.After(rs.LastSeen) {
			rs.LastSeen = s.At
		}
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	rs.AvgMS = ms(total / time.Duration(len(durations)))
	rs.P50MS = ms(percentile(durations, 0.50))
	rs.P95MS = ms(percentile(durations, 0.95))
	rs.P99MS = ms(percentile(durations, 0.99))
	rs.MaxMS = ms(durations[len(durations)-1])
	return rs
}

// Middleware records every request that passes through it.
func (lt *LatencyTracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newStatusRecorder(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		route := RoutePattern(r)
		lt.Record(Sample{
			Route:    route,
			Method:   r.Method,
			Status:   rw.Status(),
			Duration: duration,
			At:       start,
		})

		if lt.slowThreshold > 0 && duration > lt.slowThreshold {
			logging.Ctx(r.Context()).Warn().
				Str("route", route).
				Dur("duration", duration).
				Dur("threshold", lt.slowThreshold).
				Msg("Slow request detected")
		}
	})
}

// percentile uses the nearest-rank method on a sorted slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
