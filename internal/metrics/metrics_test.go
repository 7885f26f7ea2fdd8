// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{"recommendation ok", "GET", "/api/v1/recommendations/{song}", "200", 2 * time.Millisecond},
		{"unknown song", "GET", "/api/v1/recommendations/{song}", "404", time.Millisecond},
		{"reload", "POST", "/api/v1/graph/reload", "202", 50 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode)
			before := testutil.ToFloat64(counter)

			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("api_requests_total delta = %v, want 1", got)
			}
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 2 {
		t.Errorf("active requests delta = %v, want 2", got)
	}

	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		outcome      string
		wantObserved bool
	}{
		{OutcomeOK, true},
		{OutcomeInvalid, false},
		{OutcomeNotFound, false},
		{OutcomeNotReady, false},
		{OutcomeError, false},
	}

	for _, tt := range tests {
		t.Run(tt.outcome, func(t *testing.T) {
			counter := RecommendationRequests.WithLabelValues(tt.outcome)
			before := testutil.ToFloat64(counter)
			samplesBefore := testutil.CollectAndCount(RecommendationDuration)

			RecordRecommendation(tt.outcome, time.Millisecond, 3)

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("recommendation_requests_total{result=%q} delta = %v, want 1", tt.outcome, got)
			}
			// A histogram is a single collected metric regardless of observations.
			if got := testutil.CollectAndCount(RecommendationDuration); got != samplesBefore {
				t.Errorf("CollectAndCount = %d, want %d", got, samplesBefore)
			}
		})
	}
}

func TestRecordRecommendationCache(t *testing.T) {
	hits := testutil.ToFloat64(RecommendationCacheHits)
	misses := testutil.ToFloat64(RecommendationCacheMisses)

	RecordRecommendationCache(true)
	RecordRecommendationCache(false)
	RecordRecommendationCache(false)

	if got := testutil.ToFloat64(RecommendationCacheHits) - hits; got != 1 {
		t.Errorf("cache hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(RecommendationCacheMisses) - misses; got != 2 {
		t.Errorf("cache misses delta = %v, want 2", got)
	}
}

func TestRecordGraphBuild(t *testing.T) {
	failures := testutil.ToFloat64(GraphBuildFailures)

	RecordGraphBuild(time.Second, nil)
	if testutil.ToFloat64(GraphLastBuildSuccess) == 0 {
		t.Error("graph_last_build_success_timestamp not set after success")
	}
	if got := testutil.ToFloat64(GraphBuildFailures) - failures; got != 0 {
		t.Errorf("failures delta after success = %v, want 0", got)
	}

	RecordGraphBuild(time.Second, errors.New("songs file missing"))
	if got := testutil.ToFloat64(GraphBuildFailures) - failures; got != 1 {
		t.Errorf("failures delta after error = %v, want 1", got)
	}
}

func TestUpdateGraphSize(t *testing.T) {
	UpdateGraphSize(7, 3, 4, 5)

	if got := testutil.ToFloat64(GraphVersion); got != 7 {
		t.Errorf("graph_version = %v, want 7", got)
	}
	if got := testutil.ToFloat64(GraphVertices.WithLabelValues("user")); got != 3 {
		t.Errorf("graph_vertices{kind=user} = %v, want 3", got)
	}
	if got := testutil.ToFloat64(GraphVertices.WithLabelValues("item")); got != 4 {
		t.Errorf("graph_vertices{kind=item} = %v, want 4", got)
	}
	if got := testutil.ToFloat64(GraphEdges); got != 5 {
		t.Errorf("graph_edges = %v, want 5", got)
	}
}

func TestRecordIngest(t *testing.T) {
	songs := IngestRecords.WithLabelValues("song")
	before := testutil.ToFloat64(songs)
	RecordIngest("song", 12)
	if got := testutil.ToFloat64(songs) - before; got != 12 {
		t.Errorf("ingest_records_total{kind=song} delta = %v, want 12", got)
	}

	skipped := IngestSkipped.WithLabelValues("unknown_song")
	before = testutil.ToFloat64(skipped)
	RecordIngestSkipped("unknown_song", 0)
	RecordIngestSkipped("unknown_song", 2)
	if got := testutil.ToFloat64(skipped) - before; got != 2 {
		t.Errorf("ingest_skipped_total delta = %v, want 2", got)
	}
}

func TestRecordDBQuery_ErrorTruncation(t *testing.T) {
	long := errors.New(strings.Repeat("c", 100))
	RecordDBQuery("SELECT", "songs_trunc", time.Millisecond, long)

	counter := DBQueryErrors.WithLabelValues("SELECT", "songs_trunc", strings.Repeat("c", 50))
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Errorf("truncated error counter = %v, want 1", got)
	}
}

func TestRecordBreaker(t *testing.T) {
	RecordBreakerTransition("test-source", "closed", "open", BreakerOpen)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test-source")); got != BreakerOpen {
		t.Errorf("circuit_breaker_state = %v, want %d", got, BreakerOpen)
	}

	counter := CircuitBreakerRequests.WithLabelValues("test-source", "rejected")
	before := testutil.ToFloat64(counter)
	RecordBreakerRequest("test-source", "rejected")
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("circuit_breaker_requests_total delta = %v, want 1", got)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	counter := RecommendationRequests.WithLabelValues(OutcomeOK)
	before := testutil.ToFloat64(counter)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordRecommendation(OutcomeOK, time.Microsecond, 1)
			RecordAPIRequest("GET", "/api/v1/health", "200", time.Microsecond)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(counter) - before; got < 50 {
		t.Errorf("recommendation_requests_total delta = %v, want >= 50", got)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("test")
	TrackUptime(time.Now().Add(-time.Minute))

	if got := testutil.ToFloat64(AppUptime); got < 60 {
		t.Errorf("app_uptime_seconds = %v, want >= 60", got)
	}
}
