// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinecache/internal/config"
	"github.com/tomtom215/cinecache/internal/metrics"
	"github.com/tomtom215/cinecache/internal/models"
)

const matrixJSON = `{
	"id": 603,
	"title": "The Matrix",
	"overview": "A hacker learns the truth.",
	"poster_path": "/matrix.jpg",
	"vote_average": 8.2,
	"vote_count": 24000,
	"popularity": 80.5,
	"release_date": "1999-03-31",
	"runtime": 136,
	"original_language": "en",
	"genres": [{"id": 28, "name": "Action"}, "Science Fiction", {"name": "action"}, ""],
	"credits": {
		"cast": [{"id": 6384, "name": "Keanu Reeves", "character": "Neo", "popularity": 50, "known_for_department": "Acting"}],
		"crew": [{"id": 9340, "name": "Lana Wachowski", "job": "Director", "known_for_department": "Directing"}]
	},
	"videos": {"results": [{"key": "vKQi3bBA1y8"}]}
}`

const keanuJSON = `{
	"id": 6384,
	"name": "Keanu Reeves",
	"biography": "Canadian actor.",
	"birthday": "1964-09-02",
	"popularity": 50,
	"known_for_department": "Acting",
	"movie_credits": {"cast": [{"id": 603, "title": "The Matrix", "popularity": 80.5, "genre_ids": [28, 878]}], "crew": []},
	"images": {"profiles": []}
}`

func testConfig(url string) *config.ProviderConfig {
	return &config.ProviderConfig{
		BaseURL: url,
		APIKey:  "secret-key",
		Timeout: 5 * time.Second,
	}
}

// newTestServer serves handler and counts requests.
func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func checkKind(t *testing.T, err, kind error) *models.ProviderError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("error = %v, want kind %v", err, kind)
	}
	var perr *models.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("error %T is not a *models.ProviderError", err)
	}
	return perr
}

func TestFetchMovie_Success(t *testing.T) {
	var gotPath, gotKey, gotAppend string
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotAppend = r.URL.Query().Get("append_to_response")
		respond(http.StatusOK, matrixJSON)(w, r)
	})

	client := New(testConfig(server.URL + "/"))
	raw, err := client.FetchMovie(context.Background(), 603)
	if err != nil {
		t.Fatalf("FetchMovie() error = %v", err)
	}

	if gotPath != "/movie/603" {
		t.Errorf("path = %q, want /movie/603", gotPath)
	}
	if gotKey != "secret-key" {
		t.Errorf("api_key = %q", gotKey)
	}
	if gotAppend != "credits,videos" {
		t.Errorf("append_to_response = %q", gotAppend)
	}
	if raw.Title != "The Matrix" || raw.Runtime == nil || *raw.Runtime != 136 {
		t.Errorf("unexpected movie: %+v", raw)
	}
	names := models.GenreNames(raw.Genres)
	if len(names) != 2 || names[0] != "Action" || names[1] != "Science Fiction" {
		t.Errorf("genres = %v, want [Action Science Fiction]", names)
	}
	if raw.Credits == nil || len(raw.Credits.Cast) != 1 || raw.Credits.Cast[0].Character != "Neo" {
		t.Errorf("credits = %+v", raw.Credits)
	}
	if len(raw.Videos) == 0 {
		t.Error("videos not decoded")
	}
}

func TestFetchActor_Success(t *testing.T) {
	var gotPath, gotAppend string
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAppend = r.URL.Query().Get("append_to_response")
		respond(http.StatusOK, keanuJSON)(w, r)
	})

	raw, err := New(testConfig(server.URL)).FetchActor(context.Background(), 6384)
	if err != nil {
		t.Fatalf("FetchActor() error = %v", err)
	}
	if gotPath != "/person/6384" || gotAppend != "movie_credits,images" {
		t.Errorf("request = %s ?append_to_response=%s", gotPath, gotAppend)
	}
	if raw.Name != "Keanu Reeves" || len(raw.MovieCredits.Cast) != 1 {
		t.Errorf("unexpected actor: %+v", raw)
	}
	if got := raw.MovieCredits.Cast[0].GenreIDs; len(got) != 2 {
		t.Errorf("genre ids = %v", got)
	}
}

func TestFetch_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		kind       error
		wantStatus int
	}{
		{"not found", http.StatusNotFound, `{"status_code":34}`, models.ErrNotFound, 404},
		{"server error", http.StatusInternalServerError, `oops`, models.ErrProviderUnavailable, 500},
		{"unauthorized", http.StatusUnauthorized, `{}`, models.ErrProviderUnavailable, 401},
		{"throttled", http.StatusTooManyRequests, `{}`, models.ErrProviderUnavailable, 429},
		{"missing title", http.StatusOK, `{"id": 603}`, models.ErrMalformedResponse, 200},
		{"missing id", http.StatusOK, `{"title": "The Matrix"}`, models.ErrMalformedResponse, 200},
		{"not json", http.StatusOK, `<html>`, models.ErrMalformedResponse, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits := newTestServer(t, respond(tt.status, tt.body))

			_, err := New(testConfig(server.URL)).FetchMovie(context.Background(), 603)
			perr := checkKind(t, err, tt.kind)
			if perr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", perr.StatusCode, tt.wantStatus)
			}
			if perr.Op != "movie" || perr.ExternalID != 603 {
				t.Errorf("Op/ExternalID = %s/%d", perr.Op, perr.ExternalID)
			}
			if n := atomic.LoadInt32(hits); n != 1 {
				t.Errorf("provider hit %d times, want exactly 1 (no retry)", n)
			}
		})
	}
}

func TestFetchActor_MissingName(t *testing.T) {
	server, _ := newTestServer(t, respond(http.StatusOK, `{"id": 1}`))

	_, err := New(testConfig(server.URL)).FetchActor(context.Background(), 1)
	checkKind(t, err, models.ErrMalformedResponse)
}

func TestFetch_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(testConfig(url)).FetchMovie(context.Background(), 603)
	perr := checkKind(t, err, models.ErrProviderUnavailable)
	if perr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", perr.StatusCode)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Errorf("error leaks the API key: %v", err)
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := New(cfg).FetchMovie(context.Background(), 603)
	checkKind(t, err, models.ErrProviderUnavailable)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("request took %v, timeout not applied", elapsed)
	}
}

func TestFetch_RateLimiterHonorsContext(t *testing.T) {
	server, hits := newTestServer(t, respond(http.StatusOK, matrixJSON))

	cfg := testConfig(server.URL)
	cfg.RequestsPerSecond = 0.01
	cfg.Burst = 1
	client := New(cfg)

	if _, err := client.FetchMovie(context.Background(), 603); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.FetchMovie(ctx, 603)
	checkKind(t, err, models.ErrProviderUnavailable)
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Errorf("provider hit %d times, want 1", n)
	}
}

func TestFetch_RecordsMetrics(t *testing.T) {
	server, _ := newTestServer(t, respond(http.StatusNotFound, `{}`))

	counter := metrics.ProviderRequests.WithLabelValues("movie", "404")
	before := testutil.ToFloat64(counter)

	_, _ = New(testConfig(server.URL)).FetchMovie(context.Background(), 1)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("provider_requests_total{movie,404} delta = %v, want 1", got)
	}
}

func TestBreaker_OpensOnFailures(t *testing.T) {
	server, hits := newTestServer(t, respond(http.StatusBadGateway, `{}`))

	cfg := testConfig(server.URL)
	cfg.BreakerEnabled = true
	client := New(cfg)

	for i := 0; i < breakerMinRequests; i++ {
		_, err := client.FetchMovie(context.Background(), int64(i+1))
		checkKind(t, err, models.ErrProviderUnavailable)
	}
	if got := client.breaker.State(); got != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v, want open", got)
	}

	_, err := client.FetchMovie(context.Background(), 99)
	checkKind(t, err, models.ErrProviderUnavailable)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want it to wrap ErrOpenState", err)
	}
	if n := atomic.LoadInt32(hits); n != breakerMinRequests {
		t.Errorf("provider hit %d times, want %d (open breaker must not call out)", n, breakerMinRequests)
	}
}

func TestBreaker_NotFoundDoesNotTrip(t *testing.T) {
	server, hits := newTestServer(t, respond(http.StatusNotFound, `{}`))

	cfg := testConfig(server.URL)
	cfg.BreakerEnabled = true
	client := New(cfg)

	const calls = 15
	for i := 0; i < calls; i++ {
		_, err := client.FetchMovie(context.Background(), int64(i+1))
		checkKind(t, err, models.ErrNotFound)
	}
	if got := client.breaker.State(); got != gobreaker.StateClosed {
		t.Errorf("breaker state = %v, want closed", got)
	}
	if n := atomic.LoadInt32(hits); n != calls {
		t.Errorf("provider hit %d times, want %d", n, calls)
	}
}

func TestBreaker_CallerCancellationDoesNotTrip(t *testing.T) {
	release := make(chan struct{})
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	cfg := testConfig(server.URL)
	cfg.BreakerEnabled = true
	client := New(cfg)

	const calls = 2 * breakerMinRequests
	for i := 0; i < calls; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_, err := client.FetchMovie(ctx, int64(i+1))
		cancel()
		checkKind(t, err, models.ErrProviderUnavailable)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("call %d: error = %v, want it to wrap context.DeadlineExceeded", i, err)
		}
	}
	if got := client.breaker.State(); got != gobreaker.StateClosed {
		t.Errorf("breaker state = %v, want closed", got)
	}
}

func TestBreaker_CanceledContextSkipsProvider(t *testing.T) {
	server, hits := newTestServer(t, respond(http.StatusOK, matrixJSON))

	cfg := testConfig(server.URL)
	cfg.BreakerEnabled = true
	client := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 2*breakerMinRequests; i++ {
		_, err := client.FetchMovie(ctx, 603)
		checkKind(t, err, models.ErrProviderUnavailable)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want it to wrap context.Canceled", err)
		}
	}
	if n := atomic.LoadInt32(hits); n != 0 {
		t.Errorf("provider hit %d times, want 0", n)
	}
	if got := client.breaker.State(); got != gobreaker.StateClosed {
		t.Errorf("breaker state = %v, want closed", got)
	}
	if counts := client.breaker.Counts(); counts.TotalFailures != 0 {
		t.Errorf("breaker failures = %d, want 0", counts.TotalFailures)
	}
}

func TestBreaker_RateLimiterWaitDoesNotTrip(t *testing.T) {
	server, hits := newTestServer(t, respond(http.StatusOK, matrixJSON))

	cfg := testConfig(server.URL)
	cfg.RequestsPerSecond = 0.01
	cfg.Burst = 1
	cfg.BreakerEnabled = true
	client := New(cfg)

	if _, err := client.FetchMovie(context.Background(), 603); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	for i := 0; i < 2*breakerMinRequests; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		_, err := client.FetchMovie(ctx, 603)
		cancel()
		checkKind(t, err, models.ErrProviderUnavailable)
	}
	if got := client.breaker.State(); got != gobreaker.StateClosed {
		t.Errorf("breaker state = %v, want closed", got)
	}
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Errorf("provider hit %d times, want 1", n)
	}
}
