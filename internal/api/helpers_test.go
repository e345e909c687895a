// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinecache/internal/config"
	"github.com/tomtom215/cinecache/internal/database"
	"github.com/tomtom215/cinecache/internal/enrich"
	"github.com/tomtom215/cinecache/internal/models"
	"github.com/tomtom215/cinecache/internal/recommend"
)

// testDBSemaphore serializes DuckDB-backed tests in this package.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeFetcher serves canned provider payloads. Ids in failing return
// ErrProviderUnavailable; unknown ids are 404.
type fakeFetcher struct {
	mu      sync.Mutex
	movies  map[int64]*models.RawMovie
	actors  map[int64]*models.RawActor
	failing map[int64]bool
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		movies:  map[int64]*models.RawMovie{},
		actors:  map[int64]*models.RawActor{},
		failing: map[int64]bool{},
	}
}

func (f *fakeFetcher) FetchMovie(_ context.Context, id int64) (*models.RawMovie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[id] {
		return nil, &models.ProviderError{Op: "movie", ExternalID: id, StatusCode: 503, Kind: models.ErrProviderUnavailable}
	}
	m, ok := f.movies[id]
	if !ok {
		return nil, &models.ProviderError{Op: "movie", ExternalID: id, StatusCode: 404, Kind: models.ErrNotFound}
	}
	return m, nil
}

func (f *fakeFetcher) FetchActor(_ context.Context, id int64) (*models.RawActor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.actors[id]
	if !ok {
		return nil, &models.ProviderError{Op: "person", ExternalID: id, StatusCode: 404, Kind: models.ErrNotFound}
	}
	return a, nil
}

func rawMovie(id int64, title string, castSize int) *models.RawMovie {
	credits := &models.RawCredits{Cast: []models.CastMember{}, Crew: []models.CastMember{}}
	for i := 0; i < castSize; i++ {
		credits.Cast = append(credits.Cast, models.CastMember{
			ID:         int64(2000 + i),
			Name:       fmt.Sprintf("Actor %d", i),
			Popularity: float64(castSize - i),
			Department: "Acting",
			Character:  fmt.Sprintf("Role %d", i),
		})
	}
	return &models.RawMovie{
		ID:          id,
		Title:       title,
		PosterPath:  "/poster.jpg",
		VoteAverage: 8.1,
		VoteCount:   12000,
		Popularity:  60,
		ReleaseDate: "1999-03-30",
		Genres:      []models.Genre{{Name: "Action"}},
		Credits:     credits,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Enrich: config.EnrichConfig{
			MaxInFlight:  2,
			QueueSize:    64,
			TaskTimeout:  5 * time.Second,
			DrainTimeout: 5 * time.Second,
			Coalesce:     true,
		},
		Recommend: config.RecommendConfig{
			DefaultLimit: 15,
			MaxLimit:     100,
			MinRating:    7.0,
			TopGenres:    2,
		},
		API: config.APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Security: config.SecurityConfig{RateLimitDisabled: true},
	}
}

type testServer struct {
	handler http.Handler
	db      *database.DB
	fetcher *fakeFetcher
}

// newTestServer builds the full route tree over an in-memory store and a
// running enrichment pool.
func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	db := setupTestDB(t)
	fetcher := newFakeFetcher()

	orch := enrich.NewOrchestrator(db, fetcher, &cfg.Enrich, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = orch.Pool().Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	engine := recommend.NewEngine(&cfg.Recommend, db, zerolog.Nop())
	h := NewHandler(db, orch, engine, nil, cfg)
	t.Cleanup(h.Close)

	mw := NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security))
	return &testServer{
		handler: NewRouter(h, mw).Setup(),
		db:      db,
		fetcher: fetcher,
	}
}

// envelope mirrors models.APIResponse with the data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path string, body io.Reader, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.RemoteAddr = "198.51.100.10:40000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func (s *testServer) get(t *testing.T, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return s.do(t, http.MethodGet, path, nil, nil)
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func checkStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}

func checkErrorCode(t *testing.T, env envelope, want string) {
	t.Helper()
	if env.Error == nil {
		t.Fatalf("error = nil, want code %s", want)
	}
	if env.Error.Code != want {
		t.Errorf("error code = %q, want %q", env.Error.Code, want)
	}
}

func seedMovies(t *testing.T, db *database.DB, movies ...*models.Movie) {
	t.Helper()
	for _, m := range movies {
		if _, err := db.UpsertMovie(context.Background(), m); err != nil {
			t.Fatalf("seed %q: %v", m.Title, err)
		}
	}
}

func movie(id int64, title string, rating float64, released string, genres ...string) *models.Movie {
	gs := make([]models.Genre, len(genres))
	for i, g := range genres {
		gs[i] = models.Genre{Name: g}
	}
	return &models.Movie{
		ExternalID:       id,
		Title:            title,
		PosterPath:       fmt.Sprintf("/%d.jpg", id),
		VoteAverage:      rating,
		VoteCount:        2000,
		Popularity:       rating * 10,
		ReleaseDate:      released,
		OriginalLanguage: "en",
		Genres:           gs,
	}
}
