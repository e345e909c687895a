// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinecache/internal/config"
	"github.com/tomtom215/cinecache/internal/database"
	"github.com/tomtom215/cinecache/internal/models"
)

// mockDataProvider implements DataProvider for testing.
type mockDataProvider struct {
	favorites     []models.Favorite
	movies        map[int64]*models.Movie
	candidates    []models.MovieSummary
	favoritesErr  error
	movieErr      error
	candidatesErr error

	gotGenres    []string
	gotMinRating float64
	gotLimit     int
}

func (m *mockDataProvider) ListFavorites(_ context.Context, _ string) ([]models.Favorite, error) {
	if m.favoritesErr != nil {
		return nil, m.favoritesErr
	}
	return m.favorites, nil
}

func (m *mockDataProvider) GetMovie(_ context.Context, id int64) (*models.Movie, error) {
	if m.movieErr != nil {
		return nil, m.movieErr
	}
	return m.movies[id], nil
}

func (m *mockDataProvider) RecommendationCandidates(_ context.Context, genres []string, minRating float64, limit int) ([]models.MovieSummary, error) {
	m.gotGenres = genres
	m.gotMinRating = minRating
	m.gotLimit = limit
	if m.candidatesErr != nil {
		return nil, m.candidatesErr
	}
	return m.candidates, nil
}

func testConfig() *config.RecommendConfig {
	return &config.RecommendConfig{DefaultLimit: 15, MaxLimit: 100, MinRating: 7.0, TopGenres: 2}
}

func movieWithGenres(id int64, genres ...string) *models.Movie {
	m := &models.Movie{ExternalID: id, Title: "m"}
	for _, g := range genres {
		m.Genres = append(m.Genres, models.Genre{Name: g})
	}
	return m
}

func TestRecommend_NoFavorites(t *testing.T) {
	dp := &mockDataProvider{}
	e := NewEngine(testConfig(), dp, zerolog.Nop())

	resp := e.Recommend(context.Background(), "10.0.0.1", 0)
	if resp.Movies == nil || len(resp.Movies) != 0 {
		t.Errorf("Movies = %v, want empty non-nil slice", resp.Movies)
	}
	if dp.gotGenres != nil {
		t.Error("candidates queried without favorites")
	}
	if got := e.GetMetrics(); got.Requests != 1 || got.Empty != 1 {
		t.Errorf("GetMetrics() = %+v", got)
	}
}

func TestRecommend_FavoritesWithoutGenres(t *testing.T) {
	dp := &mockDataProvider{
		favorites: []models.Favorite{
			{MovieID: 1, MovieData: []byte(`{"title":"x"}`)},
			{MovieID: 2, MovieData: []byte(`not json`)},
		},
		movies: map[int64]*models.Movie{1: movieWithGenres(1)},
	}
	e := NewEngine(testConfig(), dp, zerolog.Nop())

	resp := e.Recommend(context.Background(), "10.0.0.1", 0)
	if len(resp.Movies) != 0 {
		t.Errorf("Movies = %v, want empty", resp.Movies)
	}
	if resp.Favorites != 2 {
		t.Errorf("Favorites = %d, want 2", resp.Favorites)
	}
	if dp.gotGenres != nil {
		t.Error("candidates queried without genres")
	}
}

func TestRecommend_TopTwoGenres(t *testing.T) {
	dp := &mockDataProvider{
		favorites: []models.Favorite{
			{MovieID: 1}, {MovieID: 2}, {MovieID: 3},
			// Not stored: genres come from the snapshot, in both encodings.
			{MovieID: 4, MovieData: []byte(`{"genres":["Drama", {"name":"Action"}]}`)},
		},
		movies: map[int64]*models.Movie{
			1: movieWithGenres(1, "Action", "Comedy"),
			2: movieWithGenres(2, "Action"),
			3: movieWithGenres(3, "Thriller"),
		},
		candidates: []models.MovieSummary{{ExternalID: 10, Title: "Heat"}},
	}
	e := NewEngine(testConfig(), dp, zerolog.Nop())

	resp := e.Recommend(context.Background(), "10.0.0.1", 0)

	// Action:3, Comedy/Thriller/Drama:1 each; Comedy was seen first.
	if want := []string{"Action", "Comedy"}; !reflect.DeepEqual(dp.gotGenres, want) {
		t.Errorf("genres = %v, want %v", dp.gotGenres, want)
	}
	if dp.gotMinRating != 7.0 {
		t.Errorf("minRating = %v, want 7.0", dp.gotMinRating)
	}
	if dp.gotLimit != 15 {
		t.Errorf("limit = %d, want default 15", dp.gotLimit)
	}
	if len(resp.Movies) != 1 || resp.Movies[0].Title != "Heat" {
		t.Errorf("Movies = %v", resp.Movies)
	}
}

func TestRecommend_LimitClamped(t *testing.T) {
	dp := &mockDataProvider{
		favorites: []models.Favorite{{MovieID: 1}},
		movies:    map[int64]*models.Movie{1: movieWithGenres(1, "Drama")},
	}
	e := NewEngine(testConfig(), dp, zerolog.Nop())

	e.Recommend(context.Background(), "a", 5000)
	if dp.gotLimit != 100 {
		t.Errorf("limit = %d, want 100", dp.gotLimit)
	}
	e.Recommend(context.Background(), "a", 7)
	if dp.gotLimit != 7 {
		t.Errorf("limit = %d, want 7", dp.gotLimit)
	}
}

func TestRecommend_StoreErrorsNeverFail(t *testing.T) {
	tests := []struct {
		name string
		dp   *mockDataProvider
	}{
		{"favorites", &mockDataProvider{favoritesErr: errors.New("down")}},
		{"candidates", &mockDataProvider{
			favorites:     []models.Favorite{{MovieID: 1}},
			movies:        map[int64]*models.Movie{1: movieWithGenres(1, "Drama")},
			candidatesErr: errors.New("down"),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(testConfig(), tt.dp, zerolog.Nop())
			resp := e.Recommend(context.Background(), "a", 0)
			if resp == nil || resp.Movies == nil || len(resp.Movies) != 0 {
				t.Errorf("Recommend() = %+v, want empty response", resp)
			}
			if e.GetMetrics().Errors != 1 {
				t.Errorf("Errors = %d, want 1", e.GetMetrics().Errors)
			}
		})
	}
}

func TestRecommend_MovieLookupErrorUsesSnapshot(t *testing.T) {
	dp := &mockDataProvider{
		favorites: []models.Favorite{{MovieID: 1, MovieData: []byte(`{"genres":[{"name":"Horror"}]}`)}},
		movieErr:  errors.New("timeout"),
	}
	e := NewEngine(testConfig(), dp, zerolog.Nop())
	e.Recommend(context.Background(), "a", 0)

	if want := []string{"Horror"}; !reflect.DeepEqual(dp.gotGenres, want) {
		t.Errorf("genres = %v, want %v", dp.gotGenres, want)
	}
}

func TestTopGenres(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		n     int
		want  []string
	}{
		{"empty", nil, 2, []string{}},
		{"fewer than n", []string{"Drama"}, 2, []string{"Drama"}},
		{"by count", []string{"Drama", "Action", "Action", "Action"}, 2, []string{"Action", "Drama"}},
		{"ties by first occurrence", []string{"Crime", "Drama", "Action"}, 2, []string{"Crime", "Drama"}},
		{"case insensitive", []string{"drama", "Action", "Drama"}, 1, []string{"drama"}},
		{"blank ignored", []string{" ", "Comedy"}, 2, []string{"Comedy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TopGenres(tt.names, tt.n); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopGenres() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestRecommend_WithStore runs the engine over a real store: favorites of
// three Action movies and one Drama movie recommend only movies in those
// genres rated 7.0 or better.
func TestRecommend_WithStore(t *testing.T) {
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()

	seed := []struct {
		id     int64
		title  string
		rating float64
		genres []string
	}{
		{1, "Die Hard", 7.8, []string{"Action"}},
		{2, "Speed", 7.2, []string{"Action"}},
		{3, "Commando", 6.7, []string{"Action"}},
		{4, "The Piano", 7.5, []string{"Drama"}},
		{5, "Airplane!", 7.9, []string{"Comedy"}},
		{6, "Heat", 8.3, []string{"Crime", "Drama"}},
		{7, "Cats", 2.9, []string{"Drama"}},
	}
	for _, s := range seed {
		if _, err := db.UpsertMovie(ctx, movieWithRating(s.id, s.title, s.rating, s.genres...)); err != nil {
			t.Fatalf("UpsertMovie(%d) error = %v", s.id, err)
		}
	}
	for _, id := range []int64{1, 2, 3, 4} {
		if _, err := db.ToggleFavorite(ctx, "192.0.2.10", id, []byte(`{}`)); err != nil {
			t.Fatalf("ToggleFavorite(%d) error = %v", id, err)
		}
	}

	e := NewEngine(testConfig(), db, zerolog.Nop())
	resp := e.Recommend(ctx, "192.0.2.10", 0)

	if want := []string{"Action", "Drama"}; !reflect.DeepEqual(resp.Genres, want) {
		t.Errorf("Genres = %v, want %v", resp.Genres, want)
	}
	var titles []string
	for _, m := range resp.Movies {
		titles = append(titles, m.Title)
	}
	if want := []string{"Heat", "Die Hard", "The Piano", "Speed"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("titles = %v, want %v", titles, want)
	}

	if other := e.Recommend(ctx, "192.0.2.99", 0); len(other.Movies) != 0 {
		t.Errorf("unknown identity got %d movies", len(other.Movies))
	}
}

func movieWithRating(id int64, title string, rating float64, genres ...string) *models.Movie {
	m := movieWithGenres(id, genres...)
	m.Title = title
	m.VoteAverage = rating
	m.VoteCount = 1000
	return m
}
