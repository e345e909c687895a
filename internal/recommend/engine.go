// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package recommend

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinecache/internal/config"
	"github.com/tomtom215/cinecache/internal/models"
)

// DataProvider is the store surface the engine reads. It is implemented by
// *database.DB.
type DataProvider interface {
	// ListFavorites returns the favorites saved under identity.
	ListFavorites(ctx context.Context, identity string) ([]models.Favorite, error)

	// GetMovie returns the stored movie or nil when it is not stored.
	GetMovie(ctx context.Context, externalID int64) (*models.Movie, error)

	// RecommendationCandidates returns movies in any of genres rated at
	// least minRating, best rated first.
	RecommendationCandidates(ctx context.Context, genres []string, minRating float64, limit int) ([]models.MovieSummary, error)
}

// Response is the result of one recommendation request.
type Response struct {
	Movies    []models.MovieSummary `json:"movies"`
	Genres    []string              `json:"genres"`
	Favorites int                   `json:"favorites"`
}

// Metrics holds engine counters.
type Metrics struct {
	Requests int64 `json:"requests"`
	Empty    int64 `json:"empty"`
	Errors   int64 `json:"errors"`
}

// Engine produces genre-affinity recommendations. It is safe for concurrent use.
type Engine struct {
	config *config.RecommendConfig
	logger zerolog.Logger
	data   DataProvider

	requestCount atomic.Int64
	emptyCount   atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates an engine reading from data.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *config.RecommendConfig, data DataProvider, logger zerolog.Logger) *Engine {
	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		data:   data,
	}
}

// Limit clamps a requested limit to the configured bounds; values below 1
// select the default.
func (e *Engine) Limit(requested int) int {
	if requested < 1 {
		return e.config.DefaultLimit
	}
	if requested > e.config.MaxLimit {
		return e.config.MaxLimit
	}
	return requested
}

// Recommend returns up to limit movies for identity. It never fails; store
// errors are logged and yield an empty response.
func (e *Engine) Recommend(ctx context.Context, identity string, limit int) *Response {
	start := time.Now()
	e.requestCount.Add(1)
	limit = e.Limit(limit)
	resp := &Response{Movies: []models.MovieSummary{}, Genres: []string{}}

	favorites, err := e.data.ListFavorites(ctx, identity)
	if err != nil {
		e.errorCount.Add(1)
		e.logger.Error().Err(err).Msg("failed to load favorites")
		return e.empty(resp)
	}
	resp.Favorites = len(favorites)
	if len(favorites) == 0 {
		return e.empty(resp)
	}

	genres := e.collectGenres(ctx, favorites)
	if len(genres) == 0 {
		return e.empty(resp)
	}

	resp.Genres = TopGenres(genres, e.config.TopGenres)
	movies, err := e.data.RecommendationCandidates(ctx, resp.Genres, e.config.MinRating, limit)
	if err != nil {
		e.errorCount.Add(1)
		e.logger.Error().Err(err).Strs("genres", resp.Genres).Msg("failed to load recommendation candidates")
		return e.empty(resp)
	}
	resp.Movies = movies
	if len(movies) == 0 {
		e.emptyCount.Add(1)
	}

	e.logger.Debug().
		Int("favorites", len(favorites)).
		Strs("genres", resp.Genres).
		Int("returned", len(movies)).
		Dur("latency", time.Since(start)).
		Msg("recommendation complete")
	return resp
}

func (e *Engine) empty(resp *Response) *Response {
	e.emptyCount.Add(1)
	return resp
}

// collectGenres returns every genre name of the favorited movies in
// favorite order, preferring the stored movie over the snapshot.
func (e *Engine) collectGenres(ctx context.Context, favorites []models.Favorite) []string {
	var names []string
	for i := range favorites {
		fav := &favorites[i]
		genres := fav.SnapshotGenres()

		movie, err := e.data.GetMovie(ctx, fav.MovieID)
		switch {
		case err != nil:
			e.logger.Warn().Err(err).Int64("movie_id", fav.MovieID).Msg("falling back to favorite snapshot")
		case movie != nil && len(movie.Genres) > 0:
			genres = movie.Genres
		}
		names = append(names, models.GenreNames(genres)...)
	}
	return names
}

// TopGenres returns the n most frequent names, compared case-insensitively.
// Equal counts keep first-occurrence order. The first spelling seen is
// returned.
func TopGenres(names []string, n int) []string {
	type tally struct {
		name  string
		count int
	}
	var order []*tally
	byKey := make(map[string]*tally, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		t, ok := byKey[key]
		if !ok {
			t = &tally{name: name}
			byKey[key] = t
			order = append(order, t)
		}
		t.count++
	}

	// Stable selection by count keeps first-occurrence order for ties.
	top := make([]string, 0, n)
	used := make([]bool, len(order))
	for len(top) < n {
		best := -1
		for i, t := range order {
			if used[i] {
				continue
			}
			if best == -1 || t.count > order[best].count {
				best = i
			}
		}
		if best == -1 {
			break
		}
		used[best] = true
		top = append(top, order[best].name)
	}
	return top
}

// GetMetrics returns a snapshot of the engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		Requests: e.requestCount.Load(),
		Empty:    e.emptyCount.Load(),
		Errors:   e.errorCount.Load(),
	}
}
