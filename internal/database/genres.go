// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package database

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/cinecache/internal/models"
)

// GenreStats aggregates stored movies by genre: average vote_average and
// movie count per genre name.
func (db *DB) GenreStats(ctx context.Context) (map[string]models.GenreStat, error) {
	stats, err := db.queryGenreStats(ctx, 0)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.GenreStat, len(stats))
	for _, s := range stats {
		out[s.Name] = s
	}
	return out, nil
}

// TopRatedGenres returns genres ordered by average rating, then count.
func (db *DB) TopRatedGenres(ctx context.Context, limit int) ([]models.GenreStat, error) {
	return db.queryGenreStats(ctx, limit)
}

func (db *DB) queryGenreStats(ctx context.Context, limit int) ([]models.GenreStat, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		SELECT g.name, AVG(m.vote_average) AS avg_rating, COUNT(*) AS cnt
		FROM movie_genres g
		JOIN movies m ON m.id = g.movie_id
		GROUP BY g.name
		ORDER BY avg_rating DESC, cnt DESC, g.name`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, observe("genre_stats", "movie_genres", start, err)
	}
	defer closeRows(rows)

	stats := make([]models.GenreStat, 0)
	for rows.Next() {
		var s models.GenreStat
		if err := rows.Scan(&s.Name, &s.AvgRating, &s.Count); err != nil {
			return nil, observe("genre_stats", "movie_genres", start, err)
		}
		stats = append(stats, s)
	}
	return stats, observe("genre_stats", "movie_genres", start, rows.Err())
}

// AllGenres returns every distinct genre name in the store, sorted.
func (db *DB) AllGenres(ctx context.Context) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT DISTINCT name FROM movie_genres ORDER BY name`)
	if err != nil {
		return nil, observe("all_genres", "movie_genres", start, err)
	}
	defer closeRows(rows)

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, observe("all_genres", "movie_genres", start, err)
		}
		names = append(names, name)
	}
	return names, observe("all_genres", "movie_genres", start, rows.Err())
}

// PopularGenres returns genres by number of stored movies, most common first.
func (db *DB) PopularGenres(ctx context.Context, limit int) ([]models.GenreCount, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, COUNT(*) AS cnt
		FROM movie_genres
		GROUP BY name
		ORDER BY cnt DESC, name
		LIMIT ?`, limit)
	if err != nil {
		return nil, observe("popular_genres", "movie_genres", start, err)
	}
	defer closeRows(rows)

	out := make([]models.GenreCount, 0)
	for rows.Next() {
		var g models.GenreCount
		if err := rows.Scan(&g.Name, &g.Count); err != nil {
			return nil, observe("popular_genres", "movie_genres", start, err)
		}
		out = append(out, g)
	}
	return out, observe("popular_genres", "movie_genres", start, rows.Err())
}

// MoviesByGenre returns movies with a poster tagged with genre
// (case-insensitive).
func (db *DB) MoviesByGenre(ctx context.Context, genre string, limit int) ([]models.MovieSummary, error) {
	return db.querySummaries(ctx, "movies_by_genre", `
		SELECT `+summaryColumns+`
		FROM movies m
		WHERE m.poster_path IS NOT NULL
		  AND EXISTS (SELECT 1 FROM movie_genres g WHERE g.movie_id = m.id AND lower(g.name) = lower(?))
		ORDER BY m.popularity DESC, m.id
		LIMIT ?`, strings.TrimSpace(genre), limit)
}

// RecommendationCandidates returns movies tagged with any of genres whose
// vote_average is at least minRating, best rated first.
func (db *DB) RecommendationCandidates(ctx context.Context, genres []string, minRating float64, limit int) ([]models.MovieSummary, error) {
	if len(genres) == 0 || limit <= 0 {
		return []models.MovieSummary{}, nil
	}
	args := make([]interface{}, 0, len(genres)+2)
	args = append(args, minRating)
	for _, g := range genres {
		args = append(args, strings.ToLower(g))
	}
	args = append(args, limit)

	return db.querySummaries(ctx, "recommend", `
		SELECT `+summaryColumns+`
		FROM movies m
		WHERE m.vote_average >= ?
		  AND EXISTS (SELECT 1 FROM movie_genres g
		              WHERE g.movie_id = m.id AND lower(g.name) IN (`+placeholders(len(genres))+`))
		ORDER BY m.vote_average DESC, m.vote_count DESC, m.id
		LIMIT ?`, args...)
}
