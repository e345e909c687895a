// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinecache/internal/models"
)

// summaryColumns selects list-row fields from the movies table aliased as m.
const summaryColumns = `m.id, m.external_id, m.title, m.overview, m.poster_path, m.backdrop_path,
	m.vote_average, m.vote_count, m.popularity, m.release_date, m.runtime,
	m.original_language, m.genres`

func scanSummary(row rowScanner) (int64, models.MovieSummary, error) {
	var (
		id                        int64
		s                         models.MovieSummary
		poster, backdrop, release sql.NullString
		runtime                   sql.NullInt64
		genres                    string
	)
	if err := row.Scan(&id, &s.ExternalID, &s.Title, &s.Overview, &poster, &backdrop,
		&s.VoteAverage, &s.VoteCount, &s.Popularity, &release, &runtime,
		&s.OriginalLanguage, &genres); err != nil {
		return 0, s, err
	}
	s.PosterPath = poster.String
	s.BackdropPath = backdrop.String
	s.ReleaseDate = release.String
	s.Runtime = intPtr(runtime)
	if err := json.Unmarshal([]byte(genres), &s.Genres); err != nil {
		return 0, s, fmt.Errorf("decode genres of movie %d: %w", s.ExternalID, err)
	}
	return id, s, nil
}

// querySummaries runs a query selecting summaryColumns and collects the rows.
func (db *DB) querySummaries(ctx context.Context, op, query string, args ...interface{}) ([]models.MovieSummary, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, observe(op, "movies", start, err)
	}
	defer closeRows(rows)

	out := make([]models.MovieSummary, 0)
	for rows.Next() {
		_, s, err := scanSummary(rows)
		if err != nil {
			return nil, observe(op, "movies", start, err)
		}
		out = append(out, s)
	}
	return out, observe(op, "movies", start, rows.Err())
}
