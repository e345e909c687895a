// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/cinecache/internal/models"
)

// AvailableDecades returns the decades ("1990s") that have at least one movie
// with a full ISO release date, ascending.
func (db *DB) AvailableDecades(ctx context.Context) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT y - (y % 10) AS decade
		FROM (
			SELECT CAST(substr(release_date, 1, 4) AS INTEGER) AS y
			FROM movies
			WHERE regexp_full_match(release_date, '\d{4}-\d{2}-\d{2}')
		)
		ORDER BY decade`)
	if err != nil {
		return nil, observe("decades", "movies", start, err)
	}
	defer closeRows(rows)

	decades := make([]string, 0)
	for rows.Next() {
		var d int
		if err := rows.Scan(&d); err != nil {
			return nil, observe("decades", "movies", start, err)
		}
		decades = append(decades, fmt.Sprintf("%ds", d))
	}
	return decades, observe("decades", "movies", start, rows.Err())
}

// BestMoviePerDecade returns, for each decade, the movie with the highest
// (vote_average, vote_count) among movies with a positive rating, at least
// one vote and a poster. Decades are ascending.
func (db *DB) BestMoviePerDecade(ctx context.Context) ([]models.DecadeBest, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT decade, `+summaryColumns+`
		FROM (
			SELECT m.*, y - (y % 10) AS decade,
				row_number() OVER (
					PARTITION BY y - (y % 10)
					ORDER BY m.vote_average DESC, m.vote_count DESC, m.id
				) AS rn
			FROM (
				SELECT *, TRY_CAST(substr(release_date, 1, 4) AS INTEGER) AS y
				FROM movies
			) m
			WHERE y IS NOT NULL
			  AND m.vote_average > 0
			  AND m.vote_count > 0
			  AND m.poster_path IS NOT NULL AND m.poster_path <> ''
		) m
		WHERE rn = 1
		ORDER BY decade`)
	if err != nil {
		return nil, observe("best_per_decade", "movies", start, err)
	}
	defer closeRows(rows)

	out := make([]models.DecadeBest, 0)
	for rows.Next() {
		var decade int
		_, movie, err := scanSummary(scannerWithPrefix{rows: rows, prefix: []interface{}{&decade}})
		if err != nil {
			return nil, observe("best_per_decade", "movies", start, err)
		}
		out = append(out, models.DecadeBest{Decade: fmt.Sprintf("%ds", decade), Movie: movie})
	}
	return out, observe("best_per_decade", "movies", start, rows.Err())
}

// scannerWithPrefix scans leading columns into prefix before the summary columns.
type scannerWithPrefix struct {
	rows   rowScanner
	prefix []interface{}
}

func (s scannerWithPrefix) Scan(dest ...interface{}) error {
	return s.rows.Scan(append(append([]interface{}{}, s.prefix...), dest...)...)
}

// titleStopWords are excluded from title word frequency (case-insensitive).
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "-": {}, "_": {},
	"and": {}, "in": {}, "to": {}, "de": {}, "&": {},
}

// TitleWordFrequency counts whitespace-separated words over distinct titles
// and returns the limit most frequent.
func (db *DB) TitleWordFrequency(ctx context.Context, limit int) ([]models.WordCount, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT DISTINCT title FROM movies`)
	if err != nil {
		return nil, observe("title_words", "movies", start, err)
	}
	defer closeRows(rows)

	counts := make(map[string]int)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, observe("title_words", "movies", start, err)
		}
		for _, w := range strings.Fields(title) {
			if _, stop := titleStopWords[strings.ToLower(w)]; stop {
				continue
			}
			counts[w]++
		}
	}
	if err := observe("title_words", "movies", start, rows.Err()); err != nil {
		return nil, err
	}

	out := make([]models.WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, models.WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
