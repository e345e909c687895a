// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/cinecache/internal/models"
)

// ErrUnknownList is returned by TopList for an unregistered list name.
var ErrUnknownList = errors.New("unknown movie list")

// listDef is a filtered, sorted top-N query over movies (aliased m).
type listDef struct {
	where        string
	orderBy      string
	defaultLimit int
	args         func(now time.Time) []interface{}
}

const hasPoster = "m.poster_path IS NOT NULL"

var topLists = map[string]listDef{
	"popular": {
		where:        "TRUE",
		orderBy:      "m.popularity DESC",
		defaultLimit: 10,
	},
	"most_popular": {
		where:        hasPoster,
		orderBy:      "m.popularity DESC",
		defaultLimit: 15,
	},
	"top_rated": {
		where:        hasPoster,
		orderBy:      "m.vote_average DESC",
		defaultLimit: 10,
	},
	"underrated": {
		where:        hasPoster + " AND m.vote_average >= 7 AND m.vote_count <= 100",
		orderBy:      "m.vote_average DESC",
		defaultLimit: 20,
	},
	"hottest": {
		where:        hasPoster + " AND m.release_date >= ? AND m.vote_count >= 100 AND m.vote_average >= 6.0",
		orderBy:      "m.vote_average DESC, m.vote_count DESC",
		defaultLimit: 10,
		args: func(now time.Time) []interface{} {
			return []interface{}{now.AddDate(0, 0, -90).Format("2006-01-02")}
		},
	},
	"critically_acclaimed": {
		where:        "m.vote_average >= 8 AND m.vote_count > 1000",
		orderBy:      "m.vote_average DESC",
		defaultLimit: 15,
	},
	"long": {
		where:        hasPoster + " AND m.runtime >= 150",
		orderBy:      "m.runtime DESC",
		defaultLimit: 15,
	},
	"short": {
		where:        hasPoster + " AND m.runtime <= 90",
		orderBy:      "m.runtime ASC",
		defaultLimit: 15,
	},
	"french": {
		where:        hasPoster + " AND m.original_language = 'fr' AND m.vote_count >= 100",
		orderBy:      "m.vote_average DESC, m.vote_count DESC",
		defaultLimit: 10,
	},
	"action": {
		where: hasPoster + " AND m.vote_count >= 100 AND EXISTS (SELECT 1 FROM movie_genres g " +
			"WHERE g.movie_id = m.id AND g.name = 'Action')",
		orderBy:      "m.vote_average DESC, m.vote_count DESC",
		defaultLimit: 10,
	},
	"nineties": {
		where:        "m.release_date LIKE '199%'",
		orderBy:      "m.release_date ASC",
		defaultLimit: 15,
	},
	"new_releases": {
		where:        "m.release_date IS NOT NULL",
		orderBy:      "m.release_date DESC",
		defaultLimit: 15,
	},
	"true_stories": {
		where:        "strpos(lower(m.overview), 'true story') > 0",
		orderBy:      "m.popularity DESC",
		defaultLimit: 15,
	},
}

// ListNames returns the registered top-N list names, sorted.
func ListNames() []string {
	names := make([]string, 0, len(topLists))
	for name := range topLists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TopList runs the named top-N list. limit <= 0 uses the list's default.
func (db *DB) TopList(ctx context.Context, name string, limit int) ([]models.MovieSummary, error) {
	def, ok := topLists[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownList, name)
	}
	if limit <= 0 {
		limit = def.defaultLimit
	}

	var args []interface{}
	if def.args != nil {
		args = def.args(time.Now().UTC())
	}
	args = append(args, limit)

	query := `SELECT ` + summaryColumns + ` FROM movies m WHERE ` + def.where +
		` ORDER BY ` + def.orderBy + `, m.id LIMIT ?`
	return db.querySummaries(ctx, "list_"+name, query, args...)
}

// MoviesByDecade returns movies released in the decade starting at year.
func (db *DB) MoviesByDecade(ctx context.Context, year, limit int) ([]models.MovieSummary, error) {
	prefix := fmt.Sprintf("%d%%", year/10)
	return db.querySummaries(ctx, "by_decade", `
		SELECT `+summaryColumns+`
		FROM movies m
		WHERE m.release_date LIKE ?
		ORDER BY m.vote_average DESC, m.id
		LIMIT ?`, prefix, limit)
}

// BrowseMovies pages through movies by internal id. It returns the page and
// the cursor for the next page, or nil on the last page.
func (db *DB) BrowseMovies(ctx context.Context, after int64, limit int) ([]models.MovieSummary, *int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+summaryColumns+`
		FROM movies m
		WHERE m.id > ?
		ORDER BY m.id
		LIMIT ?`, after, limit+1)
	if err != nil {
		return nil, nil, observe("browse", "movies", start, err)
	}
	defer closeRows(rows)

	out := make([]models.MovieSummary, 0, limit)
	var lastID int64
	hasMore := false
	for rows.Next() {
		id, s, err := scanSummary(rows)
		if err != nil {
			return nil, nil, observe("browse", "movies", start, err)
		}
		if len(out) == limit {
			hasMore = true
			break
		}
		out = append(out, s)
		lastID = id
	}
	if err := observe("browse", "movies", start, rows.Err()); err != nil {
		return nil, nil, err
	}
	if !hasMore {
		return out, nil, nil
	}
	return out, &lastID, nil
}

// SearchMovies matches titles case-insensitively and optionally filters by
// genre. Page numbers start at 1.
func (db *DB) SearchMovies(ctx context.Context, q models.MovieQuery) (*models.SearchResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}

	var (
		conds []string
		args  []interface{}
	)
	if title := strings.TrimSpace(q.Title); title != "" {
		conds = append(conds, "strpos(lower(m.title), lower(?)) > 0")
		args = append(args, title)
	}
	if genre := strings.TrimSpace(q.Genre); genre != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM movie_genres g WHERE g.movie_id = m.id AND lower(g.name) = lower(?))")
		args = append(args, genre)
	}
	where := "TRUE"
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	cctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var total int
	if err := db.conn.QueryRowContext(cctx,
		`SELECT COUNT(*) FROM movies m WHERE `+where, args...).Scan(&total); err != nil {
		return nil, observe("search_count", "movies", start, err)
	}
	_ = observe("search_count", "movies", start, nil)

	pageArgs := append(append([]interface{}{}, args...), q.Limit, (q.Page-1)*q.Limit)
	results, err := db.querySummaries(ctx, "search", `
		SELECT `+summaryColumns+`
		FROM movies m
		WHERE `+where+`
		ORDER BY m.popularity DESC, m.id
		LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, err
	}

	return &models.SearchResult{
		Results:    results,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	}, nil
}
