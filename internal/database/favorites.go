// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package database

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinecache/internal/models"
)

// ListFavorites returns the favorites saved under identity, oldest first.
func (db *DB) ListFavorites(ctx context.Context, identity string) ([]models.Favorite, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, identity, movie_id, movie_data, created_at
		FROM favorites
		WHERE identity = ?
		ORDER BY created_at, id`, identity)
	if err != nil {
		return nil, observe("list", "favorites", start, err)
	}
	defer closeRows(rows)

	out := make([]models.Favorite, 0)
	for rows.Next() {
		var (
			f    models.Favorite
			data string
		)
		if err := rows.Scan(&f.ID, &f.Identity, &f.MovieID, &data, &f.CreatedAt); err != nil {
			return nil, observe("list", "favorites", start, err)
		}
		f.MovieData = json.RawMessage(data)
		out = append(out, f)
	}
	return out, observe("list", "favorites", start, rows.Err())
}

// ToggleFavorite removes the favorite if present and adds it otherwise.
// It reports whether the movie is a favorite afterwards.
func (db *DB) ToggleFavorite(ctx context.Context, identity string, movieID int64, movieData json.RawMessage) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE identity = ? AND movie_id = ?`, identity, movieID)
	if err != nil {
		return false, observe("toggle", "favorites", start, err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, observe("toggle", "favorites", start, err)
	}
	if removed > 0 {
		_ = observe("toggle", "favorites", start, nil)
		return false, nil
	}

	data := "{}"
	if len(movieData) > 0 {
		data = string(movieData)
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO favorites (identity, movie_id, movie_data) VALUES (?, ?, ?)`,
		identity, movieID, data)
	if isDuplicateRace(err) {
		// A concurrent toggle inserted the same favorite first.
		_ = observe("toggle", "favorites", start, nil)
		return true, nil
	}
	if err != nil {
		return false, observe("toggle", "favorites", start, err)
	}
	_ = observe("toggle", "favorites", start, nil)
	return true, nil
}
