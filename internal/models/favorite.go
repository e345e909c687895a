// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Favorite bookmarks a movie for a caller identity. Identity is the caller's
// network address, which is spoofable and shared behind NAT.
type Favorite struct {
	ID        int64           `json:"-"`
	Identity  string          `json:"-"`
	MovieID   int64           `json:"movie_id"` // provider external id
	MovieData json.RawMessage `json:"movie_data"`
	CreatedAt time.Time       `json:"created_at"`
}

// SnapshotGenres extracts genres from the denormalized movie snapshot.
// Malformed snapshots yield no genres.
func (f *Favorite) SnapshotGenres() []Genre {
	if len(f.MovieData) == 0 {
		return nil
	}
	var snap struct {
		Genres []Genre `json:"genres"`
	}
	if err := json.Unmarshal(f.MovieData, &snap); err != nil {
		return nil
	}
	return NormalizeGenres(snap.Genres)
}

// ToggleResult is the outcome of a favorite toggle.
type ToggleResult struct {
	Favorited bool   `json:"favorited"`
	Message   string `json:"message"`
}
