// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package api

import "github.com/goccy/go-json"

// Request parameter structs validated with go-playground/validator.

// IDParams identifies a movie or actor by provider external id.
type IDParams struct {
	ID int64 `validate:"gt=0"`
}

// LimitParams bounds a top-N request.
type LimitParams struct {
	Limit int `validate:"gte=1,lte=100"`
}

// BrowseParams pages through stored movies by internal id.
type BrowseParams struct {
	After int64 `validate:"gte=0"`
	Limit int   `validate:"gte=1,lte=1000"`
}

// SearchParams filters stored movies by title and genre.
type SearchParams struct {
	Query string `validate:"max=200"`
	Genre string `validate:"omitempty,genrename"`
	Page  int    `validate:"gte=1,lte=10000"`
	Limit int    `validate:"gte=1,lte=1000"`
}

// ListParams selects a named top-N list. Limit 0 means the list default.
type ListParams struct {
	Name  string `validate:"required,max=64"`
	Limit int    `validate:"gte=0,lte=100"`
}

// DecadeParams selects movies released in a decade.
type DecadeParams struct {
	Year  int `validate:"decade"`
	Limit int `validate:"gte=1,lte=100"`
}

// GenreParams selects movies tagged with a genre.
type GenreParams struct {
	Name  string `validate:"genrename"`
	Limit int    `validate:"gte=1,lte=100"`
}

// ToggleFavoriteRequest is the body of POST /favorites/toggle.
type ToggleFavoriteRequest struct {
	MovieID   int64           `json:"movie_id" validate:"gt=0"`
	MovieData json.RawMessage `json:"movie_data"`
}
