// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPopularGenres = 20
	defaultGenreMovies   = 15
)

// ListGenres lists every genre name present in the store.
func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	data, err := h.cached("all_genres", nil, func() (interface{}, error) {
		return h.db.AllGenres(r.Context())
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, data)
}

// PopularGenres counts stored movies per genre, most common first.
func (h *Handler) PopularGenres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params := LimitParams{Limit: getIntParam(r, "limit", defaultPopularGenres)}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	data, err := h.cached("popular_genres", params, func() (interface{}, error) {
		return h.db.PopularGenres(r.Context(), params.Limit)
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, data)
}

// MoviesByGenre lists movies with a poster tagged with {name}, matched
// case-insensitively.
func (h *Handler) MoviesByGenre(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params := GenreParams{
		Name:  strings.TrimSpace(chi.URLParam(r, "name")),
		Limit: getIntParam(r, "limit", defaultGenreMovies),
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	key := GenreParams{Name: strings.ToLower(params.Name), Limit: params.Limit}
	data, err := h.cached("movies_by_genre", key, func() (interface{}, error) {
		return h.db.MoviesByGenre(r.Context(), params.Name, params.Limit)
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, data)
}
