// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package api

import (
	"net/http"
	"time"
)

const (
	defaultTopGenres  = 10
	defaultTitleWords = 1
)

// AnalyticsGenres returns the most appreciated genres by average rating.
func (h *Handler) AnalyticsGenres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params := LimitParams{Limit: getIntParam(r, "limit", defaultTopGenres)}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	data, err := h.cached("analytics_genres", params, func() (interface{}, error) {
		return h.db.TopRatedGenres(r.Context(), params.Limit)
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, data)
}

// AnalyticsDecades returns the decades with at least one release ("1990s"),
// ascending.
func (h *Handler) AnalyticsDecades(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	data, err := h.cached("analytics_decades", nil, func() (interface{}, error) {
		return h.db.AvailableDecades(r.Context())
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, data)
}

// AnalyticsBestPerDecade returns the best rated movie of every decade.
func (h *Handler) AnalyticsBestPerDecade(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	data, err := h.cached("analytics_best_per_decade", nil, func() (interface{}, error) {
		return h.db.BestMoviePerDecade(r.Context())
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, data)
}

// AnalyticsTitleWords returns the most frequent words across distinct titles.
func (h *Handler) AnalyticsTitleWords(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params := LimitParams{Limit: getIntParam(r, "limit", defaultTitleWords)}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	data, err := h.cached("analytics_title_words", params, func() (interface{}, error) {
		return h.db.TitleWordFrequency(r.Context(), params.Limit)
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, data)
}
