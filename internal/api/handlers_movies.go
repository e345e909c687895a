// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinecache/internal/database"
	"github.com/tomtom215/cinecache/internal/models"
)

const defaultDecadeLimit = 15

// MovieDetails returns a movie through the enrichment orchestrator.
// The response source is "normalized", "stale" or "provider".
func (h *Handler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params := IDParams{ID: pathInt64(r, "id")}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	view, err := h.orch.MovieDetails(r.Context(), params.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, view)
}

// BrowseMovies pages through stored movies. Metadata.next_cursor is the
// "after" value of the next page and absent on the last page.
func (h *Handler) BrowseMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params := BrowseParams{
		After: getInt64Param(r, "after", 0),
		Limit: getIntParam(r, "limit", h.config.API.DefaultPageSize),
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	movies, next, err := h.db.BrowseMovies(r.Context(), params.After, h.pageSize(params.Limit))
	if err != nil {
		handleError(w, r, err)
		return
	}

	meta := metadata(r, start)
	meta.NextCursor = next
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     movies,
		Metadata: meta,
	})
}

// SearchMovies matches titles case-insensitively, optionally within a genre.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := r.URL.Query()
	params := SearchParams{
		Query: strings.TrimSpace(query.Get("q")),
		Genre: strings.TrimSpace(query.Get("genre")),
		Page:  getIntParam(r, "page", 1),
		Limit: getIntParam(r, "limit", h.config.API.DefaultPageSize),
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	result, err := h.db.SearchMovies(r.Context(), models.MovieQuery{
		Title: params.Query,
		Genre: params.Genre,
		Page:  params.Page,
		Limit: h.pageSize(params.Limit),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, result)
}

// TopList serves a named top-N list. Unknown names are 404.
func (h *Handler) TopList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params := ListParams{
		Name:  chi.URLParam(r, "name"),
		Limit: getIntParam(r, "limit", 0),
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	data, err := h.cached("top_list", params, func() (interface{}, error) {
		return h.db.TopList(r.Context(), params.Name, params.Limit)
	})
	if errors.Is(err, database.ErrUnknownList) {
		respondJSON(w, r, http.StatusNotFound, &models.APIResponse{
			Status:   "error",
			Metadata: metadata(r, start),
			Error: &models.APIError{
				Code:    "NOT_FOUND",
				Message: "Unknown movie list",
				Details: map[string]interface{}{"available": database.ListNames()},
			},
		})
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, data)
}

// MoviesByDecade serves the best rated movies of the decade starting at {year}.
func (h *Handler) MoviesByDecade(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		year = -1
	}
	params := DecadeParams{
		Year:  year,
		Limit: getIntParam(r, "limit", defaultDecadeLimit),
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	data, err := h.cached("movies_by_decade", params, func() (interface{}, error) {
		return h.db.MoviesByDecade(r.Context(), params.Year, params.Limit)
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, data)
}
