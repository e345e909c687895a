// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinecache/internal/logging"
	"github.com/tomtom215/cinecache/internal/models"
)

// ListFavorites returns the caller's favorites, oldest first.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	favorites, err := h.db.ListFavorites(r.Context(), callerIdentity(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, favorites)
}

// ToggleFavorite removes the movie from the caller's favorites if present and
// adds it otherwise.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ToggleFavoriteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be a JSON object with movie_id", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}
	if len(req.MovieData) == 0 {
		req.MovieData = json.RawMessage(`{}`)
	}

	identity := callerIdentity(r)
	favorited, err := h.db.ToggleFavorite(r.Context(), identity, req.MovieID, req.MovieData)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Int64("movie_id", req.MovieID).
		Bool("favorited", favorited).
		Msg("Favorite toggled")

	result := models.ToggleResult{Favorited: favorited, Message: "Removed from favorites"}
	if favorited {
		result.Message = "Added to favorites"
	}
	respondData(w, r, start, result)
}
