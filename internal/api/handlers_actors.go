// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package api

import (
	"net/http"
	"time"
)

// ActorDetails returns an actor and up to 20 of their movies by popularity.
func (h *Handler) ActorDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params := IDParams{ID: pathInt64(r, "id")}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	view, err := h.orch.ActorDetails(r.Context(), params.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondData(w, r, start, view)
}
