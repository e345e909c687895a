// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package api

import (
	"net/http"
	"time"
)

// Recommendations suggests well rated movies in the caller's favorite genres.
// Callers without favorites, or whose favorites carry no genres, get an
// empty list.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := h.recommender.Limit(getIntParam(r, "limit", 0))
	resp := h.recommender.Recommend(r.Context(), callerIdentity(r), limit)
	respondData(w, r, start, resp)
}
