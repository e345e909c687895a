// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cinecache/internal/cache"
	"github.com/tomtom215/cinecache/internal/logging"
	"github.com/tomtom215/cinecache/internal/models"
	"github.com/tomtom215/cinecache/internal/recommend"
)

// healthCheckTimeout bounds the database probe.
const healthCheckTimeout = 2 * time.Second

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status        string            `json:"status"` // "healthy" or "unhealthy"
	DatabaseOK    bool              `json:"database_ok"`
	Movies        int               `json:"movies"`
	EnrichPending int               `json:"enrich_pending"`
	Journal       *JournalStatus    `json:"journal,omitempty"`
	Recommend     recommend.Metrics `json:"recommend"`
	Cache         *cache.Stats      `json:"cache,omitempty"`
	Uptime        float64           `json:"uptime_seconds"`
}

// JournalStatus summarizes the enrichment journal.
type JournalStatus struct {
	Pending  int64 `json:"pending"`
	Writes   int64 `json:"writes"`
	Confirms int64 `json:"confirms"`
	Retries  int64 `json:"retries"`
	Dropped  int64 `json:"dropped"`
	Bytes    int64 `json:"db_size_bytes"`
}

// Health reports service health. It answers 503 when the database is down.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := HealthStatus{
		Status:        "healthy",
		EnrichPending: h.orch.Pool().Pending(),
		Recommend:     h.recommender.GetMetrics(),
		Uptime:        time.Since(h.startTime).Seconds(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check: database ping failed")
		status.Status = "unhealthy"
	} else {
		status.DatabaseOK = true
		count, err := h.db.CountMovies(ctx)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check: count movies failed")
		}
		status.Movies = count
	}

	if h.journal != nil {
		s := h.journal.Stats()
		status.Journal = &JournalStatus{
			Pending:  s.PendingCount,
			Writes:   s.TotalWrites,
			Confirms: s.TotalConfirms,
			Retries:  s.TotalRetries,
			Dropped:  s.TotalDropped,
			Bytes:    s.DBSizeBytes,
		}
	}

	if h.cache != nil {
		stats := h.cache.GetStats()
		status.Cache = &stats
	}

	code := http.StatusOK
	if !status.DatabaseOK {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, r, code, &models.APIResponse{
		Status:   "success",
		Data:     status,
		Metadata: metadata(r, start),
	})
}
