// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package api

import (
	"time"

	"github.com/tomtom215/cinecache/internal/cache"
	"github.com/tomtom215/cinecache/internal/config"
	"github.com/tomtom215/cinecache/internal/database"
	"github.com/tomtom215/cinecache/internal/enrich"
	"github.com/tomtom215/cinecache/internal/recommend"
	"github.com/tomtom215/cinecache/internal/wal"
)

// Handler serves the HTTP endpoints.
type Handler struct {
	db          *database.DB
	orch        *enrich.Orchestrator
	recommender *recommend.Engine
	journal     *wal.Journal // nil when the journal is disabled
	cache       *cache.Cache // nil when api.cache_ttl is 0
	config      *config.Config
	startTime   time.Time
}

// NewHandler wires the handler dependencies. journal may be nil.
func NewHandler(db *database.DB, orch *enrich.Orchestrator, recommender *recommend.Engine, journal *wal.Journal, cfg *config.Config) *Handler {
	h := &Handler{
		db:          db,
		orch:        orch,
		recommender: recommender,
		journal:     journal,
		config:      cfg,
		startTime:   time.Now(),
	}
	if cfg.API.CacheTTL > 0 {
		h.cache = cache.New(cfg.API.CacheTTL)
	}
	return h
}

// Close stops the response cache sweeper.
func (h *Handler) Close() {
	if h.cache != nil {
		h.cache.Close()
	}
}

// cached serves an aggregate through the response cache when it is enabled.
// Errors are never cached.
func (h *Handler) cached(method string, params interface{}, load func() (interface{}, error)) (interface{}, error) {
	if h.cache == nil {
		return load()
	}
	return h.cache.GetOrLoad(cache.GenerateKey(method, params), load)
}

// pageSize clamps a requested page size to the configured bounds.
func (h *Handler) pageSize(requested int) int {
	if requested < 1 {
		return h.config.API.DefaultPageSize
	}
	if requested > h.config.API.MaxPageSize {
		return h.config.API.MaxPageSize
	}
	return requested
}
