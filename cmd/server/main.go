// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

// Package main is the entry point for the CineCache server.
//
// CineCache serves movie and actor metadata from a local DuckDB store and
// fills it lazily from TMDB: the first request for an unknown id is answered
// from the provider payload while a background worker normalizes it into the
// store.
//
// # Startup order
//
//  1. Configuration (koanf: defaults, config.yaml, environment)
//  2. Logging (zerolog)
//  3. Entity store (DuckDB)
//  4. Enrichment journal (badger, optional)
//  5. Provider client, orchestrator and worker pool
//  6. Recommendation engine and HTTP handlers
//  7. Supervisor tree: data layer (pool, replayer), api layer (HTTP server)
//
// # Configuration
//
// Common environment variables:
//
//	TMDB_API_KEY=...            provider credential (required for misses)
//	DB_URI=/data/cinecache.duckdb
//	HTTP_PORT=5000
//	JOURNAL_ENABLED=true        replay enrichment tasks after a crash or drop
//	LOG_LEVEL=debug
//
// # Signal handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server stops
// accepting requests, the worker pool drains its queue within
// ENRICH_DRAIN_TIMEOUT, then the journal and the store are closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/cinecache/internal/api"
	"github.com/tomtom215/cinecache/internal/config"
	"github.com/tomtom215/cinecache/internal/database"
	"github.com/tomtom215/cinecache/internal/enrich"
	"github.com/tomtom215/cinecache/internal/logging"
	"github.com/tomtom215/cinecache/internal/provider"
	"github.com/tomtom215/cinecache/internal/recommend"
	"github.com/tomtom215/cinecache/internal/supervisor"
	"github.com/tomtom215/cinecache/internal/supervisor/services"
	"github.com/tomtom215/cinecache/internal/wal"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("provider", cfg.Provider.BaseURL).
		Bool("journal_enabled", cfg.Journal.Enabled).
		Int("workers", cfg.Enrich.MaxInFlight).
		Msg("Starting CineCache")
	if cfg.Provider.APIKey == "" {
		logging.Warn().Msg("TMDB_API_KEY is not set; cache misses will fail")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	journal, err := openJournal(&cfg.Journal)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to open enrichment journal")
		return
	}
	if journal != nil {
		defer func() {
			if err := journal.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing journal")
			}
		}()
	}

	client := provider.New(&cfg.Provider)
	orch := enrich.NewOrchestrator(db, client, &cfg.Enrich, journal)
	engine := recommend.NewEngine(&cfg.Recommend, db, logging.WithComponent("recommend"))

	handler := api.NewHandler(db, orch, engine, journal, cfg)
	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}
	httpSvc := services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout)
	httpSvc.OnShutdown(handler.Close)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFromConfig(&cfg.Supervisor))
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}
	tree.AddDataService(orch.Pool())
	if journal != nil {
		tree.AddDataService(wal.NewReplayer(journal, orch.Pool(), cfg.Journal.RetryInterval, cfg.Journal.GCInterval))
	}
	tree.AddAPIService(httpSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("CineCache stopped")
}

// openJournal opens the badger journal when enabled and returns nil otherwise.
func openJournal(cfg *config.JournalConfig) (*wal.Journal, error) {
	if !cfg.Enabled {
		logging.Info().Msg("Enrichment journal disabled (JOURNAL_ENABLED=false)")
		return nil, nil
	}
	j, err := wal.Open(cfg)
	if err != nil {
		return nil, err
	}
	logging.Info().Str("path", cfg.Path).Bool("sync_writes", cfg.SyncWrites).Msg("Enrichment journal opened")
	return j, nil
}
