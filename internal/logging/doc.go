// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

// Package logging provides the zerolog-based structured logger used across CineCache.
//
// A single global logger is configured once at startup from the logging
// section of the configuration and then shared by every component:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Int64("external_id", id).Msg("Movie served from store")
//
// Components take a child logger tagged with their name:
//
//	logger := logging.WithComponent("enrich")
//	logger.Warn().Err(err).Msg("Background enrichment failed")
//
// # Request Context
//
// HTTP middleware stores a request ID and a short correlation ID in the
// request context. Ctx(ctx) returns a logger carrying both fields, which is
// how handler errors are tied back to the response's request_id.
//
// # slog Adapter
//
// Suture's event hook (sutureslog) requires a *slog.Logger. NewSlogLogger
// returns one backed by the global zerolog logger so supervisor events end
// up in the same stream.
//
// # Output Formats
//
// JSON (default):
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","component":"enrich","message":"Worker pool started"}
//
// Console:
//
//	10:30:00 INF Worker pool started component=enrich
package logging
