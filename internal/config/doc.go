// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

// Package config loads CineCache configuration with Koanf v2.
//
// Sources are layered, highest priority last:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/cinecache/config.yaml)
//  3. Environment variables
//
// Environment variables use flat legacy names that are mapped onto the
// nested koanf paths by envTransformFunc, for example:
//
//	DB_URI               -> database.path
//	TMDB_API_KEY         -> provider.api_key
//	TMDB_BASE            -> provider.base_url
//	TMDB_TIMEOUT         -> provider.timeout
//	ENRICH_MAX_IN_FLIGHT -> enrich.max_in_flight
//	CORS_ORIGINS         -> security.cors_origins (comma separated)
//	HTTP_PORT            -> server.port
//	LOG_LEVEL            -> logging.level
//
// Variables without a mapping are ignored.
//
// After unmarshaling, Validate runs struct-tag validation through the
// validation package followed by the cross-field section checks.
package config
