// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

/*
Package api provides the HTTP surface of CineCache using the Chi router.

# Endpoints

All JSON endpoints live under /api/v1 and answer with models.APIResponse:

	GET  /api/v1/health
	GET  /api/v1/movies?after=&limit=            cursor pagination by internal id
	GET  /api/v1/movies/search?q=&genre=&page=&limit=
	GET  /api/v1/movies/lists/{name}?limit=      popular, top_rated, underrated, ...
	GET  /api/v1/movies/decade/{year}?limit=
	GET  /api/v1/movies/{id}                     served through the enrichment orchestrator
	GET  /api/v1/actors/{id}
	GET  /api/v1/genres
	GET  /api/v1/genres/popular?limit=
	GET  /api/v1/genres/{name}?limit=
	GET  /api/v1/analytics/genres?limit=
	GET  /api/v1/analytics/decades
	GET  /api/v1/analytics/best-per-decade
	GET  /api/v1/analytics/title-words?limit=
	GET  /api/v1/favorites
	POST /api/v1/favorites/toggle                {"movie_id":603,"movie_data":{...}}
	GET  /api/v1/recommendations?limit=
	GET  /metrics                                Prometheus exposition

# Errors

Only not-found results reach callers as such (404 NOT_FOUND). Invalid
parameters are 400 VALIDATION_ERROR. Every other failure, provider and
storage errors included, is a generic 500 INTERNAL_ERROR. The cause is logged
with the request id and never returned.

# Identity

There is no authentication. Favorites and recommendations are keyed by the
first X-Forwarded-For entry, else the remote address host. The header is
client controlled, so any caller can read or modify another address's
favorites.
*/
package api
