// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

/*
Package middleware provides HTTP middleware shared by the API router.

Every middleware has the chi signature func(http.Handler) http.Handler and can
be passed straight to r.Use.

Key Components:

  - RequestID: reuses or generates X-Request-ID and attaches request and
    correlation ids to the logging context
  - PrometheusMetrics: request count, latency and in-flight gauges labeled by
    the matched chi route pattern, not the raw path
  - Compression: gzip for clients that accept it

Typical stack:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Compression)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    ...
	})
*/
package middleware
