// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

/*
Package provider fetches movie and person payloads from the TMDB v3 API.

A single request is made per fetch. The client never retries: a failed
fetch is reported to the caller, which decides whether to serve stale data
or an error.

# Error Taxonomy

Every failure is a *models.ProviderError whose Kind is one of:

  - models.ErrNotFound: the provider answered 404
  - models.ErrProviderUnavailable: transport failure, any other non-2xx
    status, client-side throttling aborted by the context, or an open
    circuit breaker
  - models.ErrMalformedResponse: the body decoded but lacks the id or the
    title/name

# Resilience

Requests pass through a golang.org/x/time/rate limiter and, when enabled,
a sony/gobreaker circuit breaker. A 404 is a valid answer and never counts
against the breaker. Every request carries the configured timeout
(5 to 10 seconds).

# Usage

	client := provider.New(&cfg.Provider)
	raw, err := client.FetchMovie(ctx, 603)
	if errors.Is(err, models.ErrNotFound) {
	    // respond 404
	}
*/
package provider
