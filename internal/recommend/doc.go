// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

// Package recommend derives movie recommendations from a caller's favorites.
//
// # Algorithm
//
// The engine builds a genre affinity profile from the movies a caller has
// favorited and returns well rated movies from the strongest genres:
//
//  1. Load the caller's favorites. No favorites yields no recommendations.
//  2. Resolve each favorite against the store. Movies not (yet) stored fall
//     back to the genres in the favorite's snapshot.
//  3. Count genre occurrences case-insensitively and keep the top genres
//     (RecommendConfig.TopGenres, default 2). Ties keep the genre seen first.
//  4. Return stored movies tagged with any top genre whose vote_average is
//     at least RecommendConfig.MinRating, best rated first.
//
// # Error Handling
//
// Recommendations are advisory. Store failures are logged and produce an
// empty result rather than an error.
//
// # Identity
//
// Favorites are keyed by the caller's network address, so two callers
// behind the same NAT share a profile and a caller can impersonate another
// by forging X-Forwarded-For.
package recommend
