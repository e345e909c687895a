// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

/*
Package database is the DuckDB-backed entity store.

# Tables

  - movies: one row per provider movie id (UNIQUE external_id). Credits are
    stored as JSON text together with a credits_state column that tells
    whether the JSON holds raw provider records or actor references.
  - movie_genres: (movie_id, name, position), the unwound genre list used by
    aggregation and genre filters.
  - actors: one row per provider person id (UNIQUE external_id); movie_ids
    holds the internal movie references as JSON text.
  - favorites: (identity, movie_id) bookmarks with a JSON snapshot.

Internal ids come from sequences. JSON payloads are TEXT columns so that
merge updates never touch indexed or list-typed columns.

# Deduplication

UpsertMovie and UpsertActor are find-or-insert. Concurrent callers racing on
the same external id are resolved by the UNIQUE constraint: the losing
INSERT fails with a constraint or transaction-conflict error and the caller
re-reads the winner's row. No application lock is taken.

# Errors

Every failure is wrapped with models.ErrStorage. Point lookups return
(nil, nil) when the row does not exist.
*/
package database
