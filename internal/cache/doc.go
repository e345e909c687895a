// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

/*
Package cache provides a thread-safe in-memory TTL cache for aggregate API
responses.

Aggregates such as genre statistics, top-N lists and best-per-decade scan
the whole movie table. The API caches their results for a short TTL
(API_CACHE_TTL, default 30s) so bursts of identical requests hit DuckDB
once. Entity reads (movie and actor details) bypass this cache; they are
served by the enrichment orchestrator.

# Usage

	c := cache.New(30 * time.Second)
	defer c.Close()

	v, err := c.GetOrLoad(cache.GenerateKey("top_list", params), func() (interface{}, error) {
	    return db.TopList(ctx, name, limit)
	})

GetOrLoad shares one in-flight load between concurrent callers of the same
key (golang.org/x/sync/singleflight). Load errors are returned to every
waiting caller and never cached.

# Expiration

Entries expire lazily on Get and are swept by a background goroutine every
cleanup interval. Close stops the sweeper.
*/
package cache
