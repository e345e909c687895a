// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

/*
Package enrich serves movie and actor details from the entity store and
fills the store lazily from the metadata provider.

# Detail Lookup

A lookup checks the store first:

	CHECK_STORE -> RESPOND_NORMALIZED   stored, credits hold actor references
	CHECK_STORE -> RESPOND_STALE        stored, credits embedded or unset
	CHECK_STORE -> MISS -> FETCH_PROVIDER
	FETCH_PROVIDER -> RESPOND_IMMEDIATE + background task
	FETCH_PROVIDER -> RESPOND_NOT_FOUND | RESPOND_ERROR

A miss answers from the raw provider payload right away (first six cast
members in provider order) and schedules a background task that upserts
the movie, upserts every credited person as an actor and rewrites the
credits as actor references. A stale hit answers from the stored document
and schedules a refresh.

The actor flow mirrors it: a miss answers with the person's movie credits
sorted by popularity (at most 20), and the task upserts each credited movie
before writing the actor's movie references.

# Background Tasks

Tasks run on a bounded Pool: a fixed number of workers reading a bounded
channel. Submission never blocks a request; a full queue drops the task
(counted in enrich_dropped_total). When the journal is enabled every task is
written to it first, so dropped or interrupted tasks are replayed later.

One stored row per external id is guaranteed by the store's unique
constraint, not by this package. Two concurrent misses may both fetch and
both schedule a task. With coalescing enabled, concurrent fetches for the
same id share one provider call and duplicate tasks are collapsed.
*/
package enrich
