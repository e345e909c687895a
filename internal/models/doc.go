// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

// Package models defines the data types shared by the store, the provider
// client, the enrichment orchestrator and the HTTP API.
//
// # Entities
//
// Movie and Actor are the two persisted entity kinds. Each carries an
// internal ID assigned by the store and an ExternalID assigned by the
// metadata provider (TMDB). ExternalID is unique per kind.
//
// A Movie's credits are in exactly one of three states:
//
//	CreditsUnset       core fields only (inserted as a reference from an actor)
//	CreditsEmbedded    raw provider cast/crew records (Embedded)
//	CreditsNormalized  internal actor references (Refs)
//
// The struct keeps the two shapes in separate fields so a document can never
// hold both once normalization completes.
//
// # Provider payloads
//
// RawMovie and RawActor mirror the TMDB v3 detail responses with
// append_to_response expansions. Genre accepts both the bare string and the
// {"name": ...} object form when decoding, so core logic only ever sees one
// representation.
//
// # Views
//
// MovieDetailView, ActorDetailView, MovieSummary and the projection types
// are the shapes returned to API callers.
//
// # Errors
//
// ErrNotFound, ErrProviderUnavailable, ErrMalformedResponse and ErrStorage
// form the error taxonomy. ProviderError wraps one of the provider sentinels
// with the failing operation and HTTP status.
package models
