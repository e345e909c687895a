// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

// Package services adapts blocking components to suture.Service so they can
// run under the supervisor tree.
//
// The enrichment pool and the journal replayer implement Serve(ctx) directly
// and need no wrapper. *http.Server does not, so HTTPServerService translates
// its ListenAndServe and Shutdown lifecycle.
package services
