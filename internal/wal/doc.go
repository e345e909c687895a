// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

// Package wal is a durable journal of enrichment tasks backed by BadgerDB.
//
// A task is written to the journal before it is queued and confirmed once a
// worker has processed it. Tasks that were dropped by a full queue, or that
// were queued when the process stopped, stay pending and are replayed.
//
//	Submit → Journal Write (fsync) → queue → worker → Journal Confirm
//	                                   ↓ (queue full / crash)
//	                             entry stays pending → Replayer
//
// # Components
//
//   - Journal: the BadgerDB store of pending entries
//   - Replayer: a suture service that resubmits pending entries at start
//     and on an interval, and runs value log garbage collection
//
// # Claims
//
// An entry that is queued or being processed is claimed in memory with
// TryClaim, so the replayer does not submit it twice. The claim is released
// when the entry is confirmed or its attempt is recorded.
//
// # Usage
//
//	j, err := wal.Open(&cfg.Journal)
//	if err != nil {
//	    return err
//	}
//	defer j.Close()
//
//	id, err := j.Write(ctx, task)
//	// ... process ...
//	_ = j.Confirm(ctx, id)
package wal
