// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package wal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/cinecache/internal/logging"
)

// gcDiscardRatio is the value log discard ratio passed to badger.
const gcDiscardRatio = 0.5

// Submitter resubmits a pending entry for processing. It returns an error
// when the entry could not be queued; the entry then stays pending.
type Submitter interface {
	Resubmit(ctx context.Context, entry *Entry) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, entry *Entry) error

// Resubmit implements Submitter.
func (f SubmitterFunc) Resubmit(ctx context.Context, entry *Entry) error {
	return f(ctx, entry)
}

// ReplayResult summarizes one replay pass.
type ReplayResult struct {
	TotalPending int
	Replayed     int
	Skipped      int // already claimed by a queued task
	Failed       int
	Duration     time.Duration
}

// Replay resubmits every pending, unclaimed entry. A successfully
// resubmitted entry stays claimed until the worker confirms it.
func (j *Journal) Replay(ctx context.Context, s Submitter) (*ReplayResult, error) {
	if s == nil {
		return nil, fmt.Errorf("submitter cannot be nil")
	}
	start := time.Now()

	entries, err := j.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("get pending entries: %w", err)
	}

	result := &ReplayResult{TotalPending: len(entries)}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}
		if !j.TryClaim(entry.ID) {
			result.Skipped++
			continue
		}
		if err := s.Resubmit(ctx, entry); err != nil {
			result.Failed++
			if _, recErr := j.RecordFailure(ctx, entry.ID, err.Error()); recErr != nil && !errors.Is(recErr, ErrEntryNotFound) {
				logging.Warn().Err(recErr).Str("entry_id", entry.ID).Msg("Journal failed to record attempt")
			}
			continue
		}
		result.Replayed++
	}

	journalReplayedTotal.Add(float64(result.Replayed))
	result.Duration = time.Since(start)
	return result, nil
}

// Replayer is a suture service that replays pending entries at start and
// every RetryInterval, and collects the value log every GCInterval.
type Replayer struct {
	journal       *Journal
	submitter     Submitter
	retryInterval time.Duration
	gcInterval    time.Duration
}

// NewReplayer creates a replayer service.
func NewReplayer(j *Journal, s Submitter, retryInterval, gcInterval time.Duration) *Replayer {
	return &Replayer{
		journal:       j,
		submitter:     s,
		retryInterval: retryInterval,
		gcInterval:    gcInterval,
	}
}

// Serve implements suture.Service.
func (r *Replayer) Serve(ctx context.Context) error {
	r.replay(ctx, "startup")

	retry := time.NewTicker(r.retryInterval)
	defer retry.Stop()
	gc := time.NewTicker(r.gcInterval)
	defer gc.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-retry.C:
			r.replay(ctx, "interval")
		case <-gc.C:
			if err := r.journal.RunGC(gcDiscardRatio); err != nil {
				logging.Warn().Err(err).Msg("Journal GC failed")
			}
		}
	}
}

func (r *Replayer) replay(ctx context.Context, reason string) {
	res, err := r.journal.Replay(ctx, r.submitter)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Str("reason", reason).Msg("Journal replay failed")
		}
		return
	}
	if res.TotalPending == 0 {
		return
	}
	logging.Info().
		Str("reason", reason).
		Int("pending", res.TotalPending).
		Int("replayed", res.Replayed).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Dur("duration", res.Duration).
		Msg("Journal replay completed")
}

// String implements fmt.Stringer for suture logging.
func (r *Replayer) String() string {
	return "journal-replayer"
}
