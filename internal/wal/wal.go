// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package wal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/cinecache/internal/config"
	"github.com/tomtom215/cinecache/internal/logging"
	"github.com/tomtom215/cinecache/internal/metrics"
)

var (
	ErrJournalClosed = errors.New("journal is closed")
	ErrNilPayload    = errors.New("payload cannot be nil")
	ErrEmptyEntryID  = errors.New("entry ID cannot be empty")
	ErrEntryNotFound = errors.New("entry not found")
)

const prefixPending = "pending:"

// Entry is one journaled task.
type Entry struct {
	ID            string          `json:"id"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
	Attempts      int             `json:"attempts"`
	LastAttemptAt time.Time       `json:"last_attempt_at,omitempty"`
	LastError     string          `json:"last_error,omitempty"`
}

// UnmarshalPayload decodes the payload into v.
func (e *Entry) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// Stats is a snapshot of journal counters.
type Stats struct {
	PendingCount  int64
	TotalWrites   int64
	TotalConfirms int64
	TotalRetries  int64
	TotalDropped  int64
	DBSizeBytes   int64
}

// Journal is a BadgerDB-backed store of pending entries.
// It is safe for concurrent use.
type Journal struct {
	db          *badger.DB
	maxAttempts int

	totalWrites   atomic.Int64
	totalConfirms atomic.Int64
	totalRetries  atomic.Int64
	totalDropped  atomic.Int64

	mu     sync.RWMutex
	closed bool

	// Entries currently queued or being processed. Key: entry ID.
	claims sync.Map
}

// Open opens (or creates) the journal at cfg.Path.
func Open(cfg *config.JournalConfig) (*Journal, error) {
	if cfg.Path == "" {
		return nil, errors.New("journal path is required")
	}
	if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Path)
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	j, err := open(opts, cfg.MaxAttempts)
	if err != nil {
		return nil, err
	}
	logging.Info().
		Str("path", cfg.Path).
		Bool("sync_writes", cfg.SyncWrites).
		Int("max_attempts", j.maxAttempts).
		Msg("Journal opened")
	return j, nil
}

// OpenInMemory opens a journal that keeps nothing on disk.
func OpenInMemory(maxAttempts int) (*Journal, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, maxAttempts)
}

func open(opts badger.Options, maxAttempts int) (*Journal, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	j := &Journal{db: db, maxAttempts: maxAttempts}
	metrics.JournalPending.Set(float64(j.countPending()))
	return j, nil
}

func (j *Journal) checkOpen() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrJournalClosed
	}
	return nil
}

// Write persists payload as a new pending entry and returns its ID.
func (j *Journal) Write(ctx context.Context, payload interface{}) (string, error) {
	start := time.Now()
	defer func() {
		journalWriteLatency.Observe(time.Since(start).Seconds())
	}()

	if err := j.checkOpen(); err != nil {
		return "", err
	}
	if payload == nil {
		return "", ErrNilPayload
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	entry := &Entry{
		ID:        uuid.New().String(),
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("marshal entry: %w", err)
	}

	if err := j.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixPending+entry.ID), data)
	}); err != nil {
		journalWriteFailures.Inc()
		return "", fmt.Errorf("write to BadgerDB: %w", err)
	}

	j.totalWrites.Add(1)
	journalWritesTotal.Inc()
	metrics.JournalPending.Inc()
	return entry.ID, nil
}

// Confirm removes a processed entry and releases its claim.
func (j *Journal) Confirm(ctx context.Context, entryID string) error {
	if err := j.checkOpen(); err != nil {
		return err
	}
	if entryID == "" {
		return ErrEmptyEntryID
	}
	defer j.Release(entryID)

	key := []byte(prefixPending + entryID)
	err := j.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEntryNotFound
		} else if err != nil {
			return fmt.Errorf("get pending entry: %w", err)
		}
		return txn.Delete(key)
	})
	if err != nil {
		return err
	}

	j.totalConfirms.Add(1)
	journalConfirmsTotal.Inc()
	metrics.JournalPending.Dec()
	return nil
}

// RecordFailure increments the attempt count of an entry and releases its
// claim. An entry that reached the attempt limit is deleted, and dropped is
// true.
func (j *Journal) RecordFailure(ctx context.Context, entryID, cause string) (dropped bool, err error) {
	if err := j.checkOpen(); err != nil {
		return false, err
	}
	if entryID == "" {
		return false, ErrEmptyEntryID
	}
	defer j.Release(entryID)

	key := []byte(prefixPending + entryID)
	err = j.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEntryNotFound
		}
		if err != nil {
			return fmt.Errorf("get entry: %w", err)
		}

		var entry Entry
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		}); err != nil {
			return fmt.Errorf("unmarshal entry: %w", err)
		}

		entry.Attempts++
		entry.LastAttemptAt = time.Now().UTC()
		entry.LastError = cause
		if entry.Attempts >= j.maxAttempts {
			dropped = true
			return txn.Delete(key)
		}

		data, err := json.Marshal(&entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return false, err
	}

	j.totalRetries.Add(1)
	journalRetriesTotal.Inc()
	if dropped {
		j.totalDropped.Add(1)
		journalDroppedTotal.Inc()
		metrics.JournalPending.Dec()
		logging.Warn().Str("entry_id", entryID).Str("last_error", cause).
			Msg("Journal entry exceeded max attempts, discarding")
	}
	return dropped, nil
}

// Pending returns all pending entries, oldest first by key order within a
// consistent snapshot.
func (j *Journal) Pending(ctx context.Context) ([]*Entry, error) {
	if err := j.checkOpen(); err != nil {
		return nil, err
	}

	var entries []*Entry
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixPending)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			var entry Entry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("Journal failed to unmarshal entry")
				continue
			}
			entries = append(entries, &entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate pending entries: %w", err)
	}
	return entries, nil
}

// TryClaim marks an entry as queued. It returns false when the entry is
// already claimed.
func (j *Journal) TryClaim(entryID string) bool {
	_, already := j.claims.LoadOrStore(entryID, time.Now())
	return !already
}

// Release drops the claim on an entry.
func (j *Journal) Release(entryID string) {
	j.claims.Delete(entryID)
}

// RunGC collects the value log until nothing is left to rewrite.
// In-memory journals have no value log and return nil.
func (j *Journal) RunGC(discardRatio float64) error {
	if err := j.checkOpen(); err != nil {
		return err
	}
	runs := 0
	for {
		err := j.db.RunValueLogGC(discardRatio)
		if err == nil {
			runs++
			continue
		}
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			break
		}
		return fmt.Errorf("value log GC: %w", err)
	}
	journalGCRuns.Inc()
	if runs > 0 {
		logging.Debug().Int("rewrites", runs).Msg("Journal value log collected")
	}
	return nil
}

func (j *Journal) countPending() int64 {
	var n int64
	_ = j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(prefixPending)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n
}

// Stats returns the current counters.
func (j *Journal) Stats() Stats {
	if j.checkOpen() != nil {
		return Stats{}
	}
	lsm, vlog := j.db.Size()
	return Stats{
		PendingCount:  j.countPending(),
		TotalWrites:   j.totalWrites.Load(),
		TotalConfirms: j.totalConfirms.Load(),
		TotalRetries:  j.totalRetries.Load(),
		TotalDropped:  j.totalDropped.Load(),
		DBSizeBytes:   lsm + vlog,
	}
}

// Close closes the underlying database. Further calls return ErrJournalClosed.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	j.mu.Unlock()

	if err := j.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("Journal closed")
	return nil
}
