// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/cinecache/internal/config"
	"github.com/tomtom215/cinecache/internal/logging"
	"github.com/tomtom215/cinecache/internal/metrics"
	"github.com/tomtom215/cinecache/internal/models"
	"github.com/tomtom215/cinecache/internal/wal"
)

var (
	ErrQueueFull  = errors.New("enrichment queue is full")
	ErrPoolClosed = errors.New("enrichment pool is closed")
)

// Handler processes one task.
type Handler func(ctx context.Context, t *Task) error

// Pool runs tasks on a fixed number of workers fed by a bounded channel.
// It implements suture.Service; Serve starts the workers and, when its
// context ends, stops accepting tasks and drains the queue for at most
// DrainTimeout.
type Pool struct {
	handler      Handler
	queue        chan *Task
	workers      int
	taskTimeout  time.Duration
	drainTimeout time.Duration
	dedupe       bool
	journal      *wal.Journal // nil when disabled

	// Task contexts derive from base so draining tasks survive the
	// service context; cancelBase aborts them once the drain times out.
	base       context.Context
	cancelBase context.CancelFunc

	mu      sync.RWMutex
	closed  bool
	started atomic.Bool

	pending   atomic.Int64 // queued + running
	scheduled sync.Map     // Task.Key() of queued/running tasks when dedupe is on
}

// NewPool creates a pool. journal may be nil.
func NewPool(cfg *config.EnrichConfig, journal *wal.Journal, handler Handler) *Pool {
	base, cancel := context.WithCancel(context.Background())
	workers := cfg.MaxInFlight
	if workers < 1 {
		workers = 1
	}
	size := cfg.QueueSize
	if size < 1 {
		size = 1
	}
	return &Pool{
		handler:      handler,
		queue:        make(chan *Task, size),
		workers:      workers,
		taskTimeout:  cfg.TaskTimeout,
		drainTimeout: cfg.DrainTimeout,
		dedupe:       cfg.Coalesce,
		journal:      journal,
		base:         base,
		cancelBase:   cancel,
	}
}

// Submit schedules t without blocking. It reports whether the task was
// accepted; a rejected task is counted, logged and, when journaled, left
// pending for replay.
func (p *Pool) Submit(ctx context.Context, t *Task) bool {
	if p.dedupe {
		if _, loaded := p.scheduled.LoadOrStore(t.Key(), struct{}{}); loaded {
			metrics.EnrichCoalesced.WithLabelValues(string(t.Kind)).Inc()
			return true
		}
	}

	if p.journal != nil {
		id, err := p.journal.Write(ctx, t)
		if err != nil {
			logging.Warn().Err(err).Str("task", t.Key()).Msg("Failed to journal enrichment task")
		} else {
			t.EntryID = id
			p.journal.TryClaim(id)
		}
	}

	if err := p.enqueue(t); err != nil {
		metrics.EnrichDropped.WithLabelValues(string(t.Kind)).Inc()
		logging.Warn().Err(err).Str("task", t.Key()).Bool("journaled", t.EntryID != "").
			Msg("Enrichment task dropped")
		if t.EntryID != "" {
			p.journal.Release(t.EntryID)
		}
		if p.dedupe {
			p.scheduled.Delete(t.Key())
		}
		return false
	}
	return true
}

// Resubmit queues a journaled task again. It implements wal.Submitter.
func (p *Pool) Resubmit(ctx context.Context, entry *wal.Entry) error {
	var t Task
	if err := entry.UnmarshalPayload(&t); err != nil {
		return fmt.Errorf("decode task: %w", err)
	}
	t.EntryID = entry.ID

	if p.dedupe {
		if _, loaded := p.scheduled.LoadOrStore(t.Key(), struct{}{}); loaded {
			// An equivalent task is already queued.
			if p.journal != nil {
				return p.journal.Confirm(ctx, entry.ID)
			}
			return nil
		}
	}
	if err := p.enqueue(&t); err != nil {
		if p.dedupe {
			p.scheduled.Delete(t.Key())
		}
		return err
	}
	return nil
}

func (p *Pool) enqueue(t *Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.queue <- t:
		p.pending.Add(1)
		metrics.EnrichQueueDepth.Set(float64(len(p.queue)))
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued and running tasks.
func (p *Pool) Pending() int {
	return int(p.pending.Load())
}

// Serve implements suture.Service.
func (p *Pool) Serve(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return suture.ErrDoNotRestart
	}

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range p.queue {
				p.run(t)
			}
		}()
	}
	logging.Info().Int("workers", p.workers).Int("queue_size", cap(p.queue)).Msg("Enrichment pool started")

	<-ctx.Done()
	p.close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info().Msg("Enrichment pool drained")
	case <-time.After(p.drainTimeout):
		logging.Warn().Int("pending", p.Pending()).Dur("drain_timeout", p.drainTimeout).
			Msg("Enrichment pool drain timed out, abandoning remaining tasks")
		p.cancelBase()
		<-done
	}
	p.cancelBase()
	return ctx.Err()
}

func (p *Pool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
}

// run executes one task. Errors are logged and never propagated.
func (p *Pool) run(t *Task) {
	defer p.pending.Add(-1)
	defer func() {
		if p.dedupe {
			p.scheduled.Delete(t.Key())
		}
	}()
	metrics.EnrichQueueDepth.Set(float64(len(p.queue)))

	if p.base.Err() != nil {
		// Abandoned by a timed-out drain; a journaled entry stays pending.
		if t.EntryID != "" {
			p.journal.Release(t.EntryID)
		}
		return
	}

	metrics.EnrichInFlight.Inc()
	defer metrics.EnrichInFlight.Dec()

	ctx, cancel := context.WithTimeout(p.base, p.taskTimeout)
	defer cancel()

	start := time.Now()
	err := p.safeHandle(ctx, t)
	duration := time.Since(start)
	metrics.RecordEnrichTask(string(t.Kind), duration, err)

	logger := logging.WithComponent("enrich")
	if err != nil {
		logger.Warn().Err(err).Str("task", t.Key()).Dur("duration", duration).Msg("Enrichment task failed")
	} else {
		logger.Debug().Str("task", t.Key()).Dur("duration", duration).Msg("Enrichment task completed")
	}

	p.finish(t, err)
}

func (p *Pool) safeHandle(ctx context.Context, t *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in enrichment task %s: %v", t.Key(), r)
		}
	}()
	return p.handler(ctx, t)
}

// finish settles the journal entry of a processed task. Failures other than
// not-found stay pending for replay.
func (p *Pool) finish(t *Task, err error) {
	if t.EntryID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err == nil || errors.Is(err, models.ErrNotFound) {
		if cerr := p.journal.Confirm(ctx, t.EntryID); cerr != nil && !errors.Is(cerr, wal.ErrEntryNotFound) {
			logging.Warn().Err(cerr).Str("entry_id", t.EntryID).Msg("Failed to confirm journal entry")
		}
		return
	}
	if _, rerr := p.journal.RecordFailure(ctx, t.EntryID, err.Error()); rerr != nil && !errors.Is(rerr, wal.ErrEntryNotFound) {
		logging.Warn().Err(rerr).Str("entry_id", t.EntryID).Msg("Failed to record journal attempt")
	}
}

// String implements fmt.Stringer for suture logging.
func (p *Pool) String() string {
	return "enrich-pool"
}
