// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package wal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Journal operation metrics. The pending gauge lives in internal/metrics.
var (
	journalWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "journal_writes_total",
		Help: "Total number of journal write operations",
	})

	journalConfirmsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "journal_confirms_total",
		Help: "Total number of journal confirm operations",
	})

	journalRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "journal_retries_total",
		Help: "Total number of failed attempts recorded against journal entries",
	})

	journalDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "journal_dropped_total",
		Help: "Total number of entries discarded after reaching the attempt limit",
	})

	journalReplayedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "journal_replayed_total",
		Help: "Total number of pending entries resubmitted by the replayer",
	})

	journalWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "journal_write_failures_total",
		Help: "Total number of failed journal writes",
	})

	journalWriteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "journal_write_latency_seconds",
		Help:    "Journal write latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	journalGCRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "journal_gc_runs_total",
		Help: "Total number of value log GC passes",
	})
)
