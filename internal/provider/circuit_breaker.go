// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package provider

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinecache/internal/logging"
	"github.com/tomtom215/cinecache/internal/metrics"
	"github.com/tomtom215/cinecache/internal/models"
)

// Breaker tuning:
//   - 3 probe requests in half-open state
//   - counts reset every minute while closed
//   - 30 seconds open before probing
//   - trips at a 60% failure rate over at least 10 requests
const (
	breakerMaxRequests = 3
	breakerInterval    = time.Minute
	breakerTimeout     = 30 * time.Second
	breakerMinRequests = 10
	breakerFailureRate = 0.6
)

func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerMaxRequests,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
		ReadyToTrip: readyToTrip,
		// A 404 is an answer from a healthy provider, and a caller that
		// gave up says nothing about the provider at all.
		IsSuccessful: func(err error) bool {
			var abort *callerAbortError
			return err == nil || errors.Is(err, models.ErrNotFound) || errors.As(err, &abort)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).
				Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
}

// callerAbortError marks a request that failed because the caller's own
// context was canceled or expired while the provider call was in flight.
type callerAbortError struct {
	err error
}

func (e *callerAbortError) Error() string { return e.err.Error() }
func (e *callerAbortError) Unwrap() error { return e.err }

func readyToTrip(counts gobreaker.Counts) bool {
	if counts.Requests < breakerMinRequests {
		return false
	}
	failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
	if failureRatio >= breakerFailureRate {
		logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).
			Msg("[CIRCUIT BREAKER] Opening circuit")
		return true
	}
	return false
}

// stateToFloat converts a breaker state to its metric value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
