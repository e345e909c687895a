// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package models

import (
	"errors"
	"fmt"
)

// Error taxonomy. Callers match with errors.Is.
var (
	// ErrNotFound means the provider reports the id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrProviderUnavailable covers transport failures, non-2xx non-404
	// statuses and an open circuit breaker.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrMalformedResponse means the payload decoded but lacks a required field.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrStorage wraps any entity store failure.
	ErrStorage = errors.New("storage error")
)

// ProviderError describes a failed provider request.
type ProviderError struct {
	Op         string // "movie" or "person"
	ExternalID int64
	StatusCode int   // 0 when no response was received
	Kind       error // ErrNotFound, ErrProviderUnavailable or ErrMalformedResponse
	Err        error // underlying cause, may be nil
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("provider %s %d: %v", e.Op, e.ExternalID, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As.
func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// StorageErr wraps err as an ErrStorage for operation op.
// It returns nil when err is nil.
func StorageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// IsClientVisible reports whether err may be shown to API callers as-is.
// Only not-found results are; everything else becomes a generic internal error.
func IsClientVisible(err error) bool {
	return errors.Is(err, ErrNotFound)
}
