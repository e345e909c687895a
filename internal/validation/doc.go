// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

// Package validation wraps go-playground/validator v10 for request and
// configuration structs.
//
// A single validator instance is built lazily and shared. Besides the
// built-in tags it registers:
//
//	decade    integer year that starts a decade (1870..2100, divisible by 10)
//	genrename non-blank genre name without control characters
//
// Failures are returned as *RequestValidationError, which converts to the
// VALIDATION_ERROR shape used by the HTTP API:
//
//	type searchParams struct {
//	    Page  int `validate:"min=1,max=10000"`
//	    Limit int `validate:"min=1,max=100"`
//	}
//
//	if verr := validation.ValidateStruct(&p); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    ...
//	}
package validation
