// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package api

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinecache/internal/logging"
	"github.com/tomtom215/cinecache/internal/models"
	"github.com/tomtom215/cinecache/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// sanitizeLogValue escapes control characters so request values cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON writes response with the JSON content type.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write JSON response")
	}
}

func metadata(r *http.Request, start time.Time) models.Metadata {
	return models.Metadata{
		Timestamp:   time.Now().UTC(),
		QueryTimeMS: time.Since(start).Milliseconds(),
		RequestID:   logging.RequestIDFromContext(r.Context()),
	}
}

// respondData writes a 200 success envelope.
func respondData(w http.ResponseWriter, r *http.Request, start time.Time, data interface{}) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: metadata(r, start),
	})
}

// respondError writes an error envelope. err is logged, never returned.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status:   "error",
		Metadata: metadata(r, time.Now()),
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondValidationError writes a 400 VALIDATION_ERROR envelope.
func respondValidationError(w http.ResponseWriter, r *http.Request, apiErr *models.APIError) {
	respondJSON(w, r, http.StatusBadRequest, &models.APIResponse{
		Status:   "error",
		Metadata: metadata(r, time.Now()),
		Error:    apiErr,
	})
}

// handleError maps the error taxonomy to a response. Only not-found is
// visible to callers; everything else is a generic internal error.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	if models.IsClientVisible(err) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
		return
	}
	if ctxErr := r.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		// Client went away; nobody reads the response.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Request canceled")
		return
	}
	respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err)
}

// validateRequest validates v with go-playground/validator and returns nil
// or a VALIDATION_ERROR body.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getInt64Param extracts an int64 query parameter with a default value.
func getInt64Param(r *http.Request, key string, defaultValue int64) int64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// pathInt64 parses a numeric URL parameter. Non-numeric values yield 0,
// which the "gt=0" rules of the parameter structs reject.
func pathInt64(r *http.Request, key string) int64 {
	n, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// callerIdentity returns the first X-Forwarded-For entry, else the remote
// address host. The header is client controlled and therefore spoofable.
func callerIdentity(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
