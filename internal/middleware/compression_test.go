// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func largeBodyHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, body)
	})
}

func TestCompression_WithGzipAccept(t *testing.T) {
	body := strings.Repeat(`{"title":"The Matrix"},`, 100)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	rec := httptest.NewRecorder()

	Compression(largeBodyHandler(body)).ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	if got := rec.Header().Get("Vary"); got != "Accept-Encoding" {
		t.Errorf("Vary = %q, want Accept-Encoding", got)
	}

	reader, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	defer reader.Close()
	decompressed, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(decompressed) != body {
		t.Error("decompressed body does not match")
	}
}

func TestCompression_Passthrough(t *testing.T) {
	tests := []struct {
		name   string
		method string
		accept string
	}{
		{"no accept header", http.MethodGet, ""},
		{"other encoding", http.MethodGet, "br"},
		{"head request", http.MethodHead, "gzip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/genres/popular", nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Encoding", tt.accept)
			}
			rec := httptest.NewRecorder()

			Compression(largeBodyHandler("plain")).ServeHTTP(rec, req)

			if rec.Header().Get("Content-Encoding") != "" {
				t.Error("response should not be compressed")
			}
			if tt.method == http.MethodGet && rec.Body.String() != "plain" {
				t.Errorf("body = %q, want plain", rec.Body.String())
			}
		})
	}
}
