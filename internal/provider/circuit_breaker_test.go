// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package provider

import (
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"
)

func TestReadyToTrip(t *testing.T) {
	tests := []struct {
		name   string
		counts gobreaker.Counts
		want   bool
	}{
		{"too few requests", gobreaker.Counts{Requests: 9, TotalFailures: 9}, false},
		{"below threshold", gobreaker.Counts{Requests: 10, TotalFailures: 5}, false},
		{"at threshold", gobreaker.Counts{Requests: 10, TotalFailures: 6}, true},
		{"all failing", gobreaker.Counts{Requests: 20, TotalFailures: 20}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := readyToTrip(tt.counts); got != tt.want {
				t.Errorf("readyToTrip(%+v) = %v, want %v", tt.counts, got, tt.want)
			}
		})
	}
}

func TestStateConversions(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		f     float64
		s     string
	}{
		{gobreaker.StateClosed, 0, "closed"},
		{gobreaker.StateHalfOpen, 1, "half-open"},
		{gobreaker.StateOpen, 2, "open"},
	}
	for _, tt := range tests {
		if got := stateToFloat(tt.state); got != tt.f {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.f)
		}
		if got := stateToString(tt.state); got != tt.s {
			t.Errorf("stateToString(%v) = %q, want %q", tt.state, got, tt.s)
		}
	}
}
