// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package enrich

import (
	"strconv"
	"time"

	"github.com/tomtom215/cinecache/internal/models"
)

// Kind is the entity a task normalizes.
type Kind string

const (
	KindMovie Kind = "movie"
	KindActor Kind = "actor"
)

// Task is one background normalization. When the raw payload is nil the
// worker fetches it from the provider first.
type Task struct {
	EntryID     string           `json:"-"` // journal entry, "" when not journaled
	Kind        Kind             `json:"kind"`
	ExternalID  int64            `json:"external_id"`
	Movie       *models.RawMovie `json:"movie,omitempty"`
	Actor       *models.RawActor `json:"actor,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

// Key identifies the entity the task writes, e.g. "movie:603".
func (t *Task) Key() string {
	return string(t.Kind) + ":" + strconv.FormatInt(t.ExternalID, 10)
}

func movieTask(externalID int64, raw *models.RawMovie) *Task {
	return &Task{Kind: KindMovie, ExternalID: externalID, Movie: raw, SubmittedAt: time.Now().UTC()}
}

func actorTask(externalID int64, raw *models.RawActor) *Task {
	return &Task{Kind: KindActor, ExternalID: externalID, Actor: raw, SubmittedAt: time.Now().UTC()}
}
