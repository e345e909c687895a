// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package models

import "time"

// Actor is a stored person entity.
type Actor struct {
	ID                 int64      `json:"-"`
	ExternalID         int64      `json:"id"`
	Name               string     `json:"name"`
	Biography          string     `json:"biography"`
	ProfilePath        string     `json:"profile_path"`
	Birthday           string     `json:"birthday,omitempty"`
	Deathday           string     `json:"deathday,omitempty"`
	Popularity         float64    `json:"popularity"`
	PlaceOfBirth       string     `json:"place_of_birth,omitempty"`
	KnownForDepartment string     `json:"known_for_department,omitempty"`
	MovieIDs           []int64    `json:"-"` // internal movie ids
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// IsNormalized reports whether the actor's movie references were resolved.
func (a *Actor) IsNormalized() bool {
	return len(a.MovieIDs) > 0
}

// ActorUpdate is a merge-write applied by background normalization.
type ActorUpdate struct {
	Details   *Actor // overwrites biography and other detail fields when set
	MovieIDs  []int64
	UpdatedAt *time.Time
}

// ActorFromCast builds a minimal Actor from a credits record.
func ActorFromCast(c *CastMember) *Actor {
	return &Actor{
		ExternalID:         c.ID,
		Name:               c.Name,
		ProfilePath:        c.ProfilePath,
		Popularity:         c.Popularity,
		KnownForDepartment: c.Department,
	}
}

// ActorFromRaw builds an Actor from a person payload.
func ActorFromRaw(raw *RawActor) *Actor {
	return &Actor{
		ExternalID:         raw.ID,
		Name:               raw.Name,
		Biography:          raw.Biography,
		ProfilePath:        raw.ProfilePath,
		Birthday:           raw.Birthday,
		Deathday:           raw.Deathday,
		Popularity:         raw.Popularity,
		PlaceOfBirth:       raw.PlaceOfBirth,
		KnownForDepartment: raw.KnownForDepartment,
	}
}
