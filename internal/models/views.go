// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Projection caps.
const (
	MaxCastProjection  = 6
	MaxActorMovies     = 20
	DefaultRecommended = 15
)

// ViewSource tells callers which path produced a detail view.
type ViewSource string

const (
	SourceNormalized ViewSource = "normalized" // store, resolved references
	SourceStale      ViewSource = "stale"      // store, not yet normalized
	SourceProvider   ViewSource = "provider"   // raw provider payload on miss
)

// CastProjection is the public shape of a cast or crew entry.
type CastProjection struct {
	ExternalID  int64   `json:"id"`
	Name        string  `json:"name"`
	ProfilePath string  `json:"profile_path"`
	Popularity  float64 `json:"popularity"`
	Department  string  `json:"department"`
	Character   string  `json:"character,omitempty"`
	Job         string  `json:"job,omitempty"`
}

// CastFromMember projects a raw credits record.
func CastFromMember(c *CastMember) CastProjection {
	return CastProjection{
		ExternalID:  c.ID,
		Name:        c.Name,
		ProfilePath: c.ProfilePath,
		Popularity:  c.Popularity,
		Department:  c.Department,
		Character:   c.Character,
		Job:         c.Job,
	}
}

// CreditsView is the credits block of a movie detail response.
type CreditsView struct {
	Cast []CastProjection `json:"cast"`
	Crew []CastProjection `json:"crew"`
}

// MovieDetailView is returned by the movie detail operation.
type MovieDetailView struct {
	MovieSummary
	Credits   CreditsView     `json:"credits"`
	Videos    json.RawMessage `json:"videos,omitempty"`
	FetchedAt *time.Time      `json:"fetched_at,omitempty"`
	Source    ViewSource      `json:"source"`
}

// MovieProjection is the public shape of a movie in an actor's filmography.
type MovieProjection struct {
	ExternalID int64   `json:"id"`
	Title      string  `json:"title"`
	PosterPath string  `json:"poster_path"`
	Popularity float64 `json:"popularity"`
}

// ActorDetailView is returned by the actor detail operation.
type ActorDetailView struct {
	Actor
	Movies []MovieProjection `json:"movies"`
	Source ViewSource        `json:"source"`
}

// MovieSummary is a movie list row.
type MovieSummary struct {
	ExternalID       int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	Runtime          *int    `json:"runtime,omitempty"`
	OriginalLanguage string  `json:"original_language"`
	Genres           []Genre `json:"genres"`
}

// SummaryFromRaw returns the list-row view of a provider payload.
func SummaryFromRaw(raw *RawMovie) MovieSummary {
	return MovieSummary{
		ExternalID:       raw.ID,
		Title:            raw.Title,
		Overview:         raw.Overview,
		PosterPath:       raw.PosterPath,
		BackdropPath:     raw.BackdropPath,
		VoteAverage:      raw.VoteAverage,
		VoteCount:        raw.VoteCount,
		Popularity:       raw.Popularity,
		ReleaseDate:      raw.ReleaseDate,
		Runtime:          raw.Runtime,
		OriginalLanguage: raw.OriginalLanguage,
		Genres:           NormalizeGenres(raw.Genres),
	}
}
