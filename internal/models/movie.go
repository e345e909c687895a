// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// CreditsState records which shape a stored movie's credits are in.
type CreditsState string

const (
	CreditsUnset      CreditsState = ""
	CreditsEmbedded   CreditsState = "embedded"
	CreditsNormalized CreditsState = "normalized"
)

// Movie is a stored movie entity.
type Movie struct {
	ID               int64   `json:"-"`
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

	CreditsState CreditsState    `json:"-"`
	Embedded     *RawCredits     `json:"-"` // set when CreditsState is CreditsEmbedded
	Refs         *CreditRefs     `json:"-"` // set when CreditsState is CreditsNormalized
	Videos       json.RawMessage `json:"videos,omitempty"`
	FetchedAt    *time.Time      `json:"fetched_at,omitempty"`
}

// IsNormalized reports whether the credits hold internal actor references.
func (m *Movie) IsNormalized() bool {
	return m.CreditsState == CreditsNormalized && m.Refs != nil
}

// Summary returns the list-row view of m.
func (m *Movie) Summary() MovieSummary {
	return MovieSummary{
		ExternalID:       m.ExternalID,
		Title:            m.Title,
		Overview:         m.Overview,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		Popularity:       m.Popularity,
		ReleaseDate:      m.ReleaseDate,
		Runtime:          m.Runtime,
		OriginalLanguage: m.OriginalLanguage,
		Genres:           m.Genres,
	}
}

// CreditRef links a movie credit to a stored actor.
type CreditRef struct {
	ActorID   int64  `json:"actor_id"`
	Character string `json:"character,omitempty"`
	Job       string `json:"job,omitempty"`
}

// CreditRefs is the normalized credits shape.
type CreditRefs struct {
	Cast []CreditRef `json:"cast"`
	Crew []CreditRef `json:"crew"`
}

// MovieUpdate is a merge-write applied by background normalization.
// Nil fields are left unchanged.
type MovieUpdate struct {
	Core      *Movie // refreshes core fields and genres when set
	Refs      *CreditRefs
	Videos    json.RawMessage
	Runtime   *int
	FetchedAt *time.Time
}

// MovieFromRaw builds the core fields of a Movie from a provider payload.
// Credits are attached in embedded form.
func MovieFromRaw(raw *RawMovie) *Movie {
	m := &Movie{
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
	if raw.Credits != nil {
		m.CreditsState = CreditsEmbedded
		m.Embedded = raw.Credits
	}
	return m
}

// MovieFromCredit builds a core-fields Movie from a person's movie credit.
func MovieFromCredit(c *MovieCredit) *Movie {
	return &Movie{
		ExternalID:       c.ID,
		Title:            c.Title,
		Overview:         c.Overview,
		PosterPath:       c.PosterPath,
		BackdropPath:     c.BackdropPath,
		VoteAverage:      c.VoteAverage,
		VoteCount:        c.VoteCount,
		Popularity:       c.Popularity,
		ReleaseDate:      c.ReleaseDate,
		OriginalLanguage: c.OriginalLanguage,
		Genres:           GenresFromIDs(c.GenreIDs),
	}
}
