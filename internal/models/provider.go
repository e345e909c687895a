// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package models

import "github.com/goccy/go-json"

// RawMovie is the provider's movie detail payload with credits and videos
// appended.
type RawMovie struct {
	ID               int64           `json:"id"`
	Title            string          `json:"title"`
	Overview         string          `json:"overview"`
	PosterPath       string          `json:"poster_path"`
	BackdropPath     string          `json:"backdrop_path"`
	VoteAverage      float64         `json:"vote_average"`
	VoteCount        int             `json:"vote_count"`
	Popularity       float64         `json:"popularity"`
	ReleaseDate      string          `json:"release_date"`
	Runtime          *int            `json:"runtime"`
	OriginalLanguage string          `json:"original_language"`
	Genres           []Genre         `json:"genres"`
	Credits          *RawCredits     `json:"credits,omitempty"`
	Videos           json.RawMessage `json:"videos,omitempty"`
}

// RawCredits holds cast and crew in provider order.
type RawCredits struct {
	Cast []CastMember `json:"cast"`
	Crew []CastMember `json:"crew"`
}

// CastMember is one cast or crew record as returned by the provider.
type CastMember struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	ProfilePath string  `json:"profile_path"`
	Popularity  float64 `json:"popularity"`
	Department  string  `json:"known_for_department"`
	Character   string  `json:"character,omitempty"`
	Job         string  `json:"job,omitempty"`
	Order       int     `json:"order,omitempty"`
}

// RawActor is the provider's person detail payload with movie credits and
// images appended.
type RawActor struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Biography          string          `json:"biography"`
	ProfilePath        string          `json:"profile_path"`
	Birthday           string          `json:"birthday"`
	Deathday           string          `json:"deathday"`
	Popularity         float64         `json:"popularity"`
	PlaceOfBirth       string          `json:"place_of_birth"`
	KnownForDepartment string          `json:"known_for_department"`
	MovieCredits       MovieCredits    `json:"movie_credits"`
	Images             json.RawMessage `json:"images,omitempty"`
}

// MovieCredits lists the movies a person appears in.
type MovieCredits struct {
	Cast []MovieCredit `json:"cast"`
	Crew []MovieCredit `json:"crew"`
}

// MovieCredit is a movie entry in a person's credits.
type MovieCredit struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	ReleaseDate      string  `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
	GenreIDs         []int   `json:"genre_ids"`
	Character        string  `json:"character,omitempty"`
	Job              string  `json:"job,omitempty"`
}
