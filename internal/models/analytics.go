// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package models

// GenreStat is an aggregate over movies carrying one genre.
type GenreStat struct {
	Name      string  `json:"genre"`
	AvgRating float64 `json:"avg_rating"`
	Count     int     `json:"count"`
}

// GenreCount is a genre with the number of stored movies tagged with it.
type GenreCount struct {
	Name  string `json:"genre"`
	Count int    `json:"count"`
}

// DecadeBest is the best-rated movie in a decade.
type DecadeBest struct {
	Decade string       `json:"decade"` // "1990s"
	Movie  MovieSummary `json:"movie"`
}

// WordCount is a title word with its frequency across distinct titles.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SearchResult is a page of search results.
type SearchResult struct {
	Results    []MovieSummary `json:"results"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// MovieQuery filters a search.
type MovieQuery struct {
	Title string
	Genre string
	Page  int
	Limit int
}
