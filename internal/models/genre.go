// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package models

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Genre is a movie genre. It decodes from either "Action" or {"name":"Action"}.
type Genre struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts the bare string and the object forms.
func (g *Genre) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		g.Name = ""
		return nil
	}

	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("genre string: %w", err)
		}
		g.Name = strings.TrimSpace(name)
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("genre object: %w", err)
	}
	g.Name = strings.TrimSpace(obj.Name)
	return nil
}

// NormalizeGenres drops blank names and case-insensitive duplicates while
// keeping the first occurrence order.
func NormalizeGenres(in []Genre) []Genre {
	out := make([]Genre, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, g := range in {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Genre{Name: name})
	}
	return out
}

// GenreNames returns the names of gs in order.
func GenreNames(gs []Genre) []string {
	names := make([]string, len(gs))
	for i, g := range gs {
		names[i] = g.Name
	}
	return names
}

// tmdbMovieGenres is the provider's fixed movie genre id table.
var tmdbMovieGenres = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// GenresFromIDs maps provider genre ids (as found in person movie credits)
// to genres. Unknown ids are skipped.
func GenresFromIDs(ids []int) []Genre {
	out := make([]Genre, 0, len(ids))
	for _, id := range ids {
		if name, ok := tmdbMovieGenres[id]; ok {
			out = append(out, Genre{Name: name})
		}
	}
	return NormalizeGenres(out)
}
