// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (db *DB) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range schemaQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func schemaQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS movies_id_seq START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS actors_id_seq START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS favorites_id_seq START 1;`,

		`CREATE TABLE IF NOT EXISTS movies (
			id BIGINT PRIMARY KEY DEFAULT nextval('movies_id_seq'),
			external_id BIGINT NOT NULL UNIQUE,
			title VARCHAR NOT NULL DEFAULT '',
			overview VARCHAR NOT NULL DEFAULT '',
			poster_path VARCHAR,
			backdrop_path VARCHAR,
			vote_average DOUBLE NOT NULL DEFAULT 0,
			vote_count INTEGER NOT NULL DEFAULT 0,
			popularity DOUBLE NOT NULL DEFAULT 0,
			release_date VARCHAR,
			runtime INTEGER,
			original_language VARCHAR NOT NULL DEFAULT '',
			genres VARCHAR NOT NULL DEFAULT '[]',
			credits_state VARCHAR NOT NULL DEFAULT '',
			credits VARCHAR,
			videos VARCHAR,
			fetched_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		);`,

		`CREATE TABLE IF NOT EXISTS movie_genres (
			movie_id BIGINT NOT NULL,
			name VARCHAR NOT NULL,
			position INTEGER NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS actors (
			id BIGINT PRIMARY KEY DEFAULT nextval('actors_id_seq'),
			external_id BIGINT NOT NULL UNIQUE,
			name VARCHAR NOT NULL DEFAULT '',
			biography VARCHAR NOT NULL DEFAULT '',
			profile_path VARCHAR,
			birthday VARCHAR,
			deathday VARCHAR,
			popularity DOUBLE NOT NULL DEFAULT 0,
			place_of_birth VARCHAR,
			known_for_department VARCHAR,
			movie_ids VARCHAR NOT NULL DEFAULT '[]',
			updated_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		);`,

		`CREATE TABLE IF NOT EXISTS favorites (
			id BIGINT PRIMARY KEY DEFAULT nextval('favorites_id_seq'),
			identity VARCHAR NOT NULL,
			movie_id BIGINT NOT NULL,
			movie_data VARCHAR NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			UNIQUE (identity, movie_id)
		);`,

		`CREATE INDEX IF NOT EXISTS idx_movie_genres_movie ON movie_genres(movie_id);`,
		`CREATE INDEX IF NOT EXISTS idx_movie_genres_name ON movie_genres(name);`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_identity ON favorites(identity);`,
	}
}
