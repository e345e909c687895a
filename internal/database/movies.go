// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinecache/internal/models"
)

// maxWriteAttempts bounds the refetch/retry loop of upserts and updates that
// lose a race with a concurrent writer.
const maxWriteAttempts = 5

var errWriteContention = errors.New("write contention: retries exhausted")

const movieColumns = `id, external_id, title, overview, poster_path, backdrop_path,
	vote_average, vote_count, popularity, release_date, runtime, original_language,
	genres, credits_state, credits, videos, fetched_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	var (
		m                         models.Movie
		poster, backdrop, release sql.NullString
		credits, videos           sql.NullString
		genres, state             string
		runtime                   sql.NullInt64
		fetchedAt                 sql.NullTime
	)
	if err := row.Scan(&m.ID, &m.ExternalID, &m.Title, &m.Overview, &poster, &backdrop,
		&m.VoteAverage, &m.VoteCount, &m.Popularity, &release, &runtime, &m.OriginalLanguage,
		&genres, &state, &credits, &videos, &fetchedAt); err != nil {
		return nil, err
	}

	m.PosterPath = poster.String
	m.BackdropPath = backdrop.String
	m.ReleaseDate = release.String
	m.Runtime = intPtr(runtime)
	m.FetchedAt = timePtr(fetchedAt)
	m.CreditsState = models.CreditsState(state)
	if videos.Valid && videos.String != "" {
		m.Videos = json.RawMessage(videos.String)
	}

	if err := json.Unmarshal([]byte(genres), &m.Genres); err != nil {
		return nil, fmt.Errorf("decode genres of movie %d: %w", m.ExternalID, err)
	}

	if credits.Valid && credits.String != "" {
		switch m.CreditsState {
		case models.CreditsEmbedded:
			m.Embedded = &models.RawCredits{}
			if err := json.Unmarshal([]byte(credits.String), m.Embedded); err != nil {
				return nil, fmt.Errorf("decode credits of movie %d: %w", m.ExternalID, err)
			}
		case models.CreditsNormalized:
			m.Refs = &models.CreditRefs{}
			if err := json.Unmarshal([]byte(credits.String), m.Refs); err != nil {
				return nil, fmt.Errorf("decode credit refs of movie %d: %w", m.ExternalID, err)
			}
		}
	}
	return &m, nil
}

// GetMovie returns the stored movie with the given provider id, or nil.
func (db *DB) GetMovie(ctx context.Context, externalID int64) (*models.Movie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE external_id = ?`, externalID)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		_ = observe("get", "movies", start, nil)
		return nil, nil
	}
	if err != nil {
		return nil, observe("get", "movies", start, err)
	}
	_ = observe("get", "movies", start, nil)
	return m, nil
}

func (db *DB) lookupID(ctx context.Context, table string, externalID int64) (int64, bool, error) {
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM `+table+` WHERE external_id = ?`, externalID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// UpsertMovie returns the internal id of the movie with m.ExternalID,
// inserting m when no such row exists. An existing row is never overwritten.
//
// Concurrent callers for the same external id all receive the same id: the
// losing INSERT hits the unique constraint and the winner's row is re-read.
func (db *DB) UpsertMovie(ctx context.Context, m *models.Movie) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		id, found, err := db.lookupID(ctx, "movies", m.ExternalID)
		if err != nil {
			return 0, observe("upsert", "movies", start, err)
		}
		if found {
			_ = observe("upsert", "movies", start, nil)
			return id, nil
		}

		id, err = db.insertMovie(ctx, m)
		if err == nil {
			_ = observe("upsert", "movies", start, nil)
			return id, nil
		}
		if !isDuplicateRace(err) {
			return 0, observe("upsert", "movies", start, err)
		}
		if err := ctx.Err(); err != nil {
			return 0, observe("upsert", "movies", start, err)
		}
	}
	return 0, observe("upsert", "movies", start, errWriteContention)
}

// insertMovie inserts the movie row and its genre rows in one transaction.
func (db *DB) insertMovie(ctx context.Context, m *models.Movie) (int64, error) {
	genres := models.NormalizeGenres(m.Genres)
	genresJSON, err := marshalText(genres)
	if err != nil {
		return 0, fmt.Errorf("encode genres: %w", err)
	}

	var credits sql.NullString
	state := m.CreditsState
	switch {
	case state == models.CreditsEmbedded && m.Embedded != nil:
		text, err := marshalText(m.Embedded)
		if err != nil {
			return 0, fmt.Errorf("encode credits: %w", err)
		}
		credits = sql.NullString{String: text, Valid: true}
	case state == models.CreditsNormalized && m.Refs != nil:
		text, err := marshalText(m.Refs)
		if err != nil {
			return 0, fmt.Errorf("encode credit refs: %w", err)
		}
		credits = sql.NullString{String: text, Valid: true}
	default:
		state = models.CreditsUnset
	}

	var videos sql.NullString
	if len(m.Videos) > 0 {
		videos = sql.NullString{String: string(m.Videos), Valid: true}
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO movies (external_id, title, overview, poster_path, backdrop_path,
			vote_average, vote_count, popularity, release_date, runtime, original_language,
			genres, credits_state, credits, videos, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		m.ExternalID, m.Title, m.Overview, nullString(m.PosterPath), nullString(m.BackdropPath),
		m.VoteAverage, m.VoteCount, m.Popularity, nullString(m.ReleaseDate), nullInt(m.Runtime),
		m.OriginalLanguage, genresJSON, string(state), credits, videos, nullTime(m.FetchedAt),
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	if err := insertGenres(ctx, tx, id, genres); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func insertGenres(ctx context.Context, tx *sql.Tx, movieID int64, genres []models.Genre) error {
	for i, g := range genres {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO movie_genres (movie_id, name, position) VALUES (?, ?, ?)`,
			movieID, g.Name, i); err != nil {
			return fmt.Errorf("insert genre %q: %w", g.Name, err)
		}
	}
	return nil
}

// UpdateMovie merge-writes upd into the movie with the given provider id.
// Setting Refs switches the credits to the normalized shape.
func (db *DB) UpdateMovie(ctx context.Context, externalID int64, upd *models.MovieUpdate) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		sets []string
		args []interface{}
	)
	if upd.Core != nil {
		c := upd.Core
		genresJSON, err := marshalText(models.NormalizeGenres(c.Genres))
		if err != nil {
			return models.StorageErr("update movies", err)
		}
		sets = append(sets, "title = ?", "overview = ?", "poster_path = ?", "backdrop_path = ?",
			"vote_average = ?", "vote_count = ?", "popularity = ?", "release_date = ?",
			"original_language = ?", "genres = ?")
		args = append(args, c.Title, c.Overview, nullString(c.PosterPath), nullString(c.BackdropPath),
			c.VoteAverage, c.VoteCount, c.Popularity, nullString(c.ReleaseDate),
			c.OriginalLanguage, genresJSON)
	}
	if upd.Refs != nil {
		text, err := marshalText(upd.Refs)
		if err != nil {
			return models.StorageErr("update movies", err)
		}
		sets = append(sets, "credits_state = ?", "credits = ?")
		args = append(args, string(models.CreditsNormalized), text)
	}
	if len(upd.Videos) > 0 {
		sets = append(sets, "videos = ?")
		args = append(args, string(upd.Videos))
	}
	if upd.Runtime != nil {
		sets = append(sets, "runtime = ?")
		args = append(args, *upd.Runtime)
	}
	if upd.FetchedAt != nil {
		sets = append(sets, "fetched_at = ?")
		args = append(args, upd.FetchedAt.UTC())
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, externalID)
	query := `UPDATE movies SET ` + strings.Join(sets, ", ") + ` WHERE external_id = ? RETURNING id`

	start := time.Now()
	err := retryOnConflict(ctx, func() error {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		var id int64
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return err
		}
		if upd.Core != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM movie_genres WHERE movie_id = ?`, id); err != nil {
				return err
			}
			if err := insertGenres(ctx, tx, id, models.NormalizeGenres(upd.Core.Genres)); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if errors.Is(err, sql.ErrNoRows) {
		_ = observe("update", "movies", start, nil)
		return fmt.Errorf("update movie %d: %w", externalID, models.ErrNotFound)
	}
	return observe("update", "movies", start, err)
}

// retryOnConflict re-runs fn while it fails with a transaction conflict.
func retryOnConflict(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		if err = fn(); err == nil || !isTransactionConflict(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 10 * time.Millisecond):
		}
	}
	return fmt.Errorf("%w: %w", errWriteContention, err)
}

// FindMoviesByIDs returns the movies with the given internal ids in no
// particular order. Unknown ids are skipped.
func (db *DB) FindMoviesByIDs(ctx context.Context, ids []int64) ([]*models.Movie, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id IN (`+placeholders(len(ids))+`)`,
		int64Args(ids)...)
	if err != nil {
		return nil, observe("find_many", "movies", start, err)
	}
	defer closeRows(rows)

	movies := make([]*models.Movie, 0, len(ids))
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, observe("find_many", "movies", start, err)
		}
		movies = append(movies, m)
	}
	return movies, observe("find_many", "movies", start, rows.Err())
}

// CountMovies returns the number of stored movies.
func (db *DB) CountMovies(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n)
	return n, observe("count", "movies", start, err)
}
