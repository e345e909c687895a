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

const actorColumns = `id, external_id, name, biography, profile_path, birthday, deathday,
	popularity, place_of_birth, known_for_department, movie_ids, updated_at`

func scanActor(row rowScanner) (*models.Actor, error) {
	var (
		a                        models.Actor
		profile, birthday, death sql.NullString
		placeOfBirth, department sql.NullString
		movieIDs                 string
		updatedAt                sql.NullTime
	)
	if err := row.Scan(&a.ID, &a.ExternalID, &a.Name, &a.Biography, &profile, &birthday, &death,
		&a.Popularity, &placeOfBirth, &department, &movieIDs, &updatedAt); err != nil {
		return nil, err
	}
	a.ProfilePath = profile.String
	a.Birthday = birthday.String
	a.Deathday = death.String
	a.PlaceOfBirth = placeOfBirth.String
	a.KnownForDepartment = department.String
	a.UpdatedAt = timePtr(updatedAt)
	if err := json.Unmarshal([]byte(movieIDs), &a.MovieIDs); err != nil {
		return nil, fmt.Errorf("decode movie ids of actor %d: %w", a.ExternalID, err)
	}
	return &a, nil
}

// GetActor returns the stored actor with the given provider id, or nil.
func (db *DB) GetActor(ctx context.Context, externalID int64) (*models.Actor, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	a, err := scanActor(db.conn.QueryRowContext(ctx,
		`SELECT `+actorColumns+` FROM actors WHERE external_id = ?`, externalID))
	if errors.Is(err, sql.ErrNoRows) {
		_ = observe("get", "actors", start, nil)
		return nil, nil
	}
	if err != nil {
		return nil, observe("get", "actors", start, err)
	}
	_ = observe("get", "actors", start, nil)
	return a, nil
}

// UpsertActor returns the internal id of the actor with a.ExternalID,
// inserting a when no such row exists. An existing row is never overwritten.
func (db *DB) UpsertActor(ctx context.Context, a *models.Actor) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		id, found, err := db.lookupID(ctx, "actors", a.ExternalID)
		if err != nil {
			return 0, observe("upsert", "actors", start, err)
		}
		if found {
			_ = observe("upsert", "actors", start, nil)
			return id, nil
		}

		id, err = db.insertActor(ctx, a)
		if err == nil {
			_ = observe("upsert", "actors", start, nil)
			return id, nil
		}
		if !isDuplicateRace(err) {
			return 0, observe("upsert", "actors", start, err)
		}
		if err := ctx.Err(); err != nil {
			return 0, observe("upsert", "actors", start, err)
		}
	}
	return 0, observe("upsert", "actors", start, errWriteContention)
}

func (db *DB) insertActor(ctx context.Context, a *models.Actor) (int64, error) {
	ids := a.MovieIDs
	if ids == nil {
		ids = []int64{}
	}
	movieIDs, err := marshalText(ids)
	if err != nil {
		return 0, fmt.Errorf("encode movie ids: %w", err)
	}

	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO actors (external_id, name, biography, profile_path, birthday, deathday,
			popularity, place_of_birth, known_for_department, movie_ids, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		a.ExternalID, a.Name, a.Biography, nullString(a.ProfilePath), nullString(a.Birthday),
		nullString(a.Deathday), a.Popularity, nullString(a.PlaceOfBirth),
		nullString(a.KnownForDepartment), movieIDs, nullTime(a.UpdatedAt),
	).Scan(&id)
	return id, err
}

// UpdateActor merge-writes upd into the actor with the given provider id.
func (db *DB) UpdateActor(ctx context.Context, externalID int64, upd *models.ActorUpdate) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		sets []string
		args []interface{}
	)
	if d := upd.Details; d != nil {
		sets = append(sets, "name = ?", "biography = ?", "profile_path = ?", "birthday = ?",
			"deathday = ?", "popularity = ?", "place_of_birth = ?", "known_for_department = ?")
		args = append(args, d.Name, d.Biography, nullString(d.ProfilePath), nullString(d.Birthday),
			nullString(d.Deathday), d.Popularity, nullString(d.PlaceOfBirth),
			nullString(d.KnownForDepartment))
	}
	if upd.MovieIDs != nil {
		text, err := marshalText(upd.MovieIDs)
		if err != nil {
			return models.StorageErr("update actors", err)
		}
		sets = append(sets, "movie_ids = ?")
		args = append(args, text)
	}
	if upd.UpdatedAt != nil {
		sets = append(sets, "updated_at = ?")
		args = append(args, upd.UpdatedAt.UTC())
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, externalID)
	query := `UPDATE actors SET ` + strings.Join(sets, ", ") + ` WHERE external_id = ?`

	start := time.Now()
	var affected int64
	err := retryOnConflict(ctx, func() error {
		res, err := db.conn.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return observe("update", "actors", start, err)
	}
	_ = observe("update", "actors", start, nil)
	if affected == 0 {
		return fmt.Errorf("update actor %d: %w", externalID, models.ErrNotFound)
	}
	return nil
}

// FindActorsByIDs returns the actors with the given internal ids in no
// particular order. Unknown ids are skipped.
func (db *DB) FindActorsByIDs(ctx context.Context, ids []int64) ([]*models.Actor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+actorColumns+` FROM actors WHERE id IN (`+placeholders(len(ids))+`)`,
		int64Args(ids)...)
	if err != nil {
		return nil, observe("find_many", "actors", start, err)
	}
	defer closeRows(rows)

	actors := make([]*models.Actor, 0, len(ids))
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, observe("find_many", "actors", start, err)
		}
		actors = append(actors, a)
	}
	return actors, observe("find_many", "actors", start, rows.Err())
}
