// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package enrich

import (
	"context"

	"github.com/tomtom215/cinecache/internal/models"
)

// Store is the entity store surface used by the orchestrator.
// *database.DB implements it.
type Store interface {
	GetMovie(ctx context.Context, externalID int64) (*models.Movie, error)
	UpsertMovie(ctx context.Context, m *models.Movie) (int64, error)
	UpdateMovie(ctx context.Context, externalID int64, upd *models.MovieUpdate) error
	FindMoviesByIDs(ctx context.Context, ids []int64) ([]*models.Movie, error)

	GetActor(ctx context.Context, externalID int64) (*models.Actor, error)
	UpsertActor(ctx context.Context, a *models.Actor) (int64, error)
	UpdateActor(ctx context.Context, externalID int64, upd *models.ActorUpdate) error
	FindActorsByIDs(ctx context.Context, ids []int64) ([]*models.Actor, error)
}
