// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package enrich

import (
	"context"
	"sort"

	"github.com/tomtom215/cinecache/internal/models"
)

// Resolver turns stored internal references into bounded public projections.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver over store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// MovieCredits resolves credit references to actor projections. Cast keeps
// credit order and is capped at models.MaxCastProjection; crew is uncapped.
// References to actors that no longer resolve are skipped.
func (r *Resolver) MovieCredits(ctx context.Context, refs *models.CreditRefs) (models.CreditsView, error) {
	view := models.CreditsView{Cast: []models.CastProjection{}, Crew: []models.CastProjection{}}
	if refs == nil {
		return view, nil
	}

	cast := refs.Cast
	if len(cast) > models.MaxCastProjection {
		cast = cast[:models.MaxCastProjection]
	}

	ids := make([]int64, 0, len(cast)+len(refs.Crew))
	for _, ref := range cast {
		ids = append(ids, ref.ActorID)
	}
	for _, ref := range refs.Crew {
		ids = append(ids, ref.ActorID)
	}
	if len(ids) == 0 {
		return view, nil
	}

	actors, err := r.store.FindActorsByIDs(ctx, ids)
	if err != nil {
		return view, err
	}
	byID := make(map[int64]*models.Actor, len(actors))
	for _, a := range actors {
		byID[a.ID] = a
	}

	project := func(refs []models.CreditRef) []models.CastProjection {
		out := make([]models.CastProjection, 0, len(refs))
		for _, ref := range refs {
			a, ok := byID[ref.ActorID]
			if !ok {
				continue
			}
			out = append(out, models.CastProjection{
				ExternalID:  a.ExternalID,
				Name:        a.Name,
				ProfilePath: a.ProfilePath,
				Popularity:  a.Popularity,
				Department:  a.KnownForDepartment,
				Character:   ref.Character,
				Job:         ref.Job,
			})
		}
		return out
	}
	view.Cast = project(cast)
	view.Crew = project(refs.Crew)
	return view, nil
}

// ActorMovies resolves movie references to projections sorted by
// popularity descending and capped at models.MaxActorMovies.
func (r *Resolver) ActorMovies(ctx context.Context, movieIDs []int64) ([]models.MovieProjection, error) {
	if len(movieIDs) == 0 {
		return []models.MovieProjection{}, nil
	}
	movies, err := r.store.FindMoviesByIDs(ctx, movieIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.MovieProjection, 0, len(movies))
	for _, m := range movies {
		out = append(out, models.MovieProjection{
			ExternalID: m.ExternalID,
			Title:      m.Title,
			PosterPath: m.PosterPath,
			Popularity: m.Popularity,
		})
	}
	sortByPopularity(out)
	if len(out) > models.MaxActorMovies {
		out = out[:models.MaxActorMovies]
	}
	return out, nil
}

// sortByPopularity orders projections by popularity descending, then by
// external id for a stable result.
func sortByPopularity(ms []models.MovieProjection) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Popularity != ms[j].Popularity {
			return ms[i].Popularity > ms[j].Popularity
		}
		return ms[i].ExternalID < ms[j].ExternalID
	})
}
