// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package enrich

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/cinecache/internal/config"
	"github.com/tomtom215/cinecache/internal/logging"
	"github.com/tomtom215/cinecache/internal/metrics"
	"github.com/tomtom215/cinecache/internal/models"
	"github.com/tomtom215/cinecache/internal/provider"
	"github.com/tomtom215/cinecache/internal/wal"
)

// Orchestrator serves movie and actor details from the store, falling back
// to the provider on a miss and scheduling background normalization.
type Orchestrator struct {
	store    Store
	fetcher  provider.Fetcher
	resolver *Resolver
	pool     *Pool

	coalesce bool
	flights  singleflight.Group
}

// NewOrchestrator wires the store, provider and a worker pool. journal may
// be nil.
func NewOrchestrator(store Store, fetcher provider.Fetcher, cfg *config.EnrichConfig, journal *wal.Journal) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		fetcher:  fetcher,
		resolver: NewResolver(store),
		coalesce: cfg.Coalesce,
	}
	o.pool = NewPool(cfg, journal, o.handle)
	return o
}

// Pool returns the worker pool so it can be supervised.
func (o *Orchestrator) Pool() *Pool {
	return o.pool
}

// MovieDetails returns the detail view of a movie.
func (o *Orchestrator) MovieDetails(ctx context.Context, externalID int64) (*models.MovieDetailView, error) {
	stored, err := o.store.GetMovie(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if stored != nil {
		if stored.IsNormalized() {
			credits, err := o.resolver.MovieCredits(ctx, stored.Refs)
			if err != nil {
				return nil, err
			}
			metrics.RecordCacheLookup("movie", "normalized")
			return &models.MovieDetailView{
				MovieSummary: stored.Summary(),
				Credits:      credits,
				Videos:       stored.Videos,
				FetchedAt:    stored.FetchedAt,
				Source:       models.SourceNormalized,
			}, nil
		}

		metrics.RecordCacheLookup("movie", "stale")
		o.pool.Submit(context.WithoutCancel(ctx), movieTask(externalID, nil))
		return &models.MovieDetailView{
			MovieSummary: stored.Summary(),
			Credits:      creditsFromRaw(stored.Embedded),
			Videos:       stored.Videos,
			FetchedAt:    stored.FetchedAt,
			Source:       models.SourceStale,
		}, nil
	}

	metrics.RecordCacheLookup("movie", "miss")
	raw, err := o.fetchMovie(ctx, externalID)
	if err != nil {
		return nil, err
	}
	o.pool.Submit(context.WithoutCancel(ctx), movieTask(externalID, raw))

	return &models.MovieDetailView{
		MovieSummary: models.SummaryFromRaw(raw),
		Credits:      creditsFromRaw(raw.Credits),
		Videos:       raw.Videos,
		Source:       models.SourceProvider,
	}, nil
}

// ActorDetails returns the detail view of an actor.
func (o *Orchestrator) ActorDetails(ctx context.Context, externalID int64) (*models.ActorDetailView, error) {
	stored, err := o.store.GetActor(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if stored != nil {
		if stored.IsNormalized() {
			movies, err := o.resolver.ActorMovies(ctx, stored.MovieIDs)
			if err != nil {
				return nil, err
			}
			metrics.RecordCacheLookup("actor", "normalized")
			return &models.ActorDetailView{Actor: *stored, Movies: movies, Source: models.SourceNormalized}, nil
		}

		metrics.RecordCacheLookup("actor", "stale")
		o.pool.Submit(context.WithoutCancel(ctx), actorTask(externalID, nil))
		return &models.ActorDetailView{Actor: *stored, Movies: []models.MovieProjection{}, Source: models.SourceStale}, nil
	}

	metrics.RecordCacheLookup("actor", "miss")
	raw, err := o.fetchActor(ctx, externalID)
	if err != nil {
		return nil, err
	}
	o.pool.Submit(context.WithoutCancel(ctx), actorTask(externalID, raw))

	return &models.ActorDetailView{
		Actor:  *models.ActorFromRaw(raw),
		Movies: moviesFromCredits(raw.MovieCredits.Cast),
		Source: models.SourceProvider,
	}, nil
}

func (o *Orchestrator) fetchMovie(ctx context.Context, externalID int64) (*models.RawMovie, error) {
	if !o.coalesce {
		return o.fetcher.FetchMovie(ctx, externalID)
	}
	v, err := o.share(ctx, KindMovie, externalID, func(fctx context.Context) (interface{}, error) {
		return o.fetcher.FetchMovie(fctx, externalID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.RawMovie), nil
}

func (o *Orchestrator) fetchActor(ctx context.Context, externalID int64) (*models.RawActor, error) {
	if !o.coalesce {
		return o.fetcher.FetchActor(ctx, externalID)
	}
	v, err := o.share(ctx, KindActor, externalID, func(fctx context.Context) (interface{}, error) {
		return o.fetcher.FetchActor(fctx, externalID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.RawActor), nil
}

// share runs fn once per in-flight key. The shared call is detached from the
// first caller's cancellation and bounded by the provider timeout; each
// caller still returns as soon as its own context ends.
func (o *Orchestrator) share(ctx context.Context, kind Kind, externalID int64, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	key := string(kind) + ":" + strconv.FormatInt(externalID, 10)
	fctx := context.WithoutCancel(ctx)
	ch := o.flights.DoChan(key, func() (interface{}, error) {
		return fn(fctx)
	})
	select {
	case res := <-ch:
		if res.Shared {
			metrics.EnrichCoalesced.WithLabelValues(string(kind)).Inc()
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// handle is the pool handler.
func (o *Orchestrator) handle(ctx context.Context, t *Task) error {
	switch t.Kind {
	case KindMovie:
		return o.enrichMovie(ctx, t)
	case KindActor:
		return o.enrichActor(ctx, t)
	default:
		return fmt.Errorf("unknown task kind %q", t.Kind)
	}
}

// enrichMovie stores the movie, upserts every credited person and replaces
// the embedded credits with references.
func (o *Orchestrator) enrichMovie(ctx context.Context, t *Task) error {
	raw := t.Movie
	refetched := false
	if raw == nil {
		var err error
		if raw, err = o.fetcher.FetchMovie(ctx, t.ExternalID); err != nil {
			return err
		}
		refetched = true
	}

	movie := models.MovieFromRaw(raw)
	if _, err := o.store.UpsertMovie(ctx, movie); err != nil {
		return fmt.Errorf("upsert movie %d: %w", raw.ID, err)
	}

	refs := &models.CreditRefs{Cast: []models.CreditRef{}, Crew: []models.CreditRef{}}
	if raw.Credits != nil {
		seen := make(map[int64]int64)
		for i := range raw.Credits.Cast {
			c := &raw.Credits.Cast[i]
			id, err := o.upsertPerson(ctx, seen, c)
			if err != nil {
				return err
			}
			if id != 0 {
				refs.Cast = append(refs.Cast, models.CreditRef{ActorID: id, Character: c.Character})
			}
		}
		for i := range raw.Credits.Crew {
			c := &raw.Credits.Crew[i]
			id, err := o.upsertPerson(ctx, seen, c)
			if err != nil {
				return err
			}
			if id != 0 {
				refs.Crew = append(refs.Crew, models.CreditRef{ActorID: id, Job: c.Job})
			}
		}
	}

	now := time.Now().UTC()
	upd := &models.MovieUpdate{
		Refs:      refs,
		Videos:    raw.Videos,
		Runtime:   raw.Runtime,
		FetchedAt: &now,
	}
	if refetched {
		upd.Core = movie
	}
	if err := o.store.UpdateMovie(ctx, raw.ID, upd); err != nil {
		return fmt.Errorf("update movie %d: %w", raw.ID, err)
	}

	logging.Ctx(ctx).Debug().Int64("movie_id", raw.ID).Int("cast", len(refs.Cast)).Int("crew", len(refs.Crew)).
		Msg("Movie credits normalized")
	return nil
}

// upsertPerson returns the internal id of a credited person, reusing ids
// already resolved within the same task. Records without an id yield 0.
func (o *Orchestrator) upsertPerson(ctx context.Context, seen map[int64]int64, c *models.CastMember) (int64, error) {
	if c.ID == 0 {
		return 0, nil
	}
	if id, ok := seen[c.ID]; ok {
		return id, nil
	}
	id, err := o.store.UpsertActor(ctx, models.ActorFromCast(c))
	if err != nil {
		return 0, fmt.Errorf("upsert actor %d: %w", c.ID, err)
	}
	seen[c.ID] = id
	return id, nil
}

// enrichActor stores each credited movie, then the actor with its movie
// references.
func (o *Orchestrator) enrichActor(ctx context.Context, t *Task) error {
	raw := t.Actor
	if raw == nil {
		var err error
		if raw, err = o.fetcher.FetchActor(ctx, t.ExternalID); err != nil {
			return err
		}
	}

	seen := make(map[int64]struct{})
	movieIDs := make([]int64, 0, len(raw.MovieCredits.Cast))
	for i := range raw.MovieCredits.Cast {
		c := &raw.MovieCredits.Cast[i]
		if c.ID == 0 || c.Title == "" {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}

		id, err := o.store.UpsertMovie(ctx, models.MovieFromCredit(c))
		if err != nil {
			return fmt.Errorf("upsert movie %d: %w", c.ID, err)
		}
		movieIDs = append(movieIDs, id)
	}

	actor := models.ActorFromRaw(raw)
	if _, err := o.store.UpsertActor(ctx, actor); err != nil {
		return fmt.Errorf("upsert actor %d: %w", raw.ID, err)
	}

	now := time.Now().UTC()
	if err := o.store.UpdateActor(ctx, raw.ID, &models.ActorUpdate{
		Details:   actor,
		MovieIDs:  movieIDs,
		UpdatedAt: &now,
	}); err != nil {
		return fmt.Errorf("update actor %d: %w", raw.ID, err)
	}

	logging.Ctx(ctx).Debug().Int64("actor_id", raw.ID).Int("movies", len(movieIDs)).Msg("Actor filmography normalized")
	return nil
}

// creditsFromRaw projects embedded provider credits: the first cast members
// in provider order and the full crew.
func creditsFromRaw(raw *models.RawCredits) models.CreditsView {
	view := models.CreditsView{Cast: []models.CastProjection{}, Crew: []models.CastProjection{}}
	if raw == nil {
		return view
	}
	cast := raw.Cast
	if len(cast) > models.MaxCastProjection {
		cast = cast[:models.MaxCastProjection]
	}
	for i := range cast {
		view.Cast = append(view.Cast, models.CastFromMember(&cast[i]))
	}
	for i := range raw.Crew {
		view.Crew = append(view.Crew, models.CastFromMember(&raw.Crew[i]))
	}
	return view
}

// moviesFromCredits projects a person's movie credits by popularity.
func moviesFromCredits(credits []models.MovieCredit) []models.MovieProjection {
	out := make([]models.MovieProjection, 0, len(credits))
	for i := range credits {
		c := &credits[i]
		out = append(out, models.MovieProjection{
			ExternalID: c.ID,
			Title:      c.Title,
			PosterPath: c.PosterPath,
			Popularity: c.Popularity,
		})
	}
	sortByPopularity(out)
	if len(out) > models.MaxActorMovies {
		out = out[:models.MaxActorMovies]
	}
	return out
}
