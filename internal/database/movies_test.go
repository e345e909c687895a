// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package database

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/cinecache/internal/models"
)

func sampleMovie(extID int64, title string, genres ...string) *models.Movie {
	gs := make([]models.Genre, len(genres))
	for i, g := range genres {
		gs[i] = models.Genre{Name: g}
	}
	return &models.Movie{
		ExternalID:  extID,
		Title:       title,
		Overview:    title + " overview",
		PosterPath:  "/" + title + ".jpg",
		VoteAverage: 7.5,
		VoteCount:   200,
		Popularity:  10,
		ReleaseDate: "1999-03-31",
		Genres:      gs,
	}
}

func TestGetMovie_Missing(t *testing.T) {
	db := setupTestDB(t)

	m, err := db.GetMovie(testCtx(t), 42)
	checkNoError(t, err)
	if m != nil {
		t.Fatalf("GetMovie() = %+v, want nil", m)
	}
}

func TestUpsertMovie_InsertAndRead(t *testing.T) {
	db := setupTestDB(t)

	in := sampleMovie(603, "The Matrix", "Action", " action ", "Science Fiction", "")
	in.Runtime = intp(136)
	in.CreditsState = models.CreditsEmbedded
	in.Embedded = &models.RawCredits{
		Cast: []models.CastMember{{ID: 6384, Name: "Keanu Reeves", Character: "Neo"}},
	}
	id := seedMovie(t, db, in)
	if id <= 0 {
		t.Fatalf("UpsertMovie() id = %d, want > 0", id)
	}

	got, err := db.GetMovie(testCtx(t), 603)
	checkNoError(t, err)
	if got == nil {
		t.Fatal("GetMovie() = nil after upsert")
	}
	checkStringEqual(t, "Title", got.Title, "The Matrix")
	if got.ID != id {
		t.Errorf("ID = %d, want %d", got.ID, id)
	}
	if got.Runtime == nil || *got.Runtime != 136 {
		t.Errorf("Runtime = %v, want 136", got.Runtime)
	}
	checkTitles(t, models.GenreNames(got.Genres), "Action", "Science Fiction")
	if got.CreditsState != models.CreditsEmbedded || got.Embedded == nil {
		t.Fatalf("credits state = %q, embedded = %v", got.CreditsState, got.Embedded)
	}
	if got.Refs != nil || got.IsNormalized() {
		t.Error("embedded movie must not carry normalized refs")
	}
	checkStringEqual(t, "cast[0].Name", got.Embedded.Cast[0].Name, "Keanu Reeves")
}

func TestUpsertMovie_ExistingRowNotOverwritten(t *testing.T) {
	db := setupTestDB(t)

	first := seedMovie(t, db, sampleMovie(1, "Original"))
	second := seedMovie(t, db, sampleMovie(1, "Replacement"))
	if first != second {
		t.Fatalf("ids differ: %d vs %d", first, second)
	}

	got, err := db.GetMovie(testCtx(t), 1)
	checkNoError(t, err)
	checkStringEqual(t, "Title", got.Title, "Original")

	n, err := db.CountMovies(testCtx(t))
	checkNoError(t, err)
	checkIntEqual(t, "CountMovies", n, 1)
}

func TestUpsertMovie_ConcurrentSameExternalID(t *testing.T) {
	db := setupTestDB(t)

	const goroutines = 20
	var wg sync.WaitGroup
	ids := make(chan int64, goroutines)
	errCh := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := db.UpsertMovie(testCtx(t), sampleMovie(550, fmt.Sprintf("Fight Club %d", i), "Drama"))
			if err != nil {
				errCh <- err
				return
			}
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)
	close(errCh)

	for err := range errCh {
		t.Errorf("concurrent upsert error: %v", err)
	}
	var want int64
	for id := range ids {
		if want == 0 {
			want = id
		}
		if id != want {
			t.Errorf("got id %d, want every caller to see %d", id, want)
		}
	}

	n, err := db.CountMovies(testCtx(t))
	checkNoError(t, err)
	checkIntEqual(t, "CountMovies", n, 1)

	stats, err := db.GenreStats(testCtx(t))
	checkNoError(t, err)
	checkIntEqual(t, "Drama count", stats["Drama"].Count, 1)
}

func TestUpdateMovie_Normalizes(t *testing.T) {
	db := setupTestDB(t)

	in := sampleMovie(603, "The Matrix", "Action")
	in.CreditsState = models.CreditsEmbedded
	in.Embedded = &models.RawCredits{Cast: []models.CastMember{{ID: 6384, Name: "Keanu Reeves"}}}
	seedMovie(t, db, in)

	fetched := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	upd := &models.MovieUpdate{
		Refs: &models.CreditRefs{
			Cast: []models.CreditRef{{ActorID: 7, Character: "Neo"}},
			Crew: []models.CreditRef{{ActorID: 8, Job: "Director"}},
		},
		Videos:    []byte(`{"results":[{"key":"abc"}]}`),
		Runtime:   intp(136),
		FetchedAt: &fetched,
	}
	checkNoError(t, db.UpdateMovie(testCtx(t), 603, upd))

	got, err := db.GetMovie(testCtx(t), 603)
	checkNoError(t, err)
	if !got.IsNormalized() {
		t.Fatalf("movie not normalized: state=%q", got.CreditsState)
	}
	if got.Embedded != nil {
		t.Error("normalized movie still carries embedded credits")
	}
	if len(got.Refs.Cast) != 1 || got.Refs.Cast[0].ActorID != 7 {
		t.Errorf("Refs.Cast = %+v", got.Refs.Cast)
	}
	if got.Runtime == nil || *got.Runtime != 136 {
		t.Errorf("Runtime = %v, want 136", got.Runtime)
	}
	if got.FetchedAt == nil || !got.FetchedAt.Equal(fetched) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, fetched)
	}
	if len(got.Videos) == 0 {
		t.Error("Videos not stored")
	}
	checkStringEqual(t, "Title", got.Title, "The Matrix")
}

func TestUpdateMovie_CoreReplacesGenres(t *testing.T) {
	db := setupTestDB(t)
	seedMovie(t, db, sampleMovie(10, "Old", "Action"))

	core := sampleMovie(10, "New", "Comedy", "Drama")
	checkNoError(t, db.UpdateMovie(testCtx(t), 10, &models.MovieUpdate{Core: core}))

	got, err := db.GetMovie(testCtx(t), 10)
	checkNoError(t, err)
	checkStringEqual(t, "Title", got.Title, "New")

	stats, err := db.GenreStats(testCtx(t))
	checkNoError(t, err)
	if _, ok := stats["Action"]; ok {
		t.Error("stale Action genre row left behind")
	}
	checkIntEqual(t, "Comedy count", stats["Comedy"].Count, 1)
	checkIntEqual(t, "Drama count", stats["Drama"].Count, 1)
}

func TestUpdateMovie_Missing(t *testing.T) {
	db := setupTestDB(t)

	err := db.UpdateMovie(testCtx(t), 999, &models.MovieUpdate{Runtime: intp(90)})
	checkError(t, err)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateMovie() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateMovie_EmptyUpdateIsNoop(t *testing.T) {
	db := setupTestDB(t)
	checkNoError(t, db.UpdateMovie(testCtx(t), 999, &models.MovieUpdate{}))
}

func TestFindMoviesByIDs(t *testing.T) {
	db := setupTestDB(t)

	a := seedMovie(t, db, sampleMovie(1, "A"))
	b := seedMovie(t, db, sampleMovie(2, "B"))
	seedMovie(t, db, sampleMovie(3, "C"))

	got, err := db.FindMoviesByIDs(testCtx(t), []int64{a, b, 9999})
	checkNoError(t, err)
	checkIntEqual(t, "len", len(got), 2)

	seen := map[string]bool{}
	for _, m := range got {
		seen[m.Title] = true
	}
	if !seen["A"] || !seen["B"] {
		t.Errorf("FindMoviesByIDs() titles = %v", seen)
	}

	none, err := db.FindMoviesByIDs(testCtx(t), nil)
	checkNoError(t, err)
	checkIntEqual(t, "empty len", len(none), 0)
}
