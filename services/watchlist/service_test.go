package watchlist_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"cineswipe/internal/database"
	"cineswipe/models"
	"cineswipe/services/watchlist"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Every test acts as user u1; the row satisfies the foreign keys.
	u := models.User{ID: "u1", Username: "u1", Email: "u1@example.com", PasswordHash: "x"}
	if err := (database.UserRepo{}).Insert(context.Background(), db, &u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return db
}

func seedMovie(t *testing.T, db *sql.DB, m models.Movie) models.Movie {
	t.Helper()
	var repo database.MovieRepo
	if err := repo.Upsert(context.Background(), db, &m); err != nil {
		t.Fatalf("seed movie failed: %v", err)
	}
	return m
}

func intp(v int) *int { return &v }

func TestAddRecordsLike(t *testing.T) {
	db := openDB(t)
	svc := watchlist.NewService(db)
	ctx := context.Background()

	movie := seedMovie(t, db, models.Movie{TMDBID: 157336, Title: "Interstellar", Year: 2014, Rating: 8.4})

	entry, err := svc.Add(ctx, "u1", 157336)
	if err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if entry.Movie == nil || entry.Movie.TMDBID != 157336 {
		t.Fatalf("movie not attached: %+v", entry.Movie)
	}
	if entry.Watched {
		t.Fatal("new entry should start unwatched")
	}

	var interactions database.InteractionRepo
	it, err := interactions.Get(ctx, db, "u1", movie.ID)
	if err != nil {
		t.Fatalf("interaction lookup failed: %v", err)
	}
	if it.Kind != models.InteractionLike {
		t.Fatalf("adding should record a LIKE, got %q", it.Kind)
	}
}

func TestAddConflicts(t *testing.T) {
	db := openDB(t)
	svc := watchlist.NewService(db)
	ctx := context.Background()

	seedMovie(t, db, models.Movie{TMDBID: 157336, Title: "Interstellar"})

	if _, err := svc.Add(ctx, "u1", 157336); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if _, err := svc.Add(ctx, "u1", 157336); !errors.Is(err, watchlist.ErrAlreadyListed) {
		t.Fatalf("expected ErrAlreadyListed, got %v", err)
	}
	if _, err := svc.Add(ctx, "u1", 424242); !errors.Is(err, watchlist.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound for uncached movie, got %v", err)
	}
}

func TestRemoveKeepsLike(t *testing.T) {
	db := openDB(t)
	svc := watchlist.NewService(db)
	ctx := context.Background()

	movie := seedMovie(t, db, models.Movie{TMDBID: 157336, Title: "Interstellar"})
	if _, err := svc.Add(ctx, "u1", 157336); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if err := svc.Remove(ctx, "u1", 157336); err != nil {
		t.Fatalf("remove returned error: %v", err)
	}
	if err := svc.Remove(ctx, "u1", 157336); !errors.Is(err, watchlist.ErrNotListed) {
		t.Fatalf("expected ErrNotListed, got %v", err)
	}

	var interactions database.InteractionRepo
	if _, err := interactions.Get(ctx, db, "u1", movie.ID); err != nil {
		t.Fatalf("removing from the watchlist should keep the LIKE verdict: %v", err)
	}
}

func TestSetWatched(t *testing.T) {
	db := openDB(t)
	svc := watchlist.NewService(db)
	ctx := context.Background()

	seedMovie(t, db, models.Movie{TMDBID: 157336, Title: "Interstellar"})
	if _, err := svc.Add(ctx, "u1", 157336); err != nil {
		t.Fatalf("add returned error: %v", err)
	}

	rating := 9.5
	entry, err := svc.SetWatched(ctx, "u1", 157336, true, &rating)
	if err != nil {
		t.Fatalf("set watched returned error: %v", err)
	}
	if !entry.Watched || entry.WatchedAt == nil {
		t.Fatalf("entry not marked watched: %+v", entry)
	}
	if entry.UserRating == nil || *entry.UserRating != 9.5 {
		t.Fatalf("user rating = %v, want 9.5", entry.UserRating)
	}

	entry, err = svc.SetWatched(ctx, "u1", 157336, false, nil)
	if err != nil {
		t.Fatalf("unwatch returned error: %v", err)
	}
	if entry.Watched || entry.WatchedAt != nil || entry.UserRating != nil {
		t.Fatalf("unwatching should clear state: %+v", entry)
	}

	bad := 11.0
	if _, err := svc.SetWatched(ctx, "u1", 157336, true, &bad); !errors.Is(err, watchlist.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
}

func TestListFiltersWatched(t *testing.T) {
	db := openDB(t)
	svc := watchlist.NewService(db)
	ctx := context.Background()

	seedMovie(t, db, models.Movie{TMDBID: 1, Title: "A"})
	seedMovie(t, db, models.Movie{TMDBID: 2, Title: "B"})
	for _, id := range []int64{1, 2} {
		if _, err := svc.Add(ctx, "u1", id); err != nil {
			t.Fatalf("add returned error: %v", err)
		}
	}
	if _, err := svc.SetWatched(ctx, "u1", 1, true, nil); err != nil {
		t.Fatalf("set watched returned error: %v", err)
	}

	watched := true
	entries, total, err := svc.List(ctx, "u1", &watched, 0, 0)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if len(entries) != 1 || entries[0].Movie.TMDBID != 1 {
		t.Fatalf("watched filter broken: %+v", entries)
	}
}

func TestStats(t *testing.T) {
	db := openDB(t)
	svc := watchlist.NewService(db)
	ctx := context.Background()

	seedMovie(t, db, models.Movie{
		TMDBID: 1, Title: "A", Year: 1994, Rating: 8.0, Runtime: intp(120),
		GenreIDs: []int64{models.GenreDrama},
	})
	seedMovie(t, db, models.Movie{
		TMDBID: 2, Title: "B", Year: 2014, Rating: 7.0, Runtime: intp(100),
		GenreIDs: []int64{models.GenreDrama, models.GenreScienceFiction},
	})
	for _, id := range []int64{1, 2} {
		if _, err := svc.Add(ctx, "u1", id); err != nil {
			t.Fatalf("add returned error: %v", err)
		}
	}
	rating := 9.0
	if _, err := svc.SetWatched(ctx, "u1", 1, true, &rating); err != nil {
		t.Fatalf("set watched returned error: %v", err)
	}

	stats, err := svc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats returned error: %v", err)
	}
	if stats.Total != 2 || stats.Watched != 1 || stats.Unwatched != 1 {
		t.Fatalf("counters wrong: %+v", stats)
	}
	if stats.AverageRating != 7.5 {
		t.Fatalf("average rating = %v, want 7.5", stats.AverageRating)
	}
	if stats.AverageUserRating == nil || *stats.AverageUserRating != 9.0 {
		t.Fatalf("average user rating = %v, want 9.0", stats.AverageUserRating)
	}
	if stats.AverageRuntime != 110 {
		t.Fatalf("average runtime = %d, want 110", stats.AverageRuntime)
	}
	if stats.Genres["Drama"] != 2 || stats.Genres["Science Fiction"] != 1 {
		t.Fatalf("genre distribution wrong: %v", stats.Genres)
	}
	if stats.DecadeDistribution[1990] != 1 || stats.DecadeDistribution[2010] != 1 {
		t.Fatalf("decade distribution wrong: %v", stats.DecadeDistribution)
	}
	if stats.AddedThisWeek != 2 || stats.AddedThisMonth != 2 {
		t.Fatalf("recency counters wrong: %+v", stats)
	}
}
