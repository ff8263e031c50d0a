package movies_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"cineswipe/internal/database"
	"cineswipe/models"
	"cineswipe/services/movies"
	"cineswipe/services/preferences"
	"cineswipe/services/tmdb"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	u := models.User{ID: id, Username: id, Email: id + "@example.com", PasswordHash: "x"}
	if err := (database.UserRepo{}).Insert(context.Background(), db, &u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func newService(t *testing.T, db *sql.DB, handler http.Handler) (*movies.Service, *preferences.Service) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := tmdb.NewClient("test-key", "en-US", tmdb.WithBaseURL(server.URL))
	prefsSvc := preferences.NewService(db)
	return movies.NewService(client, movies.NewFilter(client), db, prefsSvc, "en-US"), prefsSvc
}

func emptyList(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte(`{"page":1,"results":[],"keywords":[]}`))
}

func TestDiscoverKeepsMatureTitlesInChildMode(t *testing.T) {
	db := openDB(t)
	seedUser(t, db, "u1")

	m := http.NewServeMux()
	m.HandleFunc("/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"results":[{"id":694,"title":"The Shining","release_date":"1980-05-23","vote_average":8.2,"vote_count":17000,"genre_ids":[27,53]}]}`))
	})
	m.HandleFunc("/", emptyList)
	svc, prefsSvc := newService(t, db, m)

	prefs := models.DefaultPreferences("u1")
	prefs.ChildMode = true
	if _, err := prefsSvc.Save(context.Background(), &prefs); err != nil {
		t.Fatalf("save prefs: %v", err)
	}

	// Child mode tightens the recommendation feed only; the discovery deck
	// still shows well-rated horror.
	out, err := svc.Discover(context.Background(), "u1", 1, "")
	if err != nil {
		t.Fatalf("discover returned error: %v", err)
	}
	if len(out) != 1 || out[0].Title != "The Shining" {
		t.Fatalf("child mode thinned the discovery deck: %+v", out)
	}
}

func TestDiscoverThreadsRequestLanguage(t *testing.T) {
	db := openDB(t)
	seedUser(t, db, "u1")

	var got url.Values
	m := http.NewServeMux()
	m.HandleFunc("/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"page":1,"results":[]}`))
	})
	m.HandleFunc("/", emptyList)
	svc, _ := newService(t, db, m)
	ctx := context.Background()

	if _, err := svc.Discover(ctx, "u1", 1, "hu"); err != nil {
		t.Fatalf("discover returned error: %v", err)
	}
	if got.Get("language") != "hu-HU" {
		t.Fatalf("language = %q, want hu-HU", got.Get("language"))
	}

	// No override falls back to the configured default.
	if _, err := svc.Discover(ctx, "u1", 1, ""); err != nil {
		t.Fatalf("discover returned error: %v", err)
	}
	if got.Get("language") != "en-US" {
		t.Fatalf("language = %q, want en-US", got.Get("language"))
	}

	// Full locales pass through untouched.
	if _, err := svc.Discover(ctx, "u1", 1, "pt-BR"); err != nil {
		t.Fatalf("discover returned error: %v", err)
	}
	if got.Get("language") != "pt-BR" {
		t.Fatalf("language = %q, want pt-BR", got.Get("language"))
	}
}

type stubDetails struct {
	runtimes map[int64]int
	calls    int
}

func (s *stubDetails) Details(_ context.Context, id int64) (*tmdb.MovieDetails, error) {
	s.calls++
	return &tmdb.MovieDetails{ID: id, Runtime: s.runtimes[id]}, nil
}

func TestFillRuntimesStopsAtLimit(t *testing.T) {
	src := &stubDetails{runtimes: map[int64]int{1: 100, 4: 111}}
	have := 95
	ms := []*models.Movie{
		{TMDBID: 1},
		{TMDBID: 2},
		{TMDBID: 3, Runtime: &have},
		{TMDBID: 4},
		{TMDBID: 5},
		{TMDBID: 6},
	}

	filled := movies.FillRuntimes(context.Background(), src, ms)

	if len(filled) != 2 || filled[0].TMDBID != 1 || filled[1].TMDBID != 4 {
		t.Fatalf("filled = %+v, want movies 1 and 4", filled)
	}
	if ms[0].Runtime == nil || *ms[0].Runtime != 100 {
		t.Fatalf("movie 1 runtime = %v, want 100", ms[0].Runtime)
	}
	if *ms[2].Runtime != 95 {
		t.Fatal("pre-set runtime must not be refetched")
	}
	if ms[5].Runtime != nil {
		t.Fatal("movies past the enrichment cutoff must stay untouched")
	}
	// Movies 1, 2, 4, 5 fetched; 3 skipped, 6 past the cutoff.
	if src.calls != 4 {
		t.Fatalf("details calls = %d, want 4", src.calls)
	}
}

func TestEnrichRuntimesPersistsCachedRows(t *testing.T) {
	db := openDB(t)

	m := http.NewServeMux()
	m.HandleFunc("/movie/603", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":603,"title":"The Matrix","runtime":136}`))
	})
	m.HandleFunc("/", emptyList)
	svc, _ := newService(t, db, m)
	ctx := context.Background()

	seed := models.Movie{TMDBID: 603, Title: "The Matrix"}
	if err := (database.MovieRepo{}).Upsert(ctx, db, &seed); err != nil {
		t.Fatalf("seed movie: %v", err)
	}

	ms := []models.Movie{{TMDBID: 603, Title: "The Matrix"}}
	svc.EnrichRuntimes(ctx, ms)
	if ms[0].Runtime == nil || *ms[0].Runtime != 136 {
		t.Fatalf("runtime = %v, want 136", ms[0].Runtime)
	}

	got, err := (database.MovieRepo{}).ByTMDBID(ctx, db, 603)
	if err != nil {
		t.Fatalf("reload movie: %v", err)
	}
	if got.Runtime == nil || *got.Runtime != 136 {
		t.Fatalf("stored runtime = %v, want 136", got.Runtime)
	}
}
