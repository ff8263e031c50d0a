package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cineswipe/services/tmdb"
)

func TestDiscoverSendsExpectedParams(t *testing.T) {
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page":1,"results":[{"id":42,"title":"Arrival","vote_average":7.9}]}`))
	}))
	defer server.Close()

	client := tmdb.NewClient("test-key", "en-US", tmdb.WithBaseURL(server.URL))
	results, err := client.Discover(context.Background(), tmdb.DiscoverParams{
		WithGenres:        "16",
		WithOriginCountry: "JP",
		PrimaryReleaseGTE: "2015-01-01",
		VoteCountGTE:      50,
		Page:              2,
	})
	if err != nil {
		t.Fatalf("discover returned error: %v", err)
	}
	if len(results) != 1 || results[0].ID != 42 {
		t.Fatalf("unexpected results: %+v", results)
	}

	expect := map[string]string{
		"api_key":                  "test-key",
		"language":                 "en-US",
		"with_genres":              "16",
		"with_origin_country":      "JP",
		"primary_release_date.gte": "2015-01-01",
		"vote_count.gte":           "50",
		"sort_by":                  "popularity.desc",
		"page":                     "2",
		"include_adult":            "false",
	}
	for key, want := range expect {
		if got := queryGet(query, key); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}
}

func TestDetailsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := tmdb.NewClient("test-key", "", tmdb.WithBaseURL(server.URL))
	_, err := client.Details(context.Background(), 999)
	if !errors.Is(err, tmdb.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRetriesOnServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"id":603,"title":"The Matrix","runtime":136,"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}]}`))
	}))
	defer server.Close()

	client := tmdb.NewClient("test-key", "", tmdb.WithBaseURL(server.URL))
	d, err := client.Details(context.Background(), 603)
	if err != nil {
		t.Fatalf("details returned error after retries: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if d.Runtime != 136 {
		t.Fatalf("runtime = %d, want 136", d.Runtime)
	}
	ids := d.GenreIDList()
	if len(ids) != 2 || ids[0] != 28 || ids[1] != 878 {
		t.Fatalf("unexpected genre ids: %v", ids)
	}
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := tmdb.NewClient("bad-key", "", tmdb.WithBaseURL(server.URL))
	if _, err := client.Popular(context.Background(), 1, ""); err == nil {
		t.Fatal("expected error for 401 response")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestUnconfiguredClient(t *testing.T) {
	client := tmdb.NewClient("", "")
	_, err := client.Popular(context.Background(), 1, "")
	if !errors.Is(err, tmdb.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestKeywords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603/keywords" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"keywords":[{"id":1,"name":"simulation"},{"id":2,"name":"dystopia"}]}`))
	}))
	defer server.Close()

	client := tmdb.NewClient("test-key", "", tmdb.WithBaseURL(server.URL))
	names, err := client.Keywords(context.Background(), 603)
	if err != nil {
		t.Fatalf("keywords returned error: %v", err)
	}
	if len(names) != 2 || names[0] != "simulation" {
		t.Fatalf("unexpected keywords: %v", names)
	}
}

func queryGet(q map[string][]string, key string) string {
	if vals := q[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}
