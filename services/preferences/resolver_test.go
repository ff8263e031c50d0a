package preferences_test

import (
	"testing"

	"cineswipe/models"
	"cineswipe/services/preferences"
)

func boolptr(v bool) *bool { return &v }

func intptr(v int) *int { return &v }

func floatptr(v float64) *float64 { return &v }

func svc() *preferences.Service { return preferences.NewService(nil) }

func defaults() models.Preferences { return models.DefaultPreferences("u1") }

func TestDiscoverParamsDefaults(t *testing.T) {
	p := defaults()
	params := svc().DiscoverParams(&p, 1)

	if params.WithGenres != "" {
		t.Fatalf("expected no genre filter, got %q", params.WithGenres)
	}
	if params.VoteCountGTE != 100 {
		t.Fatalf("vote count floor = %d, want 100", params.VoteCountGTE)
	}
	if params.SortBy != "popularity.desc" {
		t.Fatalf("sort = %q", params.SortBy)
	}
}

func TestDiscoverParamsFullProfile(t *testing.T) {
	p := defaults()
	p.Horror = boolptr(true)
	p.MinYear = intptr(2010)
	p.MaxYear = intptr(2015)
	p.MinRating = floatptr(7.0)
	p.RuntimePreference = models.RuntimeShort

	params := svc().DiscoverParams(&p, 3)

	if params.WithGenres != "27" {
		t.Fatalf("genre = %q, want 27 (horror)", params.WithGenres)
	}
	if params.PrimaryReleaseGTE != "2010-01-01" || params.PrimaryReleaseLTE != "2015-12-31" {
		t.Fatalf("year window = %q..%q", params.PrimaryReleaseGTE, params.PrimaryReleaseLTE)
	}
	if params.VoteAverageGTE != 7.0 {
		t.Fatalf("min rating = %v, want 7.0", params.VoteAverageGTE)
	}
	if params.RuntimeLTE != 89 || params.RuntimeGTE != 0 {
		t.Fatalf("short runtime bucket = %d..%d, want ..89", params.RuntimeGTE, params.RuntimeLTE)
	}
	if params.Page != 3 {
		t.Fatalf("page = %d, want 3", params.Page)
	}
}

func TestDiscoverParamsGenrePriority(t *testing.T) {
	p := defaults()
	p.Action = boolptr(true)
	p.Documentary = boolptr(true)

	params := svc().DiscoverParams(&p, 1)
	if params.WithGenres != "99" {
		t.Fatalf("documentary should outrank action, got genre %q", params.WithGenres)
	}
}

func TestDiscoverParamsAnime(t *testing.T) {
	p := defaults()
	p.Anime = boolptr(true)

	params := svc().DiscoverParams(&p, 1)
	if params.WithGenres != "16" {
		t.Fatalf("anime should query animation genre, got %q", params.WithGenres)
	}
	if params.WithOriginCountry != "JP" {
		t.Fatalf("anime should pin origin country JP, got %q", params.WithOriginCountry)
	}
	if params.VoteCountGTE != 50 {
		t.Fatalf("anime vote floor = %d, want 50", params.VoteCountGTE)
	}
}

func TestDiscoverParamsRuntimeBuckets(t *testing.T) {
	cases := []struct {
		pref     string
		gte, lte int
	}{
		{models.RuntimeShort, 0, 89},
		{models.RuntimeMedium, 90, 150},
		{models.RuntimeLong, 151, 0},
		{models.RuntimeAny, 0, 0},
	}
	for _, tc := range cases {
		p := defaults()
		p.RuntimePreference = tc.pref
		params := svc().DiscoverParams(&p, 1)
		if params.RuntimeGTE != tc.gte || params.RuntimeLTE != tc.lte {
			t.Errorf("%s: runtime window = %d..%d, want %d..%d",
				tc.pref, params.RuntimeGTE, params.RuntimeLTE, tc.gte, tc.lte)
		}
	}
}
