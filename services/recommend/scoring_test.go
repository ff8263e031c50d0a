package recommend

import (
	"testing"

	"cineswipe/models"
)

func TestScore(t *testing.T) {
	p := &Profile{
		TopGenres:      []int64{models.GenreAction, models.GenreScienceFiction},
		PreferredYears: &YearSpread{Average: 1999},
	}
	m := models.Movie{
		Rating:     8.0,
		GenreIDs:   []int64{models.GenreAction, models.GenreScienceFiction},
		Year:       1999,
		Popularity: 50,
	}

	// 80 rating + 40 genre overlap + 20 year proximity + 5 popularity
	if got := Score(p, m); got != 145 {
		t.Fatalf("score = %d, want 145", got)
	}
}

func TestScoreYearDistanceDecay(t *testing.T) {
	p := &Profile{PreferredYears: &YearSpread{Average: 2000}}

	near := Score(p, models.Movie{Rating: 7.0, Year: 2005})
	far := Score(p, models.Movie{Rating: 7.0, Year: 1960})
	if near <= far {
		t.Fatalf("closer year should score higher: near=%d far=%d", near, far)
	}
	// 40 years off exhausts the proximity bonus entirely.
	if far != 70 {
		t.Fatalf("distant year score = %d, want bare rating 70", far)
	}
}

func TestScoreWithoutProfileSignals(t *testing.T) {
	p := &Profile{}
	if got := Score(p, models.Movie{Rating: 6.5, Year: 2010}); got != 65 {
		t.Fatalf("score = %d, want 65", got)
	}
}

func TestRankIsStableAndDescending(t *testing.T) {
	p := &Profile{}
	ranked := rank(p, []models.Movie{
		{TMDBID: 1, Rating: 6.0},
		{TMDBID: 2, Rating: 8.0},
		{TMDBID: 3, Rating: 6.0},
	})
	if ranked[0].TMDBID != 2 {
		t.Fatalf("best movie first, got %d", ranked[0].TMDBID)
	}
	if ranked[1].TMDBID != 1 || ranked[2].TMDBID != 3 {
		t.Fatalf("equal scores should keep pool order, got %d %d", ranked[1].TMDBID, ranked[2].TMDBID)
	}
}

func TestDedupeFirstWins(t *testing.T) {
	out := dedupe([]models.Movie{
		{TMDBID: 1, Title: "first"},
		{TMDBID: 2},
		{TMDBID: 1, Title: "second"},
	})
	if len(out) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(out))
	}
	if out[0].Title != "first" {
		t.Fatalf("first occurrence should win, got %q", out[0].Title)
	}
}

func TestTopGenres(t *testing.T) {
	liked := []*models.Movie{
		{GenreIDs: []int64{models.GenreAction, models.GenreComedy}},
		{GenreIDs: []int64{models.GenreAction}},
		{GenreIDs: []int64{models.GenreAction, models.GenreDrama}},
		{GenreIDs: []int64{models.GenreComedy}},
	}
	top := topGenres(liked, 2)
	if len(top) != 2 || top[0] != models.GenreAction || top[1] != models.GenreComedy {
		t.Fatalf("top genres = %v", top)
	}
}

func TestDiscoveryGenresExcludesTop(t *testing.T) {
	p := &Profile{TopGenres: []int64{models.GenreAction, models.GenreComedy}}
	for _, g := range discoveryGenres(p) {
		if g == models.GenreAction || g == models.GenreComedy {
			t.Fatalf("discovery genres must exclude top genres, found %d", g)
		}
	}
}

func TestShareSplitsLimit(t *testing.T) {
	if n := share(15, preferenceShare); n != 6 {
		t.Fatalf("preference share of 15 = %d, want 6", n)
	}
	if n := share(15, discoveryShare); n < 1 {
		t.Fatalf("discovery pool must get at least one slot, got %d", n)
	}
}
