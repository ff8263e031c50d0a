package movies_test

import (
	"context"
	"errors"
	"testing"

	"cineswipe/models"
	"cineswipe/services/movies"
)

type stubKeywords struct {
	byID map[int64][]string
	err  error
}

func (s *stubKeywords) Keywords(_ context.Context, tmdbID int64) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byID[tmdbID], nil
}

func TestFilterAdultBlocksTitlesAndTerms(t *testing.T) {
	filter := movies.NewFilter(&stubKeywords{byID: map[int64][]string{
		4: {"road trip", "erotic thriller"},
	}})

	in := []models.Movie{
		{TMDBID: 1, Title: "The Iron Giant"},
		{TMDBID: 2, Title: "Tuhog"},
		{TMDBID: 3, Title: "Quiet Nights", Overview: "A hardcore look at insomnia."},
		{TMDBID: 4, Title: "Open Road"},
		{TMDBID: 5, Title: "Paddington"},
	}
	out := filter.FilterAdult(context.Background(), in)

	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d: %+v", len(out), out)
	}
	if out[0].TMDBID != 1 || out[1].TMDBID != 5 {
		t.Fatalf("expected order-preserving survivors [1 5], got [%d %d]", out[0].TMDBID, out[1].TMDBID)
	}
}

func TestFilterAdultToleratesKeywordErrors(t *testing.T) {
	filter := movies.NewFilter(&stubKeywords{err: errors.New("tmdb down")})

	in := []models.Movie{{TMDBID: 1, Title: "The Iron Giant"}}
	out := filter.FilterAdult(context.Background(), in)
	if len(out) != 1 {
		t.Fatalf("keyword failure should not drop movies, got %d", len(out))
	}
}

func TestFilterSeen(t *testing.T) {
	in := []models.Movie{{TMDBID: 1}, {TMDBID: 2}, {TMDBID: 3}}
	out := movies.FilterSeen(in, map[int64]bool{2: true})
	if len(out) != 2 || out[0].TMDBID != 1 || out[1].TMDBID != 3 {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestChildSafe(t *testing.T) {
	cases := []struct {
		name  string
		movie models.Movie
		want  bool
	}{
		{
			name:  "family movie passes",
			movie: models.Movie{Title: "Up", GenreIDs: []int64{models.GenreFamily}, VoteCount: 900, Rating: 8.2},
			want:  true,
		},
		{
			name:  "adult flag fails",
			movie: models.Movie{Adult: true, GenreIDs: []int64{models.GenreFamily}, VoteCount: 900, Rating: 8.2},
			want:  false,
		},
		{
			name:  "horror genre fails",
			movie: models.Movie{GenreIDs: []int64{models.GenreHorror, models.GenreFamily}, VoteCount: 900, Rating: 8.2},
			want:  false,
		},
		{
			name:  "too few votes fails",
			movie: models.Movie{GenreIDs: []int64{models.GenreFamily}, VoteCount: 49, Rating: 8.2},
			want:  false,
		},
		{
			name:  "low rating fails",
			movie: models.Movie{GenreIDs: []int64{models.GenreFamily}, VoteCount: 900, Rating: 5.4},
			want:  false,
		},
		{
			name:  "no genre info passes",
			movie: models.Movie{VoteCount: 900, Rating: 7.0},
			want:  true,
		},
		{
			name:  "non-friendly genre fails",
			movie: models.Movie{GenreIDs: []int64{models.GenreDrama}, VoteCount: 900, Rating: 7.0},
			want:  false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := movies.ChildSafe(tc.movie); got != tc.want {
				t.Fatalf("ChildSafe = %t, want %t", got, tc.want)
			}
		})
	}
}
