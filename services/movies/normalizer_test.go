package movies_test

import (
	"testing"

	"cineswipe/services/movies"
	"cineswipe/services/tmdb"
)

func TestNormalizeParsesYear(t *testing.T) {
	m := movies.Normalize(tmdb.RawMovie{
		ID:          550,
		Title:       "Fight Club",
		ReleaseDate: "1999-10-15",
		VoteAverage: 8.4,
		GenreIDs:    []int64{18},
	})
	if m.TMDBID != 550 {
		t.Fatalf("tmdb id = %d, want 550", m.TMDBID)
	}
	if m.Year != 1999 {
		t.Fatalf("year = %d, want 1999", m.Year)
	}
	if m.Rating != 8.4 {
		t.Fatalf("rating = %v, want 8.4", m.Rating)
	}
}

func TestNormalizeBadReleaseDate(t *testing.T) {
	for _, date := range []string{"", "19", "not-a-date"} {
		if m := movies.Normalize(tmdb.RawMovie{ReleaseDate: date}); m.Year != 0 {
			t.Fatalf("date %q: year = %d, want 0", date, m.Year)
		}
	}
}

func TestNormalizeDetailsRuntime(t *testing.T) {
	d := &tmdb.MovieDetails{
		ID:          603,
		Title:       "The Matrix",
		ReleaseDate: "1999-03-30",
		Runtime:     136,
	}
	d.Genres = append(d.Genres, struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}{ID: 28, Name: "Action"})

	m := movies.NormalizeDetails(d)
	if m.Runtime == nil || *m.Runtime != 136 {
		t.Fatalf("runtime not carried over: %v", m.Runtime)
	}
	if len(m.GenreIDs) != 1 || m.GenreIDs[0] != 28 {
		t.Fatalf("genre ids = %v, want [28]", m.GenreIDs)
	}

	d.Runtime = 0
	if m := movies.NormalizeDetails(d); m.Runtime != nil {
		t.Fatalf("zero runtime should stay nil, got %d", *m.Runtime)
	}
}
