package movies

import (
	"strconv"

	"cineswipe/models"
	"cineswipe/services/tmdb"
)

// Normalize converts a TMDB list result into the local movie shape. The
// release year is parsed from the YYYY-MM-DD release date; a malformed or
// missing date leaves Year at zero.
func Normalize(raw tmdb.RawMovie) models.Movie {
	return models.Movie{
		TMDBID:           raw.ID,
		Title:            raw.Title,
		OriginalTitle:    raw.OriginalTitle,
		Overview:         raw.Overview,
		ReleaseDate:      raw.ReleaseDate,
		Year:             releaseYear(raw.ReleaseDate),
		Rating:           raw.VoteAverage,
		VoteCount:        raw.VoteCount,
		Popularity:       raw.Popularity,
		GenreIDs:         raw.GenreIDs,
		PosterPath:       raw.PosterPath,
		BackdropPath:     raw.BackdropPath,
		OriginalLanguage: raw.OriginalLanguage,
		Adult:            raw.Adult,
	}
}

// NormalizeDetails converts a TMDB details response, which carries runtime
// and full genre objects.
func NormalizeDetails(d *tmdb.MovieDetails) models.Movie {
	m := models.Movie{
		TMDBID:           d.ID,
		Title:            d.Title,
		OriginalTitle:    d.OriginalTitle,
		Overview:         d.Overview,
		ReleaseDate:      d.ReleaseDate,
		Year:             releaseYear(d.ReleaseDate),
		Rating:           d.VoteAverage,
		VoteCount:        d.VoteCount,
		Popularity:       d.Popularity,
		GenreIDs:         d.GenreIDList(),
		PosterPath:       d.PosterPath,
		BackdropPath:     d.BackdropPath,
		OriginalLanguage: d.OriginalLanguage,
		Adult:            d.Adult,
	}
	if d.Runtime > 0 {
		runtime := d.Runtime
		m.Runtime = &runtime
	}
	return m
}

// NormalizeAll converts a list result batch, preserving order.
func NormalizeAll(raws []tmdb.RawMovie) []models.Movie {
	out := make([]models.Movie, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}
	return out
}

func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
