package models

import (
	"encoding/json"
	"time"
)

const (
	tmdbImageBase     = "https://image.tmdb.org/t/p/"
	posterImageSize   = "w500"
	backdropImageSize = "w1280"
)

// Movie is the normalized form of a TMDB movie, as cached in the local
// database and served to clients. Runtime is nil until details have been
// fetched for the title.
type Movie struct {
	ID               int64     `json:"id"`
	TMDBID           int64     `json:"tmdbId"`
	Title            string    `json:"title"`
	OriginalTitle    string    `json:"originalTitle,omitempty"`
	Overview         string    `json:"overview"`
	ReleaseDate      string    `json:"releaseDate,omitempty"`
	Year             int       `json:"year,omitempty"`
	Rating           float64   `json:"rating"`
	VoteCount        int64     `json:"voteCount"`
	Popularity       float64   `json:"popularity"`
	GenreIDs         []int64   `json:"genreIds"`
	Runtime          *int      `json:"runtime,omitempty"`
	PosterPath       string    `json:"-"`
	BackdropPath     string    `json:"-"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`
	Adult            bool      `json:"adult"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// PosterURL returns the full image URL for the movie poster, or empty when
// TMDB has no poster for the title.
func (m *Movie) PosterURL() string {
	if m.PosterPath == "" {
		return ""
	}
	return tmdbImageBase + posterImageSize + m.PosterPath
}

// BackdropURL returns the full image URL for the movie backdrop.
func (m *Movie) BackdropURL() string {
	if m.BackdropPath == "" {
		return ""
	}
	return tmdbImageBase + backdropImageSize + m.BackdropPath
}

// GenreNames maps the movie's genre IDs to their display names.
func (m *Movie) GenreNames() []string {
	names := make([]string, 0, len(m.GenreIDs))
	for _, id := range m.GenreIDs {
		names = append(names, GenreName(id))
	}
	return names
}

// HasGenre reports whether the movie carries the given TMDB genre ID.
func (m *Movie) HasGenre(id int64) bool {
	for _, g := range m.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

// MarshalJSON includes the derived image URLs and genre names alongside the
// stored fields.
func (m Movie) MarshalJSON() ([]byte, error) {
	type alias Movie
	return json.Marshal(struct {
		alias
		PosterURL   string   `json:"posterUrl,omitempty"`
		BackdropURL string   `json:"backdropUrl,omitempty"`
		GenreNames  []string `json:"genreNames"`
	}{
		alias:       alias(m),
		PosterURL:   m.PosterURL(),
		BackdropURL: m.BackdropURL(),
		GenreNames:  m.GenreNames(),
	})
}
