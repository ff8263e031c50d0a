package preferences

import (
	"fmt"
	"strconv"

	"cineswipe/models"
	"cineswipe/services/tmdb"
)

// Minimum vote counts for discover queries. Anime gets a lower bar since
// niche titles rarely clear the mainstream threshold.
const (
	discoverMinVotes = 100
	animeMinVotes    = 50
)

// DiscoverParams translates a taste profile into a TMDB discover query.
// The highest-priority enabled genre wins; the anime flag additionally pins
// the origin country to Japan. Year bounds expand to full calendar days,
// runtime buckets to minute windows.
func (s *Service) DiscoverParams(p *models.Preferences, page int) tmdb.DiscoverParams {
	params := tmdb.DiscoverParams{
		Page:         page,
		SortBy:       "popularity.desc",
		VoteCountGTE: discoverMinVotes,
	}

	if sel := p.FirstEnabled(); sel != nil {
		params.WithGenres = strconv.FormatInt(sel.GenreID, 10)
		if sel.Anime {
			params.WithOriginCountry = "JP"
			params.VoteCountGTE = animeMinVotes
		}
	}

	if p.MinYear != nil {
		params.PrimaryReleaseGTE = fmt.Sprintf("%d-01-01", *p.MinYear)
	}
	if p.MaxYear != nil {
		params.PrimaryReleaseLTE = fmt.Sprintf("%d-12-31", *p.MaxYear)
	}
	if p.MinRating != nil && *p.MinRating > 0 {
		params.VoteAverageGTE = *p.MinRating
	}

	switch p.RuntimePreference {
	case models.RuntimeShort:
		params.RuntimeLTE = 89
	case models.RuntimeMedium:
		params.RuntimeGTE = 90
		params.RuntimeLTE = 150
	case models.RuntimeLong:
		params.RuntimeGTE = 151
	}

	return params
}
