package recommend

import (
	"math"
	"sort"

	"cineswipe/models"
)

// Scored pairs a candidate with its fit for the user.
type Scored struct {
	models.Movie
	UserScore int `json:"userScore"`
}

// Score rates how well a movie fits the profile. The TMDB rating dominates,
// each overlap with the user's top genres is worth a jump, closeness to the
// mean liked year earns up to 20 points, and popularity breaks ties.
func Score(p *Profile, m models.Movie) int {
	score := m.Rating * 10

	for _, g := range m.GenreIDs {
		for _, top := range p.TopGenres {
			if g == top {
				score += 20
				break
			}
		}
	}

	if p.PreferredYears != nil && m.Year > 0 {
		diff := math.Abs(float64(m.Year - p.PreferredYears.Average))
		score += math.Max(0, 20-diff)
	}

	score += m.Popularity * 0.1

	return int(math.Round(score))
}

// rank scores every candidate and sorts best-first. Ordering is stable so
// equal scores keep their pool order.
func rank(p *Profile, ms []models.Movie) []Scored {
	out := make([]Scored, 0, len(ms))
	for _, m := range ms {
		out = append(out, Scored{Movie: m, UserScore: Score(p, m)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UserScore > out[j].UserScore
	})
	return out
}

// dedupe removes repeated TMDB IDs, first occurrence wins.
func dedupe(ms []models.Movie) []models.Movie {
	seen := make(map[int64]bool, len(ms))
	out := make([]models.Movie, 0, len(ms))
	for _, m := range ms {
		if seen[m.TMDBID] {
			continue
		}
		seen[m.TMDBID] = true
		out = append(out, m)
	}
	return out
}
