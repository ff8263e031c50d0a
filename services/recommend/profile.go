package recommend

import (
	"context"
	"sort"

	"cineswipe/models"
)

// profileLikedLimit bounds how many liked movies feed the taste profile.
const profileLikedLimit = 200

// Profile is the taste snapshot the engine scores against: the user's top
// liked genres, the mean year of their likes, and their stored preferences.
type Profile struct {
	UserID            string              `json:"userId"`
	Preferences       *models.Preferences `json:"preferences"`
	LikedMovies       []*models.Movie     `json:"-"`
	TopGenres         []int64             `json:"topGenres"`
	PreferredYears    *YearSpread         `json:"preferredYears,omitempty"`
	AverageRating     float64             `json:"averageRating"`
	LikeRatio         float64             `json:"likeRatio"`
	TotalInteractions int64               `json:"totalInteractions"`
	WatchlistCount    int64               `json:"watchlistCount"`
}

// TopGenreNames resolves the top genre ids to display names.
func (p *Profile) TopGenreNames() []string {
	names := make([]string, 0, len(p.TopGenres))
	for _, g := range p.TopGenres {
		names = append(names, models.GenreName(g))
	}
	return names
}

// YearSpread describes the release years of the movies a user liked.
type YearSpread struct {
	Average int `json:"average"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// BuildProfile assembles the taste snapshot from the swipe ledger and the
// stored preferences.
func (s *Service) BuildProfile(ctx context.Context, userID string) (*Profile, error) {
	prefs, err := s.prefs.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	liked, err := s.interactions.LikedMovies(ctx, s.db, userID, profileLikedLimit)
	if err != nil {
		return nil, err
	}
	total, err := s.interactions.Count(ctx, s.db, userID, "", zeroTime)
	if err != nil {
		return nil, err
	}
	watchlistCount, err := s.watchlist.Count(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		UserID:            userID,
		Preferences:       prefs,
		LikedMovies:       liked,
		TopGenres:         topGenres(liked, 5),
		PreferredYears:    yearSpread(liked),
		TotalInteractions: total,
		WatchlistCount:    watchlistCount,
	}
	if total > 0 {
		p.LikeRatio = float64(len(liked)) / float64(total)
	}
	var ratingSum float64
	for _, m := range liked {
		ratingSum += m.Rating
	}
	if len(liked) > 0 {
		p.AverageRating = ratingSum / float64(len(liked))
	}
	return p, nil
}

// topGenres counts genre occurrences across liked movies and returns the n
// most frequent, most-liked first.
func topGenres(liked []*models.Movie, n int) []int64 {
	counts := make(map[int64]int)
	for _, m := range liked {
		for _, g := range m.GenreIDs {
			counts[g]++
		}
	}
	genres := make([]int64, 0, len(counts))
	for g := range counts {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if counts[genres[i]] != counts[genres[j]] {
			return counts[genres[i]] > counts[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if len(genres) > n {
		genres = genres[:n]
	}
	return genres
}

func yearSpread(liked []*models.Movie) *YearSpread {
	var sum, count, min, max int
	for _, m := range liked {
		if m.Year == 0 {
			continue
		}
		if count == 0 || m.Year < min {
			min = m.Year
		}
		if m.Year > max {
			max = m.Year
		}
		sum += m.Year
		count++
	}
	if count == 0 {
		return nil
	}
	avg := float64(sum) / float64(count)
	return &YearSpread{Average: int(avg + 0.5), Min: min, Max: max}
}

// discoveryGenres returns the genres absent from the user's top list, in the
// canonical genre order.
func discoveryGenres(p *Profile) []int64 {
	top := make(map[int64]bool, len(p.TopGenres))
	for _, g := range p.TopGenres {
		top[g] = true
	}
	var out []int64
	for _, g := range models.AllGenres {
		if !top[g] {
			out = append(out, g)
		}
	}
	return out
}
