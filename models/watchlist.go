package models

import "time"

// WatchlistEntry is one saved movie on a user's watchlist. Movie is attached
// on reads; only the IDs are stored on the row itself.
type WatchlistEntry struct {
	ID         int64      `json:"id"`
	UserID     string     `json:"userId"`
	MovieID    int64      `json:"movieId"`
	Watched    bool       `json:"watched"`
	UserRating *float64   `json:"userRating,omitempty"`
	AddedAt    time.Time  `json:"addedAt"`
	WatchedAt  *time.Time `json:"watchedAt,omitempty"`

	Movie *Movie `json:"movie,omitempty"`
}

// WatchlistStats summarizes a user's watchlist: counts, genre and decade
// distributions, and averages over the attached movies. AverageUserRating
// covers only watched entries the user rated.
type WatchlistStats struct {
	Total              int64          `json:"total"`
	Watched            int64          `json:"watched"`
	Unwatched          int64          `json:"unwatched"`
	Genres             map[string]int `json:"genres"`
	AverageRating      float64        `json:"averageRating"`
	AverageUserRating  *float64       `json:"averageUserRating,omitempty"`
	AverageRuntime     int            `json:"averageRuntime"`
	DecadeDistribution map[int]int    `json:"decadeDistribution"`
	AddedThisWeek      int            `json:"addedThisWeek"`
	AddedThisMonth     int            `json:"addedThisMonth"`
}
