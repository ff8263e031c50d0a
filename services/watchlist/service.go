package watchlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"cineswipe/internal/database"
	"cineswipe/models"
)

var (
	// ErrAlreadyListed is returned when adding a movie that is already on
	// the watchlist.
	ErrAlreadyListed = errors.New("movie already in watchlist")
	// ErrNotListed is returned when removing or updating an entry that
	// does not exist.
	ErrNotListed = errors.New("movie not in watchlist")
	// ErrMovieNotFound is returned when the movie is not in the local cache.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrInvalidRating flags a user rating outside 0-10.
	ErrInvalidRating = errors.New("rating must be between 0 and 10")
)

// Service manages the per-user watchlist. Adding a movie mirrors a LIKE
// verdict into the swipe ledger; both writes share a transaction.
type Service struct {
	db           *sql.DB
	movies       database.MovieRepo
	watchlist    database.WatchlistRepo
	interactions database.InteractionRepo
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Add puts a movie (by TMDB ID) on the watchlist and records a LIKE verdict.
// The movie must already be in the local cache; adding an unknown movie is
// ErrMovieNotFound, adding a listed one ErrAlreadyListed. The UNIQUE
// constraint arbitrates concurrent adds.
func (s *Service) Add(ctx context.Context, userID string, tmdbID int64) (*models.WatchlistEntry, error) {
	movie, err := s.movies.ByTMDBID(ctx, s.db, tmdbID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}

	var entry *models.WatchlistEntry
	err = database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		entry, err = s.watchlist.Insert(ctx, tx, userID, movie.ID)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyListed
			}
			return err
		}
		return s.interactions.Upsert(ctx, tx, userID, movie.ID, models.InteractionLike)
	})
	if err != nil {
		return nil, err
	}
	entry.Movie = movie
	log.Printf("[watchlist] user %s added tmdb:%d", userID, tmdbID)
	return entry, nil
}

// Remove takes a movie off the watchlist. The LIKE verdict stays; removing
// a movie from the list is not a judgement on it.
func (s *Service) Remove(ctx context.Context, userID string, tmdbID int64) error {
	movie, err := s.movies.ByTMDBID(ctx, s.db, tmdbID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMovieNotFound
	}
	if err != nil {
		return err
	}
	removed, err := s.watchlist.Delete(ctx, s.db, userID, movie.ID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotListed
	}
	return nil
}

// List returns watchlist entries newest-first with movies attached. watched
// filters by watched state when non-nil.
func (s *Service) List(ctx context.Context, userID string, watched *bool, limit, offset int) ([]models.WatchlistEntry, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.watchlist.List(ctx, s.db, userID, watched, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.watchlist.Count(ctx, s.db, userID)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// SetWatched marks an entry watched or unwatched, with an optional user
// rating when marking watched.
func (s *Service) SetWatched(ctx context.Context, userID string, tmdbID int64, watched bool, rating *float64) (*models.WatchlistEntry, error) {
	if rating != nil && (*rating < 0 || *rating > 10) {
		return nil, ErrInvalidRating
	}
	movie, err := s.movies.ByTMDBID(ctx, s.db, tmdbID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	if !watched {
		rating = nil
	}
	updated, err := s.watchlist.SetWatched(ctx, s.db, userID, movie.ID, watched, rating)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotListed
	}
	entry, err := s.watchlist.Get(ctx, s.db, userID, movie.ID)
	if err != nil {
		return nil, err
	}
	entry.Movie = movie
	return entry, nil
}

// statsPageSize bounds how many entries a stats pass loads at once.
const statsPageSize = 500

// Stats walks the whole watchlist and aggregates counts, genre and decade
// distributions, and rating/runtime averages.
func (s *Service) Stats(ctx context.Context, userID string) (*models.WatchlistStats, error) {
	stats := &models.WatchlistStats{
		Genres:             make(map[string]int),
		DecadeDistribution: make(map[int]int),
	}

	now := time.Now().UTC()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)

	var (
		ratingSum, userRatingSum float64
		ratingN, userRatingN     int
		runtimeSum, runtimeN     int
	)

	for offset := 0; ; offset += statsPageSize {
		entries, err := s.watchlist.List(ctx, s.db, userID, nil, statsPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("watchlist stats: %w", err)
		}
		for _, e := range entries {
			stats.Total++
			if e.Watched {
				stats.Watched++
			}
			if e.AddedAt.After(weekAgo) {
				stats.AddedThisWeek++
			}
			if e.AddedAt.After(monthAgo) {
				stats.AddedThisMonth++
			}
			if e.UserRating != nil {
				userRatingSum += *e.UserRating
				userRatingN++
			}
			m := e.Movie
			if m == nil {
				continue
			}
			if m.Rating > 0 {
				ratingSum += m.Rating
				ratingN++
			}
			if m.Runtime != nil && *m.Runtime > 0 {
				runtimeSum += *m.Runtime
				runtimeN++
			}
			if m.Year > 0 {
				stats.DecadeDistribution[m.Year/10*10]++
			}
			for _, name := range m.GenreNames() {
				stats.Genres[name]++
			}
		}
		if len(entries) < statsPageSize {
			break
		}
	}

	stats.Unwatched = stats.Total - stats.Watched
	if ratingN > 0 {
		stats.AverageRating = roundTenth(ratingSum / float64(ratingN))
	}
	if userRatingN > 0 {
		avg := roundTenth(userRatingSum / float64(userRatingN))
		stats.AverageUserRating = &avg
	}
	if runtimeN > 0 {
		stats.AverageRuntime = runtimeSum / runtimeN
	}
	return stats, nil
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
