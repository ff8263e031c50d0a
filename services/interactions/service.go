package interactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"cineswipe/internal/database"
	"cineswipe/models"
	"cineswipe/services/movies"
	"cineswipe/services/tmdb"
)

var (
	// ErrInvalidKind flags a verdict that is neither LIKE nor DISLIKE.
	ErrInvalidKind = errors.New("invalid interaction kind")
	// ErrMovieNotFound is returned when the swiped movie cannot be resolved
	// locally or from TMDB.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrInteractionNotFound is returned when removing a verdict that
	// does not exist.
	ErrInteractionNotFound = errors.New("interaction not found")
)

// detailsFetcher is the slice of the TMDB client the ledger needs to
// auto-create movies on first swipe.
type detailsFetcher interface {
	Details(ctx context.Context, id int64) (*tmdb.MovieDetails, error)
}

var _ detailsFetcher = (*tmdb.Client)(nil)

// Service is the swipe ledger. It keeps at most one verdict per (user, movie)
// and mirrors LIKE verdicts onto the watchlist.
type Service struct {
	db           *sql.DB
	tmdb         detailsFetcher
	movies       database.MovieRepo
	interactions database.InteractionRepo
	watchlist    database.WatchlistRepo
}

func NewService(db *sql.DB, fetcher detailsFetcher) *Service {
	return &Service{db: db, tmdb: fetcher}
}

// SwipeResult reports what a swipe did.
type SwipeResult struct {
	Interaction      *models.Interaction `json:"interaction"`
	Movie            *models.Movie       `json:"movie"`
	AddedToWatchlist bool                `json:"addedToWatchlist"`
}

// Swipe records a verdict on a movie identified by TMDB ID. Repeating the
// same verdict is a no-op; the opposite verdict replaces it. LIKE puts the
// movie on the watchlist, DISLIKE takes it off. The movie row, the verdict,
// and the watchlist side effect all land in one transaction.
func (s *Service) Swipe(ctx context.Context, userID string, tmdbID int64, kind string) (*SwipeResult, error) {
	if !models.ValidInteractionKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	// Details are fetched before the transaction opens; only the writes
	// happen inside it.
	movie, err := s.resolveMovie(ctx, tmdbID)
	if err != nil {
		return nil, err
	}

	result := &SwipeResult{Movie: movie}
	err = database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.movies.Upsert(ctx, tx, movie); err != nil {
			return err
		}
		if err := s.interactions.Upsert(ctx, tx, userID, movie.ID, kind); err != nil {
			return err
		}
		switch kind {
		case models.InteractionLike:
			added, err := s.watchlist.InsertIfAbsent(ctx, tx, userID, movie.ID)
			if err != nil {
				return err
			}
			result.AddedToWatchlist = added
		case models.InteractionDislike:
			if _, err := s.watchlist.Delete(ctx, tx, userID, movie.ID); err != nil {
				return err
			}
		}
		it, err := s.interactions.Get(ctx, tx, userID, movie.ID)
		if err != nil {
			return err
		}
		result.Interaction = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[interactions] user %s swiped %s on tmdb:%d", userID, kind, tmdbID)
	return result, nil
}

// resolveMovie returns the locally cached movie or fetches it from TMDB.
func (s *Service) resolveMovie(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	cached, err := s.movies.ByTMDBID(ctx, s.db, tmdbID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	d, err := s.tmdb.Details(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrMovieNotFound, err)
	}
	m := movies.NormalizeDetails(d)
	return &m, nil
}

// Remove deletes the user's verdict on a movie. When the verdict was a LIKE,
// the watchlist entry goes with it.
func (s *Service) Remove(ctx context.Context, userID string, tmdbID int64) error {
	movie, err := s.movies.ByTMDBID(ctx, s.db, tmdbID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInteractionNotFound
	}
	if err != nil {
		return err
	}
	return database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		it, err := s.interactions.Get(ctx, tx, userID, movie.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInteractionNotFound
		}
		if err != nil {
			return err
		}
		if _, err := s.interactions.Delete(ctx, tx, userID, movie.ID); err != nil {
			return err
		}
		if it.Kind == models.InteractionLike {
			if _, err := s.watchlist.Delete(ctx, tx, userID, movie.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearResult reports what a bulk clear removed.
type ClearResult struct {
	LikesRemoved     int64 `json:"likesRemoved"`
	WatchlistRemoved int64 `json:"watchlistRemoved"`
}

// ClearLikes wipes every LIKE verdict and the whole watchlist in one
// transaction. DISLIKE verdicts survive so disliked movies stay hidden
// from future decks.
func (s *Service) ClearLikes(ctx context.Context, userID string) (*ClearResult, error) {
	var result ClearResult
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		n, err := s.interactions.DeleteByKind(ctx, tx, userID, models.InteractionLike)
		if err != nil {
			return err
		}
		result.LikesRemoved = n
		w, err := s.watchlist.DeleteAll(ctx, tx, userID)
		if err != nil {
			return err
		}
		result.WatchlistRemoved = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[interactions] cleared %d likes and %d watchlist entries for user %s",
		result.LikesRemoved, result.WatchlistRemoved, userID)
	return &result, nil
}

// List returns the user's verdicts newest-first with movies attached. kind
// filters to LIKE or DISLIKE when non-empty.
func (s *Service) List(ctx context.Context, userID, kind string, limit, offset int) ([]models.Interaction, error) {
	if kind != "" && !models.ValidInteractionKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.interactions.List(ctx, s.db, userID, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MovieID)
	}
	byID, err := s.movies.ByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Movie = byID[items[i].MovieID]
	}
	return items, nil
}

// Stats aggregates the user's swipe counters.
func (s *Service) Stats(ctx context.Context, userID string) (*models.InteractionStats, error) {
	likes, err := s.interactions.Count(ctx, s.db, userID, models.InteractionLike, time.Time{})
	if err != nil {
		return nil, err
	}
	dislikes, err := s.interactions.Count(ctx, s.db, userID, models.InteractionDislike, time.Time{})
	if err != nil {
		return nil, err
	}
	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	recent, err := s.interactions.Count(ctx, s.db, userID, "", weekAgo)
	if err != nil {
		return nil, err
	}
	stats := &models.InteractionStats{
		Likes:     likes,
		Dislikes:  dislikes,
		Total:     likes + dislikes,
		Last7Days: recent,
	}
	if stats.Total > 0 {
		stats.LikeRatio = float64(likes) / float64(stats.Total)
	}
	return stats, nil
}
