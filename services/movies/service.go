package movies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"cineswipe/internal/database"
	"cineswipe/models"
	"cineswipe/services/tmdb"
)

// ErrMovieNotFound is returned when neither the local cache nor TMDB knows
// the movie.
var ErrMovieNotFound = errors.New("movie not found")

// locales maps the short language codes the frontend sends to full TMDB
// locales. Unknown values pass through untouched.
var locales = map[string]string{
	"en": "en-US",
	"hu": "hu-HU",
	"de": "de-DE",
	"fr": "fr-FR",
	"es": "es-ES",
	"it": "it-IT",
	"ja": "ja-JP",
}

// PreferenceSource resolves a user's stored taste profile, falling back to
// defaults when none is saved.
type PreferenceSource interface {
	Resolve(ctx context.Context, userID string) (*models.Preferences, error)
	DiscoverParams(p *models.Preferences, page int) tmdb.DiscoverParams
}

// Service provides movie discovery, search, and detail lookup backed by TMDB
// with a local cache.
type Service struct {
	tmdb         *tmdb.Client
	filter       *Filter
	db           *sql.DB
	movies       database.MovieRepo
	interactions database.InteractionRepo
	prefs        PreferenceSource
	language     string
}

func NewService(client *tmdb.Client, filter *Filter, db *sql.DB, prefs PreferenceSource, language string) *Service {
	return &Service{
		tmdb:     client,
		filter:   filter,
		db:       db,
		prefs:    prefs,
		language: language,
	}
}

// Discover returns a personalized candidate deck: a TMDB discover query
// shaped by the user's preferences, with adult titles and already-collected
// movies removed. Child-mode tightening belongs to the recommendation feed,
// not the deck.
func (s *Service) Discover(ctx context.Context, userID string, page int, language string) ([]models.Movie, error) {
	prefs, err := s.prefs.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	params := s.prefs.DiscoverParams(prefs, page)
	params.Language = s.locale(language)
	raws, err := s.tmdb.Discover(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("discover movies: %w", err)
	}
	out := s.cleanup(ctx, userID, NormalizeAll(raws))

	// Exact runtimes are only worth fetching when no runtime preference
	// constrains the discover query itself.
	if prefs.RuntimePreference == "" || prefs.RuntimePreference == models.RuntimeAny {
		s.EnrichRuntimes(ctx, out)
	}
	return out, nil
}

// Popular returns TMDB's popular list with the user's collected movies
// removed.
func (s *Service) Popular(ctx context.Context, userID string, page int, language string) ([]models.Movie, error) {
	raws, err := s.tmdb.Popular(ctx, page, s.locale(language))
	if err != nil {
		return nil, fmt.Errorf("popular movies: %w", err)
	}
	return s.cleanup(ctx, userID, NormalizeAll(raws)), nil
}

// Trending returns TMDB's trending list for the window ("day" or "week").
func (s *Service) Trending(ctx context.Context, userID, window, language string) ([]models.Movie, error) {
	raws, err := s.tmdb.Trending(ctx, window, s.locale(language))
	if err != nil {
		return nil, fmt.Errorf("trending movies: %w", err)
	}
	return s.cleanup(ctx, userID, NormalizeAll(raws)), nil
}

// Search runs a title search. Adult titles are removed; swiped movies stay,
// since searching for a movie already seen is a deliberate act.
func (s *Service) Search(ctx context.Context, query string, page int, language string) ([]models.Movie, error) {
	raws, err := s.tmdb.Search(ctx, query, page, s.locale(language))
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return s.filter.FilterAdult(ctx, NormalizeAll(raws)), nil
}

// locale resolves a request-level language to a full TMDB locale, falling
// back to the configured default.
func (s *Service) locale(language string) string {
	if language == "" {
		return s.language
	}
	if full, ok := locales[language]; ok {
		return full
	}
	return language
}

// Details returns the movie by TMDB ID, refreshing the local cache from a
// TMDB details fetch. When TMDB is unreachable a cached copy is served.
func (s *Service) Details(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	d, err := s.tmdb.Details(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		cached, cacheErr := s.movies.ByTMDBID(ctx, s.db, tmdbID)
		if cacheErr == nil {
			log.Printf("[movies] serving cached details for %d: %v", tmdbID, err)
			return cached, nil
		}
		return nil, fmt.Errorf("movie details: %w", err)
	}
	m := NormalizeDetails(d)
	if err := s.movies.Upsert(ctx, s.db, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// EnrichRuntimes fills exact runtimes for the first few candidates and
// persists them so later requests skip the details call for cached rows.
func (s *Service) EnrichRuntimes(ctx context.Context, ms []models.Movie) {
	ptrs := make([]*models.Movie, len(ms))
	for i := range ms {
		ptrs[i] = &ms[i]
	}
	for _, m := range FillRuntimes(ctx, s.tmdb, ptrs) {
		if err := s.movies.SetRuntime(ctx, s.db, m.TMDBID, *m.Runtime); err != nil {
			log.Printf("[movies] persist runtime for %d failed: %v", m.TMDBID, err)
		}
	}
}

// cleanup applies the shared post-fetch pipeline: adult filter and removal
// of movies the user already collected.
func (s *Service) cleanup(ctx context.Context, userID string, ms []models.Movie) []models.Movie {
	out := s.filter.FilterAdult(ctx, ms)
	seen, err := s.interactions.LikedTMDBIDs(ctx, s.db, userID)
	if err != nil {
		log.Printf("[movies] seen lookup failed for %s: %v", userID, err)
		return out
	}
	return FilterSeen(out, seen)
}
