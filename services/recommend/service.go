package recommend

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"cineswipe/internal/database"
	"cineswipe/models"
	"cineswipe/services/movies"
	"cineswipe/services/tmdb"
)

var zeroTime time.Time

// Pool weights for the composed feed.
const (
	preferenceShare = 0.40
	tasteShare      = 0.35
	popularShare    = 0.20
	discoveryShare  = 0.05
)

// PreferenceSource resolves a user's stored taste profile.
type PreferenceSource interface {
	Resolve(ctx context.Context, userID string) (*models.Preferences, error)
}

// Service composes personalized recommendation feeds from four candidate
// pools: preference-driven discovery, taste neighbors of liked movies,
// general popularity, and exploration of untouched genres.
type Service struct {
	db           *sql.DB
	tmdb         *tmdb.Client
	prefs        PreferenceSource
	movies       database.MovieRepo
	interactions database.InteractionRepo
	watchlist    database.WatchlistRepo
}

func NewService(db *sql.DB, client *tmdb.Client, prefs PreferenceSource) *Service {
	return &Service{db: db, tmdb: client, prefs: prefs}
}

// Recommendations builds the composed feed. Pools are fetched concurrently
// and degrade independently: a failed pool contributes nothing. Duplicates
// resolve to the highest-weight pool, candidates the user already swiped on
// are dropped, and the survivors are scored and ranked.
func (s *Service) Recommendations(ctx context.Context, userID string, limit int) ([]Scored, *Profile, error) {
	if limit <= 0 || limit > 50 {
		limit = 15
	}
	profile, err := s.BuildProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var prefPool, tastePool, popularPool, discoveryPool []models.Movie
	var wg conc.WaitGroup
	wg.Go(func() {
		prefPool = s.preferencePool(ctx, profile)
	})
	wg.Go(func() {
		tastePool = s.tastePool(ctx, profile)
	})
	wg.Go(func() {
		popularPool = s.popularPool(ctx)
	})
	wg.Go(func() {
		discoveryPool = s.discoveryPool(ctx, profile)
	})
	wg.Wait()

	var candidates []models.Movie
	candidates = append(candidates, take(prefPool, share(limit, preferenceShare))...)
	candidates = append(candidates, take(tastePool, share(limit, tasteShare))...)
	candidates = append(candidates, take(popularPool, share(limit, popularShare))...)
	candidates = append(candidates, take(discoveryPool, share(limit, discoveryShare))...)
	candidates = dedupe(candidates)
	candidates = s.applyUserFilters(ctx, userID, profile, candidates)
	s.cache(ctx, candidates)

	scored := rank(profile, candidates)
	if len(scored) > limit {
		scored = scored[:limit]
	}
	s.enrichRuntimes(ctx, scored)
	return scored, profile, nil
}

// enrichRuntimes fetches exact runtimes for the top few results and records
// them on the cached rows. Everything past the cutoff keeps a nil runtime;
// that trade keeps the feed to a handful of detail calls.
func (s *Service) enrichRuntimes(ctx context.Context, scored []Scored) {
	ptrs := make([]*models.Movie, len(scored))
	for i := range scored {
		ptrs[i] = &scored[i].Movie
	}
	for _, m := range movies.FillRuntimes(ctx, s.tmdb, ptrs) {
		if err := s.movies.SetRuntime(ctx, s.db, m.TMDBID, *m.Runtime); err != nil {
			log.Printf("[recommend] persist runtime for %d failed: %v", m.TMDBID, err)
		}
	}
}

// Similar returns movies TMDB considers close to the given one, minus the
// user's already-swiped titles.
func (s *Service) Similar(ctx context.Context, userID string, tmdbID int64, limit int) ([]models.Movie, error) {
	if limit <= 0 {
		limit = 15
	}
	raws, err := s.tmdb.Similar(ctx, tmdbID, 1)
	if err != nil {
		return nil, fmt.Errorf("similar movies: %w", err)
	}
	profile, err := s.BuildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := s.applyUserFilters(ctx, userID, profile, movies.NormalizeAll(raws))
	s.cache(ctx, out)
	return take(out, limit), nil
}

// Trending returns the trending window reranked by the user's taste.
func (s *Service) Trending(ctx context.Context, userID, window string, limit int) ([]Scored, error) {
	raws, err := s.tmdb.Trending(ctx, window, "")
	if err != nil {
		return nil, fmt.Errorf("personalized trending: %w", err)
	}
	profile, err := s.BuildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	candidates := s.applyUserFilters(ctx, userID, profile, movies.NormalizeAll(raws))
	s.cache(ctx, candidates)
	scored := rank(profile, candidates)
	return takeScored(scored, limit), nil
}

// Discovery suggests well-rated movies from genres the user has not
// gravitated to yet. A user who has liked their way through every genre
// gets an empty list.
func (s *Service) Discovery(ctx context.Context, userID string, limit int) ([]models.Movie, []string, error) {
	if limit <= 0 {
		limit = 15
	}
	profile, err := s.BuildProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	genres := discoveryGenres(profile)
	if len(genres) == 0 {
		return nil, nil, nil
	}
	pick := genres
	if len(pick) > 3 {
		pick = pick[:3]
	}
	raws, err := s.tmdb.Discover(ctx, tmdb.DiscoverParams{
		WithGenres:     joinGenres(pick),
		SortBy:         "vote_average.desc",
		VoteCountGTE:   100,
		VoteAverageGTE: 7.0,
		Page:           1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("discovery recommendations: %w", err)
	}
	out := s.applyUserFilters(ctx, userID, profile, movies.NormalizeAll(raws))
	s.cache(ctx, out)

	names := make([]string, 0, len(pick))
	for _, g := range pick {
		names = append(names, models.GenreName(g))
	}
	return take(out, limit), names, nil
}

// preferencePool queries discover with every genre the user explicitly
// enabled plus their year and rating bounds, best-rated first.
func (s *Service) preferencePool(ctx context.Context, p *Profile) []models.Movie {
	genres := enabledGenreIDs(p.Preferences)
	params := tmdb.DiscoverParams{
		WithGenres:   joinGenres(genres),
		SortBy:       "vote_average.desc",
		VoteCountGTE: 50,
		Page:         1,
	}
	if p.Preferences.MinYear != nil {
		params.PrimaryReleaseGTE = fmt.Sprintf("%d-01-01", *p.Preferences.MinYear)
	}
	if p.Preferences.MaxYear != nil {
		params.PrimaryReleaseLTE = fmt.Sprintf("%d-12-31", *p.Preferences.MaxYear)
	}
	if p.Preferences.MinRating != nil {
		params.VoteAverageGTE = *p.Preferences.MinRating
	}
	raws, err := s.tmdb.Discover(ctx, params)
	if err != nil {
		log.Printf("[recommend] preference pool failed: %v", err)
		return nil
	}
	return movies.NormalizeAll(raws)
}

// tastePool pulls TMDB's recommendations for the user's three best-rated
// likes, five candidates each.
func (s *Service) tastePool(ctx context.Context, p *Profile) []models.Movie {
	top := topRatedLikes(p.LikedMovies, 3)
	var out []models.Movie
	for _, liked := range top {
		raws, err := s.tmdb.Recommendations(ctx, liked.TMDBID, 1)
		if err != nil {
			log.Printf("[recommend] taste pool for tmdb:%d failed: %v", liked.TMDBID, err)
			continue
		}
		out = append(out, take(movies.NormalizeAll(raws), 5)...)
	}
	return out
}

func (s *Service) popularPool(ctx context.Context) []models.Movie {
	raws, err := s.tmdb.Popular(ctx, 1, "")
	if err != nil {
		log.Printf("[recommend] popular pool failed: %v", err)
		return nil
	}
	return movies.NormalizeAll(raws)
}

// discoveryPool samples two genres outside the user's top list.
func (s *Service) discoveryPool(ctx context.Context, p *Profile) []models.Movie {
	genres := discoveryGenres(p)
	if len(genres) == 0 {
		return nil
	}
	if len(genres) > 2 {
		genres = genres[:2]
	}
	raws, err := s.tmdb.Discover(ctx, tmdb.DiscoverParams{
		WithGenres:     joinGenres(genres),
		SortBy:         "popularity.desc",
		VoteAverageGTE: 6.5,
		Page:           1,
	})
	if err != nil {
		log.Printf("[recommend] discovery pool failed: %v", err)
		return nil
	}
	return movies.NormalizeAll(raws)
}

// applyUserFilters drops movies the user already collected and, in child
// mode, anything failing the child-safe rules. Only likes are excluded;
// a disliked movie may legitimately resurface.
func (s *Service) applyUserFilters(ctx context.Context, userID string, p *Profile, ms []models.Movie) []models.Movie {
	seen, err := s.interactions.LikedTMDBIDs(ctx, s.db, userID)
	if err != nil {
		log.Printf("[recommend] seen lookup failed for %s: %v", userID, err)
	} else {
		ms = movies.FilterSeen(ms, seen)
	}
	if p.Preferences != nil && p.Preferences.ChildMode {
		ms = movies.FilterChildSafe(ms)
	}
	return ms
}

// cache best-effort upserts candidates into the local movie table so later
// swipes resolve without a TMDB round trip.
func (s *Service) cache(ctx context.Context, ms []models.Movie) {
	for i := range ms {
		if err := s.movies.Upsert(ctx, s.db, &ms[i]); err != nil {
			log.Printf("[recommend] cache movie tmdb:%d failed: %v", ms[i].TMDBID, err)
		}
	}
}

func enabledGenreIDs(p *models.Preferences) []int64 {
	if p == nil {
		return nil
	}
	seen := make(map[int64]bool)
	var out []int64
	for _, sel := range p.Ordered() {
		if sel.Value == nil || !*sel.Value || seen[sel.GenreID] {
			continue
		}
		seen[sel.GenreID] = true
		out = append(out, sel.GenreID)
	}
	return out
}

func topRatedLikes(liked []*models.Movie, n int) []*models.Movie {
	sorted := make([]*models.Movie, len(liked))
	copy(sorted, liked)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func joinGenres(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func share(limit int, fraction float64) int {
	return int(math.Ceil(float64(limit) * fraction))
}

func take(ms []models.Movie, n int) []models.Movie {
	if n >= 0 && len(ms) > n {
		return ms[:n]
	}
	return ms
}

func takeScored(ms []Scored, n int) []Scored {
	if n > 0 && len(ms) > n {
		return ms[:n]
	}
	return ms
}
