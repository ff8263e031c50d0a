package movies

import (
	"context"
	"log"
	"strings"

	"cineswipe/models"
)

// Titles that slip past the keyword list and are blocked outright.
var blockedTitles = []string{
	"tuhog", "tu hog", "tu-hog",
	"stepmoms desire", "stepmom desire",
}

// Substrings that mark a movie as adult content wherever they appear in the
// title, overview, or TMDB keywords.
var adultTerms = []string{
	"big gay hairy hit", "big gay hairy", "gay hairy hit",
	"tuhog", "tu hog", "tu-hog",
	"stepmoms desire", "stepmom desire", "stepmother desire",
	"swingers zwinger", "zwingerz",
	"hardcore", "porn", "pornographic", "xxx", "x-rated",
	"adult film", "pink film", "pinku eiga",
	"hentai", "ecchi", "yaoi", "yuri", "shotacon", "lolicon",
	"emmanuelle", "caligula", "nymphomaniac",
	"softcore", "erotic", "sexual",
}

// Genres considered unsuitable in child mode.
var childUnsafeGenres = []int64{models.GenreHorror, models.GenreThriller, models.GenreCrime}

// Genres acceptable for the child-mode allow rule.
var childFriendlyGenres = []int64{
	models.GenreAnimation, models.GenreComedy, models.GenreFamily,
	models.GenreFantasy, models.GenreAdventure, models.GenreAction,
	models.GenreDocumentary,
}

// KeywordSource provides the TMDB keyword names for a movie. Keyword lookup
// failures are treated as "no keywords".
type KeywordSource interface {
	Keywords(ctx context.Context, tmdbID int64) ([]string, error)
}

// Filter weeds out adult and otherwise unwanted titles from candidate lists.
type Filter struct {
	keywords KeywordSource
}

func NewFilter(keywords KeywordSource) *Filter {
	return &Filter{keywords: keywords}
}

// FilterAdult removes adult content, preserving input order. The exact-title
// blocklist is checked before any keyword matching; keyword fetches are
// best-effort.
func (f *Filter) FilterAdult(ctx context.Context, in []models.Movie) []models.Movie {
	out := make([]models.Movie, 0, len(in))
	for _, m := range in {
		title := strings.ToLower(m.Title)
		if matchesExact(title) {
			log.Printf("[filter] blocked title %q", m.Title)
			continue
		}

		haystack := title + " " + strings.ToLower(m.Overview)
		if f.keywords != nil {
			if names, err := f.keywords.Keywords(ctx, m.TMDBID); err == nil {
				haystack += " " + strings.ToLower(strings.Join(names, " "))
			}
		}
		if term := matchesAdultTerm(haystack); term != "" {
			log.Printf("[filter] removed %q (matched %q)", m.Title, term)
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesExact(title string) bool {
	for _, blocked := range blockedTitles {
		if strings.Contains(title, blocked) {
			return true
		}
	}
	return false
}

func matchesAdultTerm(haystack string) string {
	for _, term := range adultTerms {
		if strings.Contains(haystack, term) {
			return term
		}
	}
	return ""
}

// FilterSeen removes movies whose TMDB ID appears in seen, preserving order.
func FilterSeen(in []models.Movie, seen map[int64]bool) []models.Movie {
	out := make([]models.Movie, 0, len(in))
	for _, m := range in {
		if seen[m.TMDBID] {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ChildSafe reports whether a single movie passes the child-mode rules: not
// adult, no horror/thriller/crime genre, at least 50 votes, rating at least
// 5.5, and either a child-friendly genre or no genre information at all.
func ChildSafe(m models.Movie) bool {
	if m.Adult {
		return false
	}
	for _, g := range childUnsafeGenres {
		if m.HasGenre(g) {
			return false
		}
	}
	if m.VoteCount < 50 {
		return false
	}
	if m.Rating < 5.5 {
		return false
	}
	if len(m.GenreIDs) == 0 {
		return true
	}
	for _, g := range childFriendlyGenres {
		if m.HasGenre(g) {
			return true
		}
	}
	return false
}

// FilterChildSafe keeps only movies passing ChildSafe, preserving order.
func FilterChildSafe(in []models.Movie) []models.Movie {
	out := make([]models.Movie, 0, len(in))
	for _, m := range in {
		if ChildSafe(m) {
			out = append(out, m)
		}
	}
	return out
}
