package movies

import (
	"context"
	"log"
	"time"

	"cineswipe/models"
	"cineswipe/services/tmdb"
)

// maximum number of candidates enriched with exact runtimes per batch
const runtimeEnrichLimit = 5

// detailSource is satisfied by the TMDB client.
type detailSource interface {
	Details(ctx context.Context, id int64) (*tmdb.MovieDetails, error)
}

// FillRuntimes fetches exact runtimes for at most the first five movies
// lacking one and returns the movies it filled, so callers can persist the
// values. Failures leave the runtime unset; a short pause every three calls
// keeps within rate limits.
func FillRuntimes(ctx context.Context, src detailSource, ms []*models.Movie) []*models.Movie {
	n := len(ms)
	if n > runtimeEnrichLimit {
		n = runtimeEnrichLimit
	}
	var filled []*models.Movie
	calls := 0
	for i := 0; i < n; i++ {
		if ms[i].Runtime != nil {
			continue
		}
		if calls > 0 && calls%3 == 0 {
			time.Sleep(300 * time.Millisecond)
		}
		d, err := src.Details(ctx, ms[i].TMDBID)
		calls++
		if err != nil {
			log.Printf("[movies] runtime fetch for %d failed: %v", ms[i].TMDBID, err)
			continue
		}
		if d.Runtime > 0 {
			runtime := d.Runtime
			ms[i].Runtime = &runtime
			filled = append(filled, ms[i])
		}
	}
	return filled
}
