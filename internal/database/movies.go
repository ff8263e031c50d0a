package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cineswipe/models"
)

// MovieRepo caches normalized TMDB movies. Genre IDs are stored as a JSON
// array in a single column.
type MovieRepo struct{}

const movieColumns = `id, tmdb_id, title, original_title, overview, release_date,
	year, rating, vote_count, popularity, genre_ids, runtime, poster_path,
	backdrop_path, original_language, adult, created_at, updated_at`

type movieScanner interface {
	Scan(dest ...any) error
}

func (MovieRepo) scan(row movieScanner) (*models.Movie, error) {
	var (
		m      models.Movie
		genres string
	)
	err := row.Scan(&m.ID, &m.TMDBID, &m.Title, &m.OriginalTitle, &m.Overview,
		&m.ReleaseDate, &m.Year, &m.Rating, &m.VoteCount, &m.Popularity,
		&genres, &m.Runtime, &m.PosterPath, &m.BackdropPath,
		&m.OriginalLanguage, &m.Adult, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(genres), &m.GenreIDs); err != nil {
		return nil, fmt.Errorf("decode genre ids for movie %d: %w", m.ID, err)
	}
	return &m, nil
}

// Upsert inserts the movie or refreshes an existing row keyed by TMDB ID,
// and fills in the local ID either way. An existing runtime is kept when
// the incoming movie has none.
func (r MovieRepo) Upsert(ctx context.Context, q Querier, m *models.Movie) error {
	genres, err := json.Marshal(m.GenreIDs)
	if err != nil {
		return fmt.Errorf("encode genre ids: %w", err)
	}
	now := time.Now().UTC()
	_, err = q.ExecContext(ctx, `
		INSERT INTO movies (tmdb_id, title, original_title, overview, release_date,
			year, rating, vote_count, popularity, genre_ids, runtime, poster_path,
			backdrop_path, original_language, adult, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tmdb_id) DO UPDATE SET
			title = excluded.title,
			original_title = excluded.original_title,
			overview = excluded.overview,
			release_date = excluded.release_date,
			year = excluded.year,
			rating = excluded.rating,
			vote_count = excluded.vote_count,
			popularity = excluded.popularity,
			genre_ids = excluded.genre_ids,
			runtime = COALESCE(excluded.runtime, movies.runtime),
			poster_path = excluded.poster_path,
			backdrop_path = excluded.backdrop_path,
			original_language = excluded.original_language,
			adult = excluded.adult,
			updated_at = excluded.updated_at`,
		m.TMDBID, m.Title, m.OriginalTitle, m.Overview, m.ReleaseDate,
		m.Year, m.Rating, m.VoteCount, m.Popularity, string(genres), m.Runtime,
		m.PosterPath, m.BackdropPath, m.OriginalLanguage, m.Adult, now, now)
	if err != nil {
		return fmt.Errorf("upsert movie: %w", err)
	}
	row := q.QueryRowContext(ctx, `SELECT id FROM movies WHERE tmdb_id = ?`, m.TMDBID)
	if err := row.Scan(&m.ID); err != nil {
		return fmt.Errorf("resolve movie id: %w", err)
	}
	return nil
}

func (r MovieRepo) ByID(ctx context.Context, q Querier, id int64) (*models.Movie, error) {
	return r.scan(q.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id))
}

func (r MovieRepo) ByTMDBID(ctx context.Context, q Querier, tmdbID int64) (*models.Movie, error) {
	return r.scan(q.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE tmdb_id = ?`, tmdbID))
}

// ByIDs loads the given movies keyed by local ID. Missing IDs are skipped.
func (r MovieRepo) ByIDs(ctx context.Context, q Querier, ids []int64) (map[int64]*models.Movie, error) {
	out := make(map[int64]*models.Movie, len(ids))
	for _, id := range ids {
		m, err := r.ByID(ctx, q, id)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = m
	}
	return out, nil
}

// SetRuntime records a runtime fetched from movie details.
func (r MovieRepo) SetRuntime(ctx context.Context, q Querier, tmdbID int64, runtime int) error {
	_, err := q.ExecContext(ctx, `
		UPDATE movies SET runtime = ?, updated_at = ? WHERE tmdb_id = ?`,
		runtime, time.Now().UTC(), tmdbID)
	if err != nil {
		return fmt.Errorf("set movie runtime: %w", err)
	}
	return nil
}
