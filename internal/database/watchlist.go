package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cineswipe/models"
)

// WatchlistRepo stores saved movies, one row per (user, movie).
type WatchlistRepo struct{}

const watchlistColumns = `id, user_id, movie_id, watched, user_rating, added_at, watched_at`

// Insert adds a movie to the watchlist. Returns a unique-violation error when
// the movie is already listed.
func (r WatchlistRepo) Insert(ctx context.Context, q Querier, userID string, movieID int64) (*models.WatchlistEntry, error) {
	now := time.Now().UTC()
	res, err := q.ExecContext(ctx, `
		INSERT INTO watchlist (user_id, movie_id, added_at) VALUES (?, ?, ?)`,
		userID, movieID, now)
	if err != nil {
		return nil, fmt.Errorf("insert watchlist entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.WatchlistEntry{ID: id, UserID: userID, MovieID: movieID, AddedAt: now}, nil
}

// InsertIfAbsent adds the movie unless it is already listed. Reports whether
// a row was inserted.
func (r WatchlistRepo) InsertIfAbsent(ctx context.Context, q Querier, userID string, movieID int64) (bool, error) {
	res, err := q.ExecContext(ctx, `
		INSERT OR IGNORE INTO watchlist (user_id, movie_id, added_at) VALUES (?, ?, ?)`,
		userID, movieID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert watchlist entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r WatchlistRepo) Get(ctx context.Context, q Querier, userID string, movieID int64) (*models.WatchlistEntry, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+watchlistColumns+` FROM watchlist WHERE user_id = ? AND movie_id = ?`,
		userID, movieID)
	var e models.WatchlistEntry
	err := row.Scan(&e.ID, &e.UserID, &e.MovieID, &e.Watched, &e.UserRating, &e.AddedAt, &e.WatchedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete removes the entry and reports whether it existed.
func (r WatchlistRepo) Delete(ctx context.Context, q Querier, userID string, movieID int64) (bool, error) {
	res, err := q.ExecContext(ctx, `
		DELETE FROM watchlist WHERE user_id = ? AND movie_id = ?`, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("delete watchlist entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteAll clears the user's watchlist and returns how many entries went away.
func (r WatchlistRepo) DeleteAll(ctx context.Context, q Querier, userID string) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM watchlist WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear watchlist: %w", err)
	}
	return res.RowsAffected()
}

// List returns entries with their movies attached, newest first. watched
// filters by watched state when non-nil.
func (r WatchlistRepo) List(ctx context.Context, q Querier, userID string, watched *bool, limit, offset int) ([]models.WatchlistEntry, error) {
	query := `
		SELECT ` + prefixColumns("w", watchlistColumns) + `, ` + prefixColumns("m", movieColumns) + `
		FROM watchlist w
		JOIN movies m ON m.id = w.movie_id
		WHERE w.user_id = ?`
	args := []any{userID}
	if watched != nil {
		query += ` AND w.watched = ?`
		args = append(args, *watched)
	}
	query += ` ORDER BY w.added_at DESC, w.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	var out []models.WatchlistEntry
	for rows.Next() {
		var (
			e      models.WatchlistEntry
			m      models.Movie
			genres string
		)
		err := rows.Scan(&e.ID, &e.UserID, &e.MovieID, &e.Watched, &e.UserRating,
			&e.AddedAt, &e.WatchedAt,
			&m.ID, &m.TMDBID, &m.Title, &m.OriginalTitle, &m.Overview,
			&m.ReleaseDate, &m.Year, &m.Rating, &m.VoteCount, &m.Popularity,
			&genres, &m.Runtime, &m.PosterPath, &m.BackdropPath,
			&m.OriginalLanguage, &m.Adult, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(genres), &m.GenreIDs); err != nil {
			return nil, fmt.Errorf("decode genre ids for movie %d: %w", m.ID, err)
		}
		e.Movie = &m
		out = append(out, e)
	}
	return out, rows.Err()
}

// SetWatched updates the watched flag and optional user rating. watchedAt is
// stamped when transitioning to watched and cleared otherwise.
func (r WatchlistRepo) SetWatched(ctx context.Context, q Querier, userID string, movieID int64, watched bool, rating *float64) (bool, error) {
	var watchedAt *time.Time
	if watched {
		now := time.Now().UTC()
		watchedAt = &now
	}
	res, err := q.ExecContext(ctx, `
		UPDATE watchlist SET watched = ?, user_rating = ?, watched_at = ?
		WHERE user_id = ? AND movie_id = ?`,
		watched, rating, watchedAt, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("update watchlist entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of entries on the user's watchlist.
func (r WatchlistRepo) Count(ctx context.Context, q Querier, userID string) (int64, error) {
	var n int64
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM watchlist WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count watchlist: %w", err)
	}
	return n, nil
}
