package database

import (
	"context"
	"fmt"
	"time"

	"cineswipe/models"
)

// InteractionRepo stores swipe verdicts, one row per (user, movie).
type InteractionRepo struct{}

const interactionColumns = `id, user_id, movie_id, kind, created_at, updated_at`

// Upsert records a verdict, replacing any previous one for the same movie.
func (r InteractionRepo) Upsert(ctx context.Context, q Querier, userID string, movieID int64, kind string) error {
	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO interactions (user_id, movie_id, kind, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			kind = excluded.kind,
			updated_at = excluded.updated_at`,
		userID, movieID, kind, now, now)
	if err != nil {
		return fmt.Errorf("upsert interaction: %w", err)
	}
	return nil
}

func (r InteractionRepo) Get(ctx context.Context, q Querier, userID string, movieID int64) (*models.Interaction, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+interactionColumns+` FROM interactions WHERE user_id = ? AND movie_id = ?`,
		userID, movieID)
	var it models.Interaction
	err := row.Scan(&it.ID, &it.UserID, &it.MovieID, &it.Kind, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Delete removes the verdict and reports whether a row existed.
func (r InteractionRepo) Delete(ctx context.Context, q Querier, userID string, movieID int64) (bool, error) {
	res, err := q.ExecContext(ctx, `
		DELETE FROM interactions WHERE user_id = ? AND movie_id = ?`, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("delete interaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByKind removes every verdict of the given kind for the user and
// returns how many rows went away.
func (r InteractionRepo) DeleteByKind(ctx context.Context, q Querier, userID, kind string) (int64, error) {
	res, err := q.ExecContext(ctx, `
		DELETE FROM interactions WHERE user_id = ? AND kind = ?`, userID, kind)
	if err != nil {
		return 0, fmt.Errorf("clear interactions: %w", err)
	}
	return res.RowsAffected()
}

// List returns the user's verdicts newest-first. kind filters to LIKE or
// DISLIKE when non-empty.
func (r InteractionRepo) List(ctx context.Context, q Querier, userID, kind string, limit, offset int) ([]models.Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions WHERE user_id = ?`
	args := []any{userID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var out []models.Interaction
	for rows.Next() {
		var it models.Interaction
		if err := rows.Scan(&it.ID, &it.UserID, &it.MovieID, &it.Kind, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Count returns the number of the user's verdicts, optionally filtered by kind
// and by minimum updated_at.
func (r InteractionRepo) Count(ctx context.Context, q Querier, userID, kind string, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM interactions WHERE user_id = ?`
	args := []any{userID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	if !since.IsZero() {
		query += ` AND updated_at >= ?`
		args = append(args, since)
	}
	var n int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return n, nil
}

// LikedTMDBIDs returns the TMDB IDs of every movie the user liked.
func (r InteractionRepo) LikedTMDBIDs(ctx context.Context, q Querier, userID string) (map[int64]bool, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT m.tmdb_id FROM interactions i
		JOIN movies m ON m.id = i.movie_id
		WHERE i.user_id = ? AND i.kind = ?`, userID, models.InteractionLike)
	if err != nil {
		return nil, fmt.Errorf("liked tmdb ids: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// LikedMovies returns the full movies the user liked, newest verdict first.
func (r InteractionRepo) LikedMovies(ctx context.Context, q Querier, userID string, limit int) ([]*models.Movie, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+prefixColumns("m", movieColumns)+` FROM interactions i
		JOIN movies m ON m.id = i.movie_id
		WHERE i.user_id = ? AND i.kind = ?
		ORDER BY i.updated_at DESC LIMIT ?`, userID, models.InteractionLike, limit)
	if err != nil {
		return nil, fmt.Errorf("liked movies: %w", err)
	}
	defer rows.Close()

	var out []*models.Movie
	var repo MovieRepo
	for rows.Next() {
		m, err := repo.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
