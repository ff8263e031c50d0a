package database

import (
	"context"
	"fmt"
	"time"

	"cineswipe/models"
)

// PreferenceRepo stores the per-user taste profile as a single row.
type PreferenceRepo struct{}

const preferenceColumns = `user_id,
	genre_documentary, genre_anime, genre_action, genre_animation, genre_adventure,
	genre_comedy, genre_horror, genre_drama, genre_fantasy, genre_science_fiction,
	genre_romance, genre_thriller, genre_crime, genre_family, genre_history,
	genre_music, genre_mystery, genre_war, genre_western,
	min_year, max_year, min_rating, runtime_preference,
	prefer_classic, prefer_modern, prefer_recent, child_mode, updated_at`

func (r PreferenceRepo) ByUserID(ctx context.Context, q Querier, userID string) (*models.Preferences, error) {
	row := q.QueryRowContext(ctx, `SELECT `+preferenceColumns+` FROM preferences WHERE user_id = ?`, userID)
	var p models.Preferences
	err := row.Scan(&p.UserID,
		&p.Documentary, &p.Anime, &p.Action, &p.Animation, &p.Adventure,
		&p.Comedy, &p.Horror, &p.Drama, &p.Fantasy, &p.ScienceFiction,
		&p.Romance, &p.Thriller, &p.Crime, &p.Family, &p.History,
		&p.Music, &p.Mystery, &p.War, &p.Western,
		&p.MinYear, &p.MaxYear, &p.MinRating, &p.RuntimePreference,
		&p.PreferClassic, &p.PreferModern, &p.PreferRecent, &p.ChildMode, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert replaces the whole profile row for the user.
func (r PreferenceRepo) Upsert(ctx context.Context, q Querier, p *models.Preferences) error {
	p.UpdatedAt = time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO preferences (`+preferenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			genre_documentary = excluded.genre_documentary,
			genre_anime = excluded.genre_anime,
			genre_action = excluded.genre_action,
			genre_animation = excluded.genre_animation,
			genre_adventure = excluded.genre_adventure,
			genre_comedy = excluded.genre_comedy,
			genre_horror = excluded.genre_horror,
			genre_drama = excluded.genre_drama,
			genre_fantasy = excluded.genre_fantasy,
			genre_science_fiction = excluded.genre_science_fiction,
			genre_romance = excluded.genre_romance,
			genre_thriller = excluded.genre_thriller,
			genre_crime = excluded.genre_crime,
			genre_family = excluded.genre_family,
			genre_history = excluded.genre_history,
			genre_music = excluded.genre_music,
			genre_mystery = excluded.genre_mystery,
			genre_war = excluded.genre_war,
			genre_western = excluded.genre_western,
			min_year = excluded.min_year,
			max_year = excluded.max_year,
			min_rating = excluded.min_rating,
			runtime_preference = excluded.runtime_preference,
			prefer_classic = excluded.prefer_classic,
			prefer_modern = excluded.prefer_modern,
			prefer_recent = excluded.prefer_recent,
			child_mode = excluded.child_mode,
			updated_at = excluded.updated_at`,
		p.UserID,
		p.Documentary, p.Anime, p.Action, p.Animation, p.Adventure,
		p.Comedy, p.Horror, p.Drama, p.Fantasy, p.ScienceFiction,
		p.Romance, p.Thriller, p.Crime, p.Family, p.History,
		p.Music, p.Mystery, p.War, p.Western,
		p.MinYear, p.MaxYear, p.MinRating, p.RuntimePreference,
		p.PreferClassic, p.PreferModern, p.PreferRecent, p.ChildMode, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}

// Delete removes the stored profile, reverting the user to defaults.
func (r PreferenceRepo) Delete(ctx context.Context, q Querier, userID string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM preferences WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}
