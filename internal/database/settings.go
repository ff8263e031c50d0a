package database

import (
	"context"
	"fmt"
	"time"

	"cineswipe/models"
)

// SettingsRepo stores per-user UI settings as a single row.
type SettingsRepo struct{}

const settingsColumns = `user_id, language, theme, animations, updated_at`

func (r SettingsRepo) ByUserID(ctx context.Context, q Querier, userID string) (*models.UserSettings, error) {
	row := q.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM user_settings WHERE user_id = ?`, userID)
	var s models.UserSettings
	err := row.Scan(&s.UserID, &s.Language, &s.Theme, &s.Animations, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert replaces the whole settings row for the user.
func (r SettingsRepo) Upsert(ctx context.Context, q Querier, s *models.UserSettings) error {
	s.UpdatedAt = time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO user_settings (`+settingsColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			language = excluded.language,
			theme = excluded.theme,
			animations = excluded.animations,
			updated_at = excluded.updated_at`,
		s.UserID, s.Language, s.Theme, s.Animations, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert user settings: %w", err)
	}
	return nil
}
