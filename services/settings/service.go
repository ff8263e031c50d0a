package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cineswipe/internal/database"
	"cineswipe/models"
)

// ErrInvalidSetting flags a settings payload that fails validation.
var ErrInvalidSetting = errors.New("invalid setting value")

// languages the frontend ships translations for
var supportedLanguages = map[string]bool{
	"en": true,
	"hu": true,
	"de": true,
	"fr": true,
	"es": true,
	"it": true,
	"ja": true,
}

var supportedThemes = map[string]bool{
	"dark":  true,
	"light": true,
}

// Service manages per-user UI settings. Users without a stored row get
// defaults; saving always writes the full row.
type Service struct {
	db   *sql.DB
	repo database.SettingsRepo
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Get returns the stored settings, or defaults when none exist.
func (s *Service) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	st, err := s.repo.ByUserID(ctx, s.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := models.DefaultUserSettings(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user settings: %w", err)
	}
	return st, nil
}

// Save validates and stores the full settings row.
func (s *Service) Save(ctx context.Context, st *models.UserSettings) (*models.UserSettings, error) {
	if !supportedLanguages[st.Language] {
		return nil, fmt.Errorf("%w: language %q", ErrInvalidSetting, st.Language)
	}
	if !supportedThemes[st.Theme] {
		return nil, fmt.Errorf("%w: theme %q", ErrInvalidSetting, st.Theme)
	}
	if err := s.repo.Upsert(ctx, s.db, st); err != nil {
		return nil, err
	}
	return st, nil
}
