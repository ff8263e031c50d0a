package models

import "time"

// UserSettings holds per-user UI preferences: interface language, theme,
// and whether the frontend plays animations.
type UserSettings struct {
	UserID     string    `json:"-"`
	Language   string    `json:"language"`
	Theme      string    `json:"theme"`
	Animations bool      `json:"animations"`
	UpdatedAt  time.Time `json:"-"`
}

// DefaultUserSettings returns the settings applied before a user saves any.
func DefaultUserSettings(userID string) UserSettings {
	return UserSettings{
		UserID:     userID,
		Language:   "en",
		Theme:      "dark",
		Animations: true,
	}
}
