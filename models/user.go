package models

import "time"

// User is a registered account. PasswordHash and the recovery fields never
// leave the server.
type User struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	FullName        string     `json:"fullName,omitempty"`
	Bio             string     `json:"bio,omitempty"`
	PasswordHash    string     `json:"-"`
	RecoveryHash    *string    `json:"-"`
	RecoveryExpires *time.Time `json:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"-"`
}

// HasActiveRecovery reports whether an unexpired recovery code is pending
// for the account.
func (u *User) HasActiveRecovery(now time.Time) bool {
	return u.RecoveryHash != nil && u.RecoveryExpires != nil && now.Before(*u.RecoveryExpires)
}
