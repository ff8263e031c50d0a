package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cineswipe/models"
)

// UserRepo persists accounts.
type UserRepo struct{}

const userColumns = `id, username, email, password_hash, full_name, bio,
	recovery_hash, recovery_expires, created_at, updated_at`

func (UserRepo) scan(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
		&u.Bio, &u.RecoveryHash, &u.RecoveryExpires, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r UserRepo) Insert(ctx context.Context, q Querier, u *models.User) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, full_name, bio, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FullName, u.Bio, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r UserRepo) ByID(ctx context.Context, q Querier, id string) (*models.User, error) {
	return r.scan(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r UserRepo) ByUsername(ctx context.Context, q Querier, username string) (*models.User, error) {
	return r.scan(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r UserRepo) ByEmail(ctx context.Context, q Querier, email string) (*models.User, error) {
	return r.scan(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// UpdateProfile updates the mutable profile fields.
func (r UserRepo) UpdateProfile(ctx context.Context, q Querier, u *models.User) error {
	_, err := q.ExecContext(ctx, `
		UPDATE users SET email = ?, full_name = ?, bio = ?, updated_at = ? WHERE id = ?`,
		u.Email, u.FullName, u.Bio, time.Now().UTC(), u.ID)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	return nil
}

func (r UserRepo) UpdatePassword(ctx context.Context, q Querier, id, passwordHash string) error {
	_, err := q.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, recovery_hash = NULL, recovery_expires = NULL,
			updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SetRecovery stores the hashed recovery code and its expiry.
func (r UserRepo) SetRecovery(ctx context.Context, q Querier, id, recoveryHash string, expires time.Time) error {
	_, err := q.ExecContext(ctx, `
		UPDATE users SET recovery_hash = ?, recovery_expires = ?, updated_at = ? WHERE id = ?`,
		recoveryHash, expires, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set recovery code: %w", err)
	}
	return nil
}
