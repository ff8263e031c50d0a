package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sethvargo/go-password/password"
	"golang.org/x/crypto/bcrypt"

	"cineswipe/internal/database"
	"cineswipe/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameRequired   = errors.New("username must be at least 3 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrRecoveryExpired    = errors.New("recovery code expired")
)

const (
	tokenTTL    = 24 * time.Hour
	recoveryTTL = 24 * time.Hour
)

// Mailer delivers account emails. Implementations may log instead of
// sending when no SMTP transport is configured.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service manages accounts: registration, login with bearer tokens, profile
// updates, and the password-recovery flow.
type Service struct {
	db          *sql.DB
	repo        database.UserRepo
	mailer      Mailer
	jwtSecret   []byte
	frontendURL string
}

func NewService(db *sql.DB, mailer Mailer, jwtSecret, frontendURL string) *Service {
	return &Service{
		db:          db,
		mailer:      mailer,
		jwtSecret:   []byte(jwtSecret),
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Register creates an account. Username and email collisions surface as
// typed errors; the unique constraints arbitrate concurrent registrations.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if len(username) < 3 {
		return nil, ErrUsernameRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(in.Password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, s.classifyConflict(ctx, username, email)
		}
		return nil, err
	}
	log.Printf("[users] registered %s", username)
	return user, nil
}

// classifyConflict turns a unique violation into the more helpful of the
// two conflict errors.
func (s *Service) classifyConflict(ctx context.Context, username, email string) error {
	if _, err := s.repo.ByUsername(ctx, s.db, username); err == nil {
		return ErrUsernameTaken
	}
	if _, err := s.repo.ByEmail(ctx, s.db, email); err == nil {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

// Login checks the credentials and issues a signed bearer token. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.repo.ByUsername(ctx, s.db, strings.TrimSpace(username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) issueToken(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// VerifyToken validates a bearer token and returns the user ID it names.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// Profile returns the account by ID.
func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.ByID(ctx, s.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Bio      string `json:"bio"`
}

// UpdateProfile changes the account's email, full name, and bio.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, ErrInvalidEmail
		}
		user.Email = email
	}
	user.FullName = strings.TrimSpace(in.FullName)
	user.Bio = strings.TrimSpace(in.Bio)

	if err := s.repo.UpdateProfile(ctx, s.db, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// ForgotPassword starts the recovery flow. It always reports success so the
// endpoint cannot be used to probe which emails are registered.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.ByEmail(ctx, s.db, strings.TrimSpace(strings.ToLower(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	code, err := password.Generate(32, 10, 0, false, true)
	if err != nil {
		return fmt.Errorf("generate recovery code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash recovery code: %w", err)
	}
	expires := time.Now().UTC().Add(recoveryTTL)
	if err := s.repo.SetRecovery(ctx, s.db, user.ID, string(hash), expires); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.frontendURL, code, user.Email)
	body := fmt.Sprintf("Hi %s,\n\nUse the link below to reset your password. It is valid for 24 hours.\n\n%s\n",
		user.Username, link)
	if err := s.mailer.Send(ctx, user.Email, "Password reset", body); err != nil {
		log.Printf("[users] recovery mail to %s failed: %v", user.Email, err)
	}
	return nil
}

// ResetPassword completes the recovery flow: the emailed code must match the
// stored hash and be unexpired.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	user, err := s.repo.ByEmail(ctx, s.db, strings.TrimSpace(strings.ToLower(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	if user.RecoveryHash == nil || user.RecoveryExpires == nil {
		return ErrInvalidToken
	}
	if time.Now().UTC().After(*user.RecoveryExpires) {
		return ErrRecoveryExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.RecoveryHash), []byte(code)) != nil {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, s.db, user.ID, string(hash)); err != nil {
		return err
	}
	log.Printf("[users] password reset for %s", user.Username)
	return nil
}
