package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/trailmatch/backend/internal/domain"
	"github.com/trailmatch/backend/internal/repo"
)

const (
	sessionTTL     = 7 * 24 * time.Hour
	resetTokenTTL  = time.Hour
	minPasswordLen = 8
)

// Mailer is the slice of the outbound mail system the auth service needs.
// Delivery transport is a collaborator, not part of this service.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token, name string) error
}

// sessionClaims is the JWT payload for a signed-in user.
type sessionClaims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService implements the local email/password flow: signup, login,
// profile updates, and time-limited single-use password reset tokens.
// Federated provider flows normalize into the same users table but their
// internals live outside this service.
type AuthService struct {
	users     repo.UserRepo
	tokens    repo.TokenRepo
	mailer    Mailer
	jwtSecret []byte
	log       *slog.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, tokens repo.TokenRepo, mailer Mailer, jwtSecret []byte, log *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		log:       log,
		now:       time.Now,
	}
}

// WithClock overrides the service's time source. Intended for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Signup registers a new email/password account and returns the user with a
// signed session token. Duplicate emails are rejected with a conflict.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Signup: %w: a valid email is required", domain.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Signup: %w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Signup: %w: email already registered", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Signup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Signup: hash password: %w", err)
	}

	if name == "" {
		// Default the display name from the mailbox part, as the signup form allows omitting it.
		name = strings.SplitN(email, "@", 2)[0]
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		LoginMethod:  "email",
	})
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Signup: %w", err)
	}

	token, err := s.issueSession(user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Signup: %w", err)
	}
	return user, token, nil
}

// Login verifies the credentials and returns the user with a signed session
// token. Unknown emails and bad passwords share one error so nothing about
// account existence leaks.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w: invalid email or password", domain.ErrUnauthorized)
		}
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if user.PasswordHash == "" {
		// Account was created through a federated provider; it has no local password.
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w: invalid email or password", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w: invalid email or password", domain.ErrUnauthorized)
	}

	if err := s.users.TouchLastSignedIn(ctx, user.ID, s.now()); err != nil {
		s.log.WarnContext(ctx, "failed to stamp last sign-in", "user_id", user.ID, "error", err)
	}

	token, err := s.issueSession(user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return user, token, nil
}

// ParseSession validates a session token and loads the current user record.
func (s *AuthService) ParseSession(ctx context.Context, token string) (domain.User, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return domain.User{}, fmt.Errorf("service.AuthService.ParseSession: %w", domain.ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("service.AuthService.ParseSession: %w", domain.ErrUnauthorized)
		}
		return domain.User{}, fmt.Errorf("service.AuthService.ParseSession: %w", err)
	}
	return user, nil
}

// RequestPasswordReset creates a reset token and hands it to the mailer.
// It reports success even for unknown emails so the endpoint cannot be used
// to enumerate accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service.AuthService.RequestPasswordReset: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("service.AuthService.RequestPasswordReset: %w", err)
	}
	token := hex.EncodeToString(raw)

	if _, err := s.tokens.Create(ctx, domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: s.now().Add(resetTokenTTL),
	}); err != nil {
		return fmt.Errorf("service.AuthService.RequestPasswordReset: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, token, user.Name); err != nil {
		return fmt.Errorf("service.AuthService.RequestPasswordReset: %w", err)
	}
	return nil
}

// ResetPassword redeems a reset token exactly once and replaces the password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("service.AuthService.ResetPassword: %w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	t, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("service.AuthService.ResetPassword: %w: invalid or expired reset token", domain.ErrValidation)
		}
		return fmt.Errorf("service.AuthService.ResetPassword: %w", err)
	}
	if !t.ExpiresAt.After(s.now()) {
		return fmt.Errorf("service.AuthService.ResetPassword: %w: invalid or expired reset token", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service.AuthService.ResetPassword: hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, t.UserID, string(hash)); err != nil {
		return fmt.Errorf("service.AuthService.ResetPassword: %w", err)
	}
	if err := s.tokens.MarkUsed(ctx, t.ID); err != nil {
		return fmt.Errorf("service.AuthService.ResetPassword: %w", err)
	}
	return nil
}

// UpdateProfile applies the user's own profile changes.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) (domain.User, error) {
	if upd.ExperienceLevel != nil && !upd.ExperienceLevel.Valid() {
		return domain.User{}, fmt.Errorf("service.AuthService.UpdateProfile: %w: unknown experience level %q", domain.ErrValidation, *upd.ExperienceLevel)
	}

	user, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.UpdateProfile: %w", err)
	}
	return user, nil
}

// issueSession signs a 7-day HS256 session token for the user.
func (s *AuthService) issueSession(user domain.User) (string, error) {
	now := s.now()
	claims := sessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}
