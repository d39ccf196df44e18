package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trailmatch/backend/internal/domain"
)

// TokenRepo defines the persistence operations for password reset tokens.
type TokenRepo interface {
	// Create inserts a reset token row.
	Create(ctx context.Context, t domain.PasswordResetToken) (domain.PasswordResetToken, error)

	// GetByToken retrieves an unused token by its opaque value.
	// Returns domain.ErrNotFound if absent or already used.
	GetByToken(ctx context.Context, token string) (domain.PasswordResetToken, error)

	// MarkUsed flags a token so it can never be redeemed twice.
	MarkUsed(ctx context.Context, id int64) error
}

type pgTokenRepo struct {
	db db
}

// NewTokenRepo constructs a TokenRepo backed by the provided db connection.
func NewTokenRepo(db db) TokenRepo {
	return &pgTokenRepo{db: db}
}

func (r *pgTokenRepo) Create(ctx context.Context, t domain.PasswordResetToken) (domain.PasswordResetToken, error) {
	q := `
		INSERT INTO password_reset_tokens (user_id, token, expires_at)
		VALUES (@user_id, @token, @expires_at)
		RETURNING id, user_id, token, expires_at, used, created_at`

	args := pgx.NamedArgs{
		"user_id":    t.UserID,
		"token":      t.Token,
		"expires_at": t.ExpiresAt,
	}

	result, err := scanToken(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.PasswordResetToken{}, fmt.Errorf("repo.TokenRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTokenRepo) GetByToken(ctx context.Context, token string) (domain.PasswordResetToken, error) {
	q := `
		SELECT id, user_id, token, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token = @token AND used = false`

	result, err := scanToken(r.db.QueryRow(ctx, q, pgx.NamedArgs{"token": token}))
	if err != nil {
		return domain.PasswordResetToken{}, fmt.Errorf("repo.TokenRepo.GetByToken: %w", err)
	}
	return result, nil
}

func (r *pgTokenRepo) MarkUsed(ctx context.Context, id int64) error {
	q := `UPDATE password_reset_tokens SET used = true WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TokenRepo.MarkUsed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TokenRepo.MarkUsed: %w", domain.ErrNotFound)
	}
	return nil
}

// scanToken maps a single database row into a domain.PasswordResetToken.
func scanToken(s scanner) (domain.PasswordResetToken, error) {
	var t domain.PasswordResetToken

	err := s.Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PasswordResetToken{}, domain.ErrNotFound
		}
		return domain.PasswordResetToken{}, err
	}

	return t, nil
}
