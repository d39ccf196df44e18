package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/trailmatch/backend/internal/domain"
)

// UserRepo defines the persistence operations for user accounts.
type UserRepo interface {
	// Create inserts a new user and returns the persisted record.
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID retrieves a user by primary key.
	// Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (domain.User, error)

	// GetByEmail retrieves a user by email (stored lowercased).
	// Returns domain.ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// List returns every user, newest first.
	List(ctx context.Context) ([]domain.User, error)

	// UpdateProfile applies the non-nil profile fields.
	UpdateProfile(ctx context.Context, id int64, upd domain.ProfileUpdate) (domain.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// UpdateRole changes a user's role.
	UpdateRole(ctx context.Context, id int64, role domain.Role) error

	// TouchLastSignedIn stamps last_signed_in with now.
	TouchLastSignedIn(ctx context.Context, id int64, now time.Time) error

	// Delete removes a user by ID. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error
}

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userCols = `id, email, name, password_hash, login_method, role,
		location, experience_level, bio, profile_photo,
		created_at, updated_at, last_signed_in`

func (r *pgUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	q := `
		INSERT INTO users (email, name, password_hash, login_method, role)
		VALUES (@email, @name, @password_hash, @login_method, @role)
		RETURNING ` + userCols

	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}

	args := pgx.NamedArgs{
		"email":         user.Email,
		"name":          user.Name,
		"password_hash": nullIfEmpty(user.PasswordHash),
		"login_method":  user.LoginMethod,
		"role":          string(role),
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	q := `SELECT ` + userCols + ` FROM users WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	q := `SELECT ` + userCols + ` FROM users WHERE email = lower(@email)`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) List(ctx context.Context) ([]domain.User, error) {
	q := `SELECT ` + userCols + ` FROM users ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.UserRepo.List: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.UserRepo.List: scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.UserRepo.List: rows: %w", err)
	}

	return users, nil
}

func (r *pgUserRepo) UpdateProfile(ctx context.Context, id int64, upd domain.ProfileUpdate) (domain.User, error) {
	q := `
		UPDATE users
		SET location         = COALESCE(@location, location),
		    experience_level = COALESCE(@experience_level, experience_level),
		    bio              = COALESCE(@bio, bio),
		    profile_photo    = COALESCE(@profile_photo, profile_photo),
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + userCols

	args := pgx.NamedArgs{
		"id":               id,
		"location":         upd.Location,
		"experience_level": (*string)(upd.ExperienceLevel),
		"bio":              upd.Bio,
		"profile_photo":    upd.ProfilePhoto,
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.UpdateProfile: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	q := `UPDATE users SET password_hash = @password_hash, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "password_hash": passwordHash})
	if err != nil {
		return fmt.Errorf("repo.UserRepo.UpdatePassword: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.UserRepo.UpdatePassword: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgUserRepo) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	q := `UPDATE users SET role = @role, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "role": string(role)})
	if err != nil {
		return fmt.Errorf("repo.UserRepo.UpdateRole: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.UserRepo.UpdateRole: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgUserRepo) TouchLastSignedIn(ctx context.Context, id int64, now time.Time) error {
	q := `UPDATE users SET last_signed_in = @now WHERE id = @id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "now": now}); err != nil {
		return fmt.Errorf("repo.UserRepo.TouchLastSignedIn: %w", err)
	}
	return nil
}

func (r *pgUserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.UserRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.UserRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var (
		u        domain.User
		email    *string
		hash     *string
		role     string
		expLevel *string
	)

	err := s.Scan(
		&u.ID, &email, &u.Name, &hash, &u.LoginMethod, &role,
		&u.Location, &expLevel, &u.Bio, &u.ProfilePhoto,
		&u.CreatedAt, &u.UpdatedAt, &u.LastSignedIn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	if email != nil {
		u.Email = *email
	}
	if hash != nil {
		u.PasswordHash = *hash
	}
	u.Role = domain.Role(role)
	if expLevel != nil {
		lv := domain.ExperienceLevel(*expLevel)
		u.ExperienceLevel = &lv
	}

	return u, nil
}

// nullIfEmpty converts an empty string to NULL for nullable text columns.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
