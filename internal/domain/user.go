// Package domain contains the core data types for the TrailMatch application.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (repo, service, handler).
package domain

import "time"

// Role controls access to admin operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ExperienceLevel grades a driver's off-road experience. The same scale is
// used for trip difficulty.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
	ExperienceExpert       ExperienceLevel = "expert"
)

// Valid reports whether the level is one of the known values.
func (e ExperienceLevel) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced, ExperienceExpert:
		return true
	}
	return false
}

// User is an account holder. PasswordHash is empty for accounts created
// through a federated provider; LoginMethod records which flow created the
// account ("email", or a provider name).
type User struct {
	ID              int64            `json:"id"`
	Email           string           `json:"email"`
	Name            string           `json:"name"`
	PasswordHash    string           `json:"-"`
	LoginMethod     string           `json:"login_method,omitempty"`
	Role            Role             `json:"role"`
	Location        string           `json:"location,omitempty"`
	ExperienceLevel *ExperienceLevel `json:"experience_level,omitempty"`
	Bio             string           `json:"bio,omitempty"`
	ProfilePhoto    string           `json:"profile_photo,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	LastSignedIn    time.Time        `json:"last_signed_in"`
}

// ProfileUpdate carries the user-editable profile fields. Nil pointers mean
// "leave unchanged".
type ProfileUpdate struct {
	Location        *string
	ExperienceLevel *ExperienceLevel
	Bio             *string
	ProfilePhoto    *string
}

// PasswordResetToken is a single-use, time-limited token for the local
// email/password flow.
type PasswordResetToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
