package handler

import (
	"net/http"
	"time"

	"github.com/trailmatch/backend/internal/domain"
	"github.com/trailmatch/backend/internal/middleware"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type passwordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type profileUpdateRequest struct {
	Location        *string `json:"location"`
	ExperienceLevel *string `json:"experience_level"`
	Bio             *string `json:"bio"`
	ProfilePhoto    *string `json:"profile_photo"`
}

// Signup creates a local email/password account and starts a session.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	user, token, err := s.auth.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, sessionResponse{User: user, Token: token})
}

// Login authenticates an email/password account and starts a session.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

// Logout clears the session cookie. The JWT itself stays valid until expiry;
// revocation lists are out of scope for a cookie-backed session.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// RequestPasswordReset issues a reset token for local accounts. It always
// returns 202 so the endpoint cannot be used to probe which emails exist.
func (s *Server) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	if err := s.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reset email sent if the account exists"})
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (s *Server) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetConfirm
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	if err := s.auth.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// Me returns the authenticated user's profile.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	var req profileUpdateRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	upd := domain.ProfileUpdate{
		Location:     req.Location,
		Bio:          req.Bio,
		ProfilePhoto: req.ProfilePhoto,
	}
	if req.ExperienceLevel != nil {
		level := domain.ExperienceLevel(*req.ExperienceLevel)
		upd.ExperienceLevel = &level
	}
	updated, err := s.auth.UpdateProfile(r.Context(), user.ID, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
