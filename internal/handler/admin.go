package handler

import (
	"net/http"

	"github.com/trailmatch/backend/internal/domain"
)

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// AdminListUsers returns every account. Admin only.
func (s *Server) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	users, err := s.admin.ListUsers(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// AdminListTrips returns every trip regardless of status. Admin only.
func (s *Server) AdminListTrips(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	trips, err := s.admin.ListTrips(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// AdminListShops returns every shop. Admin only.
func (s *Server) AdminListShops(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	shops, err := s.admin.ListShops(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shops)
}

// AdminDeleteUser removes an account. Admin only.
func (s *Server) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := idParam(r, "userID")
	if err != nil {
		writeRequestError(w, "invalid user id")
		return
	}
	if err := s.admin.DeleteUser(r.Context(), user, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminDeleteTrip removes any trip. Admin only.
func (s *Server) AdminDeleteTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := idParam(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}
	if err := s.admin.DeleteTrip(r.Context(), user, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminDeleteShop removes any shop. Admin only.
func (s *Server) AdminDeleteShop(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := idParam(r, "shopID")
	if err != nil {
		writeRequestError(w, "invalid shop id")
		return
	}
	if err := s.admin.DeleteShop(r.Context(), user, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminUpdateUserRole changes a user's role. Admin only.
func (s *Server) AdminUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := idParam(r, "userID")
	if err != nil {
		writeRequestError(w, "invalid user id")
		return
	}
	var req updateRoleRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	if err := s.admin.UpdateUserRole(r.Context(), user, id, domain.Role(req.Role)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "role updated"})
}
