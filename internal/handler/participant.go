package handler

import (
	"net/http"

	"github.com/trailmatch/backend/internal/domain"
)

type joinRequest struct {
	VehicleID int64  `json:"vehicle_id" validate:"required"`
	Message   string `json:"message"`
}

type participantStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// RequestJoin files a join request for a trip, naming the vehicle offered.
func (s *Server) RequestJoin(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	tripID, err := idParam(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}
	var req joinRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	created, err := s.participants.RequestJoin(r.Context(), user.ID, tripID, req.VehicleID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListParticipants returns the roster for a trip, each entry joined with
// the requesting user and offered vehicle.
func (s *Server) ListParticipants(w http.ResponseWriter, r *http.Request) {
	tripID, err := idParam(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}
	roster, err := s.participants.ListForTrip(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// SetParticipantStatus accepts or declines a pending join request. Only the
// trip organizer may call it.
func (s *Server) SetParticipantStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	participantID, err := idParam(r, "participantID")
	if err != nil {
		writeRequestError(w, "invalid participant id")
		return
	}
	var req participantStatusRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	updated, err := s.participants.SetStatus(r.Context(), user.ID, participantID, domain.ParticipantStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
