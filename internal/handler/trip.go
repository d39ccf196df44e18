package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/trailmatch/backend/internal/domain"
)

type createTripRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location" validate:"required"`
	State       string   `json:"state"`
	StartDate   string   `json:"start_date" validate:"required"`
	EndDate     string   `json:"end_date" validate:"required"`
	Difficulty  string   `json:"difficulty" validate:"required"`
	Styles      []string `json:"styles"`

	MaxParticipants int `json:"max_participants"`

	VehicleRequirement string `json:"vehicle_requirement"`
	MinTireSize        string `json:"min_tire_size"`
	RequiresWinch      bool   `json:"requires_winch"`
	RequiresLockers    bool   `json:"requires_lockers"`

	Photos      []string `json:"photos"`
	Itinerary   string   `json:"itinerary"`
	CampingInfo string   `json:"camping_info"`
}

type updateTripRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Location        *string  `json:"location"`
	State           *string  `json:"state"`
	StartDate       *string  `json:"start_date"`
	EndDate         *string  `json:"end_date"`
	Difficulty      *string  `json:"difficulty"`
	Styles          []string `json:"styles"`
	MaxParticipants *int     `json:"max_participants"`
	Status          *string  `json:"status"`
}

type upgradeIntentRequest struct {
	Tier string `json:"tier" validate:"required"`
}

type upgradeIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
}

type upgradeConfirmRequest struct {
	Tier            string `json:"tier" validate:"required"`
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

type myTripsResponse struct {
	Organized []domain.Trip `json:"organized"`
	Joined    []domain.Trip `json:"joined"`
}

// CreateTrip posts a new trip listing with the caller as organizer.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	var req createTripRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		writeRequestError(w, "invalid start_date")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeRequestError(w, "invalid end_date")
		return
	}
	trip := domain.Trip{
		OrganizerID:     user.ID,
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		State:           req.State,
		StartDate:       start,
		EndDate:         end,
		Difficulty:      domain.Difficulty(req.Difficulty),
		Styles:          req.Styles,
		MaxParticipants: req.MaxParticipants,
		MinTireSize:     req.MinTireSize,
		RequiresWinch:   req.RequiresWinch,
		RequiresLockers: req.RequiresLockers,
		Photos:          req.Photos,
		Itinerary:       req.Itinerary,
		CampingInfo:     req.CampingInfo,
	}
	if req.VehicleRequirement != "" {
		vr := domain.VehicleRequirement(req.VehicleRequirement)
		trip.VehicleRequirement = &vr
	}
	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListTrips returns open trips matching the query filters, ranked by paid
// tier then start date.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.TripFilter{
		Location:   q.Get("location"),
		Difficulty: domain.Difficulty(q.Get("difficulty")),
	}
	if styles := q.Get("styles"); styles != "" {
		f.Styles = strings.Split(styles, ",")
	}
	if v := q.Get("start_after"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeRequestError(w, "invalid start_after")
			return
		}
		f.StartAfter = &t
	}
	if v := q.Get("end_before"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeRequestError(w, "invalid end_before")
			return
		}
		f.EndBefore = &t
	}
	trips, err := s.trips.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// GetTrip returns a single trip by ID.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// MyTrips returns the trips the caller organizes and the trips they have
// been accepted onto.
func (s *Server) MyTrips(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	organized, joined, err := s.trips.MyTrips(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, myTripsResponse{Organized: organized, Joined: joined})
}

// UpdateTrip applies a partial update; only the organizer may call it.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
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
	var req updateTripRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	upd := domain.TripUpdate{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		State:           req.State,
		Styles:          req.Styles,
		MaxParticipants: req.MaxParticipants,
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			writeRequestError(w, "invalid start_date")
			return
		}
		upd.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			writeRequestError(w, "invalid end_date")
			return
		}
		upd.EndDate = &t
	}
	if req.Difficulty != nil {
		d := domain.Difficulty(*req.Difficulty)
		upd.Difficulty = &d
	}
	if req.Status != nil {
		st := domain.TripStatus(*req.Status)
		upd.Status = &st
	}
	updated, err := s.trips.Update(r.Context(), user.ID, id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip removes a trip; only the organizer may call it.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
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
	if err := s.trips.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateUpgradeIntent starts a paid tier upgrade by creating a payment
// intent for the tier's price.
func (s *Server) CreateUpgradeIntent(w http.ResponseWriter, r *http.Request) {
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
	var req upgradeIntentRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	secret, amount, err := s.trips.CreatePaymentIntent(r.Context(), user.ID, id, domain.Tier(req.Tier))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, upgradeIntentResponse{ClientSecret: secret, AmountCents: amount})
}

// ConfirmUpgrade verifies the payment and applies the paid tier to the trip.
func (s *Server) ConfirmUpgrade(w http.ResponseWriter, r *http.Request) {
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
	var req upgradeConfirmRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	if err := s.trips.ConfirmUpgrade(r.Context(), user.ID, id, req.PaymentIntentID, domain.Tier(req.Tier)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "upgraded"})
}

// parseDate accepts both RFC 3339 timestamps and bare dates, since trip
// dates come from a date picker but API clients may send full timestamps.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
