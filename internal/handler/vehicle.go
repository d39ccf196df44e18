package handler

import (
	"net/http"

	"github.com/trailmatch/backend/internal/domain"
)

type createVehicleRequest struct {
	Make                 string   `json:"make" validate:"required"`
	Model                string   `json:"model" validate:"required"`
	Year                 int      `json:"year" validate:"required"`
	BuildLevel           string   `json:"build_level"`
	LiftHeight           string   `json:"lift_height"`
	TireSize             string   `json:"tire_size"`
	HasWinch             bool     `json:"has_winch"`
	HasLockers           bool     `json:"has_lockers"`
	HasArmor             bool     `json:"has_armor"`
	HasSuspensionUpgrade bool     `json:"has_suspension_upgrade"`
	Modifications        []string `json:"modifications"`
	Photos               []string `json:"photos"`
}

type updateVehicleRequest struct {
	Make                 *string  `json:"make"`
	Model                *string  `json:"model"`
	Year                 *int     `json:"year"`
	BuildLevel           *string  `json:"build_level"`
	LiftHeight           *string  `json:"lift_height"`
	TireSize             *string  `json:"tire_size"`
	HasWinch             *bool    `json:"has_winch"`
	HasLockers           *bool    `json:"has_lockers"`
	HasArmor             *bool    `json:"has_armor"`
	HasSuspensionUpgrade *bool    `json:"has_suspension_upgrade"`
	Modifications        []string `json:"modifications"`
	Photos               []string `json:"photos"`
}

// CreateVehicle registers a rig under the caller's garage.
func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	var req createVehicleRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	created, err := s.vehicles.Create(r.Context(), domain.Vehicle{
		UserID:               user.ID,
		Make:                 req.Make,
		Model:                req.Model,
		Year:                 req.Year,
		BuildLevel:           domain.BuildLevel(req.BuildLevel),
		LiftHeight:           req.LiftHeight,
		TireSize:             req.TireSize,
		HasWinch:             req.HasWinch,
		HasLockers:           req.HasLockers,
		HasArmor:             req.HasArmor,
		HasSuspensionUpgrade: req.HasSuspensionUpgrade,
		Modifications:        req.Modifications,
		Photos:               req.Photos,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// MyVehicles lists the caller's garage.
func (s *Server) MyVehicles(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	vehicles, err := s.vehicles.ListMine(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// GetVehicle returns a single vehicle by ID.
func (s *Server) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "vehicleID")
	if err != nil {
		writeRequestError(w, "invalid vehicle id")
		return
	}
	v, err := s.vehicles.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// UpdateVehicle applies a partial update; only the owner may call it.
func (s *Server) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := idParam(r, "vehicleID")
	if err != nil {
		writeRequestError(w, "invalid vehicle id")
		return
	}
	var req updateVehicleRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	upd := domain.VehicleUpdate{
		Make:                 req.Make,
		Model:                req.Model,
		Year:                 req.Year,
		LiftHeight:           req.LiftHeight,
		TireSize:             req.TireSize,
		HasWinch:             req.HasWinch,
		HasLockers:           req.HasLockers,
		HasArmor:             req.HasArmor,
		HasSuspensionUpgrade: req.HasSuspensionUpgrade,
		Modifications:        req.Modifications,
		Photos:               req.Photos,
	}
	if req.BuildLevel != nil {
		b := domain.BuildLevel(*req.BuildLevel)
		upd.BuildLevel = &b
	}
	updated, err := s.vehicles.Update(r.Context(), user.ID, id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteVehicle removes a vehicle; only the owner may call it.
func (s *Server) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := idParam(r, "vehicleID")
	if err != nil {
		writeRequestError(w, "invalid vehicle id")
		return
	}
	if err := s.vehicles.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
