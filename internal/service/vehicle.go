package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trailmatch/backend/internal/domain"
	"github.com/trailmatch/backend/internal/repo"
)

// VehicleService implements business logic for vehicle records.
// Vehicles are owner-mutable only; reads by ID are public so trip rosters
// can show the offered rig.
type VehicleService struct {
	vehicles repo.VehicleRepo
}

// NewVehicleService constructs a VehicleService backed by the provided repo.
func NewVehicleService(vehicles repo.VehicleRepo) *VehicleService {
	return &VehicleService{vehicles: vehicles}
}

// Create validates and persists a new vehicle for the given owner.
func (s *VehicleService) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if strings.TrimSpace(v.Make) == "" || strings.TrimSpace(v.Model) == "" {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w: make and model are required", domain.ErrValidation)
	}
	if v.Year < 1900 || v.Year > time.Now().Year()+1 {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w: implausible year %d", domain.ErrValidation, v.Year)
	}
	if v.BuildLevel != "" && !v.BuildLevel.Valid() {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w: unknown build level %q", domain.ErrValidation, v.BuildLevel)
	}

	created, err := s.vehicles.Create(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single vehicle.
func (s *VehicleService) GetByID(ctx context.Context, id int64) (domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.GetByID: %w", err)
	}
	return v, nil
}

// ListMine returns the caller's garage.
func (s *VehicleService) ListMine(ctx context.Context, userID int64) ([]domain.Vehicle, error) {
	vehicles, err := s.vehicles.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.VehicleService.ListMine: %w", err)
	}
	return vehicles, nil
}

// Update applies the owner's changes to their own vehicle.
func (s *VehicleService) Update(ctx context.Context, callerID, vehicleID int64, upd domain.VehicleUpdate) (domain.Vehicle, error) {
	if err := s.requireOwner(ctx, callerID, vehicleID); err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Update: %w", err)
	}
	if upd.BuildLevel != nil && !upd.BuildLevel.Valid() {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Update: %w: unknown build level %q", domain.ErrValidation, *upd.BuildLevel)
	}

	updated, err := s.vehicles.Update(ctx, vehicleID, upd)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes the owner's own vehicle.
func (s *VehicleService) Delete(ctx context.Context, callerID, vehicleID int64) error {
	if err := s.requireOwner(ctx, callerID, vehicleID); err != nil {
		return fmt.Errorf("service.VehicleService.Delete: %w", err)
	}
	if err := s.vehicles.Delete(ctx, vehicleID); err != nil {
		return fmt.Errorf("service.VehicleService.Delete: %w", err)
	}
	return nil
}

func (s *VehicleService) requireOwner(ctx context.Context, callerID, vehicleID int64) error {
	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	if v.UserID != callerID {
		return domain.ErrForbidden
	}
	return nil
}
