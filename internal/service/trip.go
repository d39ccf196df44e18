// Package service contains the business logic for the TrailMatch API.
// Services validate inputs, enforce authorization and business rules, and
// orchestrate repo calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/trailmatch/backend/internal/domain"
	"github.com/trailmatch/backend/internal/repo"
)

// Listing upgrade price points, in cents. One fixed price per paid tier.
const (
	FeaturedPriceCents int64 = 99
	PremiumPriceCents  int64 = 199
)

// premiumDuration is how long a purchased tier stays active.
const premiumDuration = 30 * 24 * time.Hour

// PaymentGate is the slice of the payment processor the trip service needs.
// The concrete Stripe client lives in internal/payment.
type PaymentGate interface {
	// CreateIntent registers a pending payment and returns the client secret
	// the frontend needs to collect the charge.
	CreateIntent(ctx context.Context, amountCents int64, tripID, userID int64, tier domain.Tier) (clientSecret string, err error)

	// VerifyPayment reports whether the payment intent has succeeded.
	VerifyPayment(ctx context.Context, paymentIntentID string) (bool, error)
}

// TripService implements business logic for trip listings: CRUD with
// organizer-only mutation, the listing pipeline (lazy tier expiry → filter →
// rank), and the payment-gated tier upgrade.
type TripService struct {
	trips    repo.TripRepo
	payments PaymentGate
	log      *slog.Logger
	now      func() time.Time
}

// NewTripService constructs a TripService backed by the provided repo and
// payment gate.
func NewTripService(trips repo.TripRepo, payments PaymentGate, log *slog.Logger) *TripService {
	return &TripService{trips: trips, payments: payments, log: log, now: time.Now}
}

// WithClock overrides the service's time source. Intended for tests.
func (s *TripService) WithClock(now func() time.Time) *TripService {
	s.now = now
	return s
}

// Create validates and persists a new trip. The organizer starts as the
// first participant, and missing capacity falls back to the default of six.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if strings.TrimSpace(trip.Title) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(trip.Location) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: location is required", domain.ErrValidation)
	}
	if trip.StartDate.IsZero() || trip.EndDate.IsZero() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: start and end dates are required", domain.ErrValidation)
	}
	if trip.EndDate.Before(trip.StartDate) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: end date before start date", domain.ErrValidation)
	}
	if !trip.Difficulty.Valid() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: unknown difficulty %q", domain.ErrValidation, trip.Difficulty)
	}
	if trip.VehicleRequirement != nil && !trip.VehicleRequirement.Valid() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: unknown vehicle requirement %q", domain.ErrValidation, *trip.VehicleRequirement)
	}

	if trip.MaxParticipants <= 0 {
		trip.MaxParticipants = 6
	}
	trip.CurrentParticipants = 1

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// List returns open trips matching the filter, ranked for display.
// The pipeline runs lazy tier expiry first so no listing ever shows a stale
// premium badge, then the conjunctive filter, then the stable tier ranking.
// A store failure on this read path degrades to an empty listing.
func (s *TripService) List(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error) {
	all, err := s.trips.ListOpen(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "trip listing unavailable, returning empty set", "error", err)
		return []domain.Trip{}, nil
	}

	all = s.materializeAll(ctx, all)
	matched := domain.FilterTrips(all, f)
	domain.RankTrips(matched)
	return matched, nil
}

// GetByID returns a single trip with its tier materialized.
func (s *TripService) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return s.materialize(ctx, trip), nil
}

// MyTrips returns the trips a user organizes and the trips they joined.
func (s *TripService) MyTrips(ctx context.Context, userID int64) (organized, joined []domain.Trip, err error) {
	organized, err = s.trips.ListByOrganizer(ctx, userID)
	if err != nil {
		s.log.WarnContext(ctx, "organized trips unavailable, returning empty set", "error", err)
		organized = []domain.Trip{}
	}
	joined, err = s.trips.ListJoined(ctx, userID)
	if err != nil {
		s.log.WarnContext(ctx, "joined trips unavailable, returning empty set", "error", err)
		joined = []domain.Trip{}
	}

	organized = s.materializeAll(ctx, organized)
	joined = s.materializeAll(ctx, joined)
	return organized, joined, nil
}

// Update applies the organizer's changes to their own trip.
func (s *TripService) Update(ctx context.Context, callerID, tripID int64, upd domain.TripUpdate) (domain.Trip, error) {
	if err := s.requireOrganizer(ctx, callerID, tripID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if upd.Difficulty != nil && !upd.Difficulty.Valid() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w: unknown difficulty %q", domain.ErrValidation, *upd.Difficulty)
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w: unknown status %q", domain.ErrValidation, *upd.Status)
	}

	updated, err := s.trips.Update(ctx, tripID, upd)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return s.materialize(ctx, updated), nil
}

// Delete removes the organizer's own trip.
func (s *TripService) Delete(ctx context.Context, callerID, tripID int64) error {
	if err := s.requireOrganizer(ctx, callerID, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// CreatePaymentIntent starts a tier upgrade purchase for the organizer's own
// trip. A non-organizer caller is rejected before any processor call is made.
func (s *TripService) CreatePaymentIntent(ctx context.Context, callerID, tripID int64, tier domain.Tier) (clientSecret string, amountCents int64, err error) {
	if !tier.Paid() {
		return "", 0, fmt.Errorf("service.TripService.CreatePaymentIntent: %w: tier %q is not purchasable", domain.ErrValidation, tier)
	}
	if err := s.requireOrganizer(ctx, callerID, tripID); err != nil {
		return "", 0, fmt.Errorf("service.TripService.CreatePaymentIntent: %w", err)
	}

	amountCents = FeaturedPriceCents
	if tier == domain.TierPremium {
		amountCents = PremiumPriceCents
	}

	clientSecret, err = s.payments.CreateIntent(ctx, amountCents, tripID, callerID, tier)
	if err != nil {
		return "", 0, fmt.Errorf("service.TripService.CreatePaymentIntent: %w", err)
	}
	return clientSecret, amountCents, nil
}

// ConfirmUpgrade verifies the payment and, only then, writes the new tier
// with a fresh 30-day expiry. A failed verification changes nothing.
// Buying a tier while another is active overwrites tier and expiry; there is
// no stacking or proration.
func (s *TripService) ConfirmUpgrade(ctx context.Context, callerID, tripID int64, paymentIntentID string, tier domain.Tier) error {
	if !tier.Paid() {
		return fmt.Errorf("service.TripService.ConfirmUpgrade: %w: tier %q is not purchasable", domain.ErrValidation, tier)
	}
	if err := s.requireOrganizer(ctx, callerID, tripID); err != nil {
		return fmt.Errorf("service.TripService.ConfirmUpgrade: %w", err)
	}

	ok, err := s.payments.VerifyPayment(ctx, paymentIntentID)
	if err != nil {
		return fmt.Errorf("service.TripService.ConfirmUpgrade: %w", err)
	}
	if !ok {
		return fmt.Errorf("service.TripService.ConfirmUpgrade: %w", domain.ErrPaymentFailed)
	}

	expiresAt := s.now().Add(premiumDuration)
	if err := s.trips.SetPremium(ctx, tripID, tier, expiresAt); err != nil {
		return fmt.Errorf("service.TripService.ConfirmUpgrade: %w", err)
	}
	return nil
}

// requireOrganizer loads the trip and rejects callers who do not own it.
func (s *TripService) requireOrganizer(ctx context.Context, callerID, tripID int64) error {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.OrganizerID != callerID {
		return domain.ErrForbidden
	}
	return nil
}

// materialize folds an elapsed premium window into the trip and writes the
// demotion back. The write is a side effect of the read; a write failure is
// logged and swallowed because the returned value is already correct and the
// next read will retry.
func (s *TripService) materialize(ctx context.Context, trip domain.Trip) domain.Trip {
	if trip.MaterializeTier(s.now()) {
		if err := s.trips.ClearPremium(ctx, trip.ID); err != nil {
			s.log.WarnContext(ctx, "tier expiry write-back failed", "trip_id", trip.ID, "error", err)
		}
	}
	return trip
}

func (s *TripService) materializeAll(ctx context.Context, trips []domain.Trip) []domain.Trip {
	for i := range trips {
		trips[i] = s.materialize(ctx, trips[i])
	}
	return trips
}
