package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trailmatch/backend/internal/domain"
	"github.com/trailmatch/backend/internal/repo"
)

// ParticipantService implements business logic for trip join requests.
type ParticipantService struct {
	participants repo.ParticipantRepo
	trips        repo.TripRepo
	log          *slog.Logger
}

// NewParticipantService constructs a ParticipantService backed by the
// provided repos.
func NewParticipantService(participants repo.ParticipantRepo, trips repo.TripRepo, log *slog.Logger) *ParticipantService {
	return &ParticipantService{participants: participants, trips: trips, log: log}
}

// RequestJoin files a pending join request naming the vehicle the requester
// is offering for the trip.
func (s *ParticipantService) RequestJoin(ctx context.Context, userID, tripID, vehicleID int64, message string) (domain.TripParticipant, error) {
	if tripID <= 0 || vehicleID <= 0 {
		return domain.TripParticipant{}, fmt.Errorf("service.ParticipantService.RequestJoin: %w: trip and vehicle are required", domain.ErrValidation)
	}
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.TripParticipant{}, fmt.Errorf("service.ParticipantService.RequestJoin: %w", err)
	}

	created, err := s.participants.Create(ctx, domain.TripParticipant{
		TripID:    tripID,
		UserID:    userID,
		VehicleID: vehicleID,
		Message:   message,
	})
	if err != nil {
		return domain.TripParticipant{}, fmt.Errorf("service.ParticipantService.RequestJoin: %w", err)
	}
	return created, nil
}

// ListForTrip returns the trip roster. Reads are public. A store failure on
// this read path degrades to an empty roster.
func (s *ParticipantService) ListForTrip(ctx context.Context, tripID int64) ([]domain.TripParticipantDetail, error) {
	details, err := s.participants.ListByTrip(ctx, tripID)
	if err != nil {
		s.log.WarnContext(ctx, "trip roster unavailable, returning empty set", "trip_id", tripID, "error", err)
		return []domain.TripParticipantDetail{}, nil
	}
	return details, nil
}

// SetStatus performs the single pending → accepted|declined transition.
// Only the trip organizer may transition a request, and a request that has
// already been decided cannot be decided again. Accepting bumps the trip's
// participant count; the count is incremented in SQL so concurrent accepts
// do not lose updates. No capacity check happens here — the source system
// never enforced max_participants on accept, and that behavior is kept.
func (s *ParticipantService) SetStatus(ctx context.Context, callerID, participantID int64, status domain.ParticipantStatus) (domain.TripParticipant, error) {
	if status != domain.ParticipantAccepted && status != domain.ParticipantDeclined {
		return domain.TripParticipant{}, fmt.Errorf("service.ParticipantService.SetStatus: %w: status must be accepted or declined", domain.ErrValidation)
	}

	p, err := s.participants.GetByID(ctx, participantID)
	if err != nil {
		return domain.TripParticipant{}, fmt.Errorf("service.ParticipantService.SetStatus: %w", err)
	}

	trip, err := s.trips.GetByID(ctx, p.TripID)
	if err != nil {
		return domain.TripParticipant{}, fmt.Errorf("service.ParticipantService.SetStatus: %w", err)
	}
	if trip.OrganizerID != callerID {
		return domain.TripParticipant{}, fmt.Errorf("service.ParticipantService.SetStatus: %w", domain.ErrForbidden)
	}
	if p.Status != domain.ParticipantPending {
		return domain.TripParticipant{}, fmt.Errorf("service.ParticipantService.SetStatus: %w: request already %s", domain.ErrConflict, p.Status)
	}

	updated, err := s.participants.UpdateStatus(ctx, participantID, status)
	if err != nil {
		return domain.TripParticipant{}, fmt.Errorf("service.ParticipantService.SetStatus: %w", err)
	}

	if status == domain.ParticipantAccepted {
		if err := s.trips.IncrementParticipants(ctx, p.TripID); err != nil {
			return domain.TripParticipant{}, fmt.Errorf("service.ParticipantService.SetStatus: %w", err)
		}
	}

	return updated, nil
}
