package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailmatch/backend/internal/domain"
	"github.com/trailmatch/backend/internal/repo"
	"github.com/trailmatch/backend/internal/service"
)

// mockParticipantRepo is a test double for repo.ParticipantRepo.
type mockParticipantRepo struct {
	create       func(ctx context.Context, p domain.TripParticipant) (domain.TripParticipant, error)
	getByID      func(ctx context.Context, id int64) (domain.TripParticipant, error)
	listByTrip   func(ctx context.Context, tripID int64) ([]domain.TripParticipantDetail, error)
	updateStatus func(ctx context.Context, id int64, status domain.ParticipantStatus) (domain.TripParticipant, error)
}

func (m *mockParticipantRepo) Create(ctx context.Context, p domain.TripParticipant) (domain.TripParticipant, error) {
	return m.create(ctx, p)
}
func (m *mockParticipantRepo) GetByID(ctx context.Context, id int64) (domain.TripParticipant, error) {
	return m.getByID(ctx, id)
}
func (m *mockParticipantRepo) ListByTrip(ctx context.Context, tripID int64) ([]domain.TripParticipantDetail, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockParticipantRepo) UpdateStatus(ctx context.Context, id int64, status domain.ParticipantStatus) (domain.TripParticipant, error) {
	return m.updateStatus(ctx, id, status)
}

var _ repo.ParticipantRepo = (*mockParticipantRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func pendingRequest() domain.TripParticipant {
	return domain.TripParticipant{
		ID:        3,
		TripID:    5,
		UserID:    77,
		VehicleID: 8,
		Status:    domain.ParticipantPending,
	}
}

func organizerTripRepo() *mockTripRepo {
	trip := validTrip()
	trip.ID = 5
	trip.OrganizerID = 42
	return &mockTripRepo{
		getByID: func(_ context.Context, _ int64) (domain.Trip, error) { return trip, nil },
	}
}

// ---- RequestJoin -----------------------------------------------------------

func TestParticipantService_RequestJoin(t *testing.T) {
	pr := &mockParticipantRepo{
		create: func(_ context.Context, p domain.TripParticipant) (domain.TripParticipant, error) {
			p.ID = 3
			p.Status = domain.ParticipantPending
			return p, nil
		},
	}
	svc := service.NewParticipantService(pr, organizerTripRepo(), discardLogger())

	got, err := svc.RequestJoin(context.Background(), 77, 5, 8, "got a built 4Runner")

	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantPending, got.Status)
	assert.Equal(t, int64(8), got.VehicleID)
}

func TestParticipantService_RequestJoin_MissingVehicle(t *testing.T) {
	svc := service.NewParticipantService(&mockParticipantRepo{}, &mockTripRepo{}, discardLogger())

	_, err := svc.RequestJoin(context.Background(), 77, 5, 0, "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParticipantService_RequestJoin_TripGone(t *testing.T) {
	tr := &mockTripRepo{
		getByID: func(_ context.Context, _ int64) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	svc := service.NewParticipantService(&mockParticipantRepo{}, tr, discardLogger())

	_, err := svc.RequestJoin(context.Background(), 77, 5, 8, "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- ListForTrip -----------------------------------------------------------

func TestParticipantService_ListForTrip_StoreFailureReturnsEmpty(t *testing.T) {
	pr := &mockParticipantRepo{
		listByTrip: func(_ context.Context, _ int64) ([]domain.TripParticipantDetail, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := service.NewParticipantService(pr, &mockTripRepo{}, discardLogger())

	got, err := svc.ListForTrip(context.Background(), 5)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

// ---- SetStatus -------------------------------------------------------------

func TestParticipantService_SetStatus_AcceptIncrementsCount(t *testing.T) {
	incremented := false
	tr := organizerTripRepo()
	tr.incrementParticipants = func(_ context.Context, id int64) error {
		incremented = true
		assert.Equal(t, int64(5), id)
		return nil
	}
	pr := &mockParticipantRepo{
		getByID: func(_ context.Context, _ int64) (domain.TripParticipant, error) {
			return pendingRequest(), nil
		},
		updateStatus: func(_ context.Context, id int64, status domain.ParticipantStatus) (domain.TripParticipant, error) {
			p := pendingRequest()
			p.Status = status
			return p, nil
		},
	}
	svc := service.NewParticipantService(pr, tr, discardLogger())

	got, err := svc.SetStatus(context.Background(), 42, 3, domain.ParticipantAccepted)

	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantAccepted, got.Status)
	assert.True(t, incremented)
}

func TestParticipantService_SetStatus_DeclineLeavesCountAlone(t *testing.T) {
	tr := organizerTripRepo()
	tr.incrementParticipants = func(_ context.Context, _ int64) error {
		t.Fatal("declining must not touch the participant count")
		return nil
	}
	pr := &mockParticipantRepo{
		getByID: func(_ context.Context, _ int64) (domain.TripParticipant, error) {
			return pendingRequest(), nil
		},
		updateStatus: func(_ context.Context, _ int64, status domain.ParticipantStatus) (domain.TripParticipant, error) {
			p := pendingRequest()
			p.Status = status
			return p, nil
		},
	}
	svc := service.NewParticipantService(pr, tr, discardLogger())

	got, err := svc.SetStatus(context.Background(), 42, 3, domain.ParticipantDeclined)

	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantDeclined, got.Status)
}

func TestParticipantService_SetStatus_NotOrganizer(t *testing.T) {
	pr := &mockParticipantRepo{
		getByID: func(_ context.Context, _ int64) (domain.TripParticipant, error) {
			return pendingRequest(), nil
		},
	}
	svc := service.NewParticipantService(pr, organizerTripRepo(), discardLogger())

	_, err := svc.SetStatus(context.Background(), 99, 3, domain.ParticipantAccepted)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestParticipantService_SetStatus_AlreadyDecided(t *testing.T) {
	pr := &mockParticipantRepo{
		getByID: func(_ context.Context, _ int64) (domain.TripParticipant, error) {
			p := pendingRequest()
			p.Status = domain.ParticipantAccepted
			return p, nil
		},
	}
	svc := service.NewParticipantService(pr, organizerTripRepo(), discardLogger())

	_, err := svc.SetStatus(context.Background(), 42, 3, domain.ParticipantDeclined)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestParticipantService_SetStatus_InvalidTarget(t *testing.T) {
	svc := service.NewParticipantService(&mockParticipantRepo{}, &mockTripRepo{}, discardLogger())

	// pending is not a valid transition target.
	_, err := svc.SetStatus(context.Background(), 42, 3, domain.ParticipantPending)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParticipantService_SetStatus_NoCapacityCheck(t *testing.T) {
	// A full trip can still accept: the count is advisory, not a gate.
	trip := validTrip()
	trip.ID = 5
	trip.OrganizerID = 42
	trip.MaxParticipants = 2
	trip.CurrentParticipants = 2

	tr := &mockTripRepo{
		getByID:               func(_ context.Context, _ int64) (domain.Trip, error) { return trip, nil },
		incrementParticipants: func(_ context.Context, _ int64) error { return nil },
	}
	pr := &mockParticipantRepo{
		getByID: func(_ context.Context, _ int64) (domain.TripParticipant, error) {
			return pendingRequest(), nil
		},
		updateStatus: func(_ context.Context, _ int64, status domain.ParticipantStatus) (domain.TripParticipant, error) {
			p := pendingRequest()
			p.Status = status
			return p, nil
		},
	}
	svc := service.NewParticipantService(pr, tr, discardLogger())

	_, err := svc.SetStatus(context.Background(), 42, 3, domain.ParticipantAccepted)

	assert.NoError(t, err)
}
