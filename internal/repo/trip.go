package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/trailmatch/backend/internal/domain"
)

// TripRepo defines the persistence operations for trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Trip, error)

	// ListOpen returns all open trips ordered by start_date ascending.
	ListOpen(ctx context.Context) ([]domain.Trip, error)

	// ListByOrganizer returns every trip owned by the given user.
	ListByOrganizer(ctx context.Context, organizerID int64) ([]domain.Trip, error)

	// ListJoined returns trips the user participates in with accepted status.
	ListJoined(ctx context.Context, userID int64) ([]domain.Trip, error)

	// ListAll returns every trip regardless of status, newest first.
	ListAll(ctx context.Context) ([]domain.Trip, error)

	// Update applies the non-nil fields of upd to an existing trip and
	// returns the updated record. Returns domain.ErrNotFound if absent.
	Update(ctx context.Context, id int64, upd domain.TripUpdate) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// SetPremium writes the tier and its expiry in a single update.
	SetPremium(ctx context.Context, id int64, tier domain.Tier, expiresAt time.Time) error

	// ClearPremium demotes a trip to the free tier and clears the expiry.
	// Racing clears are benign: both writers converge on the same value.
	ClearPremium(ctx context.Context, id int64) error

	// IncrementParticipants bumps current_participants by one in SQL, so
	// concurrent accepts never lose an increment.
	IncrementParticipants(ctx context.Context, id int64) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripCols = `id, organizer_id, title, description, location, state,
		start_date, end_date, difficulty, styles,
		max_participants, current_participants,
		vehicle_requirement, min_tire_size, requires_winch, requires_lockers,
		photos, itinerary, camping_info, status,
		premium_tier, premium_expires_at, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	q := `
		INSERT INTO trips (organizer_id, title, description, location, state,
			start_date, end_date, difficulty, styles,
			max_participants, current_participants,
			vehicle_requirement, min_tire_size, requires_winch, requires_lockers,
			photos, itinerary, camping_info)
		VALUES (@organizer_id, @title, @description, @location, @state,
			@start_date, @end_date, @difficulty, @styles,
			@max_participants, @current_participants,
			@vehicle_requirement, @min_tire_size, @requires_winch, @requires_lockers,
			@photos, @itinerary, @camping_info)
		RETURNING ` + tripCols

	args := pgx.NamedArgs{
		"organizer_id":         trip.OrganizerID,
		"title":                trip.Title,
		"description":          trip.Description,
		"location":             trip.Location,
		"state":                trip.State,
		"start_date":           trip.StartDate,
		"end_date":             trip.EndDate,
		"difficulty":           string(trip.Difficulty),
		"styles":               emptyIfNil(trip.Styles),
		"max_participants":     trip.MaxParticipants,
		"current_participants": trip.CurrentParticipants,
		"vehicle_requirement":  requirementArg(trip.VehicleRequirement),
		"min_tire_size":        trip.MinTireSize,
		"requires_winch":       trip.RequiresWinch,
		"requires_lockers":     trip.RequiresLockers,
		"photos":               emptyIfNil(trip.Photos),
		"itinerary":            trip.Itinerary,
		"camping_info":         trip.CampingInfo,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	q := `SELECT ` + tripCols + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ListOpen(ctx context.Context) ([]domain.Trip, error) {
	q := `SELECT ` + tripCols + ` FROM trips WHERE status = 'open' ORDER BY start_date ASC`
	return r.list(ctx, "ListOpen", q, nil)
}

func (r *pgTripRepo) ListByOrganizer(ctx context.Context, organizerID int64) ([]domain.Trip, error) {
	q := `SELECT ` + tripCols + ` FROM trips WHERE organizer_id = @organizer_id ORDER BY start_date ASC`
	return r.list(ctx, "ListByOrganizer", q, pgx.NamedArgs{"organizer_id": organizerID})
}

func (r *pgTripRepo) ListJoined(ctx context.Context, userID int64) ([]domain.Trip, error) {
	q := `
		SELECT t.id, t.organizer_id, t.title, t.description, t.location, t.state,
			t.start_date, t.end_date, t.difficulty, t.styles,
			t.max_participants, t.current_participants,
			t.vehicle_requirement, t.min_tire_size, t.requires_winch, t.requires_lockers,
			t.photos, t.itinerary, t.camping_info, t.status,
			t.premium_tier, t.premium_expires_at, t.created_at, t.updated_at
		FROM trips t
		JOIN trip_participants p ON p.trip_id = t.id
		WHERE p.user_id = @user_id AND p.status = 'accepted'
		ORDER BY t.start_date ASC`
	return r.list(ctx, "ListJoined", q, pgx.NamedArgs{"user_id": userID})
}

func (r *pgTripRepo) ListAll(ctx context.Context) ([]domain.Trip, error) {
	q := `SELECT ` + tripCols + ` FROM trips ORDER BY created_at DESC`
	return r.list(ctx, "ListAll", q, nil)
}

func (r *pgTripRepo) list(ctx context.Context, op, q string, args pgx.NamedArgs) ([]domain.Trip, error) {
	var rows pgx.Rows
	var err error
	if args == nil {
		rows, err = r.db.Query(ctx, q)
	} else {
		rows, err = r.db.Query(ctx, q, args)
	}
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.%s: %w", op, err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.%s: scan: %w", op, err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.%s: rows: %w", op, err)
	}

	return trips, nil
}

func (r *pgTripRepo) Update(ctx context.Context, id int64, upd domain.TripUpdate) (domain.Trip, error) {
	// COALESCE keeps the stored value for every nil arg, so a partial update
	// is a single statement with no read-modify-write round trip.
	q := `
		UPDATE trips
		SET title            = COALESCE(@title, title),
		    description      = COALESCE(@description, description),
		    location         = COALESCE(@location, location),
		    state            = COALESCE(@state, state),
		    start_date       = COALESCE(@start_date, start_date),
		    end_date         = COALESCE(@end_date, end_date),
		    difficulty       = COALESCE(@difficulty, difficulty),
		    styles           = COALESCE(@styles, styles),
		    max_participants = COALESCE(@max_participants, max_participants),
		    status           = COALESCE(@status, status),
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + tripCols

	args := pgx.NamedArgs{
		"id":               id,
		"title":            upd.Title,
		"description":      upd.Description,
		"location":         upd.Location,
		"state":            upd.State,
		"start_date":       upd.StartDate,
		"end_date":         upd.EndDate,
		"difficulty":       (*string)(upd.Difficulty),
		"styles":           upd.Styles, // nil keeps the stored array
		"max_participants": upd.MaxParticipants,
		"status":           (*string)(upd.Status),
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) SetPremium(ctx context.Context, id int64, tier domain.Tier, expiresAt time.Time) error {
	q := `
		UPDATE trips
		SET premium_tier = @tier, premium_expires_at = @expires_at, updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "tier": string(tier), "expires_at": expiresAt})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.SetPremium: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.SetPremium: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) ClearPremium(ctx context.Context, id int64) error {
	q := `
		UPDATE trips
		SET premium_tier = 'free', premium_expires_at = NULL, updated_at = now()
		WHERE id = @id`

	// No RowsAffected check: a concurrent delete or another expiry sweep
	// winning the race is fine, both end states are correct.
	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("repo.TripRepo.ClearPremium: %w", err)
	}
	return nil
}

func (r *pgTripRepo) IncrementParticipants(ctx context.Context, id int64) error {
	q := `
		UPDATE trips
		SET current_participants = current_participants + 1, updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.IncrementParticipants: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.IncrementParticipants: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
// Enum columns come back as text and are converted after the scan.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t           domain.Trip
		difficulty  string
		requirement *string
		status      string
		tier        string
	)

	err := s.Scan(
		&t.ID, &t.OrganizerID, &t.Title, &t.Description, &t.Location, &t.State,
		&t.StartDate, &t.EndDate, &difficulty, &t.Styles,
		&t.MaxParticipants, &t.CurrentParticipants,
		&requirement, &t.MinTireSize, &t.RequiresWinch, &t.RequiresLockers,
		&t.Photos, &t.Itinerary, &t.CampingInfo, &status,
		&tier, &t.PremiumExpiresAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.Difficulty = domain.Difficulty(difficulty)
	t.Status = domain.TripStatus(status)
	t.PremiumTier = domain.Tier(tier)
	if requirement != nil {
		vr := domain.VehicleRequirement(*requirement)
		t.VehicleRequirement = &vr
	}

	return t, nil
}

// emptyIfNil keeps NOT NULL text[] columns happy when the caller passes nil.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// requirementArg converts an optional enum to a nullable text arg.
func requirementArg(v *domain.VehicleRequirement) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
