package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trailmatch/backend/internal/domain"
)

// ParticipantRepo defines the persistence operations for trip join requests.
type ParticipantRepo interface {
	// Create inserts a pending join request and returns the persisted record.
	Create(ctx context.Context, p domain.TripParticipant) (domain.TripParticipant, error)

	// GetByID retrieves a join request by primary key.
	// Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (domain.TripParticipant, error)

	// ListByTrip returns the trip roster with each requester and vehicle
	// joined in. Deleted users/vehicles come back as nil details.
	ListByTrip(ctx context.Context, tripID int64) ([]domain.TripParticipantDetail, error)

	// UpdateStatus writes the new status. Returns domain.ErrNotFound if absent.
	UpdateStatus(ctx context.Context, id int64, status domain.ParticipantStatus) (domain.TripParticipant, error)
}

type pgParticipantRepo struct {
	db db
}

// NewParticipantRepo constructs a ParticipantRepo backed by the provided db connection.
func NewParticipantRepo(db db) ParticipantRepo {
	return &pgParticipantRepo{db: db}
}

const participantCols = `id, trip_id, user_id, vehicle_id, status, message, joined_at, updated_at`

func (r *pgParticipantRepo) Create(ctx context.Context, p domain.TripParticipant) (domain.TripParticipant, error) {
	q := `
		INSERT INTO trip_participants (trip_id, user_id, vehicle_id, status, message)
		VALUES (@trip_id, @user_id, @vehicle_id, 'pending', @message)
		RETURNING ` + participantCols

	args := pgx.NamedArgs{
		"trip_id":    p.TripID,
		"user_id":    p.UserID,
		"vehicle_id": p.VehicleID,
		"message":    p.Message,
	}

	result, err := scanParticipant(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripParticipant{}, fmt.Errorf("repo.ParticipantRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgParticipantRepo) GetByID(ctx context.Context, id int64) (domain.TripParticipant, error) {
	q := `SELECT ` + participantCols + ` FROM trip_participants WHERE id = @id`

	result, err := scanParticipant(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TripParticipant{}, fmt.Errorf("repo.ParticipantRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgParticipantRepo) ListByTrip(ctx context.Context, tripID int64) ([]domain.TripParticipantDetail, error) {
	q := `
		SELECT p.id, p.trip_id, p.user_id, p.vehicle_id, p.status, p.message,
		       p.joined_at, p.updated_at,
		       u.id, u.name, u.location, u.experience_level, u.profile_photo,
		       v.id, v.make, v.model, v.year, v.build_level, v.tire_size
		FROM trip_participants p
		LEFT JOIN users u ON u.id = p.user_id
		LEFT JOIN vehicles v ON v.id = p.vehicle_id
		WHERE p.trip_id = @trip_id
		ORDER BY p.joined_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var details []domain.TripParticipantDetail
	for rows.Next() {
		var (
			d         domain.TripParticipantDetail
			status    string
			userID    *int64
			userName  *string
			userLoc   *string
			userExp   *string
			userPhoto *string
			vehID     *int64
			vehMake   *string
			vehModel  *string
			vehYear   *int
			vehBuild  *string
			vehTires  *string
		)

		err := rows.Scan(
			&d.Participant.ID, &d.Participant.TripID, &d.Participant.UserID,
			&d.Participant.VehicleID, &status, &d.Participant.Message,
			&d.Participant.JoinedAt, &d.Participant.UpdatedAt,
			&userID, &userName, &userLoc, &userExp, &userPhoto,
			&vehID, &vehMake, &vehModel, &vehYear, &vehBuild, &vehTires,
		)
		if err != nil {
			return nil, fmt.Errorf("repo.ParticipantRepo.ListByTrip: scan: %w", err)
		}
		d.Participant.Status = domain.ParticipantStatus(status)

		if userID != nil {
			u := domain.User{ID: *userID}
			if userName != nil {
				u.Name = *userName
			}
			if userLoc != nil {
				u.Location = *userLoc
			}
			if userExp != nil {
				lv := domain.ExperienceLevel(*userExp)
				u.ExperienceLevel = &lv
			}
			if userPhoto != nil {
				u.ProfilePhoto = *userPhoto
			}
			d.User = &u
		}
		if vehID != nil {
			v := domain.Vehicle{ID: *vehID}
			if vehMake != nil {
				v.Make = *vehMake
			}
			if vehModel != nil {
				v.Model = *vehModel
			}
			if vehYear != nil {
				v.Year = *vehYear
			}
			if vehBuild != nil {
				v.BuildLevel = domain.BuildLevel(*vehBuild)
			}
			if vehTires != nil {
				v.TireSize = *vehTires
			}
			d.Vehicle = &v
		}

		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTrip: rows: %w", err)
	}

	return details, nil
}

func (r *pgParticipantRepo) UpdateStatus(ctx context.Context, id int64, status domain.ParticipantStatus) (domain.TripParticipant, error) {
	q := `
		UPDATE trip_participants
		SET status = @status, updated_at = now()
		WHERE id = @id
		RETURNING ` + participantCols

	args := pgx.NamedArgs{"id": id, "status": string(status)}

	result, err := scanParticipant(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripParticipant{}, fmt.Errorf("repo.ParticipantRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

// scanParticipant maps a single database row into a domain.TripParticipant.
func scanParticipant(s scanner) (domain.TripParticipant, error) {
	var (
		p      domain.TripParticipant
		status string
	)

	err := s.Scan(&p.ID, &p.TripID, &p.UserID, &p.VehicleID, &status, &p.Message, &p.JoinedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripParticipant{}, domain.ErrNotFound
		}
		return domain.TripParticipant{}, err
	}

	p.Status = domain.ParticipantStatus(status)
	return p, nil
}
