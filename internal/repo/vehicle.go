package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trailmatch/backend/internal/domain"
)

// VehicleRepo defines the persistence operations for vehicles.
type VehicleRepo interface {
	// Create inserts a new vehicle and returns the persisted record.
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// GetByID retrieves a vehicle by primary key.
	// Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (domain.Vehicle, error)

	// ListByUser returns every vehicle owned by the given user.
	ListByUser(ctx context.Context, userID int64) ([]domain.Vehicle, error)

	// Update applies the non-nil fields of upd and returns the updated record.
	// Returns domain.ErrNotFound if absent.
	Update(ctx context.Context, id int64, upd domain.VehicleUpdate) (domain.Vehicle, error)

	// Delete removes a vehicle by ID. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error
}

type pgVehicleRepo struct {
	db db
}

// NewVehicleRepo constructs a VehicleRepo backed by the provided db connection.
func NewVehicleRepo(db db) VehicleRepo {
	return &pgVehicleRepo{db: db}
}

const vehicleCols = `id, user_id, make, model, year, build_level,
		lift_height, tire_size,
		has_winch, has_lockers, has_armor, has_suspension_upgrade,
		modifications, photos, created_at, updated_at`

func (r *pgVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	q := `
		INSERT INTO vehicles (user_id, make, model, year, build_level,
			lift_height, tire_size,
			has_winch, has_lockers, has_armor, has_suspension_upgrade,
			modifications, photos)
		VALUES (@user_id, @make, @model, @year, @build_level,
			@lift_height, @tire_size,
			@has_winch, @has_lockers, @has_armor, @has_suspension_upgrade,
			@modifications, @photos)
		RETURNING ` + vehicleCols

	buildLevel := v.BuildLevel
	if buildLevel == "" {
		buildLevel = domain.BuildStock
	}

	args := pgx.NamedArgs{
		"user_id":                v.UserID,
		"make":                   v.Make,
		"model":                  v.Model,
		"year":                   v.Year,
		"build_level":            string(buildLevel),
		"lift_height":            v.LiftHeight,
		"tire_size":              v.TireSize,
		"has_winch":              v.HasWinch,
		"has_lockers":            v.HasLockers,
		"has_armor":              v.HasArmor,
		"has_suspension_upgrade": v.HasSuspensionUpgrade,
		"modifications":          emptyIfNil(v.Modifications),
		"photos":                 emptyIfNil(v.Photos),
	}

	result, err := scanVehicle(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) GetByID(ctx context.Context, id int64) (domain.Vehicle, error) {
	q := `SELECT ` + vehicleCols + ` FROM vehicles WHERE id = @id`

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Vehicle, error) {
	q := `SELECT ` + vehicleCols + ` FROM vehicles WHERE user_id = @user_id ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.VehicleRepo.ListByUser: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.ListByUser: rows: %w", err)
	}

	return vehicles, nil
}

func (r *pgVehicleRepo) Update(ctx context.Context, id int64, upd domain.VehicleUpdate) (domain.Vehicle, error) {
	q := `
		UPDATE vehicles
		SET make        = COALESCE(@make, make),
		    model       = COALESCE(@model, model),
		    year        = COALESCE(@year, year),
		    build_level = COALESCE(@build_level, build_level),
		    lift_height = COALESCE(@lift_height, lift_height),
		    tire_size   = COALESCE(@tire_size, tire_size),
		    has_winch   = COALESCE(@has_winch, has_winch),
		    has_lockers = COALESCE(@has_lockers, has_lockers),
		    has_armor   = COALESCE(@has_armor, has_armor),
		    has_suspension_upgrade = COALESCE(@has_suspension_upgrade, has_suspension_upgrade),
		    modifications = COALESCE(@modifications, modifications),
		    photos      = COALESCE(@photos, photos),
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + vehicleCols

	args := pgx.NamedArgs{
		"id":                     id,
		"make":                   upd.Make,
		"model":                  upd.Model,
		"year":                   upd.Year,
		"build_level":            (*string)(upd.BuildLevel),
		"lift_height":            upd.LiftHeight,
		"tire_size":              upd.TireSize,
		"has_winch":              upd.HasWinch,
		"has_lockers":            upd.HasLockers,
		"has_armor":              upd.HasArmor,
		"has_suspension_upgrade": upd.HasSuspensionUpgrade,
		"modifications":          upd.Modifications,
		"photos":                 upd.Photos,
	}

	result, err := scanVehicle(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanVehicle maps a single database row into a domain.Vehicle.
func scanVehicle(s scanner) (domain.Vehicle, error) {
	var (
		v          domain.Vehicle
		buildLevel string
	)

	err := s.Scan(
		&v.ID, &v.UserID, &v.Make, &v.Model, &v.Year, &buildLevel,
		&v.LiftHeight, &v.TireSize,
		&v.HasWinch, &v.HasLockers, &v.HasArmor, &v.HasSuspensionUpgrade,
		&v.Modifications, &v.Photos, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vehicle{}, domain.ErrNotFound
		}
		return domain.Vehicle{}, err
	}

	v.BuildLevel = domain.BuildLevel(buildLevel)
	return v, nil
}
