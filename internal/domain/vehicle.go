package domain

import "time"

// BuildLevel describes how far a vehicle has been modified from stock.
type BuildLevel string

const (
	BuildStock    BuildLevel = "stock"
	BuildMild     BuildLevel = "mild"
	BuildModerate BuildLevel = "moderate"
	BuildHeavy    BuildLevel = "heavy"
)

// Valid reports whether the build level is one of the known values.
func (b BuildLevel) Valid() bool {
	switch b {
	case BuildStock, BuildMild, BuildModerate, BuildHeavy:
		return true
	}
	return false
}

// Vehicle is a rig owned by a user. A join request always names the vehicle
// being offered for the trip.
type Vehicle struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"user_id"`
	Make                 string     `json:"make"`
	Model                string     `json:"model"`
	Year                 int        `json:"year"`
	BuildLevel           BuildLevel `json:"build_level"`
	LiftHeight           string     `json:"lift_height,omitempty"` // e.g. "3.5 inches"
	TireSize             string     `json:"tire_size,omitempty"`   // e.g. "35x12.5"
	HasWinch             bool       `json:"has_winch"`
	HasLockers           bool       `json:"has_lockers"`
	HasArmor             bool       `json:"has_armor"`
	HasSuspensionUpgrade bool       `json:"has_suspension_upgrade"`
	Modifications        []string   `json:"modifications,omitempty"`
	Photos               []string   `json:"photos,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// VehicleUpdate carries the mutable vehicle fields for a partial update.
// Nil pointers mean "leave unchanged". An explicit struct replaces the
// loosely typed payloads the edit path would otherwise invite.
type VehicleUpdate struct {
	Make                 *string
	Model                *string
	Year                 *int
	BuildLevel           *BuildLevel
	LiftHeight           *string
	TireSize             *string
	HasWinch             *bool
	HasLockers           *bool
	HasArmor             *bool
	HasSuspensionUpgrade *bool
	Modifications        []string
	Photos               []string
}
