package domain

import (
	"strings"
	"time"
)

// Difficulty grades a trip. It shares the experience scale used for users.
type Difficulty = ExperienceLevel

// VehicleRequirement is the minimum class of rig a trip calls for.
type VehicleRequirement string

const (
	Requirement2WD           VehicleRequirement = "2wd"
	Requirement4x4Stock      VehicleRequirement = "4x4_stock"
	Requirement4x4Modded     VehicleRequirement = "4x4_modded"
	Requirement2WDPrerunner  VehicleRequirement = "2wd_prerunner"
	Requirement4WDPrerunner  VehicleRequirement = "4wd_prerunner"
	RequirementRaptor        VehicleRequirement = "raptor"
	RequirementLongTravelFst VehicleRequirement = "long_travel_fast"
	RequirementLongTravelSlw VehicleRequirement = "long_travel_slow"
)

// Valid reports whether the requirement is one of the known values.
func (v VehicleRequirement) Valid() bool {
	switch v {
	case Requirement2WD, Requirement4x4Stock, Requirement4x4Modded,
		Requirement2WDPrerunner, Requirement4WDPrerunner, RequirementRaptor,
		RequirementLongTravelFst, RequirementLongTravelSlw:
		return true
	}
	return false
}

// TripStatus is the lifecycle state of a trip listing.
type TripStatus string

const (
	StatusOpen      TripStatus = "open"
	StatusFull      TripStatus = "full"
	StatusCompleted TripStatus = "completed"
	StatusCancelled TripStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s TripStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusFull, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Trip is a posted off-road trip. The organizer is the only user allowed to
// mutate or delete it; read access is public.
type Trip struct {
	ID          int64      `json:"id"`
	OrganizerID int64      `json:"organizer_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location"`
	State       string     `json:"state,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	Difficulty  Difficulty `json:"difficulty"`
	Styles      []string   `json:"styles,omitempty"` // free-form tags: rock_crawling, overland, desert, ...

	MaxParticipants     int `json:"max_participants"`
	CurrentParticipants int `json:"current_participants"`

	VehicleRequirement *VehicleRequirement `json:"vehicle_requirement,omitempty"`
	MinTireSize        string              `json:"min_tire_size,omitempty"`
	RequiresWinch      bool                `json:"requires_winch"`
	RequiresLockers    bool                `json:"requires_lockers"`

	Photos      []string `json:"photos,omitempty"`
	Itinerary   string   `json:"itinerary,omitempty"`
	CampingInfo string   `json:"camping_info,omitempty"`

	Status TripStatus `json:"status"`

	PremiumTier      Tier       `json:"premium_tier"`
	PremiumExpiresAt *time.Time `json:"premium_expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TripUpdate carries the organizer-editable trip fields for a partial update.
// Nil pointers mean "leave unchanged".
type TripUpdate struct {
	Title           *string
	Description     *string
	Location        *string
	State           *string
	StartDate       *time.Time
	EndDate         *time.Time
	Difficulty      *Difficulty
	Styles          []string
	MaxParticipants *int
	Status          *TripStatus
}

// TripFilter reduces the open-trip set to trips matching caller criteria.
// Every field is optional; zero values mean "match all". All predicates are
// conjunctive.
type TripFilter struct {
	// Location is matched as a case-insensitive substring of the trip location.
	Location string
	// Difficulty must match exactly when set.
	Difficulty Difficulty
	// Styles matches trips whose style set intersects this list.
	Styles []string
	// StartAfter keeps trips whose start date is at or after the bound.
	StartAfter *time.Time
	// EndBefore keeps trips whose end date is at or before the bound.
	EndBefore *time.Time
}

// Matches reports whether the trip satisfies every set predicate.
// An unset filter matches everything.
func (f TripFilter) Matches(t Trip) bool {
	if f.Location != "" && !strings.Contains(strings.ToLower(t.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Difficulty != "" && t.Difficulty != f.Difficulty {
		return false
	}
	if len(f.Styles) > 0 && !intersects(f.Styles, t.Styles) {
		return false
	}
	if f.StartAfter != nil && t.StartDate.Before(*f.StartAfter) {
		return false
	}
	if f.EndBefore != nil && t.EndDate.After(*f.EndBefore) {
		return false
	}
	return true
}

// FilterTrips returns the trips that satisfy the filter, preserving input
// order. An empty result is valid and distinct from an error.
func FilterTrips(trips []Trip, f TripFilter) []Trip {
	out := make([]Trip, 0, len(trips))
	for _, t := range trips {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
