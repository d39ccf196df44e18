package domain

import "time"

// ParticipantStatus is the state of a join request. The organizer performs
// exactly one transition, pending → accepted or pending → declined.
type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "pending"
	ParticipantAccepted ParticipantStatus = "accepted"
	ParticipantDeclined ParticipantStatus = "declined"
)

// Valid reports whether the status is one of the known values.
func (s ParticipantStatus) Valid() bool {
	switch s {
	case ParticipantPending, ParticipantAccepted, ParticipantDeclined:
		return true
	}
	return false
}

// TripParticipant is a join request tying a user and a specific vehicle to a
// trip. Created by the requester; transitioned by the trip organizer.
type TripParticipant struct {
	ID        int64             `json:"id"`
	TripID    int64             `json:"trip_id"`
	UserID    int64             `json:"user_id"`
	VehicleID int64             `json:"vehicle_id"`
	Status    ParticipantStatus `json:"status"`
	Message   string            `json:"message,omitempty"`
	JoinedAt  time.Time         `json:"joined_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TripParticipantDetail is a participant joined with the requesting user and
// the offered vehicle, as shown on a trip's roster. User and Vehicle are nil
// when the referenced row has been deleted.
type TripParticipantDetail struct {
	Participant TripParticipant `json:"participant"`
	User        *User           `json:"user,omitempty"`
	Vehicle     *Vehicle        `json:"vehicle,omitempty"`
}
