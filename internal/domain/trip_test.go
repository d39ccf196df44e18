package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trailmatch/backend/internal/domain"
)

func moabTrip() domain.Trip {
	return domain.Trip{
		ID:         1,
		Title:      "Moab Memorial Day",
		Location:   "Moab, Utah",
		StartDate:  time.Date(2025, 5, 24, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC),
		Difficulty: domain.ExperienceAdvanced,
		Styles:     []string{"rock_crawling", "camping"},
	}
}

// ---- TripFilter.Matches ----------------------------------------------------

func TestTripFilter_Matches_Empty(t *testing.T) {
	assert.True(t, domain.TripFilter{}.Matches(moabTrip()),
		"an unset filter must match every trip")
}

func TestTripFilter_Matches_LocationSubstring(t *testing.T) {
	trip := moabTrip()

	assert.True(t, domain.TripFilter{Location: "moab"}.Matches(trip),
		"location match is case-insensitive")
	assert.True(t, domain.TripFilter{Location: "Utah"}.Matches(trip),
		"location match is a substring, not a full match")
	assert.False(t, domain.TripFilter{Location: "Johnson Valley"}.Matches(trip))
}

func TestTripFilter_Matches_Difficulty(t *testing.T) {
	trip := moabTrip()

	assert.True(t, domain.TripFilter{Difficulty: domain.ExperienceAdvanced}.Matches(trip))
	assert.False(t, domain.TripFilter{Difficulty: domain.ExperienceBeginner}.Matches(trip),
		"difficulty is an exact match, not a minimum")
}

func TestTripFilter_Matches_StylesIntersection(t *testing.T) {
	trip := moabTrip()

	assert.True(t, domain.TripFilter{Styles: []string{"camping", "overland"}}.Matches(trip),
		"any shared style is enough")
	assert.False(t, domain.TripFilter{Styles: []string{"desert", "dunes"}}.Matches(trip))
}

func TestTripFilter_Matches_DateBounds(t *testing.T) {
	trip := moabTrip()

	after := time.Date(2025, 5, 24, 0, 0, 0, 0, time.UTC)
	assert.True(t, domain.TripFilter{StartAfter: &after}.Matches(trip),
		"a trip starting exactly on the bound is included")

	later := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, domain.TripFilter{StartAfter: &later}.Matches(trip))

	before := time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC)
	assert.True(t, domain.TripFilter{EndBefore: &before}.Matches(trip),
		"a trip ending exactly on the bound is included")

	earlier := time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC)
	assert.False(t, domain.TripFilter{EndBefore: &earlier}.Matches(trip))
}

func TestTripFilter_Matches_Conjunctive(t *testing.T) {
	trip := moabTrip()

	// All predicates set and satisfied.
	f := domain.TripFilter{
		Location:   "moab",
		Difficulty: domain.ExperienceAdvanced,
		Styles:     []string{"camping"},
	}
	assert.True(t, f.Matches(trip))

	// One failing predicate fails the whole filter.
	f.Difficulty = domain.ExperienceExpert
	assert.False(t, f.Matches(trip))
}

// ---- FilterTrips -----------------------------------------------------------

func TestFilterTrips_PreservesOrder(t *testing.T) {
	a, b, c := moabTrip(), moabTrip(), moabTrip()
	a.ID, b.ID, c.ID = 1, 2, 3
	b.Location = "Johnson Valley, California"

	got := domain.FilterTrips([]domain.Trip{a, b, c}, domain.TripFilter{Location: "moab"})

	assert.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestFilterTrips_EmptyResultIsNotNil(t *testing.T) {
	got := domain.FilterTrips([]domain.Trip{moabTrip()}, domain.TripFilter{Location: "nowhere"})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
