package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailmatch/backend/internal/domain"
)

var now = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

// ---- Tier ------------------------------------------------------------------

func TestTier_Rank(t *testing.T) {
	assert.Equal(t, 3, domain.TierPremium.Rank())
	assert.Equal(t, 2, domain.TierFeatured.Rank())
	assert.Equal(t, 1, domain.TierFree.Rank())
	assert.Equal(t, 1, domain.Tier("garbage").Rank(),
		"unknown tiers rank as free rather than panicking")
}

func TestTier_Paid(t *testing.T) {
	assert.True(t, domain.TierPremium.Paid())
	assert.True(t, domain.TierFeatured.Paid())
	assert.False(t, domain.TierFree.Paid())
}

// ---- MaterializeTier -------------------------------------------------------

func TestMaterializeTier_NotExpired(t *testing.T) {
	expires := now.Add(24 * time.Hour)
	trip := domain.Trip{PremiumTier: domain.TierPremium, PremiumExpiresAt: &expires}

	demoted := trip.MaterializeTier(now)

	assert.False(t, demoted)
	assert.Equal(t, domain.TierPremium, trip.PremiumTier)
	assert.NotNil(t, trip.PremiumExpiresAt)
}

func TestMaterializeTier_Expired(t *testing.T) {
	expires := now.Add(-time.Minute)
	trip := domain.Trip{PremiumTier: domain.TierFeatured, PremiumExpiresAt: &expires}

	demoted := trip.MaterializeTier(now)

	assert.True(t, demoted)
	assert.Equal(t, domain.TierFree, trip.PremiumTier)
	assert.Nil(t, trip.PremiumExpiresAt)
}

func TestMaterializeTier_ExpiresExactlyNow(t *testing.T) {
	expires := now
	trip := domain.Trip{PremiumTier: domain.TierPremium, PremiumExpiresAt: &expires}

	// An expiry equal to now is expired: the paid window is [start, end).
	assert.True(t, trip.MaterializeTier(now))
	assert.Equal(t, domain.TierFree, trip.PremiumTier)
}

func TestMaterializeTier_NoExpirySet(t *testing.T) {
	trip := domain.Trip{PremiumTier: domain.TierFree}

	assert.False(t, trip.MaterializeTier(now))
	assert.Equal(t, domain.TierFree, trip.PremiumTier)
}

// ---- RankTrips -------------------------------------------------------------

func TestRankTrips_TierThenStartDate(t *testing.T) {
	// Premium starts latest, free starts earliest: tier must win over date.
	premium := domain.Trip{
		ID:          1,
		Title:       "A",
		PremiumTier: domain.TierPremium,
		StartDate:   time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC),
	}
	featured := domain.Trip{
		ID:          2,
		Title:       "B",
		PremiumTier: domain.TierFeatured,
		StartDate:   time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	}
	free := domain.Trip{
		ID:          3,
		Title:       "C",
		PremiumTier: domain.TierFree,
		StartDate:   time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	got := []domain.Trip{free, featured, premium}
	domain.RankTrips(got)

	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "B", got[1].Title)
	assert.Equal(t, "C", got[2].Title)
}

func TestRankTrips_SameTierOrdersByStartDate(t *testing.T) {
	early := domain.Trip{ID: 1, StartDate: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)}
	late := domain.Trip{ID: 2, StartDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)}

	got := []domain.Trip{late, early}
	domain.RankTrips(got)

	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestRankTrips_Stable(t *testing.T) {
	// Identical tier and start date: input order must be preserved.
	start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	first := domain.Trip{ID: 10, StartDate: start}
	second := domain.Trip{ID: 20, StartDate: start}
	third := domain.Trip{ID: 30, StartDate: start}

	got := []domain.Trip{first, second, third}
	domain.RankTrips(got)

	assert.Equal(t, []int64{10, 20, 30}, []int64{got[0].ID, got[1].ID, got[2].ID})
}
