package domain

import (
	"sort"
	"time"
)

// Tier is the monetization level of a trip listing. It controls sort
// priority and badge display only; no other component depends on it.
type Tier string

const (
	TierFree     Tier = "free"
	TierFeatured Tier = "featured"
	TierPremium  Tier = "premium"
)

// Paid reports whether the tier is one of the purchasable levels.
func (t Tier) Paid() bool {
	return t == TierFeatured || t == TierPremium
}

// Rank maps a tier to its display priority. Unrecognized values rank with
// free so a bad row can never outrank a paying listing.
func (t Tier) Rank() int {
	switch t {
	case TierPremium:
		return 3
	case TierFeatured:
		return 2
	default:
		return 1
	}
}

// MaterializeTier folds an elapsed premium window into the trip value and
// reports whether a demotion happened. Callers on read paths must invoke
// this before returning the trip and, when it reports true, write the free
// tier back to storage. Expiry is lazy and read-triggered; there is no
// background sweep, so a trip nobody queries keeps its stale tier in
// storage with no externally visible effect.
func (t *Trip) MaterializeTier(now time.Time) bool {
	if t.PremiumTier == TierFree {
		return false
	}
	if t.PremiumExpiresAt == nil || t.PremiumExpiresAt.After(now) {
		return false
	}
	t.PremiumTier = TierFree
	t.PremiumExpiresAt = nil
	return true
}

// RankTrips orders trips for display: tier rank descending, then start date
// ascending within a tier. The sort is stable, so trips equal on both keys
// keep their input order.
func RankTrips(trips []Trip) {
	sort.SliceStable(trips, func(i, j int) bool {
		ri, rj := trips[i].PremiumTier.Rank(), trips[j].PremiumTier.Rank()
		if ri != rj {
			return ri > rj
		}
		return trips[i].StartDate.Before(trips[j].StartDate)
	})
}
