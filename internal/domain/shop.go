package domain

import "time"

// ShopCategory tags the kind of work an affiliated shop does.
type ShopCategory string

const (
	ShopMechanic    ShopCategory = "mechanic"
	ShopFabrication ShopCategory = "fabrication"
	ShopParts       ShopCategory = "parts"
	ShopTires       ShopCategory = "tires"
	ShopSuspension  ShopCategory = "suspension"
	ShopGeneral     ShopCategory = "general"
	ShopOther       ShopCategory = "other"
)

// Valid reports whether the category is one of the known values.
func (c ShopCategory) Valid() bool {
	switch c {
	case ShopMechanic, ShopFabrication, ShopParts, ShopTires,
		ShopSuspension, ShopGeneral, ShopOther:
		return true
	}
	return false
}

// Shop is a repair/fabrication shop recommended to the community.
// Any signed-in user may add one; reads are public.
type Shop struct {
	ID               int64          `json:"id"`
	AddedBy          int64          `json:"added_by"`
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	Categories       []ShopCategory `json:"categories"`
	OtherDescription string         `json:"other_description,omitempty"`
	Address          string         `json:"address,omitempty"`
	City             string         `json:"city,omitempty"`
	State            string         `json:"state,omitempty"`
	ZipCode          string         `json:"zip_code,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	Email            string         `json:"email,omitempty"`
	Website          string         `json:"website,omitempty"`
	Photos           []string       `json:"photos,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ShopFilter narrows a shop listing. Zero values match all; predicates are
// conjunctive, mirroring TripFilter.
type ShopFilter struct {
	// Categories matches shops whose category set intersects this list.
	Categories []ShopCategory
	// State must match exactly when set.
	State string
	// City must match exactly when set.
	City string
}

// ShopReview is a user's rating of a shop, 1 to 5.
type ShopReview struct {
	ID             int64     `json:"id"`
	ShopID         int64     `json:"shop_id"`
	UserID         int64     `json:"user_id"`
	Rating         int       `json:"rating"`
	ReviewText     string    `json:"review_text,omitempty"`
	ServiceType    string    `json:"service_type,omitempty"`
	WouldRecommend *bool     `json:"would_recommend,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
