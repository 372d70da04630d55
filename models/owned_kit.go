package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnedKit is a user's copy of a kit definition, with the metadata that drives
// its valuation. FinalValue is materialized: it is recomputed from the current
// inputs on every create and update, never read back stale.
type OwnedKit struct {
	ID              int     `json:"id" db:"id"`
	UserID          int     `json:"user_id" db:"user_id"`
	KitID           int     `json:"kit_id" db:"kit_id"`
	ShirtTechnology string  `json:"shirt_technology" db:"shirt_technology"`
	Condition       string  `json:"condition" db:"condition"`
	Size            string  `json:"size" db:"size"`
	PlayerName      *string `json:"player_name,omitempty" db:"player_name"`
	PlayerNumber    *string `json:"player_number,omitempty" db:"player_number"`
	ForSale         bool    `json:"for_sale" db:"for_sale"`
	OfferLink       *string `json:"offer_link,omitempty" db:"offer_link"`

	ManualValue *decimal.Decimal `json:"manual_value,omitempty" db:"manual_value"`
	FinalValue  decimal.Decimal  `json:"final_value" db:"final_value"`

	AddedAt time.Time `json:"added_at" db:"added_at"`

	Kit    *Kit            `json:"kit,omitempty" db:"-"`
	Images []OwnedKitImage `json:"images,omitempty" db:"-"`

	TotalLikes int  `json:"total_likes" db:"-"`
	LikedByMe  bool `json:"liked_by_me,omitempty" db:"-"`

	ConditionDisplay  string `json:"condition_display,omitempty" db:"-"`
	TechnologyDisplay string `json:"technology_display,omitempty" db:"-"`
	SizeDisplay       string `json:"size_display,omitempty" db:"-"`
}

// OwnedKitImage belongs to exactly one owned kit; the set is listed by
// Position ASC with insertion order breaking ties.
type OwnedKitImage struct {
	ID         int       `json:"id" db:"id"`
	OwnedKitID int       `json:"owned_kit_id" db:"owned_kit_id"`
	Position   int       `json:"position" db:"position"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	ImageKey string  `json:"-" db:"image_key"`
	ImageURL *string `json:"image_url,omitempty" db:"-"`
}

// CollectionStats is the aggregate view shown on a user's public profile.
type CollectionStats struct {
	Username      string          `json:"username"`
	TotalKits     int             `json:"total_kits"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LikesReceived int             `json:"likes_received"`
}
