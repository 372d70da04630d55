package models

import "github.com/shopspring/decimal"

// Kit is a team+season+type definition, e.g. "Arsenal Home 2021/2022".
// Rows are unique per (team_id, season, kit_type); EstimatedPrice is the base
// price for a size L shirt in very good condition.
type Kit struct {
	ID             int             `json:"id" db:"id"`
	TeamID         int             `json:"team_id" db:"team_id"`
	Season         string          `json:"season" db:"season"`
	KitType        string          `json:"kit_type" db:"kit_type"`
	EstimatedPrice decimal.Decimal `json:"estimated_price" db:"estimated_price"`

	Team *Team `json:"team,omitempty" db:"-"`

	MainImageKey *string `json:"-" db:"main_image_key"`
	MainImageURL *string `json:"main_image_url,omitempty" db:"-"`
}
