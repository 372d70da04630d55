package models

// Profile carries the per-user flags and presentation fields. Every user has
// exactly one profile: it is inserted in the same transaction that inserts
// the user row.
type Profile struct {
	UserID      int    `json:"user_id" db:"user_id"`
	IsPro       bool   `json:"is_pro" db:"is_pro"`
	IsModerator bool   `json:"is_moderator" db:"is_moderator"`
	Bio         string `json:"bio" db:"bio"`

	AvatarKey *string `json:"-" db:"avatar_key"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"-"`
}
