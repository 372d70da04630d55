package models

import "time"

type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Profile *Profile `json:"profile,omitempty" db:"-"`
}

// UserSearchResult is a search hit annotated with the user's owned-kit count.
type UserSearchResult struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	KitCount int    `json:"kit_count"`

	AvatarKey *string `json:"-"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
