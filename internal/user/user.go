// Package user defines the user model used throughout the application.
package user

import "time"

// User represents a registered account of the biography writing assistant.
// Accounts are created once and never mutated or deleted afterwards.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	// It is generated server-side and immutable once assigned.
	ID string `json:"id"`

	// Openid is the external account identifier the user signed up with.
	Openid string `json:"openid"`

	// Nickname is the display name shown in the UI.
	Nickname string `json:"nickname"`

	// Avatar is an optional reference to the user's avatar image.
	Avatar *string `json:"avatar"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
