// Package session defines the session model.
//
// No handler currently creates, reads, or expires a session; the type and
// its store exist so the wiring stays in place for a future auth layer.
package session

import "time"

// Session represents a login session belonging to a user.
type Session struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
