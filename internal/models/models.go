// Package models declares the request and response shapes of the HTTP API,
// including the uniform response envelope every endpoint answers with.
package models

import "time"

// CreateUserRequest is the payload of POST /api/users.
type CreateUserRequest struct {
	Openid   string  `json:"openid" validate:"required"`
	Nickname string  `json:"nickname" validate:"required"`
	Avatar   *string `json:"avatar"`
}

// CreateBiographyRequest is the payload of POST /api/biographies.
// UserID must reference an existing user at the moment of creation.
type CreateBiographyRequest struct {
	UserID      string  `json:"user_id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
}

// UpdateBiographyRequest is the payload of POST /api/biographies/{id}.
//
// Every field is a pointer so that an absent field can be told apart from an
// explicitly cleared one: nil means "leave unchanged", a pointer to an empty
// string means "overwrite with empty".
type UpdateBiographyRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

// InternalStatsResponse carries the counters of GET /api/internal/stats.
type InternalStatsResponse struct {
	Users       int64 `json:"users"`
	Biographies int64 `json:"biographies"`
	Authors     int64 `json:"authors"`
}

// APIResponse is the envelope wrapping every API result on the wire:
//
//	{ "success": bool, "data": <T|null>, "message": string, "timestamp": ISO-8601 }
//
// Handlers never serialize entities directly, only through this envelope.
type APIResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// OK builds a successful envelope embedding data.
func OK(data any, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// Error builds a failed envelope with no payload.
func Error(message string) APIResponse {
	return APIResponse{
		Success:   false,
		Data:      nil,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
