// Package biography defines the biography project model and its status set.
package biography

import "time"

// Status is the publication state of a biography project.
// It is assigned at creation and no handler currently transitions it.
type Status string

// The closed set of biography statuses.
const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
	StatusArchived  Status = "Archived"
)

// Statuses lists every valid Status value.
var Statuses = []Status{StatusDraft, StatusPublished, StatusArchived}

// IsValid reports whether s is one of the declared statuses.
func (s Status) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}

	return false
}

// Biography represents a biography project owned by a user.
// The owning user must exist when the project is created; the link is not
// re-validated afterwards because users are never deleted.
type Biography struct {
	// ID is the unique identifier of the biography, meaning a UUID.
	ID string `json:"id"`

	// UserID references the owning user.
	UserID string `json:"user_id"`

	Title string `json:"title"`

	// Description is optional and may stay unset for the whole lifetime.
	Description *string `json:"description"`

	// Content is the free-form text of the biography. New projects start
	// with an empty string.
	Content string `json:"content"`

	Status Status `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
