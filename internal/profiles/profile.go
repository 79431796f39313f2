// Package profiles implements the profile domain: the young people
// whose cases the application tracks. Profiles are the ownership root
// for folders.
package profiles

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a young person tracked by the application.
type Profile struct {
	ID          uuid.UUID  `json:"id"`
	DisplayName string     `json:"display_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Context     *string    `json:"context,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateCommand carries the data needed to create a profile.
type CreateCommand struct {
	DisplayName string     `json:"display_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Context     *string    `json:"context,omitempty"`
}

// UpdateCommand carries the data needed to update a profile.
type UpdateCommand struct {
	DisplayName string     `json:"display_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Context     *string    `json:"context,omitempty"`
}
