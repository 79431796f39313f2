// Package templates implements the template domain: user-owned report
// structures made of ordered sections that generation workflows fill in.
package templates

import (
	"time"

	"github.com/google/uuid"
)

// Template represents a reusable report structure.
type Template struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section is one ordered part of a template. Instructions guide what
// generated content should fill the section.
type Section struct {
	ID           uuid.UUID `json:"id"`
	TemplateID   uuid.UUID `json:"template_id"`
	Title        string    `json:"title"`
	OrderIndex   int       `json:"order_index"`
	Instructions string    `json:"instructions"`
}

// CreateCommand carries the data needed to create a template.
type CreateCommand struct {
	Title    string           `json:"title"`
	UserID   uuid.UUID        `json:"user_id"`
	Sections []SectionCommand `json:"sections,omitempty"`
}

// UpdateCommand carries the data needed to update a template.
type UpdateCommand struct {
	Title string `json:"title"`
}

// SectionCommand carries the data for one section in a replace
// operation. Order is positional within the submitted slice.
type SectionCommand struct {
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
}
