// Package reports implements the report domain: activity and
// standardized reports whose section content is persisted as a JSON
// document.
package reports

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/confidential"
)

// Type distinguishes report kinds.
type Type string

const (
	TypeActivity     Type = "activity"
	TypeStandardized Type = "standardized"
)

// ParseType validates a report type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeActivity, TypeStandardized:
		return Type(s), nil
	}
	return "", errors.New("unknown report type: " + s)
}

// Report represents a periodic report over a profile's activity.
type Report struct {
	ID              uuid.UUID          `json:"id"`
	Title           string             `json:"title"`
	ReportType      Type               `json:"report_type"`
	PeriodStart     *time.Time         `json:"period_start,omitempty"`
	PeriodEnd       *time.Time         `json:"period_end,omitempty"`
	Content         Content            `json:"content"`
	Confidentiality confidential.Level `json:"confidentiality_level"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Content is the JSON document stored in the report's content column.
type Content struct {
	Sections []ContentSection `json:"sections"`
	Metadata map[string]any   `json:"metadata,omitempty"`
}

// ContentSection is one titled block of report content.
type ContentSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

// CreateCommand carries the data needed to create a report.
type CreateCommand struct {
	Title           string             `json:"title"`
	ReportType      Type               `json:"report_type"`
	PeriodStart     *time.Time         `json:"period_start,omitempty"`
	PeriodEnd       *time.Time         `json:"period_end,omitempty"`
	Content         Content            `json:"content"`
	Confidentiality confidential.Level `json:"confidentiality_level"`
}

// UpdateCommand carries the data needed to update a report.
type UpdateCommand struct {
	Title           string             `json:"title"`
	PeriodStart     *time.Time         `json:"period_start,omitempty"`
	PeriodEnd       *time.Time         `json:"period_end,omitempty"`
	Content         Content            `json:"content"`
	Confidentiality confidential.Level `json:"confidentiality_level"`
}
