package generation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/internal/confidential"
	"github.com/mkarlsen/casefile/internal/reports"
)

// CreateSessionCommand opens a new generation session. A nil policy
// selects the default for the kind.
type CreateSessionCommand struct {
	Kind      Kind      `json:"kind"`
	Policy    *Policy   `json:"policy,omitempty"`
	Selection Selection `json:"selection"`
}

// SaveCommand persists an edited session as a note or report.
type SaveCommand struct {
	Title           string             `json:"title"`
	UserID          uuid.UUID          `json:"user_id"`
	Confidentiality confidential.Level `json:"confidentiality_level"`
	ReportType      reports.Type       `json:"report_type,omitempty"`
	PeriodStart     *time.Time         `json:"period_start,omitempty"`
	PeriodEnd       *time.Time         `json:"period_end,omitempty"`
}

// SaveResult identifies what a saved session produced.
type SaveResult struct {
	ResourceType string    `json:"resource_type"`
	ResourceID   uuid.UUID `json:"resource_id"`
}

// System defines the public contract for generation orchestration.
type System interface {
	Handler() *Handler

	CreateSession(cmd CreateSessionCommand) (*Session, error)
	Find(id uuid.UUID) (*Session, error)
	UpdateSelection(id uuid.UUID, sel Selection) (*Session, error)
	Generate(ctx context.Context, id uuid.UUID) (*Session, error)
	UpdateContent(id uuid.UUID, content string) (*Session, error)
	Save(ctx context.Context, id uuid.UUID, cmd SaveCommand, actor *uuid.UUID) (*SaveResult, error)
	Discard(id uuid.UUID) error
}
