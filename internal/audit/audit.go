// Package audit implements the append-only audit trail for Casefile.
// Every tracked mutation produces one entry recording who did what to
// which resource. Recording is fire-and-forget: it runs after the primary
// mutation succeeds and its failures are never surfaced to the caller.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Log is a persisted audit trail row. Rows are append-only; the
// application never updates or deletes them.
type Log struct {
	ID           uuid.UUID      `json:"id"`
	UserID       *uuid.UUID     `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   uuid.UUID      `json:"resource_id"`
	Details      map[string]any `json:"details,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Entry carries the data recorded for a single tracked mutation.
type Entry struct {
	UserID       *uuid.UUID
	Action       string
	ResourceType string
	ResourceID   uuid.UUID
	Details      map[string]any
}

// Recorder is the sidecar contract domain systems depend on. Record must
// not block the caller and must never propagate failures.
type Recorder interface {
	Record(entry Entry)
}
