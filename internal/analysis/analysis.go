// Package analysis produces structured incident and behavior summaries
// over a profile's documents. Results are returned to the caller and
// never persisted; a saved synthesis goes through the generation
// workflow instead.
package analysis

import (
	"time"

	"github.com/google/uuid"
)

// CriticalIncident is one flagged event in the analyzed material.
type CriticalIncident struct {
	Date        *time.Time `json:"date,omitempty"`
	Severity    string     `json:"severity"`
	Description string     `json:"description"`
}

// BehavioralPattern is a recurring behavior the analysis surfaced.
type BehavioralPattern struct {
	Pattern   string `json:"pattern"`
	Frequency string `json:"frequency"`
	Trend     string `json:"trend,omitempty"`
}

// Result is the structured reply of an analysis run.
type Result struct {
	Summary   string              `json:"summary"`
	Incidents []CriticalIncident  `json:"incidents"`
	Patterns  []BehavioralPattern `json:"patterns"`
}

// Command selects the material to analyze.
type Command struct {
	ProfileID   *uuid.UUID  `json:"profile_id,omitempty"`
	FolderIDs   []uuid.UUID `json:"folder_ids,omitempty"`
	FileIDs     []uuid.UUID `json:"file_ids,omitempty"`
	PeriodStart *time.Time  `json:"period_start,omitempty"`
	PeriodEnd   *time.Time  `json:"period_end,omitempty"`
}

// HasSource reports whether any folder or file is selected.
func (c Command) HasSource() bool {
	return len(c.FolderIDs) > 0 || len(c.FileIDs) > 0
}
