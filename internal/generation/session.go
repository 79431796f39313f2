// Package generation orchestrates AI-assisted note and report drafting:
// a session collects a template and source material, requests content
// from a generation endpoint (or a local simulator), and stages the
// result for editing before a single save against the note or report
// store.
package generation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes what a session saves into.
type Kind string

const (
	KindNote   Kind = "note"
	KindReport Kind = "report"
)

// Policy configures the selection precondition for generating. When
// both flags are false at least one of template or source must still
// be selected.
type Policy struct {
	RequireTemplate bool `json:"require_template"`
	RequireSource   bool `json:"require_source"`
}

// DefaultPolicy returns the precondition used when a session does not
// specify one. Reports need both a template and source material; notes
// can start from either.
func DefaultPolicy(kind Kind) Policy {
	if kind == KindReport {
		return Policy{RequireTemplate: true, RequireSource: true}
	}
	return Policy{}
}

// Selection is the material a session generates from.
type Selection struct {
	TemplateID *uuid.UUID  `json:"template_id,omitempty"`
	ProfileID  *uuid.UUID  `json:"profile_id,omitempty"`
	FolderIDs  []uuid.UUID `json:"folder_ids,omitempty"`
	FileIDs    []uuid.UUID `json:"file_ids,omitempty"`
}

// HasSource reports whether any folder or file is selected.
func (s Selection) HasSource() bool {
	return len(s.FolderIDs) > 0 || len(s.FileIDs) > 0
}

// Session is one in-progress generation dialog. Sessions are held in
// memory only; closing without saving loses all work.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	State     State     `json:"state"`
	Policy    Policy    `json:"policy"`
	Selection Selection `json:"selection"`
	Content   string    `json:"content"`
	Sections  []Section `json:"sections"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// saving marks an insert in flight so a concurrent save of the
	// same session is rejected instead of double-writing.
	saving bool
}

type registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[uuid.UUID]*Session)}
}

func (r *registry) add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// get returns a copy so callers never observe a session mid-mutation.
func (r *registry) get(id uuid.UUID) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// update applies fn to the stored session under the lock and returns
// the resulting copy. fn returning an error leaves the session
// untouched.
func (r *registry) update(id uuid.UUID, fn func(*Session) error) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if err := fn(s); err != nil {
		return Session{}, err
	}

	s.UpdatedAt = time.Now().UTC()
	return *s, nil
}

func (r *registry) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
