package generation

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mkarlsen/casefile/pkg/handlers"
	"github.com/mkarlsen/casefile/pkg/routes"
)

// Handler provides HTTP endpoints for generation sessions.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "generation"),
	}
}

// Routes returns the route group definition for generation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/generation",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/sessions", Handler: h.CreateSession},
			{Method: "GET", Pattern: "/sessions/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/sessions/{id}/selection", Handler: h.UpdateSelection},
			{Method: "POST", Pattern: "/sessions/{id}/generate", Handler: h.Generate},
			{Method: "PUT", Pattern: "/sessions/{id}/content", Handler: h.UpdateContent},
			{Method: "POST", Pattern: "/sessions/{id}/save", Handler: h.Save},
			{Method: "POST", Pattern: "/sessions/{id}/discard", Handler: h.Discard},
		},
	}
}

// CreateSession opens a new session in the selection state.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var cmd CreateSessionCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSession)
		return
	}

	session, err := h.sys.CreateSession(cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, session)
}

// Find returns a session by id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSession)
		return
	}

	session, err := h.sys.Find(id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session)
}

// UpdateSelection replaces the session's selected material.
func (h *Handler) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSession)
		return
	}

	var sel Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSession)
		return
	}

	session, err := h.sys.UpdateSelection(id, sel)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session)
}

// Generate requests draft content for the session's selection.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSession)
		return
	}

	session, err := h.sys.Generate(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session)
}

// UpdateContent replaces the session's draft text while editing.
func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSession)
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSession)
		return
	}

	session, err := h.sys.UpdateContent(id, body.Content)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session)
}

// Save persists the edited draft as a note or report.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSession)
		return
	}

	var cmd SaveCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSession)
		return
	}

	result, err := h.sys.Save(r.Context(), id, cmd, handlers.Actor(r))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Discard drops the session without persisting anything.
func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSession)
		return
	}

	if err := h.sys.Discard(id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
