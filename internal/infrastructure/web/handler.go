package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"lens-agent/internal/application/port/output"
	"lens-agent/internal/usecase/chat"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const sessionCookie = "lens_session"

// Handler serves one chat session per browser, picked by cookie.
type Handler struct {
	sessions *chat.Store
	logger   output.LoggerPort
	page     *template.Template
}

type textRequest struct {
	Text string `json:"text"`
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

type pageData struct {
	Title       string
	Placeholder string
	SubmitLabel string
	View        chat.View
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	session := h.ensureSession(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := h.page.Execute(w, pageData{
		Title:       "Lens AI",
		Placeholder: "Type your prompt here",
		SubmitLabel: "Enter",
		View:        session.View(),
	})
	if err != nil {
		h.logger.Error("Failed to render page", "error", err)
	}
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.View())
}

func (h *Handler) SetInput(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_JSON", "Request body must be JSON with a text field", r))
		return
	}

	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	session.SetInput(req.Text)
	writeJSON(w, http.StatusOK, session.View())
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_JSON", "Request body must be JSON with a text field", r))
		return
	}

	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	err := session.Submit(r.Context(), req.Text)
	switch {
	case errors.Is(err, chat.ErrBusy):
		writeJSON(w, http.StatusConflict, errorResp("BUSY", "Wait for the current reply before sending another prompt", r))
		return
	case errors.Is(err, chat.ErrClosed):
		writeJSON(w, http.StatusServiceUnavailable, errorResp("CLOSED", "The server is shutting down", r))
		return
	case err != nil:
		h.logger.Error("Submit failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Something went wrong", r))
		return
	}

	writeJSON(w, http.StatusAccepted, session.View())
}

// lookupSession returns the session named by the request cookie. Unknown
// or malformed ids yield false.
func (h *Handler) lookupSession(r *http.Request) (*chat.Session, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return nil, false
	}
	return h.sessions.Get(id.String())
}

// requireSession answers 401 when the request carries no live session.
// Sessions are only created by the landing page.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	session, ok := h.lookupSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResp("NO_SESSION", "Open the chat page to start a session", r))
		return nil, false
	}
	return session, true
}

// ensureSession returns the caller's session, starting a new one with a
// fresh cookie when the request names none that is still alive.
func (h *Handler) ensureSession(w http.ResponseWriter, r *http.Request) *chat.Session {
	if session, ok := h.lookupSession(r); ok {
		return session
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Debug("New chat session", "session", id)
	return h.sessions.GetOrCreate(id)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) errorResponse {
	return errorResponse{
		Error: apiError{
			Code:      code,
			Message:   message,
			RequestID: chimiddleware.GetReqID(r.Context()),
		},
	}
}
