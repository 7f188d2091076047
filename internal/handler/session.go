package handler

import (
	"net/http"

	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/service"
)

// Waker is anything that can be nudged to re-check state, such as the day watcher.
type Waker interface {
	Wake()
}

// SessionHandler serves the cached user, the scheduling date and the wake signal.
type SessionHandler struct {
	svc   *service.BettingService
	waker Waker
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc *service.BettingService, waker Waker) *SessionHandler {
	return &SessionHandler{svc: svc, waker: waker}
}

type dateResponse struct {
	SelectedDate string `json:"selectedDate"`
	Today        string `json:"today"`
}

// GetDate handles GET /session/date.
func (h *SessionHandler) GetDate(w http.ResponseWriter, r *http.Request) {
	selected, today := h.svc.SelectedDate(r.Context())
	RespondJSON(w, http.StatusOK, dateResponse{SelectedDate: selected, Today: today})
}

// PutDate handles PUT /session/date.
func (h *SessionHandler) PutDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if _, err := h.svc.SetSelectedDate(r.Context(), req.Date); err != nil {
		RespondError(w, err)
		return
	}
	selected, today := h.svc.SelectedDate(r.Context())
	RespondJSON(w, http.StatusOK, dateResponse{SelectedDate: selected, Today: today})
}

// PutUser handles PUT /session/user, caching the user object from the login flow.
func (h *SessionHandler) PutUser(w http.ResponseWriter, r *http.Request) {
	var obj map[string]interface{}
	if err := DecodeJSON(r, &obj); err != nil || obj == nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	b, err := h.svc.SetUser(r.Context(), obj)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, b)
}

// Wake handles POST /session/wake, sent when the bettor returns to the page.
func (h *SessionHandler) Wake(w http.ResponseWriter, r *http.Request) {
	if h.waker != nil {
		h.waker.Wake()
	}
	RespondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
