package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/service"
)

// SlipHandler serves the pending bet slip of a market and its submission.
type SlipHandler struct {
	svc *service.BettingService
}

// NewSlipHandler creates a new SlipHandler.
func NewSlipHandler(svc *service.BettingService) *SlipHandler {
	return &SlipHandler{svc: svc}
}

// points accepts either a JSON string or a JSON number, since keypad entries
// arrive as text and scripted clients send numbers.
type points string

func (p *points) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = points(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = points(n.String())
	return nil
}

type candidateRequest struct {
	Number string `json:"number"`
	Points points `json:"points"`
	Type   string `json:"type"`
}

func (c candidateRequest) candidate() domain.Candidate {
	return domain.Candidate{Number: c.Number, Points: string(c.Points), Type: c.Type}
}

type bulkRequest struct {
	Entries []candidateRequest `json:"entries"`
}

type lineResponse struct {
	Line *domain.BetLine   `json:"line"`
	Slip *service.SlipView `json:"slip"`
}

type bulkResponse struct {
	Added int               `json:"added"`
	Slip  *service.SlipView `json:"slip"`
}

type removeResponse struct {
	Removed bool              `json:"removed"`
	Slip    *service.SlipView `json:"slip"`
}

type bucketsResponse struct {
	Family  domain.BetFamily `json:"family"`
	Buckets map[string]int64 `json:"buckets"`
}

// Get handles GET /markets/{marketID}/slips/{family}.
func (h *SlipHandler) Get(w http.ResponseWriter, r *http.Request) {
	family, err := familyParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	view, err := h.svc.Slip(chi.URLParam(r, "marketID"), family)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, view)
}

// AddLine handles POST /markets/{marketID}/slips/{family}/lines.
func (h *SlipHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	family, err := familyParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	var req candidateRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	line, view, err := h.svc.AddLine(chi.URLParam(r, "marketID"), family, req.candidate())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, lineResponse{Line: line, Slip: view})
}

// AddBulk handles POST /markets/{marketID}/slips/{family}/bulk.
func (h *SlipHandler) AddBulk(w http.ResponseWriter, r *http.Request) {
	family, err := familyParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	var req bulkRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	cs := make([]domain.Candidate, 0, len(req.Entries))
	for _, e := range req.Entries {
		cs = append(cs, e.candidate())
	}
	n, view, err := h.svc.AddBulk(chi.URLParam(r, "marketID"), family, cs)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, bulkResponse{Added: n, Slip: view})
}

// RemoveLine handles DELETE /markets/{marketID}/slips/{family}/lines/{lineID}.
func (h *SlipHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	family, err := familyParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	removed, view, err := h.svc.RemoveLine(chi.URLParam(r, "marketID"), family, chi.URLParam(r, "lineID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, removeResponse{Removed: removed, Slip: view})
}

// Clear handles DELETE /markets/{marketID}/slips/{family}.
func (h *SlipHandler) Clear(w http.ResponseWriter, r *http.Request) {
	family, err := familyParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	if err := h.svc.ClearSlip(chi.URLParam(r, "marketID"), family); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}

// Buckets handles GET /markets/{marketID}/slips/{family}/buckets.
func (h *SlipHandler) Buckets(w http.ResponseWriter, r *http.Request) {
	family, err := familyParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	buckets, err := h.svc.Buckets(chi.URLParam(r, "marketID"), family)
	if err != nil {
		RespondError(w, err)
		return
	}

	out := make(map[string]int64, len(buckets))
	for ank, total := range buckets {
		out[strconv.Itoa(ank)] = total
	}
	RespondJSON(w, http.StatusOK, bucketsResponse{Family: family, Buckets: out})
}

// Submit handles POST /markets/{marketID}/slips/{family}/submit.
func (h *SlipHandler) Submit(w http.ResponseWriter, r *http.Request) {
	family, err := familyParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	res, err := h.svc.Submit(r.Context(), chi.URLParam(r, "marketID"), family)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, res)
}

func familyParam(r *http.Request) (domain.BetFamily, error) {
	f, err := domain.ParseBetFamily(chi.URLParam(r, "family"))
	if err != nil {
		return "", domain.ErrValidation(err.Error())
	}
	return f, nil
}
