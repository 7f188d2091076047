package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/matka/platform/internal/service"
)

// MarketHandler serves the market catalog and gate status.
type MarketHandler struct {
	svc *service.BettingService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(svc *service.BettingService) *MarketHandler {
	return &MarketHandler{svc: svc}
}

// List handles GET /markets.
func (h *MarketHandler) List(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.svc.Markets())
}

// Status handles GET /markets/{marketID}/status.
func (h *MarketHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.MarketStatus(chi.URLParam(r, "marketID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, st)
}
