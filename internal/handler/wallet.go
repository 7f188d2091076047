package handler

import (
	"net/http"

	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/service"
)

// WalletHandler serves the cached balance and the read-only remote lookups.
type WalletHandler struct {
	svc *service.BettingService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc *service.BettingService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

// GetBalance handles GET /wallet/balance. ?refresh=1 fetches from the remote wallet.
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	refresh := false
	switch r.URL.Query().Get("refresh") {
	case "1", "true", "yes":
		refresh = true
	}

	b, err := h.svc.Balance(r.Context(), refresh)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, b)
}

// GetRates handles GET /rates.
func (h *WalletHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.svc.Rates(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, rates)
}

// GetLeaderboard handles GET /leaderboard?timeRange=today|week|month.
func (h *WalletHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	tr := domain.ParseTimeRange(r.URL.Query().Get("timeRange"))
	winners, err := h.svc.Leaderboard(r.Context(), tr)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"timeRange": tr,
		"winners":   winners,
	})
}
