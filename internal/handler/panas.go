package handler

import (
	"iter"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/pana"
)

// PanaHandler serves the number tables behind the keypad grids.
type PanaHandler struct{}

// NewPanaHandler creates a new PanaHandler.
func NewPanaHandler() *PanaHandler {
	return &PanaHandler{}
}

type panaListResponse struct {
	Kind    string              `json:"kind"`
	Count   int                 `json:"count"`
	Numbers []string            `json:"numbers"`
	BySum   map[string][]string `json:"by_sum,omitempty"`
}

type classifyResponse struct {
	Number string `json:"number"`
	pana.Class
}

// List handles GET /panas/{kind} for single, double, triple or jodi.
func (h *PanaHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	var seq iter.Seq[string]
	grouped := true
	switch kind {
	case string(pana.KindSingle):
		seq = pana.SinglePanas()
	case string(pana.KindDouble):
		seq = pana.DoublePanas()
	case string(pana.KindTriple):
		seq = pana.TriplePanas()
	case "jodi":
		seq = pana.Jodis()
		grouped = false
	default:
		RespondError(w, domain.ErrValidation("kind must be single, double, triple or jodi"))
		return
	}

	numbers := pana.Collect(seq)
	resp := panaListResponse{Kind: kind, Count: len(numbers), Numbers: numbers}
	if grouped {
		resp.BySum = make(map[string][]string, 10)
		for ank, group := range pana.BySum(seq) {
			resp.BySum[strconv.Itoa(ank)] = group
		}
	}
	RespondJSON(w, http.StatusOK, resp)
}

// Classify handles GET /panas/classify/{number}.
func (h *PanaHandler) Classify(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	RespondJSON(w, http.StatusOK, classifyResponse{Number: number, Class: pana.Classify(number)})
}
