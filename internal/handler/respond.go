package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matka/platform/internal/domain"
)

// maxBodyBytes caps request bodies; a full keypad grid is well under this.
const maxBodyBytes = 1 << 20

// errorResponse is the body of every error reply. Validation notices carry
// dismiss_after_ms so the UI can clear them on its own.
type errorResponse struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	DismissAfterMS int64  `json:"dismiss_after_ms,omitempty"`
}

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// RespondError writes a JSON error response, detecting domain.AppError for status codes.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		body := errorResponse{Code: appErr.Code, Message: appErr.Message}
		if domain.IsValidation(appErr) {
			body.DismissAfterMS = domain.NoticeTTL.Milliseconds()
		}
		RespondJSON(w, appErr.Status, body)
		return
	}
	RespondJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    domain.CodeInternal,
		Message: "internal server error",
	})
}

// DecodeJSON reads and decodes a JSON request body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(dst)
}
