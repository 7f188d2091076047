package handler

import (
	"context"
	"encoding/json"
	"net/http"
)

// PingFunc checks a backing dependency; nil means the gateway has none to check.
type PingFunc func(ctx context.Context) error

// HealthHandler returns a health check endpoint.
func HealthHandler(ping PingFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
		})
	}
}
