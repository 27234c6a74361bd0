package kit

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg}. The request id, when present, goes into
// the X-Request-Id header so error bodies stay fixed.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string, details any) {
	if reqID := chimw.GetReqID(r.Context()); reqID != "" {
		w.Header().Set(chimw.RequestIDHeader, reqID)
	}
	WriteJSON(w, status, ErrorResponse{
		Error:   msg,
		Details: details,
	})
}
