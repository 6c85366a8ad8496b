package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/hotaru-ai/promptchat/pkg/logger"
)

// writeJSON writes a JSON response with the given status code. If encoding
// fails after WriteHeader the status is already on the wire; the error is
// only logged.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.ErrorCF("gateway", "Failed to encode JSON response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
