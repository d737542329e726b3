package respond

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Envelope is the standard API response wrapper used across handlers.
// RequestID echoes the id assigned by the request-id middleware so clients
// can quote it when reporting a failure.
type Envelope struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	write(w, r, status, Envelope{Code: status, Message: message, Data: data})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	write(w, r, status, Envelope{Code: status, Message: message})
}

// write logs encode failures through the logger stored in the request
// context; without one they are dropped.
func write(w http.ResponseWriter, r *http.Request, status int, payload Envelope) {
	log := zerolog.Nop()
	if r != nil {
		payload.RequestID = middleware.GetReqID(r.Context())
		log = *zerolog.Ctx(r.Context())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Str("request_id", payload.RequestID).Msg("respond: encode payload failed")
	}
}
