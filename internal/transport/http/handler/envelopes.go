package handler

import (
	"encoding/json"
	"net/http"

	"github.com/verify-bot/internal/domain"
)

// MessageEnvelope is the generic response wrapper for non-interaction
// endpoints.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// ephemeral replies with a message only the invoking user can see. The
// platform expects 200 with a structured body even for logical failures.
func ephemeral(w http.ResponseWriter, content string) {
	writeJSON(w, http.StatusOK, domain.InteractionResponse{
		Type: domain.ResponseChannelMessage,
		Data: &domain.ResponseData{
			Content: content,
			Flags:   domain.FlagEphemeral,
		},
	})
}
