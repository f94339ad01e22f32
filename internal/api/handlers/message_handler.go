package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fanvault/fanvault-be/internal/services"
)

// MessageHandler handles HTTP requests for fan messages.
type MessageHandler struct {
	service services.MessageServiceProvider
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(service services.MessageServiceProvider) *MessageHandler {
	return &MessageHandler{service: service}
}

// MessagePayload defines the structure for message requests.
type MessagePayload struct {
	Body        string `json:"body"`
	FanUsername string `json:"fanUsername"`
	FanEmail    string `json:"fanEmail"`
}

// Send handles leaving a message for a creator.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	var payload MessagePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	viewer := resolveViewer(r, payload.FanUsername, payload.FanEmail)
	msg, err := h.service.Send(viewer, username, payload.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// List returns the creator's inbox to its authenticated owner.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewer := resolveViewer(r, "", "")

	messages, err := h.service.ListForCreator(viewer, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
