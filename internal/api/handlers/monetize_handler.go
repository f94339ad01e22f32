package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fanvault/fanvault-be/internal/services"
)

// MonetizeHandler handles HTTP requests for tips, unlocks and subscriptions.
type MonetizeHandler struct {
	service services.MonetizeServiceProvider
}

// NewMonetizeHandler creates a new MonetizeHandler.
func NewMonetizeHandler(service services.MonetizeServiceProvider) *MonetizeHandler {
	return &MonetizeHandler{service: service}
}

// TipPayload defines the structure for tip requests. Amount is kept raw so
// both JSON numbers and numeric strings parse.
type TipPayload struct {
	Amount      json.RawMessage `json:"amount"`
	Message     string          `json:"message"`
	FanUsername string          `json:"fanUsername"`
	FanEmail    string          `json:"fanEmail"`
	PostID      *int64          `json:"postId"`
}

// Tip handles tipping a creator.
func (h *MonetizeHandler) Tip(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	var payload TipPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	viewer := resolveViewer(r, payload.FanUsername, payload.FanEmail)
	amount := strings.Trim(string(payload.Amount), `"`)

	tx, err := h.service.Tip(viewer, username, amount, payload.Message, payload.PostID)
	if err != nil {
		log.Warn().Err(err).Str("creator", username).Msg("Rejected tip")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"transaction": tx})
}

// IdentityPayload carries the optional unauthenticated identity hints shared
// by the unlock and subscribe endpoints.
type IdentityPayload struct {
	FanUsername string `json:"fanUsername"`
	FanEmail    string `json:"fanEmail"`
}

// Unlock handles a one-time ppv post purchase.
func (h *MonetizeHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	var payload IdentityPayload
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	viewer := resolveViewer(r, payload.FanUsername, payload.FanEmail)
	result, err := h.service.Unlock(viewer, username, postID)
	if err != nil {
		log.Warn().Err(err).Str("creator", username).Int64("post_id", postID).Msg("Rejected unlock")
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyUnlocked {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

// Subscribe handles starting a 30-day subscription.
func (h *MonetizeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var payload IdentityPayload
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	viewer := resolveViewer(r, payload.FanUsername, payload.FanEmail)
	result, err := h.service.Subscribe(viewer, username)
	if err != nil {
		log.Warn().Err(err).Str("creator", username).Msg("Rejected subscription")
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadySubscribed {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}
