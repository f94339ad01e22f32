package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fanvault/fanvault-be/internal/models"
	"github.com/fanvault/fanvault-be/internal/services"
)

// CreatorHandler handles HTTP requests for creator profiles and earnings.
type CreatorHandler struct {
	creators services.CreatorServiceProvider
	earnings services.EarningsServiceProvider
}

// NewCreatorHandler creates a new CreatorHandler.
func NewCreatorHandler(creators services.CreatorServiceProvider, earnings services.EarningsServiceProvider) *CreatorHandler {
	return &CreatorHandler{creators: creators, earnings: earnings}
}

// CreateCreatorPayload defines the structure for creator onboarding requests.
type CreateCreatorPayload struct {
	DisplayName           string             `json:"displayName"`
	Username              string             `json:"username"`
	Email                 string             `json:"email"`
	AccountType           models.AccountType `json:"accountType"`
	Price                 *float64           `json:"price"`
	VerificationArtifacts []string           `json:"verificationArtifacts"`
}

// Create handles creator profile creation.
func (h *CreatorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CreateCreatorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	viewer := resolveViewer(r, "", "")
	email := payload.Email
	if email == "" {
		email = viewer.Email
	}

	profile, err := h.creators.CreateProfile(payload.DisplayName, payload.Username, email, payload.AccountType, payload.Price, payload.VerificationArtifacts)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed to create creator profile")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

// Get handles retrieving a creator's public profile.
func (h *CreatorHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	profile, err := h.creators.GetByUsername(username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Earnings handles the creator revenue report.
func (h *CreatorHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	report, err := h.earnings.ForCreator(username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
