package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fanvault/fanvault-be/internal/models"
	"github.com/fanvault/fanvault-be/internal/services"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// CreatePostPayload defines the structure for post publication requests.
type CreatePostPayload struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Visibility  models.Visibility `json:"visibility"`
	Price       *float64          `json:"price"`
	Media       string            `json:"media"`
}

// Create handles publishing a post on a creator page.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	var payload CreatePostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	viewer := resolveViewer(r, "", "")
	post, err := h.service.CreatePost(viewer, username, payload.Title, payload.Description, payload.Visibility, payload.Price, payload.Media)
	if err != nil {
		log.Warn().Err(err).Str("creator", username).Msg("Failed to create post")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// List returns a creator's posts as projections for the caller, with locked
// content redacted.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewer := resolveViewer(r, "", "")

	views, err := h.service.ListForViewer(viewer, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// LikePayload defines the structure for like toggle requests.
type LikePayload struct {
	FanUsername string `json:"fanUsername"`
}

// Like toggles the caller's like on a post.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	var payload LikePayload
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	viewer := resolveViewer(r, payload.FanUsername, "")
	result, err := h.service.ToggleLike(viewer, username, postID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
