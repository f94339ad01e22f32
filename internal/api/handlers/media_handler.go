package handlers

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fanvault/fanvault-be/internal/blob"
)

// maxUploadBytes caps media uploads at 64 MiB.
const maxUploadBytes = 64 << 20

// MediaHandler handles media blob upload and retrieval.
type MediaHandler struct {
	blobs blob.Store
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(blobs blob.Store) *MediaHandler {
	return &MediaHandler{blobs: blobs}
}

// Upload accepts a multipart file and returns its blob handle. Posts then
// reference the handle in their media field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart body", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	handle, err := h.blobs.Save(filepath.Ext(header.Filename), file)
	if err != nil {
		log.Error().Err(err).Msg("Failed to store media blob")
		http.Error(w, "Failed to store file", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"handle": handle})
}

// Serve streams a previously uploaded blob.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	f, err := h.blobs.Open(handle)
	if err != nil {
		http.Error(w, "Media not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		log.Warn().Err(err).Str("handle", handle).Msg("Aborted media stream")
	}
}
