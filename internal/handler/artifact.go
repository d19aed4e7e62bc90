package handler

import (
	"log/slog"
	"net/http"

	"craftora/internal/domain"
	"craftora/internal/httputil"
)

// ArtifactHandler serves stored artifacts.
type ArtifactHandler struct {
	artifacts domain.ArtifactStore
	logger    *slog.Logger
}

// NewArtifactHandler creates an artifact handler.
func NewArtifactHandler(artifacts domain.ArtifactStore, logger *slog.Logger) *ArtifactHandler {
	return &ArtifactHandler{artifacts: artifacts, logger: logger}
}

// Get handles GET /api/generated/{id}.
func (h *ArtifactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r, "id", "Artifact ID")
	if !ok {
		return
	}

	artifact, err := h.artifacts.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, artifact)
}

// Recent handles GET /api/recent-codes?limit=N.
func (h *ArtifactHandler) Recent(w http.ResponseWriter, r *http.Request) {
	artifacts, err := h.artifacts.ListRecent(r.Context(), limitParam(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, artifacts)
}
