package api

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"centro-site/api/internal/models"
	"centro-site/api/internal/placement"
)

// FeaturedHandler serves the news/project slot endpoints.
type FeaturedHandler struct {
	placement *placement.Service
}

// NewFeaturedHandler creates a new handler instance.
func NewFeaturedHandler(svc *placement.Service) *FeaturedHandler {
	return &FeaturedHandler{placement: svc}
}

// GetFeatured handles GET /api/featured.
func (h *FeaturedHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	slots, err := h.placement.GetFeatured(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, slots)
}

// PutFeatured handles PUT /api/featured.
func (h *FeaturedHandler) PutFeatured(w http.ResponseWriter, r *http.Request) {
	var a models.Assignment
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.placement.SetFeatured(r.Context(), a); err != nil {
		writeError(w, r, err)
		return
	}
	hlog.FromRequest(r).Debug().Msg("Featured assignment saved")
	writeSuccess(w, r)
}

// GetProjectFeatured handles GET /api/projects/featured.
func (h *FeaturedHandler) GetProjectFeatured(w http.ResponseWriter, r *http.Request) {
	slots, err := h.placement.GetProjectFeatured(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, slots)
}

// PutProjectFeatured handles PUT /api/projects/featured.
func (h *FeaturedHandler) PutProjectFeatured(w http.ResponseWriter, r *http.Request) {
	var a models.ProjectAssignment
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.placement.SetProjectFeatured(r.Context(), a); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, r)
}
