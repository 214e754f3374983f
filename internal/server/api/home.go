package api

import (
	"net/http"

	"centro-site/api/internal/models"
	"centro-site/api/internal/placement"
	"centro-site/api/internal/videos"
)

// Home is everything the homepage hero layout needs in one response.
type Home struct {
	Featured models.Slots[models.FeaturedItem] `json:"featured"`
	Videos   models.Slots[models.Video]        `json:"videos"`
}

// HomeHandler serves GET /api/home.
type HomeHandler struct {
	placement *placement.Service
	videos    *videos.Service
}

// NewHomeHandler creates a new handler instance.
func NewHomeHandler(p *placement.Service, v *videos.Service) *HomeHandler {
	return &HomeHandler{placement: p, videos: v}
}

// Get handles GET /api/home.
func (h *HomeHandler) Get(w http.ResponseWriter, r *http.Request) {
	featured, err := h.placement.GetFeatured(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	vids, err := h.videos.Featured(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, Home{Featured: featured, Videos: vids})
}
