package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"centro-site/api/internal/models"
	"centro-site/api/internal/videos"
)

// VideosHandler serves the video routes.
type VideosHandler struct {
	svc *videos.Service
}

// NewVideosHandler creates a new handler instance.
func NewVideosHandler(svc *videos.Service) *VideosHandler {
	return &VideosHandler{svc: svc}
}

// Featured handles GET /api/videos/featured.
func (h *VideosHandler) Featured(w http.ResponseWriter, r *http.Request) {
	slots, err := h.svc.Featured(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, slots)
}

// List handles GET /api/videos.
func (h *VideosHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

// Get handles GET /api/videos/{id}.
func (h *VideosHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(w, r)
	if !ok {
		return
	}

	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

// Create handles POST /api/videos.
func (h *VideosHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.VideoInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	v, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, v)
}

// Update handles PUT /api/videos/{id}.
func (h *VideosHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(w, r)
	if !ok {
		return
	}

	var in models.VideoInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	v, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

// Delete handles DELETE /api/videos/{id}.
func (h *VideosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, r)
}

func videoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		hlog.FromRequest(r).Warn().Str("id", raw).Msg("Invalid video id")
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Invalid video id"})
		return 0, false
	}
	return id, true
}
