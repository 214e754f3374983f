package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/hlog"

	"centro-site/api/internal/content"
	"centro-site/api/internal/models"
	"centro-site/api/internal/server/pagination"
)

const defaultLimit = 20
const maxLimit = 100

// Page is the list response for news and projects.
type Page struct {
	Items      []models.Article `json:"items"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

// ContentHandler serves the editor routes of one content type.
type ContentHandler struct {
	svc *content.Service
}

// NewContentHandler creates a new handler instance.
func NewContentHandler(svc *content.Service) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// List handles GET /api/{news,projects}?limit=&cursor=.
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	query := r.URL.Query()
	limitStr := query.Get("limit")
	cursorStr := query.Get("cursor")

	limit := defaultLimit
	if limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil || parsedLimit <= 0 || parsedLimit > maxLimit {
			log.Warn().Err(err).Str("limit", limitStr).Msg("Invalid 'limit' parameter value")
			writeJSON(w, r, http.StatusBadRequest, errorResponse{
				Error: fmt.Sprintf("Invalid 'limit' parameter: must be between 1 and %d", maxLimit),
			})
			return
		}
		limit = parsedLimit
	}

	var cursorTimestamp *time.Time
	var cursorID *int64
	if cursorStr != "" {
		ts, id, err := pagination.DecodeCursor(cursorStr)
		if err != nil {
			log.Warn().Err(err).Str("cursor", cursorStr).Msg("Invalid 'cursor' parameter")
			writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Invalid 'cursor' parameter"})
			return
		}
		cursorTimestamp = &ts
		cursorID = &id
	}

	items, err := h.svc.List(r.Context(), limit+1, cursorTimestamp, cursorID) // Fetch one extra
	if err != nil {
		writeError(w, r, err)
		return
	}

	page := Page{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[len(page.Items)-1]
		cursor := pagination.EncodeCursor(last.CreatedAt.UTC(), last.ID)
		page.NextCursor = &cursor
	}

	writeJSON(w, r, http.StatusOK, page)
}

// Get handles GET /api/{news,projects}/{slug}.
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, a)
}

// Create handles POST /api/{news,projects}.
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.ArticleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, a)
}

// Update handles PUT /api/{news,projects}/{slug}.
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.ArticleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := h.svc.Update(r.Context(), r.PathValue("slug"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, a)
}

// Delete handles DELETE /api/{news,projects}/{slug}.
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("slug")); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, r)
}
