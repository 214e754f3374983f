package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"centro-site/api/internal/apperrors"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// writeJSON marshals v before writing the status so a marshaling failure can
// still be reported as a 500.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	log := hlog.FromRequest(r)

	jsonBytes, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling JSON response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(jsonBytes); err != nil {
		log.Error().Err(err).Msg("Error writing JSON response body to client")
		return
	}
	log.Debug().Int("bytes_written", len(jsonBytes)).Msg("Response completed")
}

func writeSuccess(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}

// writeError maps the error taxonomy onto HTTP status codes. Client errors
// carry the typed error's own message, without the wrapping context added on
// the way up. Internal errors are logged in full and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := hlog.FromRequest(r)

	var (
		nf       *apperrors.NotFoundError
		conflict *apperrors.ConflictError
		invalid  *apperrors.ValidationError
	)
	switch {
	case errors.As(err, &invalid):
		log.Warn().Err(err).Msg("Rejected invalid request")
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: invalid.Error()})
	case apperrors.IsValidation(err):
		log.Warn().Err(err).Msg("Rejected invalid request")
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &nf):
		log.Warn().Err(err).Msg("Resource not found")
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: nf.Error()})
	case errors.As(err, &conflict):
		log.Warn().Err(err).Msg("Conflicting write")
		writeJSON(w, r, http.StatusConflict, errorResponse{Error: conflict.Error()})
	default:
		log.Error().Err(err).Msg("Request failed")
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Invalid("", "request body is empty")
		}
		return apperrors.Invalid("", "malformed JSON body: "+err.Error())
	}
	return nil
}
