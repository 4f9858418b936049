package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/bookworm/internal/common"
)

// Envelope is the uniform response body: success carries message+data,
// failure carries error+null data. Internal error details never appear here.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data"`
}

func respondJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondSuccess(w http.ResponseWriter, message string, data any) {
	respondJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// statusFor maps the error taxonomy onto HTTP status codes. Anything not in
// the taxonomy is an internal failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrDuplicateUsername),
		errors.Is(err, common.ErrInvalidListKind),
		errors.Is(err, common.ErrInvalidAttribute):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrWrongPassword),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrEmailNotFound),
		errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUpstreamFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a sanitized failure envelope. Taxonomy errors keep
// their stable message; everything else is collapsed into a generic one so
// driver/library details never leak to clients.
func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = common.ErrorInternal.Error()
	}
	respondJSON(w, status, Envelope{Success: false, Error: msg, Data: nil})
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, Envelope{Success: false, Error: msg, Data: nil})
}
