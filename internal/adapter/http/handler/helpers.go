package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/dto"
	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/middleware"
	"github.com/airoxlab/bizposcash-sub000/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a domain error to an HTTP status by its category.
// Specific sentinels all wrap one of the four categories, so this switch
// never needs to enumerate them.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrState):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return false
	}
	return true
}

// principal pulls the authenticated caller out of the request context. The
// auth middleware guarantees presence on protected routes.
func principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing authentication")
	}
	return p, ok
}

func parseIntQuery(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
