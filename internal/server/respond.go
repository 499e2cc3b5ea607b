package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/planmyoutings/outings/internal/auth"
	"github.com/planmyoutings/outings/internal/service"
	"github.com/planmyoutings/outings/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses with a human-readable
// reason. Anything unmapped is an internal error with the detail kept out
// of the response body.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func statusFor(err error) int {
	var pwErr *auth.PasswordError
	switch {
	case errors.Is(err, storage.ErrGroupNotFound),
		errors.Is(err, storage.ErrPlanNotFound),
		errors.Is(err, storage.ErrEventNotFound),
		errors.Is(err, storage.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrAlreadyMember),
		errors.Is(err, storage.ErrUsernameTaken),
		errors.Is(err, storage.ErrEmailTaken),
		errors.Is(err, storage.ErrMobileTaken):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrInvalidMobile),
		errors.Is(err, service.ErrInvalidRSVP),
		errors.Is(err, service.ErrNoLocations),
		errors.As(err, &pwErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
