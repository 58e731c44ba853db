package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mater/internal/domain"
	"mater/internal/dto"
	"mater/internal/observability/middleware"
)

const maxBodyBytes = 1 << 20

var errBadBody = domain.Validation("Invalid request body")

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// decodeJSON treats an empty body as an empty object.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errBadBody
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrTokenMissing),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": msg}. Only *domain.Error messages reach
// the client; causes and unknown errors are logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := "Internal server error"
	var de *domain.Error
	if errors.As(err, &de) {
		msg = de.Msg
	}
	if status >= http.StatusInternalServerError {
		middleware.Logger(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

func message(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.MessageResponse{Message: msg})
}
