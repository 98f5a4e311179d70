package api

import (
	"errors"
	"net/http"

	"github.com/inkgrade/essay-api/internal/api/shared"
	"github.com/inkgrade/essay-api/internal/service"
)

// MapErrorToStatusCode maps service errors to HTTP status codes so handlers
// never leak internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidAccessCode),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrVersionNotFound),
		errors.Is(err, service.ErrFeedbackNotFound),
		errors.Is(err, service.ErrExampleNotFound),
		errors.Is(err, service.ErrLogNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrGenerationInProgress):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the error.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, service.ErrInvalidAccessCode):
		return "Invalid access code"
	case errors.Is(err, service.ErrInvalidToken):
		return "Invalid token"

	case errors.Is(err, service.ErrProjectNotFound):
		return "Project not found"
	case errors.Is(err, service.ErrVersionNotFound):
		return "Essay version not found"
	case errors.Is(err, service.ErrFeedbackNotFound):
		return "Feedback not found"
	case errors.Is(err, service.ErrExampleNotFound):
		return "Example essay not found"
	case errors.Is(err, service.ErrLogNotFound):
		return "Prompt log not found"

	case errors.Is(err, service.ErrGenerationInProgress):
		return "Feedback generation is already in progress"

	default:
		return "An unexpected error occurred"
	}
}

// respondServiceError maps err and writes the sanitized response.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
