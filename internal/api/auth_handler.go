package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/inkgrade/essay-api/internal/api/shared"
	"github.com/inkgrade/essay-api/internal/service"
)

// ValidateAccessCodeRequest represents the request body for exchanging the
// access code for a bearer token.
type ValidateAccessCodeRequest struct {
	AccessCode string `json:"access_code" validate:"required,min=1"`
}

// TokenResponse represents the response data for a successful login.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService service.AuthService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
	}
}

// ValidateAccessCode handles POST /api/auth/validate requests.
func (h *AuthHandler) ValidateAccessCode(w http.ResponseWriter, r *http.Request) {
	var req ValidateAccessCodeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	token, err := h.authService.ValidateAccessCode(r.Context(), req.AccessCode)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
