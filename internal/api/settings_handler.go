package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/inkgrade/essay-api/internal/api/shared"
	"github.com/inkgrade/essay-api/internal/service"
)

// UpdateSettingsRequest represents the request body for updating settings.
type UpdateSettingsRequest struct {
	MaxConcurrentTasks int `json:"max_concurrent_tasks" validate:"required,min=1,max=20"`
}

// SettingsHandler handles application settings HTTP requests.
type SettingsHandler struct {
	settingsService service.SettingsService
	validator       *validator.Validate
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		validator:       validator.New(),
	}
}

// GetSettings handles GET /api/settings requests.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/settings requests.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.settingsService.SetMaxConcurrentTasks(r.Context(), req.MaxConcurrentTasks); err != nil {
		respondServiceError(w, r, err)
		return
	}

	settings, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}
