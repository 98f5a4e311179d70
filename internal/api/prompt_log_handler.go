package api

import (
	"net/http"

	"github.com/inkgrade/essay-api/internal/api/shared"
	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/service"
)

// PromptLogHandler handles LLM call log HTTP requests.
type PromptLogHandler struct {
	promptLogService service.PromptLogService
}

// NewPromptLogHandler creates a new PromptLogHandler.
func NewPromptLogHandler(promptLogService service.PromptLogService) *PromptLogHandler {
	return &PromptLogHandler{promptLogService: promptLogService}
}

// ListLogs handles GET /api/logs requests.
func (h *PromptLogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	logs, err := h.promptLogService.List(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, promptLogsToResponse(logs))
}

// GetLog handles GET /api/logs/{logID} requests.
func (h *PromptLogHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	logID, ok := parseUUIDParam(w, r, "logID")
	if !ok {
		return
	}

	entry, err := h.promptLogService.GetLog(r.Context(), logID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, promptLogToResponse(entry))
}

// ListProjectLogs handles GET /api/projects/{id}/logs requests.
func (h *PromptLogHandler) ListProjectLogs(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	logs, err := h.promptLogService.ListByProject(r.Context(), projectID, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, promptLogsToResponse(logs))
}

func promptLogsToResponse(logs []*domain.PromptLog) []PromptLogResponse {
	out := make([]PromptLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, promptLogToResponse(l))
	}
	return out
}
