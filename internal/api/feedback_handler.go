package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/inkgrade/essay-api/internal/api/shared"
	"github.com/inkgrade/essay-api/internal/service"
)

// GenerateFeedbackRequest represents the request body for starting a
// feedback run on a version.
type GenerateFeedbackRequest struct {
	GenerateExampleEssay bool `json:"generate_example_essay"`
}

// FeedbackHandler handles feedback generation and polling HTTP requests.
type FeedbackHandler struct {
	feedbackService service.FeedbackService
	validator       *validator.Validate
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		validator:       validator.New(),
	}
}

// GenerateFeedback handles POST /api/projects/{id}/versions/{number}/feedback
// requests. Generation runs in the background; the response is 202 Accepted
// with the pending feedback record to poll.
func (h *FeedbackHandler) GenerateFeedback(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	number, ok := parseVersionParam(w, r)
	if !ok {
		return
	}

	// An empty body means default options.
	var req GenerateFeedbackRequest
	if r.ContentLength > 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	feedback, err := h.feedbackService.StartGeneration(r.Context(), service.GenerationRequest{
		ProjectID:            projectID,
		VersionNumber:        number,
		GenerateExampleEssay: req.GenerateExampleEssay,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, feedbackToResponse(feedback))
}

// GetFeedback handles GET /api/projects/{id}/versions/{number}/feedback requests.
func (h *FeedbackHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	number, ok := parseVersionParam(w, r)
	if !ok {
		return
	}

	feedback, err := h.feedbackService.GetByVersion(r.Context(), projectID, number)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, feedbackToResponse(feedback))
}

// GetProgress handles GET /api/feedbacks/{feedbackID}/progress requests.
func (h *FeedbackHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	feedbackID, ok := parseUUIDParam(w, r, "feedbackID")
	if !ok {
		return
	}

	info, err := h.feedbackService.Progress(r.Context(), feedbackID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, info)
}

// GetFeedbackByID handles GET /api/feedbacks/{feedbackID} requests.
func (h *FeedbackHandler) GetFeedbackByID(w http.ResponseWriter, r *http.Request) {
	feedbackID, ok := parseUUIDParam(w, r, "feedbackID")
	if !ok {
		return
	}

	feedback, err := h.feedbackService.GetFeedback(r.Context(), feedbackID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, feedbackToResponse(feedback))
}
