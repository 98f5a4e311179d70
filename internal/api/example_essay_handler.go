package api

import (
	"net/http"

	"github.com/inkgrade/essay-api/internal/api/shared"
	"github.com/inkgrade/essay-api/internal/service"
)

// ExampleEssayHandler handles example essay HTTP requests.
type ExampleEssayHandler struct {
	exampleService service.ExampleEssayService
}

// NewExampleEssayHandler creates a new ExampleEssayHandler.
func NewExampleEssayHandler(exampleService service.ExampleEssayService) *ExampleEssayHandler {
	return &ExampleEssayHandler{exampleService: exampleService}
}

// GetExample handles GET /api/projects/{id}/versions/{number}/example requests.
func (h *ExampleEssayHandler) GetExample(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	number, ok := parseVersionParam(w, r)
	if !ok {
		return
	}

	example, err := h.exampleService.GetExample(r.Context(), projectID, number)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, exampleToResponse(example))
}

// GenerateExample handles POST /api/projects/{id}/versions/{number}/example
// requests. The LLM call is synchronous; the new example replaces any prior
// one for the version.
func (h *ExampleEssayHandler) GenerateExample(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	number, ok := parseVersionParam(w, r)
	if !ok {
		return
	}

	example, err := h.exampleService.Generate(r.Context(), projectID, number)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, exampleToResponse(example))
}

// ListExamples handles GET /api/projects/{id}/examples requests.
func (h *ExampleEssayHandler) ListExamples(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	examples, err := h.exampleService.ListExamples(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]ExampleEssayResponse, 0, len(examples))
	for _, e := range examples {
		out = append(out, exampleToResponse(e))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}
