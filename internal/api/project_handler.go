package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/api/shared"
	"github.com/inkgrade/essay-api/internal/service"
)

// CreateProjectRequest represents the request body for creating a project.
// Content is optional; when present, version 1 is created immediately.
type CreateProjectRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Prompt      string `json:"prompt" validate:"required,min=1"`
	ExamType    string `json:"exam_type" validate:"omitempty,oneof=ielts toefl gre"`
	Category    string `json:"category" validate:"required,min=1,max=50"`
	TargetScore string `json:"target_score" validate:"omitempty,max=10"`
	Content     string `json:"content"`
	ChartImage  string `json:"chart_image"`
}

// UpdateProjectRequest represents the request body for updating a project.
// Absent fields are left unchanged.
type UpdateProjectRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Prompt      *string `json:"prompt" validate:"omitempty,min=1"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=50"`
	TargetScore *string `json:"target_score" validate:"omitempty,max=10"`
	ChartImage  *string `json:"chart_image"`
}

// AddVersionRequest represents the request body for submitting a new draft.
type AddVersionRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// CreateProjectResponse bundles the project with its initial version.
type CreateProjectResponse struct {
	Project ProjectResponse  `json:"project"`
	Version *VersionResponse `json:"version,omitempty"`
}

// ProjectHandler handles project and essay version HTTP requests.
type ProjectHandler struct {
	projectService service.ProjectService
	validator      *validator.Validate
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		validator:      validator.New(),
	}
}

// CreateProject handles POST /api/projects requests.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	project, version, err := h.projectService.CreateProject(r.Context(), service.CreateProjectInput{
		Title:       req.Title,
		Prompt:      req.Prompt,
		ExamType:    req.ExamType,
		Category:    req.Category,
		TargetScore: req.TargetScore,
		Content:     req.Content,
		ChartImage:  req.ChartImage,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := CreateProjectResponse{Project: projectToResponse(project)}
	if version != nil {
		v := versionToResponse(version)
		resp.Version = &v
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// GetProject handles GET /api/projects/{id} requests.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, projectToResponse(project))
}

// ListProjects handles GET /api/projects requests.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	projects, err := h.projectService.ListProjects(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectToResponse(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// UpdateProject handles PATCH /api/projects/{id} requests.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), id, service.UpdateProjectInput{
		Title:       req.Title,
		Prompt:      req.Prompt,
		Category:    req.Category,
		TargetScore: req.TargetScore,
		ChartImage:  req.ChartImage,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, projectToResponse(project))
}

// DeleteProject handles DELETE /api/projects/{id} requests.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddVersion handles POST /api/projects/{id}/versions requests.
func (h *ProjectHandler) AddVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req AddVersionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	version, err := h.projectService.AddVersion(r.Context(), id, req.Content)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, versionToResponse(version))
}

// GetVersion handles GET /api/projects/{id}/versions/{number} requests.
func (h *ProjectHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	number, ok := parseVersionParam(w, r)
	if !ok {
		return
	}

	version, err := h.projectService.GetVersion(r.Context(), id, number)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, versionToResponse(version))
}

// ListVersions handles GET /api/projects/{id}/versions requests.
func (h *ProjectHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	versions, err := h.projectService.ListVersions(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]VersionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, versionToResponse(v))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// parseUUIDParam reads a UUID URL parameter, responding 400 on failure.
func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}

// parseVersionParam reads the {number} URL parameter, responding 400 on failure.
func parseVersionParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid version number")
		return 0, false
	}
	return number, true
}

// queryInt reads an integer query parameter, falling back on absence or junk.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
