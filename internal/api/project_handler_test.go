package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/api"
	"github.com/inkgrade/essay-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectRouter(svc service.ProjectService) http.Handler {
	handler := api.NewProjectHandler(svc)
	r := chi.NewRouter()
	r.Route("/api/projects", func(r chi.Router) {
		r.Post("/", handler.CreateProject)
		r.Get("/", handler.ListProjects)
		r.Get("/{id}", handler.GetProject)
		r.Patch("/{id}", handler.UpdateProject)
		r.Delete("/{id}", handler.DeleteProject)
		r.Post("/{id}/versions", handler.AddVersion)
		r.Get("/{id}/versions", handler.ListVersions)
		r.Get("/{id}/versions/{number}", handler.GetVersion)
	})
	return r
}

func TestCreateProjectWithContent(t *testing.T) {
	t.Parallel()

	router := newProjectRouter(newFakeProjectService())

	body := `{
		"title": "Band 7 attempt",
		"prompt": "Some people believe...",
		"exam_type": "ielts",
		"category": "task2",
		"content": "My first draft.\n\nSecond paragraph."
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/projects/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.CreateProjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Band 7 attempt", resp.Project.Title)
	assert.Equal(t, "ielts", resp.Project.ExamType)
	require.NotNil(t, resp.Version)
	assert.Equal(t, 1, resp.Version.VersionNumber)
	assert.Equal(t, 5, resp.Version.WordCount)
}

func TestCreateProjectValidation(t *testing.T) {
	t.Parallel()

	router := newProjectRouter(newFakeProjectService())

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"prompt": "p", "category": "task2"}`},
		{name: "missing prompt", body: `{"title": "t", "category": "task2"}`},
		{name: "bad exam type", body: `{"title": "t", "prompt": "p", "category": "task2", "exam_type": "sat"}`},
		{name: "malformed json", body: `{"title": `},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/projects/", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetProjectNotFound(t *testing.T) {
	t.Parallel()

	router := newProjectRouter(newFakeProjectService())

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/projects/garbage", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddVersionAndGet(t *testing.T) {
	t.Parallel()

	svc := newFakeProjectService()
	router := newProjectRouter(svc)

	project, _, err := svc.CreateProject(context.Background(), service.CreateProjectInput{
		Title:    "t",
		Prompt:   "p",
		Category: "task1",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/projects/"+project.ID.String()+"/versions",
		strings.NewReader(`{"content": "A fresh draft."}`),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created api.VersionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.VersionNumber)

	req = httptest.NewRequest(http.MethodGet, "/api/projects/"+project.ID.String()+"/versions/1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/projects/"+project.ID.String()+"/versions/7", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProject(t *testing.T) {
	t.Parallel()

	svc := newFakeProjectService()
	router := newProjectRouter(svc)

	project, _, err := svc.CreateProject(context.Background(), service.CreateProjectInput{
		Title:    "t",
		Prompt:   "p",
		Category: "task2",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/"+project.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/projects/"+project.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
