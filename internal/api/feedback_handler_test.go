package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/api"
	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/service"
	"github.com/inkgrade/essay-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedbackRouter(svc service.FeedbackService) http.Handler {
	handler := api.NewFeedbackHandler(svc)
	r := chi.NewRouter()
	r.Post("/api/projects/{id}/versions/{number}/feedback", handler.GenerateFeedback)
	r.Get("/api/projects/{id}/versions/{number}/feedback", handler.GetFeedback)
	r.Get("/api/feedbacks/{feedbackID}", handler.GetFeedbackByID)
	r.Get("/api/feedbacks/{feedbackID}/progress", handler.GetProgress)
	return r
}

func pendingFeedback(t *testing.T) *domain.Feedback {
	t.Helper()
	feedback, err := domain.NewFeedback(uuid.New(), uuid.New(), 1)
	require.NoError(t, err)
	return feedback
}

func TestGenerateFeedbackAccepted(t *testing.T) {
	t.Parallel()

	svc := &fakeFeedbackService{feedback: pendingFeedback(t)}
	router := newFeedbackRouter(svc)

	projectID := uuid.New()
	req := httptest.NewRequest(
		http.MethodPost,
		"/api/projects/"+projectID.String()+"/versions/1/feedback",
		strings.NewReader(`{"generate_example_essay": true}`),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp api.FeedbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.FeedbackStatusPending), resp.Status)
	assert.NotNil(t, resp.Annotations)
}

func TestGenerateFeedbackEmptyBody(t *testing.T) {
	t.Parallel()

	svc := &fakeFeedbackService{feedback: pendingFeedback(t)}
	router := newFeedbackRouter(svc)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/projects/"+uuid.NewString()+"/versions/1/feedback",
		nil,
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestGenerateFeedbackConflict(t *testing.T) {
	t.Parallel()

	svc := &fakeFeedbackService{startErr: service.ErrGenerationInProgress}
	router := newFeedbackRouter(svc)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/projects/"+uuid.NewString()+"/versions/1/feedback",
		nil,
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGenerateFeedbackUnknownProject(t *testing.T) {
	t.Parallel()

	svc := &fakeFeedbackService{startErr: service.ErrProjectNotFound}
	router := newFeedbackRouter(svc)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/projects/"+uuid.NewString()+"/versions/1/feedback",
		nil,
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateFeedbackInvalidParams(t *testing.T) {
	t.Parallel()

	svc := &fakeFeedbackService{feedback: pendingFeedback(t)}
	router := newFeedbackRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/projects/not-a-uuid/versions/1/feedback", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(
		http.MethodPost,
		"/api/projects/"+uuid.NewString()+"/versions/zero/feedback",
		nil,
	)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProgress(t *testing.T) {
	t.Parallel()

	feedbackID := uuid.New()
	svc := &fakeFeedbackService{progress: &service.ProgressInfo{
		FeedbackID:  feedbackID,
		Status:      domain.FeedbackStatusInProgress,
		InFlight:    true,
		Stage:       task.StageExecuting,
		TotalItems:  5,
		CurrentItem: 3,
	}}
	router := newFeedbackRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/feedbacks/"+feedbackID.String()+"/progress", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp service.ProgressInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.InFlight)
	assert.Equal(t, task.StageExecuting, resp.Stage)
	assert.Equal(t, 5, resp.TotalItems)
	assert.Equal(t, 3, resp.CurrentItem)
}

func TestGetProgressUnknownFeedback(t *testing.T) {
	t.Parallel()

	svc := &fakeFeedbackService{}
	router := newFeedbackRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/feedbacks/"+uuid.NewString()+"/progress", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
