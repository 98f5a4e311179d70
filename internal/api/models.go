// Package api contains the HTTP handlers, request/response models and error
// mapping for the essay feedback API.
package api

import (
	"time"

	"github.com/inkgrade/essay-api/internal/domain"
)

// ProjectResponse represents the response data for a project.
type ProjectResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Prompt         string    `json:"prompt"`
	ExamType       string    `json:"exam_type"`
	Category       string    `json:"category"`
	TargetScore    string    `json:"target_score,omitempty"`
	CurrentVersion int       `json:"current_version"`
	TotalVersions  int       `json:"total_versions"`
	Status         string    `json:"status"`
	ChartImage     string    `json:"chart_image,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// VersionResponse represents the response data for an essay version.
type VersionResponse struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	VersionNumber int       `json:"version_number"`
	Content       string    `json:"content"`
	WordCount     int       `json:"word_count"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// FeedbackResponse represents the response data for a feedback record.
// Annotations reuse the domain shape since it is already wire-format.
type FeedbackResponse struct {
	ID             string              `json:"id"`
	ProjectID      string              `json:"project_id"`
	EssayVersionID string              `json:"essay_version_id"`
	VersionNumber  int                 `json:"version_number"`
	Status         string              `json:"status"`
	ScoreTR        float64             `json:"score_tr"`
	ScoreCC        float64             `json:"score_cc"`
	ScoreLR        float64             `json:"score_lr"`
	ScoreGRA       float64             `json:"score_gra"`
	OverallScore   float64             `json:"overall_score"`
	FeedbackTR     string              `json:"feedback_tr"`
	FeedbackCC     string              `json:"feedback_cc"`
	FeedbackLR     string              `json:"feedback_lr"`
	FeedbackGRA    string              `json:"feedback_gra"`
	OverallFeedback string             `json:"overall_feedback"`
	Annotations    []domain.Annotation `json:"annotations"`
	StartedAt      *time.Time          `json:"started_at,omitempty"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ExampleEssayResponse represents the response data for an example essay.
type ExampleEssayResponse struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	VersionNumber int       `json:"version_number"`
	Content       string    `json:"content"`
	Improvement   string    `json:"improvement,omitempty"`
	WordCount     int       `json:"word_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PromptLogResponse represents the response data for one LLM call record.
type PromptLogResponse struct {
	ID            string           `json:"id"`
	ServiceType   string           `json:"service_type"`
	ModelName     string           `json:"model_name"`
	Operation     string           `json:"operation"`
	ProjectID     string           `json:"project_id,omitempty"`
	VersionNumber int              `json:"version_number,omitempty"`
	SystemPrompt  string           `json:"system_prompt"`
	UserPrompt    string           `json:"user_prompt"`
	RawResponse   string           `json:"raw_response"`
	ErrorText     string           `json:"error_text,omitempty"`
	TokenUsage    domain.TokenUsage `json:"token_usage"`
	DurationMS    int64            `json:"duration_ms"`
	CreatedAt     time.Time        `json:"created_at"`
}

func projectToResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:             p.ID.String(),
		Title:          p.Title,
		Prompt:         p.Prompt,
		ExamType:       string(p.ExamType),
		Category:       p.Category,
		TargetScore:    p.TargetScore,
		CurrentVersion: p.CurrentVersion,
		TotalVersions:  p.TotalVersions,
		Status:         string(p.Status),
		ChartImage:     p.ChartImage,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func versionToResponse(v *domain.EssayVersion) VersionResponse {
	return VersionResponse{
		ID:            v.ID.String(),
		ProjectID:     v.ProjectID.String(),
		VersionNumber: v.VersionNumber,
		Content:       v.Content,
		WordCount:     v.WordCount,
		Status:        string(v.Status),
		CreatedAt:     v.CreatedAt,
	}
}

func feedbackToResponse(f *domain.Feedback) FeedbackResponse {
	annotations := f.Annotations
	if annotations == nil {
		annotations = []domain.Annotation{}
	}
	return FeedbackResponse{
		ID:             f.ID.String(),
		ProjectID:      f.ProjectID.String(),
		EssayVersionID: f.EssayVersionID.String(),
		VersionNumber:  f.VersionNumber,
		Status:         string(f.Status),
		ScoreTR:        f.ScoreTR,
		ScoreCC:        f.ScoreCC,
		ScoreLR:        f.ScoreLR,
		ScoreGRA:       f.ScoreGRA,
		OverallScore:   f.OverallScore,
		FeedbackTR:     f.FeedbackTR,
		FeedbackCC:     f.FeedbackCC,
		FeedbackLR:     f.FeedbackLR,
		FeedbackGRA:    f.FeedbackGRA,
		OverallFeedback: f.OverallFeedback,
		Annotations:    annotations,
		StartedAt:      f.StartedAt,
		CompletedAt:    f.CompletedAt,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func exampleToResponse(e *domain.ExampleEssay) ExampleEssayResponse {
	return ExampleEssayResponse{
		ID:            e.ID.String(),
		ProjectID:     e.ProjectID.String(),
		VersionNumber: e.VersionNumber,
		Content:       e.Content,
		Improvement:   e.Improvement,
		WordCount:     e.WordCount,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func promptLogToResponse(l *domain.PromptLog) PromptLogResponse {
	resp := PromptLogResponse{
		ID:            l.ID.String(),
		ServiceType:   l.ServiceType,
		ModelName:     l.ModelName,
		Operation:     l.Operation,
		VersionNumber: l.VersionNumber,
		SystemPrompt:  l.SystemPrompt,
		UserPrompt:    l.UserPrompt,
		RawResponse:   l.RawResponse,
		ErrorText:     l.ErrorText,
		TokenUsage:    l.TokenUsage,
		DurationMS:    l.Duration.Milliseconds(),
		CreatedAt:     l.CreatedAt,
	}
	if l.ProjectID != nil {
		resp.ProjectID = l.ProjectID.String()
	}
	return resp
}
