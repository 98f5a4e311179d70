package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the review lifecycle of a project.
type ProjectStatus string

// Possible project status values
const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusSubmitted  ProjectStatus = "submitted"
	ProjectStatusProcessing ProjectStatus = "processing"
	ProjectStatusReviewed   ProjectStatus = "reviewed"
	ProjectStatusRevising   ProjectStatus = "revising"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

// ExamType identifies the exam an essay is written for.
type ExamType string

// Supported exam types
const (
	ExamTypeIELTS ExamType = "ielts"
	ExamTypeTOEFL ExamType = "toefl"
	ExamTypeGRE   ExamType = "gre"
)

// Common validation errors for Project
var (
	ErrEmptyProjectID    = errors.New("project ID cannot be empty")
	ErrEmptyProjectTitle = errors.New("project title cannot be empty")
)

// Project groups the revisions of a single essay: the writing prompt, the
// exam it targets, and the version counters that advance as drafts are
// submitted and reviewed.
type Project struct {
	ID             uuid.UUID     `json:"id"`
	Title          string        `json:"title"`
	Prompt         string        `json:"prompt"`
	ExamType       ExamType      `json:"exam_type"`
	Category       string        `json:"category"`
	TargetScore    string        `json:"target_score,omitempty"`
	CurrentVersion int           `json:"current_version"`
	TotalVersions  int           `json:"total_versions"`
	Status         ProjectStatus `json:"status"`
	ChartImage     string        `json:"chart_image,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewProject creates a new Project in draft status with version counters at 1.
// Returns an error if validation fails.
func NewProject(title, prompt string, examType ExamType, category, targetScore string) (*Project, error) {
	project := &Project{
		ID:             uuid.New(),
		Title:          title,
		Prompt:         prompt,
		ExamType:       examType,
		Category:       category,
		TargetScore:    targetScore,
		CurrentVersion: 1,
		TotalVersions:  1,
		Status:         ProjectStatusDraft,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	return project, nil
}

// Validate checks if the Project has valid data.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProjectID
	}

	if p.Title == "" {
		return ErrEmptyProjectTitle
	}

	if !p.ExamType.IsValid() {
		return ErrInvalidExamType
	}

	if !p.Status.IsValid() {
		return ErrInvalidProjectStatus
	}

	return nil
}

// UpdateStatus updates the project's status and the UpdatedAt timestamp.
func (p *Project) UpdateStatus(status ProjectStatus) error {
	if !status.IsValid() {
		return ErrInvalidProjectStatus
	}

	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// AddVersion advances the version counters for a newly submitted draft and
// moves the project back to submitted status.
func (p *Project) AddVersion() {
	p.TotalVersions++
	p.CurrentVersion = p.TotalVersions
	p.Status = ProjectStatusSubmitted
	p.UpdatedAt = time.Now().UTC()
}

// ParseExamType maps a free-form string to a supported ExamType,
// defaulting to IELTS for unrecognized values.
func ParseExamType(s string) ExamType {
	switch ExamType(s) {
	case ExamTypeIELTS, ExamTypeTOEFL, ExamTypeGRE:
		return ExamType(s)
	default:
		return ExamTypeIELTS
	}
}

// IsValid reports whether t is a supported exam type.
func (t ExamType) IsValid() bool {
	switch t {
	case ExamTypeIELTS, ExamTypeTOEFL, ExamTypeGRE:
		return true
	default:
		return false
	}
}

// IsValid reports whether s is a recognized project status.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusSubmitted, ProjectStatusProcessing,
		ProjectStatusReviewed, ProjectStatusRevising, ProjectStatusCompleted:
		return true
	default:
		return false
	}
}
