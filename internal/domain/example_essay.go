package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ExampleEssay
var (
	ErrEmptyExampleID        = errors.New("example essay ID cannot be empty")
	ErrEmptyExampleProjectID = errors.New("example essay project ID cannot be empty")
	ErrEmptyExampleContent   = errors.New("example essay content cannot be empty")
)

// ExampleEssay is a model-generated reference essay for a project's writing
// prompt, optionally with improvement notes relative to the student's
// submission. At most one example is kept per (project, version);
// regeneration replaces the prior one.
type ExampleEssay struct {
	ID            uuid.UUID     `json:"id"`
	ProjectID     uuid.UUID     `json:"project_id"`
	VersionNumber int           `json:"version_number"`
	Content       string        `json:"content"`
	Improvement   string        `json:"improvement,omitempty"`
	WordCount     int           `json:"word_count"`
	Status        ProjectStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewExampleEssay creates a new ExampleEssay with a computed word count.
// Returns an error if validation fails.
func NewExampleEssay(
	projectID uuid.UUID,
	versionNumber int,
	content, improvement string,
	status ProjectStatus,
) (*ExampleEssay, error) {
	example := &ExampleEssay{
		ID:            uuid.New(),
		ProjectID:     projectID,
		VersionNumber: versionNumber,
		Content:       content,
		Improvement:   improvement,
		WordCount:     CountWords(content),
		Status:        status,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if err := example.Validate(); err != nil {
		return nil, err
	}

	return example, nil
}

// Validate checks if the ExampleEssay has valid data.
func (e *ExampleEssay) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyExampleID
	}

	if e.ProjectID == uuid.Nil {
		return ErrEmptyExampleProjectID
	}

	if e.Content == "" {
		return ErrEmptyExampleContent
	}

	if e.VersionNumber < 1 {
		return ErrInvalidVersionNumber
	}

	if !e.Status.IsValid() {
		return ErrInvalidProjectStatus
	}

	return nil
}
