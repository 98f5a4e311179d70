package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for EssayVersion
var (
	ErrEmptyVersionID        = errors.New("essay version ID cannot be empty")
	ErrEmptyVersionProjectID = errors.New("essay version project ID cannot be empty")
	ErrEmptyVersionContent   = errors.New("essay version content cannot be empty")
	ErrInvalidVersionNumber  = errors.New("version number must be >= 1")
)

// paragraphBoundary matches one or more blank lines separating paragraphs.
var paragraphBoundary = regexp.MustCompile(`\n\s*\n`)

// EssayVersion is one submitted draft of an essay within a project.
// A project accumulates versions over revision cycles.
type EssayVersion struct {
	ID            uuid.UUID     `json:"id"`
	ProjectID     uuid.UUID     `json:"project_id"`
	VersionNumber int           `json:"version_number"`
	Content       string        `json:"content"`
	WordCount     int           `json:"word_count"`
	Status        ProjectStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewEssayVersion creates a new EssayVersion with a computed word count.
// Returns an error if validation fails.
func NewEssayVersion(projectID uuid.UUID, versionNumber int, content string) (*EssayVersion, error) {
	version := &EssayVersion{
		ID:            uuid.New(),
		ProjectID:     projectID,
		VersionNumber: versionNumber,
		Content:       content,
		WordCount:     CountWords(content),
		Status:        ProjectStatusSubmitted,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if err := version.Validate(); err != nil {
		return nil, err
	}

	return version, nil
}

// Validate checks if the EssayVersion has valid data.
func (v *EssayVersion) Validate() error {
	if v.ID == uuid.Nil {
		return ErrEmptyVersionID
	}

	if v.ProjectID == uuid.Nil {
		return ErrEmptyVersionProjectID
	}

	if v.VersionNumber < 1 {
		return ErrInvalidVersionNumber
	}

	if strings.TrimSpace(v.Content) == "" {
		return ErrEmptyVersionContent
	}

	if !v.Status.IsValid() {
		return ErrInvalidProjectStatus
	}

	return nil
}

// Paragraphs splits the version content on blank-line boundaries, trimming
// whitespace and dropping empty entries. The returned order is the order
// paragraphs appear in the essay.
func (v *EssayVersion) Paragraphs() []string {
	return SplitParagraphs(v.Content)
}

// SplitParagraphs splits a block of text on blank-line boundaries,
// trimming each paragraph and dropping empty ones.
func SplitParagraphs(content string) []string {
	parts := paragraphBoundary.Split(content, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// CountWords returns the number of whitespace-delimited words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
