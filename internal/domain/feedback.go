package domain

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FeedbackStatus represents the processing state of a feedback record.
type FeedbackStatus string

// Possible feedback status values
const (
	FeedbackStatusPending    FeedbackStatus = "pending"
	FeedbackStatusInProgress FeedbackStatus = "in_progress"
	FeedbackStatusCompleted  FeedbackStatus = "completed"
	FeedbackStatusFailed     FeedbackStatus = "failed"
)

// AnnotationType tags what kind of remark an annotation carries.
type AnnotationType string

// Possible annotation types
const (
	AnnotationTypeSuggestion AnnotationType = "suggestion"
	AnnotationTypeCorrection AnnotationType = "correction"
	AnnotationTypeHighlight  AnnotationType = "highlight"
)

// Common validation errors for Feedback
var (
	ErrEmptyFeedbackID        = errors.New("feedback ID cannot be empty")
	ErrEmptyFeedbackVersionID = errors.New("feedback essay version ID cannot be empty")
)

// PendingCritique is the placeholder critique text stored while a feedback
// record waits for scoring to finish. Critiques default to a placeholder
// rather than being absent.
const PendingCritique = "Scoring in progress..."

// Annotation is a localized suggestion, correction or highlight tied to an
// exact text span within one paragraph. OriginalContent must be a literal
// substring of the source paragraph for a presentation layer to locate it;
// VerifyAgainst checks that property.
type Annotation struct {
	Type              AnnotationType `json:"type"`
	OriginalContent   string         `json:"original_content"`
	CorrectionContent string         `json:"correction_content,omitempty"`
	Suggestion        string         `json:"suggestion"`
}

// VerifyAgainst reports whether the annotation's original content appears
// verbatim in the given paragraph.
func (a Annotation) VerifyAgainst(paragraph string) bool {
	return a.OriginalContent != "" && strings.Contains(paragraph, a.OriginalContent)
}

// Feedback is the aggregate scored-and-critiqued result for one essay
// version. Exactly one row is live per version; regenerating feedback
// overwrites the existing row rather than appending a new one.
type Feedback struct {
	ID             uuid.UUID      `json:"id"`
	ProjectID      uuid.UUID      `json:"project_id"`
	EssayVersionID uuid.UUID      `json:"essay_version_id"`
	VersionNumber  int            `json:"version_number"`
	Status         FeedbackStatus `json:"status"`

	// Sub-scores on the 0-9 band: task response, coherence and cohesion,
	// lexical resource, grammatical range and accuracy.
	ScoreTR      float64 `json:"score_tr"`
	ScoreCC      float64 `json:"score_cc"`
	ScoreLR      float64 `json:"score_lr"`
	ScoreGRA     float64 `json:"score_gra"`
	OverallScore float64 `json:"overall_score"`

	FeedbackTR      string `json:"feedback_tr"`
	FeedbackCC      string `json:"feedback_cc"`
	FeedbackLR      string `json:"feedback_lr"`
	FeedbackGRA     string `json:"feedback_gra"`
	OverallFeedback string `json:"overall_feedback"`

	Annotations []Annotation `json:"annotations"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewFeedback creates a pending Feedback record for an essay version, with
// zeroed scores and placeholder critiques.
func NewFeedback(projectID, essayVersionID uuid.UUID, versionNumber int) (*Feedback, error) {
	feedback := &Feedback{
		ID:              uuid.New(),
		ProjectID:       projectID,
		EssayVersionID:  essayVersionID,
		VersionNumber:   versionNumber,
		Status:          FeedbackStatusPending,
		FeedbackTR:      PendingCritique,
		FeedbackCC:      PendingCritique,
		FeedbackLR:      PendingCritique,
		FeedbackGRA:     PendingCritique,
		OverallFeedback: PendingCritique,
		Annotations:     []Annotation{},
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}

	if err := feedback.Validate(); err != nil {
		return nil, err
	}

	return feedback, nil
}

// Validate checks if the Feedback has valid data.
func (f *Feedback) Validate() error {
	if f.ID == uuid.Nil {
		return ErrEmptyFeedbackID
	}

	if f.EssayVersionID == uuid.Nil {
		return ErrEmptyFeedbackVersionID
	}

	if !f.Status.IsValid() {
		return ErrInvalidFeedbackStatus
	}

	for _, score := range []float64{f.ScoreTR, f.ScoreCC, f.ScoreLR, f.ScoreGRA} {
		if score < 0 || score > 9 {
			return ErrInvalidScore
		}
	}

	return nil
}

// SetScores records the four sub-scores and derives the overall score.
func (f *Feedback) SetScores(tr, cc, lr, gra float64) {
	f.ScoreTR = tr
	f.ScoreCC = cc
	f.ScoreLR = lr
	f.ScoreGRA = gra
	f.OverallScore = OverallBand(tr, cc, lr, gra)
	f.UpdatedAt = time.Now().UTC()
}

// OverallBand averages four sub-scores and rounds the result to the band
// scale: a fractional part of .75 or more rounds up to the next whole band,
// .5 up to (but not including) .75 keeps the half band, and anything below
// .5 floors. So 6.25 -> 6.0, 6.5 -> 6.5, 6.75 -> 7.0.
func OverallBand(tr, cc, lr, gra float64) float64 {
	avg := (tr + cc + lr + gra) / 4
	whole := math.Floor(avg)
	frac := avg - whole

	switch {
	case frac >= 0.75:
		return whole + 1
	case frac >= 0.5:
		return whole + 0.5
	default:
		return whole
	}
}

// IsValid reports whether s is a recognized feedback status.
func (s FeedbackStatus) IsValid() bool {
	switch s {
	case FeedbackStatusPending, FeedbackStatusInProgress,
		FeedbackStatusCompleted, FeedbackStatusFailed:
		return true
	default:
		return false
	}
}

// IsValid reports whether t is a recognized annotation type.
func (t AnnotationType) IsValid() bool {
	switch t {
	case AnnotationTypeSuggestion, AnnotationTypeCorrection, AnnotationTypeHighlight:
		return true
	default:
		return false
	}
}
