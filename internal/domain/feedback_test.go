package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverallBand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		scores   [4]float64
		expected float64
	}{
		{"all equal", [4]float64{6, 6, 6, 6}, 6.0},
		{"half band average", [4]float64{6, 6, 7, 7}, 6.5},
		{"quarter fraction floors", [4]float64{6, 6, 6, 7}, 6.0},
		{"three-quarter fraction rounds up", [4]float64{6, 7, 7, 7}, 7.0},
		{"all zero", [4]float64{0, 0, 0, 0}, 0.0},
		{"top band", [4]float64{9, 9, 9, 9}, 9.0},
		{"half band inputs floor below half", [4]float64{6.5, 6, 6, 6}, 6.0},
		{"mixed half bands keep half", [4]float64{6.5, 6.5, 6.5, 6.5}, 6.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := OverallBand(tc.scores[0], tc.scores[1], tc.scores[2], tc.scores[3])
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNewFeedback(t *testing.T) {
	t.Parallel()

	projectID := uuid.New()
	versionID := uuid.New()

	feedback, err := NewFeedback(projectID, versionID, 1)
	require.NoError(t, err)

	assert.Equal(t, FeedbackStatusPending, feedback.Status)
	assert.Equal(t, PendingCritique, feedback.FeedbackTR)
	assert.Equal(t, PendingCritique, feedback.OverallFeedback)
	assert.Empty(t, feedback.Annotations)
	assert.NotNil(t, feedback.Annotations, "annotations should be an empty slice, not nil")
	assert.Zero(t, feedback.ScoreTR)
	assert.Nil(t, feedback.StartedAt)
	assert.Nil(t, feedback.CompletedAt)
}

func TestFeedbackValidate(t *testing.T) {
	t.Parallel()

	t.Run("missing version ID", func(t *testing.T) {
		t.Parallel()
		f := &Feedback{ID: uuid.New(), Status: FeedbackStatusPending}
		assert.ErrorIs(t, f.Validate(), ErrEmptyFeedbackVersionID)
	})

	t.Run("invalid status", func(t *testing.T) {
		t.Parallel()
		f := &Feedback{ID: uuid.New(), EssayVersionID: uuid.New(), Status: "bogus"}
		assert.ErrorIs(t, f.Validate(), ErrInvalidFeedbackStatus)
	})

	t.Run("score out of band", func(t *testing.T) {
		t.Parallel()
		f := &Feedback{
			ID:             uuid.New(),
			EssayVersionID: uuid.New(),
			Status:         FeedbackStatusCompleted,
			ScoreGRA:       9.5,
		}
		assert.ErrorIs(t, f.Validate(), ErrInvalidScore)
	})
}

func TestFeedbackSetScores(t *testing.T) {
	t.Parallel()

	feedback, err := NewFeedback(uuid.New(), uuid.New(), 1)
	require.NoError(t, err)

	feedback.SetScores(6, 6, 7, 7)

	assert.Equal(t, 6.5, feedback.OverallScore)
	assert.Equal(t, 7.0, feedback.ScoreLR)
}

func TestAnnotationVerifyAgainst(t *testing.T) {
	t.Parallel()

	paragraph := "The graph shows a steady increase in sales over the period."

	verified := Annotation{
		Type:            AnnotationTypeCorrection,
		OriginalContent: "steady increase",
		Suggestion:      "consider 'gradual rise'",
	}
	assert.True(t, verified.VerifyAgainst(paragraph))

	unverified := Annotation{
		Type:            AnnotationTypeSuggestion,
		OriginalContent: "sharp decline",
		Suggestion:      "not present in the text",
	}
	assert.False(t, unverified.VerifyAgainst(paragraph))

	empty := Annotation{Type: AnnotationTypeHighlight}
	assert.False(t, empty.VerifyAgainst(paragraph), "empty span is never verifiable")
}
