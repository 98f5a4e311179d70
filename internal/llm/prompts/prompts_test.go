package prompts

import (
	"testing"

	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackPrompts(t *testing.T) {
	t.Parallel()

	system, user, err := Feedback("Describe the chart.", "The chart shows growth.", domain.ExamTypeIELTS, "7.0")
	require.NoError(t, err)

	assert.Contains(t, system, "IELTS Writing")
	assert.Contains(t, system, "score_tr")
	assert.Contains(t, user, "Describe the chart.")
	assert.Contains(t, user, "The chart shows growth.")
	assert.Contains(t, user, "7.0")
}

func TestFeedbackPromptsOmitTargetScore(t *testing.T) {
	t.Parallel()

	_, user, err := Feedback("task", "essay", domain.ExamTypeTOEFL, "")
	require.NoError(t, err)
	assert.NotContains(t, user, "aiming for a band")
}

func TestAnnotationPrompts(t *testing.T) {
	t.Parallel()

	system, user, err := Annotation("task", "First paragraph.", 0, domain.ExamTypeGRE)
	require.NoError(t, err)

	assert.Contains(t, system, "GRE Analytical Writing")
	assert.Contains(t, system, "original_content")
	assert.Contains(t, user, "Paragraph 0")
	assert.Contains(t, user, "First paragraph.")
}

func TestExampleEssayPrompts(t *testing.T) {
	t.Parallel()

	system, user, err := ExampleEssay("task", "essay body", domain.ExamTypeIELTS, "8.0")
	require.NoError(t, err)

	assert.Contains(t, system, "model answer")
	assert.Contains(t, system, "improvement")
	assert.Contains(t, user, "essay body")
}
