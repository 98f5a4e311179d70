package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		p, err := NewProject("City growth", "Describe the chart.", ExamTypeIELTS, "Writing1", "7.0")
		require.NoError(t, err)
		assert.Equal(t, ProjectStatusDraft, p.Status)
		assert.Equal(t, 1, p.CurrentVersion)
		assert.Equal(t, 1, p.TotalVersions)
	})

	t.Run("empty title", func(t *testing.T) {
		t.Parallel()
		_, err := NewProject("", "prompt", ExamTypeIELTS, "", "")
		assert.ErrorIs(t, err, ErrEmptyProjectTitle)
	})

	t.Run("bad exam type", func(t *testing.T) {
		t.Parallel()
		_, err := NewProject("title", "prompt", ExamType("sat"), "", "")
		assert.ErrorIs(t, err, ErrInvalidExamType)
	})
}

func TestProjectAddVersion(t *testing.T) {
	t.Parallel()

	p, err := NewProject("title", "prompt", ExamTypeIELTS, "Writing2", "")
	require.NoError(t, err)
	require.NoError(t, p.UpdateStatus(ProjectStatusReviewed))

	p.AddVersion()

	assert.Equal(t, 2, p.TotalVersions)
	assert.Equal(t, 2, p.CurrentVersion)
	assert.Equal(t, ProjectStatusSubmitted, p.Status)
}

func TestParseExamType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ExamTypeTOEFL, ParseExamType("toefl"))
	assert.Equal(t, ExamTypeGRE, ParseExamType("gre"))
	assert.Equal(t, ExamTypeIELTS, ParseExamType("unknown"), "unrecognized types default to IELTS")
}
