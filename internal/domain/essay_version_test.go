package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitParagraphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "two paragraphs",
			content:  "First paragraph here.\n\nSecond paragraph here.",
			expected: []string{"First paragraph here.", "Second paragraph here."},
		},
		{
			name:     "blank lines with whitespace",
			content:  "One.\n   \nTwo.\n\t\nThree.",
			expected: []string{"One.", "Two.", "Three."},
		},
		{
			name:     "single block",
			content:  "Just one paragraph with\na soft line break.",
			expected: []string{"Just one paragraph with\na soft line break."},
		},
		{
			name:     "leading and trailing blanks",
			content:  "\n\n  Only content.  \n\n",
			expected: []string{"Only content."},
		},
		{
			name:     "only whitespace",
			content:  "   \n\n \t ",
			expected: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, SplitParagraphs(tc.content))
		})
	}
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n "))
	assert.Equal(t, 5, CountWords("one two  three\nfour\tfive"))
}

func TestNewEssayVersion(t *testing.T) {
	t.Parallel()

	projectID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		v, err := NewEssayVersion(projectID, 1, "Some essay content here.")
		require.NoError(t, err)
		assert.Equal(t, 4, v.WordCount)
		assert.Equal(t, ProjectStatusSubmitted, v.Status)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := NewEssayVersion(projectID, 1, "   ")
		assert.ErrorIs(t, err, ErrEmptyVersionContent)
	})

	t.Run("bad version number", func(t *testing.T) {
		t.Parallel()
		_, err := NewEssayVersion(projectID, 0, "content")
		assert.ErrorIs(t, err, ErrInvalidVersionNumber)
	})
}
