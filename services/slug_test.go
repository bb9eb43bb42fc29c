package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "punctuation is dropped",
			input:    "Acme Corp Launches AI Tool!",
			expected: "acme-corp-launches-ai-tool",
		},
		{
			name:     "accents are stripped",
			input:    "Café résumé",
			expected: "cafe-resume",
		},
		{
			name:     "multiple spaces collapse",
			input:    "Hello   World",
			expected: "hello-world",
		},
		{
			name:     "leading and trailing noise",
			input:    "  --Hello World--  ",
			expected: "hello-world",
		},
		{
			name:     "all special characters",
			input:    "!@#$%^&*()",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSlugCollisionDetection(t *testing.T) {
	// Two titles that differ only in punctuation and case produce the same
	// slug, so the exact-slug pre-filter flags them as the same topic even
	// when fuzzy similarity would not.
	a := Slugify("Acme Corp: Launches AI Tool")
	b := Slugify("ACME CORP launches ai tool")
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
}
