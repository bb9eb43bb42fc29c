package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		existing  []string
		want      bool
	}{
		{
			name:      "case and whitespace insensitive exact match",
			candidate: "Acme Corp Launches AI Tool",
			existing:  []string{"acme corp launches ai tool"},
			want:      true,
		},
		{
			name:      "padded existing title still matches",
			candidate: "Acme Corp Launches AI Tool",
			existing:  []string{"  ACME CORP LAUNCHES AI TOOL  "},
			want:      true,
		},
		{
			name:      "unrelated headline is not a duplicate",
			candidate: "Totally different headline",
			existing:  []string{"Acme Corp Launches AI Tool"},
			want:      false,
		},
		{
			name:      "near-identical wording is caught",
			candidate: "Acme Corp launches an AI tool",
			existing:  []string{"Acme Corp Launches AI Tool"},
			want:      true,
		},
		{
			name:      "empty existing list",
			candidate: "Anything",
			existing:  nil,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsDuplicate(tt.candidate, tt.existing, DefaultSimilarityThreshold)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsDuplicate_ThresholdBoundary(t *testing.T) {
	// Identical strings score 1.0 and must match at any sane threshold.
	assert.True(t, IsDuplicate("same title", []string{"same title"}, 0.99))
	// A threshold above 1.0 can never be met.
	assert.False(t, IsDuplicate("same title", []string{"same title"}, 1.01))
}
