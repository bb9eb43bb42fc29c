package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestValidateStatusTransition_RequiresStatus(t *testing.T) {
	_, err := ValidateStatusTransition(&Post{Status: StatusDraft}, StatusChange{})
	require.Error(t, err)
	assert.Equal(t, "status required", err.Error())
}

func TestValidateStatusTransition_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		current PostStatus
		wantErr string
	}{
		{name: "from draft", current: StatusDraft},
		{name: "from needs review", current: StatusNeedsReview},
		{name: "from ready to publish", current: StatusReadyToPublish},
		{name: "from published", current: StatusPublished, wantErr: "cannot reject published"},
		{name: "from rejected", current: StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, err := ValidateStatusTransition(&Post{Status: tt.current}, StatusChange{Status: StatusRejected})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusRejected, update.Status)
			assert.True(t, update.ClearDates, "rejection must clear scheduling fields")
		})
	}
}

func TestValidateStatusTransition_RequiredFields(t *testing.T) {
	current := &Post{Status: StatusDraft}

	_, err := ValidateStatusTransition(current, StatusChange{Status: StatusReadyToPublish})
	require.Error(t, err)
	assert.Equal(t, "scheduledAt required", err.Error())

	_, err = ValidateStatusTransition(current, StatusChange{Status: StatusNeedsReview})
	require.Error(t, err)
	assert.Equal(t, "reviewDueAt required", err.Error())

	update, err := ValidateStatusTransition(current, StatusChange{
		Status:      StatusReadyToPublish,
		ScheduledAt: ts("2026-03-01T10:00:00Z"),
	})
	require.NoError(t, err)
	require.NotNil(t, update.ScheduledAt)
	assert.Equal(t, *ts("2026-03-01T10:00:00Z"), *update.ScheduledAt)
}

func TestValidateStatusTransition_RankCheck(t *testing.T) {
	// Any move to a lower-ranked status must fail, with REJECTED handled by
	// its own branch before the rank check ever runs.
	tests := []struct {
		name    string
		current PostStatus
		change  StatusChange
		wantErr string
	}{
		{
			name:    "published back to draft",
			current: StatusPublished,
			change:  StatusChange{Status: StatusDraft},
			wantErr: "invalid transition",
		},
		{
			name:    "published back to needs review",
			current: StatusPublished,
			change:  StatusChange{Status: StatusNeedsReview, ReviewDueAt: ts("2026-03-01T10:00:00Z")},
			wantErr: "invalid transition",
		},
		{
			name:    "ready to publish back to draft",
			current: StatusReadyToPublish,
			change:  StatusChange{Status: StatusDraft},
			wantErr: "invalid transition",
		},
		{
			name:    "rejected back to draft",
			current: StatusRejected,
			change:  StatusChange{Status: StatusDraft},
			wantErr: "invalid transition",
		},
		{
			name:    "draft forward to published",
			current: StatusDraft,
			change:  StatusChange{Status: StatusPublished},
		},
		{
			name:    "needs review forward to ready",
			current: StatusNeedsReview,
			change:  StatusChange{Status: StatusReadyToPublish, ScheduledAt: ts("2026-03-01T10:00:00Z")},
		},
		{
			name:    "same status is allowed",
			current: StatusDraft,
			change:  StatusChange{Status: StatusDraft},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateStatusTransition(&Post{Status: tt.current}, tt.change)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStatusTransition_PublishedAtDefaultsToNow(t *testing.T) {
	update, err := ValidateStatusTransition(&Post{Status: StatusReadyToPublish}, StatusChange{Status: StatusPublished})
	require.NoError(t, err)
	require.NotNil(t, update.PublishedAt)
	assert.WithinDuration(t, time.Now(), *update.PublishedAt, 2*time.Second)

	explicit := ts("2026-01-15T08:30:00Z")
	update, err = ValidateStatusTransition(&Post{Status: StatusReadyToPublish}, StatusChange{
		Status:      StatusPublished,
		PublishedAt: explicit,
	})
	require.NoError(t, err)
	require.NotNil(t, update.PublishedAt)
	assert.Equal(t, *explicit, *update.PublishedAt)
}
