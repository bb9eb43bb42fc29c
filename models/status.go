package models

import (
	"time"
)

// StatusChange is the requested transition payload for a post.
type StatusChange struct {
	Status      PostStatus `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	ReviewDueAt *time.Time `json:"reviewDueAt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// StatusUpdate holds the fields to persist after a validated transition.
// Clear* flags distinguish "set to NULL" from "leave untouched".
type StatusUpdate struct {
	Status      PostStatus
	ScheduledAt *time.Time
	ReviewDueAt *time.Time
	PublishedAt *time.Time
	ClearDates  bool // REJECTED wipes scheduledAt/publishedAt/reviewDueAt
}

// StatusValidationError is returned when a requested transition is not
// allowed. The message is surfaced to the client verbatim.
type StatusValidationError struct {
	Reason string
}

func (e *StatusValidationError) Error() string {
	return e.Reason
}

// ValidateStatusTransition computes the fields to persist for a requested
// status change, or an error when the transition is not allowed. It is a
// pure function: no I/O, no side effects.
//
// Evaluation order matters and mirrors the production behavior exactly:
// the REJECTED branch returns before the rank check runs, which is the only
// reason REJECTED (rank 5) is reachable from lower-ranked states at all.
func ValidateStatusTransition(current *Post, change StatusChange) (StatusUpdate, error) {
	if change.Status == "" {
		return StatusUpdate{}, &StatusValidationError{Reason: "status required"}
	}
	if !change.Status.Valid() {
		return StatusUpdate{}, &StatusValidationError{Reason: "unknown status"}
	}

	update := StatusUpdate{Status: change.Status}

	if change.Status == StatusRejected {
		// allow rejecting from any non-published state, clear scheduling
		if current.Status == StatusPublished {
			return StatusUpdate{}, &StatusValidationError{Reason: "cannot reject published"}
		}
		update.ClearDates = true
		return update, nil
	}

	if change.Status == StatusReadyToPublish {
		if change.ScheduledAt == nil {
			return StatusUpdate{}, &StatusValidationError{Reason: "scheduledAt required"}
		}
		update.ScheduledAt = change.ScheduledAt
	}

	if change.Status == StatusNeedsReview {
		if change.ReviewDueAt == nil {
			return StatusUpdate{}, &StatusValidationError{Reason: "reviewDueAt required"}
		}
		update.ReviewDueAt = change.ReviewDueAt
	}

	if change.Status == StatusPublished {
		if change.PublishedAt != nil {
			update.PublishedAt = change.PublishedAt
		} else {
			now := time.Now()
			update.PublishedAt = &now
		}
	}

	// Prevent moving to a lower-ranked status.
	if statusRank[change.Status] < statusRank[current.Status] {
		return StatusUpdate{}, &StatusValidationError{Reason: "invalid transition"}
	}

	return update, nil
}
