package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the workflow state of a task comment.
type TaskStatus string

const (
	TaskOpen       TaskStatus = "OPEN"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// PostComment is a note on a post. When IsTask is true it doubles as a task
// with its own status, assignee and due date. Task fields on a non-task
// comment are ignored rather than rejected; the schema does not enforce it.
type PostComment struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	PostID     uuid.UUID   `json:"postId" gorm:"type:uuid;not null;index"`
	Text       string      `json:"text" gorm:"type:text;not null"`
	IsTask     bool        `json:"isTask" gorm:"not null;default:false"`
	TaskStatus *TaskStatus `json:"taskStatus,omitempty" gorm:"type:text"`
	DueAt      *time.Time  `json:"dueAt,omitempty" gorm:"type:timestamptz"`
	Assignee   *string     `json:"assignee,omitempty" gorm:"type:text"`
	CreatedAt  time.Time   `json:"createdAt" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}
