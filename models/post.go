package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	StatusDraft          PostStatus = "DRAFT"
	StatusNeedsReview    PostStatus = "NEEDS_REVIEW"
	StatusReadyToPublish PostStatus = "READY_TO_PUBLISH"
	StatusPublished      PostStatus = "PUBLISHED"
	StatusRejected       PostStatus = "REJECTED"
)

// statusRank orders statuses for the transition check. REJECTED ranks above
// PUBLISHED on purpose: rejecting a published post is blocked by a dedicated
// check, never by rank, and this ordering must not change.
var statusRank = map[PostStatus]int{
	StatusDraft:          1,
	StatusNeedsReview:    2,
	StatusReadyToPublish: 3,
	StatusPublished:      4,
	StatusRejected:       5,
}

// Valid reports whether s is one of the known post statuses.
func (s PostStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Post sources
const (
	SourceManual = "manual"
	SourceAI     = "ai"
)

// Post is the primary content unit carried through the editorial lifecycle.
type Post struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title       string        `json:"title" gorm:"type:text;not null"`
	Body        string        `json:"body" gorm:"type:text;not null;default:''"`
	Topic       *string       `json:"topic,omitempty" gorm:"type:text"`
	Status      PostStatus    `json:"status" gorm:"type:text;not null;default:'DRAFT';index"`
	PillarID    *uuid.UUID    `json:"pillarId,omitempty" gorm:"type:uuid;index"`
	Pillar      *Pillar       `json:"pillar,omitempty" gorm:"foreignKey:PillarID;references:ID;constraint:OnDelete:SET NULL"`
	ScheduledAt *time.Time    `json:"scheduledAt,omitempty" gorm:"type:timestamptz"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty" gorm:"type:timestamptz"`
	ReviewDueAt *time.Time    `json:"reviewDueAt,omitempty" gorm:"type:timestamptz"`
	Source      string        `json:"source" gorm:"type:text;not null;default:'manual'"`
	Sources     []string      `json:"sources" gorm:"type:jsonb;serializer:json"`
	Comments    []PostComment `json:"comments,omitempty" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Attachments []Attachment  `json:"attachments,omitempty" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time     `json:"updatedAt" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

// MaxPostSources caps how many source URLs a post may carry.
const MaxPostSources = 5
