package models

import (
	"time"

	"github.com/google/uuid"
)

// StoryStatus is the legacy triage lifecycle, simpler than PostStatus.
type StoryStatus string

const (
	StoryTriage    StoryStatus = "triage"
	StoryPublished StoryStatus = "published"
	StoryRejected  StoryStatus = "rejected"
)

// Story is the legacy predecessor to Post. New content lands in Post, but
// published/rejected stories still feed the generation banlist, so the
// table and its read path stay.
type Story struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title       string      `json:"title" gorm:"type:text;not null"`
	TitleSlug   string      `json:"titleSlug" gorm:"type:text;not null;index"`
	Script      string      `json:"script" gorm:"type:text;not null"`
	Company     *string     `json:"company,omitempty" gorm:"type:text"`
	Sources     []string    `json:"sources" gorm:"type:jsonb;serializer:json"`
	Status      StoryStatus `json:"status" gorm:"type:text;not null;default:'triage';index"`
	NoveltyNote *string     `json:"noveltyNote,omitempty" gorm:"type:text"`
	Confidence  *float64    `json:"confidence,omitempty" gorm:"type:double precision"`
	Origin      string      `json:"origin" gorm:"type:text;not null;default:'ai'"`
	CreatedAt   time.Time   `json:"createdAt" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	PublishedAt *time.Time  `json:"publishedAt,omitempty" gorm:"type:timestamptz"`
}

// MaxStorySources caps how many source URLs a story may carry.
const MaxStorySources = 3
