package models

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is metadata for a file stored externally (S3 or Supabase
// storage); the bytes never pass through this service.
type Attachment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	PostID    uuid.UUID `json:"postId" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	URL       string    `json:"url" gorm:"type:text;not null"`
	MimeType  *string   `json:"mimeType,omitempty" gorm:"type:text"`
	SizeBytes *int64    `json:"sizeBytes,omitempty" gorm:"type:bigint"`
	CreatedAt time.Time `json:"createdAt" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}
