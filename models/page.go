package models

import (
	"time"

	"github.com/google/uuid"
)

// Page is an older topic model that carries its generation overrides as
// columns instead of settings rows. The generation pipeline still consults
// it, so it stays alongside Pillar until the data is migrated.
type Page struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name        string    `json:"name" gorm:"type:text;not null"`
	Prompt      *string   `json:"prompt,omitempty" gorm:"type:text"`
	SearchQuery *string   `json:"searchQuery,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}
