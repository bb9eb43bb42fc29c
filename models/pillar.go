package models

import (
	"time"

	"github.com/google/uuid"
)

// Pillar is a named topic bucket that posts can belong to. Posts reference
// it weakly: deleting a pillar detaches its posts instead of removing them.
// Pillar-scoped generation overrides live in Setting rows (see PillarPromptKey).
type Pillar struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name      string    `json:"name" gorm:"type:text;not null;unique"`
	CreatedAt time.Time `json:"createdAt" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

// Setting keys for pillar-scoped generation overrides. The "page:" prefix is
// a legacy key scheme kept for compatibility with existing rows.
func PillarPromptKey(id uuid.UUID) string      { return "page:" + id.String() + ":prompt" }
func PillarSearchKey(id uuid.UUID) string      { return "page:" + id.String() + ":search_query" }
func PillarContextKey(id uuid.UUID) string     { return "page:" + id.String() + ":context_prompt" }
func PillarToneOfVoiceKey(id uuid.UUID) string { return "page:" + id.String() + ":tov_prompt" }
