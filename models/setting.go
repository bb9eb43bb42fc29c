package models

import "time"

// Setting is a generic key/value row. Besides plain configuration it backs
// pillar-scoped prompt overrides (keyed by convention, see pillar.go) and
// the audit log (a JSON array under AuditLogKey).
type Setting struct {
	Key       string    `json:"key" gorm:"type:text;primaryKey"`
	Value     string    `json:"value" gorm:"type:text;not null;default:''"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

// Well-known setting keys.
const (
	SettingPrompt      = "prompt"
	SettingSearchQuery = "search_query"
	SettingContext     = "contextPrompt"
	SettingToneOfVoice = "toneOfVoicePrompt"
	AuditLogKey        = "audit_log"
)
