package database

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aionlabs/aion-admin/models"
)

type SettingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) *SettingRepo {
	return &SettingRepo{db}
}

// Get returns a setting value and whether the key exists.
func (r *SettingRepo) Get(key string) (string, bool, error) {
	var setting models.Setting
	err := r.db.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, true, nil
}

// GetMany returns the subset of keys that exist, as a map.
func (r *SettingRepo) GetMany(keys []string) (map[string]string, error) {
	var settings []models.Setting
	if err := r.db.Where("key IN ?", keys).Find(&settings).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	return out, nil
}

// All returns every setting as a map.
func (r *SettingRepo) All() (map[string]string, error) {
	var settings []models.Setting
	if err := r.db.Find(&settings).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	return out, nil
}

// Upsert writes a setting, inserting or updating as needed.
func (r *SettingRepo) Upsert(key, value string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}).Error
}

// UpsertMany writes several settings in one transaction.
func (r *SettingRepo) UpsertMany(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// AuditEvent is one entry of the audit trail.
type AuditEvent struct {
	Ts         time.Time      `json:"ts"`
	EntityType string         `json:"entityType"` // post | comment | attachment | page | pillar | story | setting
	EntityID   string         `json:"entityId"`
	Action     string         `json:"action"` // e.g. created, updated, deleted, status_changed
	Meta       map[string]any `json:"meta,omitempty"`
}

// maxAuditEntries caps the serialized audit array.
const maxAuditEntries = 1000

// AppendAudit prepends an event to the audit array stored in the settings
// table. Known limitation: the read-prepend-write cycle is not safe under
// concurrent writers; entries can be lost. Callers treat this as
// best-effort and must not fail their request on an audit error.
func (r *SettingRepo) AppendAudit(evt AuditEvent) error {
	if evt.Ts.IsZero() {
		evt.Ts = time.Now()
	}
	existing, _, err := r.Get(models.AuditLogKey)
	if err != nil {
		return err
	}
	next, err := prependAudit(existing, evt, maxAuditEntries)
	if err != nil {
		return err
	}
	return r.Upsert(models.AuditLogKey, next)
}

// prependAudit inserts evt at the head of the serialized array, dropping
// entries past max. A corrupt existing value is discarded rather than
// propagated.
func prependAudit(existingJSON string, evt AuditEvent, max int) (string, error) {
	var entries []json.RawMessage
	if existingJSON != "" {
		if err := json.Unmarshal([]byte(existingJSON), &entries); err != nil {
			entries = nil
		}
	}

	head, err := json.Marshal(evt)
	if err != nil {
		return "", err
	}

	next := append([]json.RawMessage{head}, entries...)
	if len(next) > max {
		next = next[:max]
	}

	out, err := json.Marshal(next)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
