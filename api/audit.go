package api

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/database"
)

// auditor records mutations into the audit trail. Recording is
// best-effort: a failed write is logged and never fails the request.
type auditor struct {
	settings *database.SettingRepo
	logger   zerolog.Logger
}

func newAuditor(settings *database.SettingRepo) auditor {
	return auditor{
		settings: settings,
		logger:   log.With().Str("handlerName", "auditor").Logger(),
	}
}

func (a auditor) record(entityType, entityID, action string, meta map[string]any) {
	err := a.settings.AppendAudit(database.AuditEvent{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Meta:       meta,
	})
	if err != nil {
		a.logger.Warn().Err(err).
			Str("entityType", entityType).
			Str("action", action).
			Msg("audit write failed")
	}
}
