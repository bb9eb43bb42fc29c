package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/database"
	"github.com/aionlabs/aion-admin/errs"
	"github.com/aionlabs/aion-admin/models"
)

type settingHandler struct {
	responder   Responder
	logger      zerolog.Logger
	settingRepo *database.SettingRepo
	audit       auditor
}

func newSettingHandler(settingRepo *database.SettingRepo, audit auditor) settingHandler {
	logger := log.With().Str("handlerName", "settingHandler").Logger()

	return settingHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		settingRepo: settingRepo,
		audit:       audit,
	}
}

// promptSettingKeys are the global generation settings exposed as a group.
var promptSettingKeys = []string{
	models.SettingPrompt,
	models.SettingSearchQuery,
	models.SettingContext,
	models.SettingToneOfVoice,
}

// getSettings retrieves settings by key, or all of them
// @Summary Get settings
// @Tags Settings
// @Produce json
// @Param keys query string false "Comma-separated keys; omit for all"
// @Success 200 {object} map[string]string "Key-value pairs"
// @Router /settings [get]
func (h settingHandler) getSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			values map[string]string
			err    error
		)

		if raw := r.URL.Query().Get("keys"); raw != "" {
			keys := strings.Split(raw, ",")
			for i := range keys {
				keys[i] = strings.TrimSpace(keys[i])
			}
			values, err = h.settingRepo.GetMany(keys)
		} else {
			values, err = h.settingRepo.All()
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find settings", "settings", err))
			return
		}

		h.responder.WriteJSON(w, values)
	}
}

// upsertSettings writes a batch of key-value pairs
// @Summary Upsert settings
// @Tags Settings
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Stored key-value pairs"
// @Failure 400 {object} ErrorResponse "Bad Request - empty payload"
// @Router /settings [post]
func (h settingHandler) upsertSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var values map[string]string
		if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("settings", err))
			return
		}
		if len(values) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestError("no settings to update"))
			return
		}

		// The audit log lives in this same table; writing it through the
		// generic endpoint would corrupt it.
		delete(values, models.AuditLogKey)

		if err := h.settingRepo.UpsertMany(values); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("upsert settings", "settings", err))
			return
		}

		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		h.audit.record("setting", "", "updated", map[string]any{"keys": keys})

		h.responder.WriteJSON(w, values)
	}
}

// getPromptSettings retrieves the global generation prompts
// @Summary Get prompt settings
// @Tags Settings
// @Produce json
// @Success 200 {object} map[string]string "Prompt settings"
// @Router /settings/prompts [get]
func (h settingHandler) getPromptSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := h.settingRepo.GetMany(promptSettingKeys)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find settings", "settings", err))
			return
		}

		h.responder.WriteJSON(w, values)
	}
}

// upsertPromptSettings writes the global generation prompts
// @Summary Upsert prompt settings
// @Tags Settings
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Stored prompt settings"
// @Failure 400 {object} ErrorResponse "Bad Request - unknown prompt key"
// @Router /settings/prompts [post]
func (h settingHandler) upsertPromptSettings() http.HandlerFunc {
	allowed := make(map[string]struct{}, len(promptSettingKeys))
	for _, k := range promptSettingKeys {
		allowed[k] = struct{}{}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var values map[string]string
		if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("prompt settings", err))
			return
		}
		if len(values) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestError("no settings to update"))
			return
		}

		for key := range values {
			if _, ok := allowed[key]; !ok {
				h.responder.WriteError(w, errs.NewInvalidFieldError(key, "not a prompt setting"))
				return
			}
		}

		if err := h.settingRepo.UpsertMany(values); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("upsert settings", "settings", err))
			return
		}

		h.audit.record("setting", "", "prompts_updated", nil)

		h.responder.WriteJSON(w, values)
	}
}

// getPrompt retrieves the global task prompt
// @Summary Get prompt
// @Tags Settings
// @Produce json
// @Success 200 {object} map[string]string "The prompt"
// @Router /prompt [get]
func (h settingHandler) getPrompt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value, _, err := h.settingRepo.Get(models.SettingPrompt)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find setting", "setting", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"prompt": value})
	}
}

// putPrompt replaces the global task prompt
// @Summary Set prompt
// @Tags Settings
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "The stored prompt"
// @Failure 400 {object} ErrorResponse "Bad Request - missing prompt"
// @Router /prompt [put]
func (h settingHandler) putPrompt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("prompt", err))
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("prompt"))
			return
		}

		if err := h.settingRepo.Upsert(models.SettingPrompt, req.Prompt); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("upsert setting", "setting", err))
			return
		}

		h.audit.record("setting", models.SettingPrompt, "updated", nil)

		h.responder.WriteJSON(w, map[string]string{"prompt": req.Prompt})
	}
}
