package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/database"
	"github.com/aionlabs/aion-admin/errs"
	"github.com/aionlabs/aion-admin/models"
)

type pillarHandler struct {
	responder   Responder
	logger      zerolog.Logger
	pillarRepo  *database.PillarRepo
	postRepo    *database.PostRepo
	settingRepo *database.SettingRepo
	audit       auditor
}

func newPillarHandler(pillarRepo *database.PillarRepo, postRepo *database.PostRepo, settingRepo *database.SettingRepo, audit auditor) pillarHandler {
	logger := log.With().Str("handlerName", "pillarHandler").Logger()

	return pillarHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		pillarRepo:  pillarRepo,
		postRepo:    postRepo,
		settingRepo: settingRepo,
		audit:       audit,
	}
}

// PillarWithPrompts is a pillar plus its scoped generation settings.
type PillarWithPrompts struct {
	models.Pillar
	Prompt            string `json:"prompt,omitempty"`
	SearchQuery       string `json:"searchQuery,omitempty"`
	ContextPrompt     string `json:"contextPrompt,omitempty"`
	ToneOfVoicePrompt string `json:"toneOfVoicePrompt,omitempty"`
}

func (h pillarHandler) withPrompts(pillar models.Pillar) (PillarWithPrompts, error) {
	settings, err := h.settingRepo.GetMany([]string{
		models.PillarPromptKey(pillar.ID),
		models.PillarSearchKey(pillar.ID),
		models.PillarContextKey(pillar.ID),
		models.PillarToneOfVoiceKey(pillar.ID),
	})
	if err != nil {
		return PillarWithPrompts{}, err
	}

	return PillarWithPrompts{
		Pillar:            pillar,
		Prompt:            settings[models.PillarPromptKey(pillar.ID)],
		SearchQuery:       settings[models.PillarSearchKey(pillar.ID)],
		ContextPrompt:     settings[models.PillarContextKey(pillar.ID)],
		ToneOfVoicePrompt: settings[models.PillarToneOfVoiceKey(pillar.ID)],
	}, nil
}

// listPillars retrieves all pillars ordered by name
// @Summary List pillars
// @Tags Pillars
// @Produce json
// @Success 200 {array} models.Pillar "All pillars"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /pillars [get]
func (h pillarHandler) listPillars() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pillars, err := h.pillarRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find pillars", "pillars", err))
			return
		}

		h.responder.WriteJSON(w, pillars)
	}
}

// getPillar retrieves one pillar with its scoped generation settings
// @Summary Get pillar
// @Tags Pillars
// @Produce json
// @Param pillarID path string true "Pillar ID" format(uuid)
// @Success 200 {object} PillarWithPrompts "Pillar with prompt settings"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /pillars/{pillarID} [get]
func (h pillarHandler) getPillar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pillarID, err := parseIDParam(r, "pillarID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		pillar, err := h.pillarRepo.FindByID(pillarID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find pillar", "pillar", err))
			return
		}

		response, err := h.withPrompts(*pillar)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find pillar settings", "settings", err))
			return
		}

		h.responder.WriteJSON(w, response)
	}
}

type pillarRequest struct {
	Name              *string `json:"name"`
	Prompt            *string `json:"prompt"`
	SearchQuery       *string `json:"searchQuery"`
	ContextPrompt     *string `json:"contextPrompt"`
	ToneOfVoicePrompt *string `json:"toneOfVoicePrompt"`
}

// createPillar creates a pillar. A duplicate name is a conflict.
// @Summary Create pillar
// @Tags Pillars
// @Accept json
// @Produce json
// @Success 201 {object} PillarWithPrompts "Created pillar"
// @Failure 400 {object} ErrorResponse "Bad Request - missing name"
// @Failure 409 {object} ErrorResponse "Conflict - name already exists"
// @Router /pillars [post]
func (h pillarHandler) createPillar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pillarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("pillar", err))
			return
		}

		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}

		pillar := models.Pillar{Name: strings.TrimSpace(*req.Name)}
		if err := h.pillarRepo.Add(&pillar); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create pillar", "pillar", err))
			return
		}

		if err := h.upsertPrompts(pillar.ID, req); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save pillar settings", "settings", err))
			return
		}

		h.audit.record("pillar", pillar.ID.String(), "created", map[string]any{"name": pillar.Name})

		response, err := h.withPrompts(pillar)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find pillar settings", "settings", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, response)
	}
}

// patchPillar renames a pillar and/or updates its scoped settings.
// @Summary Update pillar
// @Tags Pillars
// @Accept json
// @Produce json
// @Param pillarID path string true "Pillar ID" format(uuid)
// @Success 200 {object} PillarWithPrompts "Updated pillar"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Failure 409 {object} ErrorResponse "Conflict - name already exists"
// @Router /pillars/{pillarID} [patch]
func (h pillarHandler) patchPillar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pillarID, err := parseIDParam(r, "pillarID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		pillar, err := h.pillarRepo.FindByID(pillarID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find pillar", "pillar", err))
			return
		}

		var req pillarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("pillar", err))
			return
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				h.responder.WriteError(w, errs.NewInvalidFieldError("name", "must not be empty"))
				return
			}
			pillar.Name = name
			if err := h.pillarRepo.Update(pillar); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("update pillar", "pillar", err))
				return
			}
		}

		if err := h.upsertPrompts(pillarID, req); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save pillar settings", "settings", err))
			return
		}

		h.audit.record("pillar", pillarID.String(), "updated", nil)

		response, err := h.withPrompts(*pillar)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find pillar settings", "settings", err))
			return
		}

		h.responder.WriteJSON(w, response)
	}
}

func (h pillarHandler) upsertPrompts(pillarID uuid.UUID, req pillarRequest) error {
	values := map[string]string{}
	if req.Prompt != nil {
		values[models.PillarPromptKey(pillarID)] = *req.Prompt
	}
	if req.SearchQuery != nil {
		values[models.PillarSearchKey(pillarID)] = *req.SearchQuery
	}
	if req.ContextPrompt != nil {
		values[models.PillarContextKey(pillarID)] = *req.ContextPrompt
	}
	if req.ToneOfVoicePrompt != nil {
		values[models.PillarToneOfVoiceKey(pillarID)] = *req.ToneOfVoicePrompt
	}
	if len(values) == 0 {
		return nil
	}
	return h.settingRepo.UpsertMany(values)
}

// deletePillar detaches the pillar's posts and deletes it in one
// transaction. Posts survive with a cleared pillar reference.
// @Summary Delete pillar
// @Tags Pillars
// @Produce json
// @Param pillarID path string true "Pillar ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /pillars/{pillarID} [delete]
func (h pillarHandler) deletePillar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pillarID, err := parseIDParam(r, "pillarID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.pillarRepo.FindByID(pillarID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find pillar", "pillar", err))
			return
		}

		if err := h.pillarRepo.DeleteDetaching(pillarID, h.postRepo); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete pillar", "pillar", err))
			return
		}

		h.audit.record("pillar", pillarID.String(), "deleted", nil)

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "pillar deleted successfully",
		})
	}
}
