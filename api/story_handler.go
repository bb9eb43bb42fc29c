package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/database"
	"github.com/aionlabs/aion-admin/errs"
	"github.com/aionlabs/aion-admin/models"
)

type storyHandler struct {
	responder Responder
	logger    zerolog.Logger
	storyRepo *database.StoryRepo
	audit     auditor
}

func newStoryHandler(storyRepo *database.StoryRepo, audit auditor) storyHandler {
	logger := log.With().Str("handlerName", "storyHandler").Logger()

	return storyHandler{
		responder: NewResponder(logger),
		logger:    logger,
		storyRepo: storyRepo,
		audit:     audit,
	}
}

// StoryCollection is the story listing plus per-status counts.
type StoryCollection struct {
	Stories []*models.Story              `json:"stories"`
	Counts  map[models.StoryStatus]int64 `json:"counts"`
}

// listStories retrieves stories, optionally filtered by status
// @Summary List stories
// @Tags Stories
// @Produce json
// @Param status query string false "triage | published | rejected"
// @Success 200 {object} StoryCollection "Stories with counts"
// @Failure 400 {object} ErrorResponse "Bad Request - unknown status"
// @Router /stories [get]
func (h storyHandler) listStories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *models.StoryStatus
		if s := r.URL.Query().Get("status"); s != "" {
			parsed := models.StoryStatus(s)
			switch parsed {
			case models.StoryTriage, models.StoryPublished, models.StoryRejected:
				status = &parsed
			default:
				h.responder.WriteError(w, errs.NewInvalidFieldError("status", "unknown status "+s))
				return
			}
		}

		stories, err := h.storyRepo.FindAll(status)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find stories", "stories", err))
			return
		}

		counts, err := h.storyRepo.CountsByStatus()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count stories", "stories", err))
			return
		}

		h.responder.WriteJSON(w, StoryCollection{Stories: stories, Counts: counts})
	}
}

type storyActionRequest struct {
	Action string `json:"action"` // publish | reject | triage
}

// patchStory applies a triage action to a story.
// @Summary Update story
// @Tags Stories
// @Accept json
// @Produce json
// @Param storyID path string true "Story ID" format(uuid)
// @Success 200 {object} models.Story "Story after the action"
// @Failure 400 {object} ErrorResponse "Bad Request - unknown action"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /stories/{storyID} [patch]
func (h storyHandler) patchStory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, err := parseIDParam(r, "storyID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.storyRepo.FindByID(storyID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find story", "story", err))
			return
		}

		var req storyActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("story action", err))
			return
		}

		fields := map[string]any{}
		switch req.Action {
		case "publish":
			fields["status"] = models.StoryPublished
			fields["published_at"] = time.Now().UTC()
		case "reject":
			fields["status"] = models.StoryRejected
			fields["published_at"] = nil
		case "triage":
			fields["status"] = models.StoryTriage
			fields["published_at"] = nil
		default:
			h.responder.WriteError(w, errs.NewInvalidFieldError("action", "expected publish, reject or triage"))
			return
		}

		story, err := h.storyRepo.UpdateFields(storyID, fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update story", "story", err))
			return
		}

		h.audit.record("story", storyID.String(), req.Action, nil)

		h.responder.WriteJSON(w, story)
	}
}
