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

type pageHandler struct {
	responder Responder
	logger    zerolog.Logger
	pageRepo  *database.PageRepo
	audit     auditor
}

func newPageHandler(pageRepo *database.PageRepo, audit auditor) pageHandler {
	logger := log.With().Str("handlerName", "pageHandler").Logger()

	return pageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		pageRepo:  pageRepo,
		audit:     audit,
	}
}

// listPages retrieves all pages
// @Summary List pages
// @Tags Pages
// @Produce json
// @Success 200 {array} models.Page "All pages"
// @Router /pages [get]
func (h pageHandler) listPages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages, err := h.pageRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find pages", "pages", err))
			return
		}

		h.responder.WriteJSON(w, pages)
	}
}

// getPage retrieves one page
// @Summary Get page
// @Tags Pages
// @Produce json
// @Param pageID path string true "Page ID" format(uuid)
// @Success 200 {object} models.Page "Page details"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /pages/{pageID} [get]
func (h pageHandler) getPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageID, err := parseIDParam(r, "pageID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		page, err := h.pageRepo.FindByID(pageID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find page", "page", err))
			return
		}

		h.responder.WriteJSON(w, page)
	}
}

type pageRequest struct {
	Name        *string `json:"name"`
	Prompt      *string `json:"prompt"`
	SearchQuery *string `json:"searchQuery"`
}

// createPage creates a page
// @Summary Create page
// @Tags Pages
// @Accept json
// @Produce json
// @Success 201 {object} models.Page "Created page"
// @Failure 400 {object} ErrorResponse "Bad Request - missing name"
// @Router /pages [post]
func (h pageHandler) createPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("page", err))
			return
		}

		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}

		page := models.Page{
			Name:        strings.TrimSpace(*req.Name),
			Prompt:      req.Prompt,
			SearchQuery: req.SearchQuery,
		}

		if err := h.pageRepo.Add(&page); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create page", "page", err))
			return
		}

		h.audit.record("page", page.ID.String(), "created", map[string]any{"name": page.Name})

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, page)
	}
}

// patchPage updates a page's name or generation settings.
// @Summary Update page
// @Tags Pages
// @Accept json
// @Produce json
// @Param pageID path string true "Page ID" format(uuid)
// @Success 200 {object} models.Page "Updated page"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /pages/{pageID} [patch]
func (h pageHandler) patchPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageID, err := parseIDParam(r, "pageID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.pageRepo.FindByID(pageID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find page", "page", err))
			return
		}

		var req pageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("page", err))
			return
		}

		fields := map[string]any{}
		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				h.responder.WriteError(w, errs.NewInvalidFieldError("name", "must not be empty"))
				return
			}
			fields["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Prompt != nil {
			fields["prompt"] = *req.Prompt
		}
		if req.SearchQuery != nil {
			fields["search_query"] = *req.SearchQuery
		}

		if len(fields) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestError("no fields to update"))
			return
		}

		page, err := h.pageRepo.UpdateFields(pageID, fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update page", "page", err))
			return
		}

		h.audit.record("page", pageID.String(), "updated", map[string]any{"fields": fieldNames(fields)})

		h.responder.WriteJSON(w, page)
	}
}
