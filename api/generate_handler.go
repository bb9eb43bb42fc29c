package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/database"
	"github.com/aionlabs/aion-admin/errs"
	"github.com/aionlabs/aion-admin/models"
	"github.com/aionlabs/aion-admin/services"
)

type generateHandler struct {
	responder Responder
	logger    zerolog.Logger
	generator *services.Generator
	postRepo  *database.PostRepo
	audit     auditor
}

func newGenerateHandler(generator *services.Generator, postRepo *database.PostRepo, audit auditor) generateHandler {
	logger := log.With().Str("handlerName", "generateHandler").Logger()

	return generateHandler{
		responder: NewResponder(logger),
		logger:    logger,
		generator: generator,
		postRepo:  postRepo,
		audit:     audit,
	}
}

type generateRequest struct {
	Count              int        `json:"count"`
	Prompt             string     `json:"prompt"`
	SearchQuery        string     `json:"searchQuery"`
	ContextPrompt      string     `json:"contextPrompt"`
	ToneOfVoicePrompt  string     `json:"toneOfVoicePrompt"`
	Company            string     `json:"company"`
	PillarID           *uuid.UUID `json:"pillarId"`
	PageID             *uuid.UUID `json:"pageId"`
	NoSearch           bool       `json:"noSearch"`
	ExcludeUsedDomains bool       `json:"excludeUsedDomains"`
}

func (r generateRequest) toService() services.GenerateRequest {
	return services.GenerateRequest{
		Count:              r.Count,
		Prompt:             r.Prompt,
		SearchQuery:        r.SearchQuery,
		ContextPrompt:      r.ContextPrompt,
		ToneOfVoicePrompt:  r.ToneOfVoicePrompt,
		Company:            r.Company,
		PillarID:           r.PillarID,
		PageID:             r.PageID,
		NoSearch:           r.NoSearch,
		ExcludeUsedDomains: r.ExcludeUsedDomains,
	}
}

// GenerateResponse carries the persisted posts and the raw search
// documents used for grounding.
type GenerateResponse struct {
	Posts []*models.Post      `json:"posts"`
	Docs  []services.FoundDoc `json:"docs"`
}

// generate runs the pipeline and persists the accepted items as posts in
// review, sourced "ai".
// @Summary Generate posts
// @Tags Generation
// @Accept json
// @Produce json
// @Success 201 {object} GenerateResponse "Generated posts with search documents"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Failure 500 {object} ErrorResponse "Internal Server Error - LLM or provider failure"
// @Router /generate [post]
func (h generateHandler) generate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.generator == nil {
			h.responder.WriteError(w, errs.NewProviderNotConfiguredError("LLM"))
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("generate", err))
			return
		}

		result, err := h.generator.Generate(r.Context(), req.toService())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		posts := make([]*models.Post, 0, len(result.Items))
		for _, item := range result.Items {
			post := &models.Post{
				Title:    item.Title,
				Body:     string(item.Script),
				Topic:    item.Company,
				Status:   models.StatusNeedsReview,
				PillarID: req.PillarID,
				Source:   models.SourceAI,
				Sources:  item.Sources,
			}
			if err := h.postRepo.Add(post); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("create generated post", "post", err))
				return
			}
			posts = append(posts, post)
		}

		h.audit.record("post", "", "generated", map[string]any{"count": len(posts)})

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, GenerateResponse{Posts: posts, Docs: result.Docs})
	}
}

// preview runs the pipeline without persisting anything.
// @Summary Preview generation
// @Tags Generation
// @Accept json
// @Produce json
// @Success 200 {object} services.GenerateResult "Generated items with search documents"
// @Failure 500 {object} ErrorResponse "Internal Server Error - LLM or provider failure"
// @Router /generate/preview [post]
func (h generateHandler) preview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.generator == nil {
			h.responder.WriteError(w, errs.NewProviderNotConfiguredError("LLM"))
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("generate", err))
			return
		}

		result, err := h.generator.Generate(r.Context(), req.toService())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, result)
	}
}
