package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/database"
	"github.com/aionlabs/aion-admin/errs"
	"github.com/aionlabs/aion-admin/models"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	postRepo  *database.PostRepo
	audit     auditor
	cache     *responseCache
}

func newPostHandler(postRepo *database.PostRepo, audit auditor) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		postRepo:  postRepo,
		audit:     audit,
		cache:     newResponseCache(postsCacheTTL),
	}
}

// PostCollection is one page of the post listing.
type PostCollection struct {
	Posts    []*models.Post `json:"posts"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// listPosts retrieves a filtered, paginated page of posts
// @Summary List posts
// @Description Retrieves posts filtered by status, pillar, date range, text search and task state
// @Tags Posts
// @Produce json
// @Success 200 {object} PostCollection "One page of posts"
// @Failure 400 {object} ErrorResponse "Bad Request - invalid filter value"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /posts [get]
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cacheKey := r.URL.String()
		if h.cache.serveCached(w, cacheKey) {
			return
		}

		filter, err := parsePostFilter(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		posts, total, err := h.postRepo.FindPage(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}

		page := filter.Page
		if page < 1 {
			page = 1
		}
		pageSize := filter.PageSize
		if pageSize < 1 {
			pageSize = 20
		}
		if pageSize > 50 {
			pageSize = 50
		}

		response := PostCollection{Posts: posts, Total: total, Page: page, PageSize: pageSize}

		body, err := json.Marshal(response)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.cache.set(cacheKey, body)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(body)
	}
}

func parsePostFilter(r *http.Request) (database.PostFilter, error) {
	q := r.URL.Query()
	var filter database.PostFilter

	for _, raw := range q["status"] {
		values, err := splitListParam(raw)
		if err != nil {
			return filter, errs.NewInvalidFieldError("status", "expected comma-separated values or a JSON array")
		}
		for _, s := range values {
			status := models.PostStatus(s)
			if !status.Valid() {
				return filter, errs.NewInvalidFieldError("status", "unknown status "+string(status))
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	for _, raw := range q["pillarId"] {
		values, err := splitListParam(raw)
		if err != nil {
			return filter, errs.NewInvalidFieldError("pillarId", "expected comma-separated values or a JSON array")
		}
		for _, s := range values {
			id, err := uuid.Parse(s)
			if err != nil {
				return filter, errs.NewInvalidFieldError("pillarId", "invalid uuid")
			}
			filter.PillarIDs = append(filter.PillarIDs, id)
		}
	}

	var err error
	if filter.From, err = parseTimeParam(q.Get("from")); err != nil {
		return filter, errs.NewInvalidFieldError("from", "expected RFC3339 or YYYY-MM-DD")
	}
	if filter.To, err = parseTimeParam(q.Get("to")); err != nil {
		return filter, errs.NewInvalidFieldError("to", "expected RFC3339 or YYYY-MM-DD")
	}

	filter.Search = q.Get("search")

	if s := q.Get("taskStatus"); s != "" {
		status := models.TaskStatus(s)
		if !status.Valid() {
			return filter, errs.NewInvalidFieldError("taskStatus", "unknown task status "+s)
		}
		filter.TaskStatus = &status
	}
	if s := q.Get("assignee"); s != "" {
		filter.Assignee = &s
	}

	filter.SortBy = q.Get("sortBy")
	filter.SortDir = q.Get("sortDir")
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PageSize, _ = strconv.Atoi(q.Get("pageSize"))

	return filter, nil
}

// splitListParam accepts a repeatable list query value either as a JSON
// array (`["A","B"]`) or as a comma-separated string (`A,B`). Blank
// elements are dropped.
func splitListParam(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var parts []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &parts); err != nil {
			return nil, err
		}
	} else {
		parts = strings.Split(raw, ",")
	}

	values := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			values = append(values, s)
		}
	}
	return values, nil
}

func parseTimeParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type createPostRequest struct {
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Topic       *string    `json:"topic"`
	PillarID    *uuid.UUID `json:"pillarId"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Source      string     `json:"source"`
	Sources     []string   `json:"sources"`
}

// createPost creates a new draft post
// @Summary Create post
// @Tags Posts
// @Accept json
// @Produce json
// @Success 201 {object} models.Post "Created post"
// @Failure 400 {object} ErrorResponse "Bad Request - missing title"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /posts [post]
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("post", err))
			return
		}

		if strings.TrimSpace(req.Title) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}

		source := req.Source
		if source == "" {
			source = models.SourceManual
		}
		sources := req.Sources
		if len(sources) > models.MaxPostSources {
			sources = sources[:models.MaxPostSources]
		}

		post := models.Post{
			Title:       strings.TrimSpace(req.Title),
			Body:        req.Body,
			Topic:       req.Topic,
			Status:      models.StatusDraft,
			PillarID:    req.PillarID,
			ScheduledAt: req.ScheduledAt,
			Source:      source,
			Sources:     sources,
		}

		if err := h.postRepo.Add(&post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create post", "post", err))
			return
		}

		h.audit.record("post", post.ID.String(), "created", map[string]any{"title": post.Title})

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, post)
	}
}

type patchPostRequest struct {
	Title       *string    `json:"title"`
	Body        *string    `json:"body"`
	Topic       *string    `json:"topic"`
	PillarID    *uuid.UUID `json:"pillarId"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Sources     []string   `json:"sources"`
}

// patchPost partially updates a post's editable fields. Status changes go
// through the dedicated status endpoint.
// @Summary Update post
// @Tags Posts
// @Accept json
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} models.Post "Updated post"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /posts/{postID} [patch]
func (h postHandler) patchPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req patchPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("post", err))
			return
		}

		fields := map[string]any{}
		if req.Title != nil {
			if strings.TrimSpace(*req.Title) == "" {
				h.responder.WriteError(w, errs.NewInvalidFieldError("title", "must not be empty"))
				return
			}
			fields["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Body != nil {
			fields["body"] = *req.Body
		}
		if req.Topic != nil {
			fields["topic"] = *req.Topic
		}
		if req.PillarID != nil {
			fields["pillar_id"] = *req.PillarID
		}
		if req.ScheduledAt != nil {
			fields["scheduled_at"] = *req.ScheduledAt
		}
		if req.Sources != nil {
			sources := req.Sources
			if len(sources) > models.MaxPostSources {
				sources = sources[:models.MaxPostSources]
			}
			fields["sources"] = sources
		}

		if len(fields) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestError("no fields to update"))
			return
		}

		post, err := h.postRepo.UpdateFields(postID, fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update post", "post", err))
			return
		}

		h.audit.record("post", postID.String(), "updated", map[string]any{"fields": fieldNames(fields)})

		h.responder.WriteJSON(w, post)
	}
}

// deletePost removes a post; comments and attachments cascade.
// @Summary Delete post
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /posts/{postID} [delete]
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.postRepo.FindByID(postID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find post", "post", err))
			return
		}

		if err := h.postRepo.Delete(postID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete post", "post", err))
			return
		}

		h.audit.record("post", postID.String(), "deleted", nil)

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "post deleted successfully",
		})
	}
}

type statusChangeRequest struct {
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	ReviewDueAt *time.Time `json:"reviewDueAt"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// changeStatus moves a post through the editorial state machine.
// @Summary Change post status
// @Tags Posts
// @Accept json
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} models.Post "Post after the transition"
// @Failure 400 {object} ErrorResponse "Bad Request - invalid transition"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /posts/{postID}/status [post]
func (h postHandler) changeStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req statusChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("status change", err))
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find post", "post", err))
			return
		}

		update, err := models.ValidateStatusTransition(post, models.StatusChange{
			Status:      models.PostStatus(req.Status),
			ScheduledAt: req.ScheduledAt,
			ReviewDueAt: req.ReviewDueAt,
			PublishedAt: req.PublishedAt,
		})
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidTransitionError(err.Error()))
			return
		}

		updated, err := h.postRepo.ApplyStatusUpdate(postID, update)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update post status", "post", err))
			return
		}

		h.audit.record("post", postID.String(), "status_changed", map[string]any{
			"from": post.Status,
			"to":   updated.Status,
		})

		h.responder.WriteJSON(w, updated)
	}
}

// publishDue flips every READY_TO_PUBLISH post whose scheduled time has
// passed to PUBLISHED. Idempotent and safe to call repeatedly.
// @Summary Publish due posts
// @Tags Posts
// @Produce json
// @Success 200 {object} map[string]int "Number of posts published"
// @Router /posts/publish [post]
func (h postHandler) publishDue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		published, err := h.postRepo.PublishDue(time.Now().UTC())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("publish due posts", "posts", err))
			return
		}

		if published > 0 {
			h.audit.record("post", "", "published_due", map[string]any{"count": published})
		}

		h.responder.WriteJSON(w, map[string]int{"published": published})
	}
}

// postStats returns total and per-status counts, optionally scoped to one
// pillar.
// @Summary Post stats
// @Tags Posts
// @Produce json
// @Success 200 {object} map[string]interface{} "Counts by status"
// @Router /posts/stats [get]
func (h postHandler) postStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pillarID *uuid.UUID
		if s := r.URL.Query().Get("pillarId"); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("pillarId", "invalid uuid"))
				return
			}
			pillarID = &id
		}

		total, byStatus, err := h.postRepo.CountByStatus(pillarID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"total":    total,
			"byStatus": byStatus,
		})
	}
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}
