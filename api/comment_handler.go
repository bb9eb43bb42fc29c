package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/database"
	"github.com/aionlabs/aion-admin/errs"
	"github.com/aionlabs/aion-admin/models"
	"github.com/aionlabs/aion-admin/services"
)

type commentHandler struct {
	responder   Responder
	logger      zerolog.Logger
	commentRepo *database.CommentRepo
	postRepo    *database.PostRepo
	telegram    *services.Telegram
	audit       auditor
}

func newCommentHandler(commentRepo *database.CommentRepo, postRepo *database.PostRepo, telegram *services.Telegram, audit auditor) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		telegram:    telegram,
		audit:       audit,
	}
}

// listComments retrieves the comments of a post, optionally only tasks
// @Summary List comments
// @Tags Comments
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {array} models.PostComment "Comments, newest first"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /posts/{postID}/comments [get]
func (h commentHandler) listComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q := r.URL.Query()
		onlyTasks := q.Get("onlyTasks") == "true"

		var taskStatus *models.TaskStatus
		if s := q.Get("taskStatus"); s != "" {
			status := models.TaskStatus(s)
			if !status.Valid() {
				h.responder.WriteError(w, errs.NewInvalidFieldError("taskStatus", "unknown task status "+s))
				return
			}
			taskStatus = &status
		}

		comments, err := h.commentRepo.FindByPost(postID, onlyTasks, taskStatus)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find comments", "post_comments", err))
			return
		}

		h.responder.WriteJSON(w, comments)
	}
}

type createCommentRequest struct {
	Text       string     `json:"text"`
	IsTask     bool       `json:"isTask"`
	TaskStatus *string    `json:"taskStatus"`
	DueAt      *time.Time `json:"dueAt"`
	Assignee   *string    `json:"assignee"`
}

// createComment adds a comment to a post. A task comment notifies the
// admin chat.
// @Summary Create comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 201 {object} models.PostComment "Created comment"
// @Failure 400 {object} ErrorResponse "Bad Request - missing text"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /posts/{postID}/comments [post]
func (h commentHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find post", "post", err))
			return
		}

		var req createCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("comment", err))
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("text"))
			return
		}

		comment := models.PostComment{
			PostID:   postID,
			Text:     strings.TrimSpace(req.Text),
			IsTask:   req.IsTask,
			DueAt:    req.DueAt,
			Assignee: req.Assignee,
		}
		if req.IsTask {
			status := models.TaskOpen
			if req.TaskStatus != nil {
				status = models.TaskStatus(*req.TaskStatus)
				if !status.Valid() {
					h.responder.WriteError(w, errs.NewInvalidFieldError("taskStatus", "unknown task status "+*req.TaskStatus))
					return
				}
			}
			comment.TaskStatus = &status
		}

		if err := h.commentRepo.Add(&comment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create comment", "post_comment", err))
			return
		}

		h.audit.record("comment", comment.ID.String(), "created", map[string]any{
			"postId": postID.String(),
			"isTask": comment.IsTask,
		})

		if comment.IsTask {
			assignee := ""
			if comment.Assignee != nil {
				assignee = *comment.Assignee
			}
			h.telegram.NotifyTaskCreated(r.Context(), post.Title, comment.Text, assignee, h.telegram.PostLink(postID.String()))
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, comment)
	}
}

type patchCommentRequest struct {
	Text       *string    `json:"text"`
	TaskStatus *string    `json:"taskStatus"`
	DueAt      *time.Time `json:"dueAt"`
	Assignee   *string    `json:"assignee"`
}

// patchComment updates a comment. Moving a task to DONE notifies the
// admin chat.
// @Summary Update comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Param commentID path string true "Comment ID" format(uuid)
// @Success 200 {object} models.PostComment "Updated comment"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /posts/{postID}/comments/{commentID} [patch]
func (h commentHandler) patchComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		commentID, err := parseIDParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.commentRepo.FindByID(commentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find comment", "post_comment", err))
			return
		}
		if existing.PostID != postID {
			h.responder.WriteError(w, errs.NewNotFoundError("comment not found on this post"))
			return
		}

		var req patchCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("comment", err))
			return
		}

		fields := map[string]any{}
		if req.Text != nil {
			if strings.TrimSpace(*req.Text) == "" {
				h.responder.WriteError(w, errs.NewInvalidFieldError("text", "must not be empty"))
				return
			}
			fields["text"] = strings.TrimSpace(*req.Text)
		}
		var movedToDone bool
		if req.TaskStatus != nil {
			status := models.TaskStatus(*req.TaskStatus)
			if !status.Valid() {
				h.responder.WriteError(w, errs.NewInvalidFieldError("taskStatus", "unknown task status "+*req.TaskStatus))
				return
			}
			fields["task_status"] = status
			movedToDone = existing.IsTask && status == models.TaskDone &&
				(existing.TaskStatus == nil || *existing.TaskStatus != models.TaskDone)
		}
		if req.DueAt != nil {
			fields["due_at"] = *req.DueAt
		}
		if req.Assignee != nil {
			fields["assignee"] = *req.Assignee
		}

		if len(fields) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestError("no fields to update"))
			return
		}

		comment, err := h.commentRepo.UpdateFields(commentID, fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update comment", "post_comment", err))
			return
		}

		h.audit.record("comment", commentID.String(), "updated", map[string]any{"fields": fieldNames(fields)})

		if movedToDone {
			postTitle := ""
			if post, err := h.postRepo.FindByID(postID); err == nil {
				postTitle = post.Title
			}
			h.telegram.NotifyTaskDone(r.Context(), postTitle, comment.Text, h.telegram.PostLink(postID.String()))
		}

		h.responder.WriteJSON(w, comment)
	}
}

// deleteComment removes a comment. Deleting one that is already gone is
// reported as skipped, not an error.
// @Summary Delete comment
// @Tags Comments
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Param commentID path string true "Comment ID" format(uuid)
// @Success 200 {object} map[string]interface{} "ok plus whether the delete was skipped"
// @Router /posts/{postID}/comments/{commentID} [delete]
func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := parseIDParam(r, "postID"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		commentID, err := parseIDParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existed, err := h.commentRepo.Delete(commentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete comment", "post_comment", err))
			return
		}

		if existed {
			h.audit.record("comment", commentID.String(), "deleted", nil)
		}

		h.responder.WriteJSON(w, map[string]any{
			"ok":      true,
			"skipped": !existed,
		})
	}
}
