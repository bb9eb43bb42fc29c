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

type attachmentHandler struct {
	responder      Responder
	logger         zerolog.Logger
	attachmentRepo *database.AttachmentRepo
	postRepo       *database.PostRepo
	audit          auditor
}

func newAttachmentHandler(attachmentRepo *database.AttachmentRepo, postRepo *database.PostRepo, audit auditor) attachmentHandler {
	logger := log.With().Str("handlerName", "attachmentHandler").Logger()

	return attachmentHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		attachmentRepo: attachmentRepo,
		postRepo:       postRepo,
		audit:          audit,
	}
}

type createAttachmentRequest struct {
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	MimeType  *string `json:"mimeType"`
	SizeBytes *int64  `json:"sizeBytes"`
}

// createAttachment records an uploaded file against a post. The upload
// itself happens client-side against a presigned URL.
// @Summary Create attachment
// @Tags Attachments
// @Accept json
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 201 {object} models.Attachment "Created attachment"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /posts/{postID}/attachments [post]
func (h attachmentHandler) createAttachment() http.HandlerFunc {
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

		var req createAttachmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("attachment", err))
			return
		}

		if strings.TrimSpace(req.Name) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("url"))
			return
		}

		attachment := models.Attachment{
			PostID:    postID,
			Name:      strings.TrimSpace(req.Name),
			URL:       strings.TrimSpace(req.URL),
			MimeType:  req.MimeType,
			SizeBytes: req.SizeBytes,
		}

		if err := h.attachmentRepo.Add(&attachment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create attachment", "attachment", err))
			return
		}

		h.audit.record("attachment", attachment.ID.String(), "created", map[string]any{
			"postId": postID.String(),
			"name":   attachment.Name,
		})

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, attachment)
	}
}

// deleteAttachment removes an attachment record.
// @Summary Delete attachment
// @Tags Attachments
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Param attachmentID path string true "Attachment ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /posts/{postID}/attachments/{attachmentID} [delete]
func (h attachmentHandler) deleteAttachment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		attachmentID, err := parseIDParam(r, "attachmentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.attachmentRepo.FindByID(attachmentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find attachment", "attachment", err))
			return
		}
		if existing.PostID != postID {
			h.responder.WriteError(w, errs.NewNotFoundError("attachment not found on this post"))
			return
		}

		if err := h.attachmentRepo.Delete(attachmentID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete attachment", "attachment", err))
			return
		}

		h.audit.record("attachment", attachmentID.String(), "deleted", map[string]any{"postId": postID.String()})

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "attachment deleted successfully",
		})
	}
}
