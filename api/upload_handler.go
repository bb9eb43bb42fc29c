package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/errs"
	"github.com/aionlabs/aion-admin/services"
)

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	s3        *services.S3Uploader
	supabase  *services.SupabaseStorage
}

func newUploadHandler(s3 *services.S3Uploader, supabase *services.SupabaseStorage) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		s3:        s3,
		supabase:  supabase,
	}
}

type uploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

func (h uploadHandler) decodeUpload(w http.ResponseWriter, r *http.Request) (uploadRequest, bool) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.WriteError(w, errs.NewMalformedPayloadError("upload", err))
		return req, false
	}
	if strings.TrimSpace(req.FileName) == "" {
		h.responder.WriteError(w, errs.NewMissingRequiredFieldError("fileName"))
		return req, false
	}
	return req, true
}

// signS3Upload presigns a direct PUT to the S3 bucket
// @Summary Sign S3 upload
// @Tags Uploads
// @Accept json
// @Produce json
// @Success 200 {object} services.PresignedUpload "Presigned upload"
// @Failure 400 {object} ErrorResponse "Bad Request - missing fileName"
// @Failure 500 {object} ErrorResponse "Internal Server Error - signing failed or not configured"
// @Router /uploads/s3 [post]
func (h uploadHandler) signS3Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decodeUpload(w, r)
		if !ok {
			return
		}

		signed, err := h.s3.SignUpload(r.Context(), req.FileName, req.ContentType)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, signed)
	}
}

// signSupabaseUpload requests a signed upload URL from Supabase storage
// @Summary Sign Supabase upload
// @Tags Uploads
// @Accept json
// @Produce json
// @Success 200 {object} services.PresignedUpload "Signed upload"
// @Failure 400 {object} ErrorResponse "Bad Request - missing fileName"
// @Failure 500 {object} ErrorResponse "Internal Server Error - signing failed or not configured"
// @Router /uploads/supabase [post]
func (h uploadHandler) signSupabaseUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decodeUpload(w, r)
		if !ok {
			return
		}

		signed, err := h.supabase.SignUpload(r.Context(), req.FileName)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, signed)
	}
}
