package api

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/database"
	"github.com/aionlabs/aion-admin/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, cfg map[string]string, startupTime time.Time) *routeHandlers {
	audit := newAuditor(db.SettingRepo())
	telegram := services.NewTelegram(cfg)

	var generator *services.Generator
	llm, err := services.NewTextGenerator(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("LLM client not configured, generation endpoints will report an error")
	} else {
		generator = services.NewGenerator(db, llm, services.NewNewsSearch(cfg), cfg)
	}

	s3Uploader, err := services.NewS3Uploader(context.Background(), cfg)
	if err != nil {
		log.Warn().Err(err).Msg("S3 uploader not configured, S3 uploads will report an error")
		s3Uploader = nil
	}
	supabase := services.NewSupabaseStorage(cfg)

	return &routeHandlers{
		postHandler:       newPostHandler(db.PostRepo(), audit),
		commentHandler:    newCommentHandler(db.CommentRepo(), db.PostRepo(), telegram, audit),
		attachmentHandler: newAttachmentHandler(db.AttachmentRepo(), db.PostRepo(), audit),
		pillarHandler:     newPillarHandler(db.PillarRepo(), db.PostRepo(), db.SettingRepo(), audit),
		pageHandler:       newPageHandler(db.PageRepo(), audit),
		settingHandler:    newSettingHandler(db.SettingRepo(), audit),
		storyHandler:      newStoryHandler(db.StoryRepo(), audit),
		generateHandler:   newGenerateHandler(generator, db.PostRepo(), audit),
		uploadHandler:     newUploadHandler(s3Uploader, supabase),
		healthHandler:     newHealthHandler(cfg, startupTime),
	}
}
