package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public read endpoints and the admin-token-guarded
// mutation endpoints.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public reads
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/posts", handlers.postHandler.listPosts())
		r.Get("/posts/stats", handlers.postHandler.postStats())
		r.Get("/pillars", handlers.pillarHandler.listPillars())
		r.Get("/pillars/{pillarID}", handlers.pillarHandler.getPillar())
		r.Get("/pages", handlers.pageHandler.listPages())
		r.Get("/pages/{pageID}", handlers.pageHandler.getPage())
		r.Get("/stories", handlers.storyHandler.listStories())
		r.Get("/prompt", handlers.settingHandler.getPrompt())
		r.Get("/settings/prompts", handlers.settingHandler.getPromptSettings())
	})

	// Admin endpoints
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.health())

		// Post endpoints
		r.Post("/posts", handlers.postHandler.createPost())
		r.Patch("/posts/{postID}", handlers.postHandler.patchPost())
		r.Delete("/posts/{postID}", handlers.postHandler.deletePost())
		r.Post("/posts/{postID}/status", handlers.postHandler.changeStatus())
		r.Post("/posts/publish", handlers.postHandler.publishDue())

		// Comment endpoints
		r.Get("/posts/{postID}/comments", handlers.commentHandler.listComments())
		r.Post("/posts/{postID}/comments", handlers.commentHandler.createComment())
		r.Patch("/posts/{postID}/comments/{commentID}", handlers.commentHandler.patchComment())
		r.Delete("/posts/{postID}/comments/{commentID}", handlers.commentHandler.deleteComment())

		// Attachment endpoints
		r.Post("/posts/{postID}/attachments", handlers.attachmentHandler.createAttachment())
		r.Delete("/posts/{postID}/attachments/{attachmentID}", handlers.attachmentHandler.deleteAttachment())

		// Pillar endpoints
		r.Post("/pillars", handlers.pillarHandler.createPillar())
		r.Patch("/pillars/{pillarID}", handlers.pillarHandler.patchPillar())
		r.Delete("/pillars/{pillarID}", handlers.pillarHandler.deletePillar())

		// Page endpoints
		r.Post("/pages", handlers.pageHandler.createPage())
		r.Patch("/pages/{pageID}", handlers.pageHandler.patchPage())

		// Generation endpoints
		r.Post("/generate", handlers.generateHandler.generate())
		r.Post("/generate/preview", handlers.generateHandler.preview())

		// Setting endpoints
		r.Get("/settings", handlers.settingHandler.getSettings())
		r.Post("/settings", handlers.settingHandler.upsertSettings())
		r.Post("/settings/prompts", handlers.settingHandler.upsertPromptSettings())
		r.Put("/prompt", handlers.settingHandler.putPrompt())

		// Story endpoints
		r.Patch("/stories/{storyID}", handlers.storyHandler.patchStory())

		// Upload endpoints
		r.Post("/uploads/s3", handlers.uploadHandler.signS3Upload())
		r.Post("/uploads/supabase", handlers.uploadHandler.signSupabaseUpload())
	})
}
