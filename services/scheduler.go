package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/database"
)

// StartPublishScheduler runs the publish-due sweep every minute. The sweep
// only touches rows in READY_TO_PUBLISH whose scheduled time has passed,
// so overlapping runs (or a concurrent manual trigger) are harmless.
func StartPublishScheduler(db database.Database) *cron.Cron {
	logger := log.With().Str("service", "publishScheduler").Logger()

	c := cron.New()
	_, err := c.AddFunc("@every 1m", func() {
		published, err := db.PostRepo().PublishDue(time.Now().UTC())
		if err != nil {
			logger.Error().Err(err).Msg("publish sweep failed")
			return
		}
		if published > 0 {
			logger.Info().Int("published", published).Msg("published due posts")
		}
	})
	if err != nil {
		logger.Error().Err(err).Msg("could not register publish sweep")
		return c
	}

	c.Start()
	return c
}
