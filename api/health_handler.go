package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/config"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	env         string
	startupTime time.Time
}

func newHealthHandler(cfg map[string]string, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		env:         config.GetString(cfg, "ENV", "development"),
		startupTime: startupTime,
	}
}

// health reports process status and uptime
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Status, env and uptime"
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]any{
			"status":        "ok",
			"env":           h.env,
			"startedAt":     h.startupTime.UTC().Format(time.RFC3339),
			"uptimeSeconds": int(time.Since(h.startupTime).Seconds()),
		})
	}
}
