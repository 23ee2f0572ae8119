package api

import (
	"github.com/gin-gonic/gin"

	"heavyhaul-assistant/internal/assistant"
	"heavyhaul-assistant/internal/config"
	"heavyhaul-assistant/internal/logging"
	"heavyhaul-assistant/internal/monitor"
)

func NewRouter(cfg config.Config, mon *monitor.Monitor, sess *assistant.Session, logger *logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	h := NewHandler(mon, sess, logger)
	r.GET("/health", h.Health)

	api := r.Group(cfg.API.BasePath)
	{
		api.GET("/alerts", h.GetAlerts)
		api.POST("/alerts/:id/ack", h.AckAlert)
		api.GET("/alerts/summary", h.GetAlertSummary)
		api.GET("/alerts/stream", h.StreamAlerts)
		api.GET("/session", h.GetSession)
	}
	return r
}
