package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"heavyhaul-assistant/internal/assistant"
	"heavyhaul-assistant/internal/logging"
	"heavyhaul-assistant/internal/models"
	"heavyhaul-assistant/internal/monitor"
)

type Handler struct {
	monitor *monitor.Monitor
	sess    *assistant.Session
	logger  *logging.Logger
}

func NewHandler(mon *monitor.Monitor, sess *assistant.Session, logger *logging.Logger) *Handler {
	return &Handler{monitor: mon, sess: sess, logger: logger}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetAlerts returns pending alerts, highest priority first.
func (h *Handler) GetAlerts(c *gin.Context) {
	alerts := h.monitor.PendingAlerts()
	if alerts == nil {
		alerts = []*models.Alert{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

// AckAlert marks a single alert as delivered.
func (h *Handler) AckAlert(c *gin.Context) {
	id := c.Param("id")
	if !h.monitor.Acknowledge(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	h.logger.Infof("Alert %s acknowledged via API", id)
	c.JSON(http.StatusOK, gin.H{"status": "acknowledged"})
}

// GetAlertSummary returns the spoken-style alert summary.
func (h *Handler) GetAlertSummary(c *gin.Context) {
	summary := h.monitor.Summary(c.Request.Context())
	if summary == "" {
		c.JSON(http.StatusOK, gin.H{"summary": "", "has_alerts": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary, "has_alerts": true})
}

// GetSession describes the active user and the order under discussion.
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user":             h.sess.User,
		"current_order_id": h.sess.CurrentOrderID(),
		"explanation":      h.sess.Explanation(),
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The assistant runs on a private network; the dashboard origin is not
	// known in advance.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamAlerts pushes newly queued alerts to a websocket client as JSON.
func (h *Handler) StreamAlerts(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch := h.monitor.Subscribe()
	defer h.monitor.Unsubscribe(ch)

	// Drain client messages so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case alert, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(alert); err != nil {
				h.logger.Debugf("Websocket write failed: %v", err)
				return
			}
		}
	}
}
