package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hamsafar/internal/api/middleware"
	"hamsafar/internal/live"
)

type LiveHandler struct {
	hub    *live.Hub
	logger *zap.Logger
}

func NewLiveHandler(hub *live.Hub, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{hub: hub, logger: logger}
}

// BookingForm handles GET /ws/booking-form?token=
func (h *LiveHandler) BookingForm(c *gin.Context) {
	conn, err := live.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.hub.Serve(conn, middleware.GetUser(c))
}
