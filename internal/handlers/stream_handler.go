package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/auralynk/internal/infra/realtime"
	"github.com/BruksfildServices01/auralynk/internal/middleware"
)

const streamHeartbeat = 25 * time.Second

// StreamHandler pushes the caller's booking changes as Server-Sent Events.
type StreamHandler struct {
	hub realtime.Hub
	log *zap.Logger
}

func NewStreamHandler(hub realtime.Hub, log *zap.Logger) *StreamHandler {
	return &StreamHandler{hub: hub, log: log}
}

func (h *StreamHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	changes, cancel, err := h.hub.Subscribe(ctx, userID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	c.SSEvent("ready", gin.H{"userId": userID})
	c.Writer.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case ch, ok := <-changes:
			if !ok {
				return
			}
			c.SSEvent("change", ch)
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
		}
		c.Writer.Flush()
	}
}
