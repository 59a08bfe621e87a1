package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/requestdata"
	"github.com/coursecraft/coursecraft-backend/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewSSEHandler(baseLog *logger.Logger, hub *sse.Hub) *SSEHandler {
	return &SSEHandler{
		log: baseLog.With("handler", "SSEHandler"),
		hub: hub,
	}
}

// Stream is GET /sse/stream: subscribes the caller to their own channel and
// holds the connection open for notification delivery.
func (h *SSEHandler) Stream(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	client := h.hub.NewClient(userID)
	h.hub.Subscribe(client, sse.UserChannel(userID))
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
