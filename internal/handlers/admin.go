package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/worker"
)

type AdminHandler struct {
	log    *logger.Logger
	worker *worker.Worker
}

func NewAdminHandler(baseLog *logger.Logger, w *worker.Worker) *AdminHandler {
	return &AdminHandler{
		log:    baseLog.With("handler", "AdminHandler"),
		worker: w,
	}
}

// WakeQueue is POST /api/admin/queue/wake: forces an immediate drain pass
// instead of waiting for the next tick.
func (h *AdminHandler) WakeQueue(c *gin.Context) {
	h.worker.Wake()
	RespondOK(c, gin.H{"woken": true})
}
