package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursecraft/coursecraft-backend/internal/apierr"
	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/services"
	"github.com/coursecraft/coursecraft-backend/internal/worker"
)

type GenerateHandler struct {
	log    *logger.Logger
	svc    services.CourseGenerationService
	client services.GenerationClient
	worker *worker.Worker
}

func NewGenerateHandler(baseLog *logger.Logger, svc services.CourseGenerationService, client services.GenerationClient, w *worker.Worker) *GenerateHandler {
	return &GenerateHandler{
		log:    baseLog.With("handler", "GenerateHandler"),
		svc:    svc,
		client: client,
		worker: w,
	}
}

type generateRequestBody struct {
	CourseSpec map[string]any `json:"courseSpec"`
	UserID     string         `json:"userId"`
	RequestID  string         `json:"requestId"`
}

func (b *generateRequestBody) toRequest() (services.GenerateRequest, error) {
	if len(b.CourseSpec) == 0 {
		return services.GenerateRequest{}, apierr.Validation(fmt.Errorf("courseSpec is required"))
	}
	if strings.TrimSpace(b.UserID) == "" {
		return services.GenerateRequest{}, apierr.Validation(fmt.Errorf("userId is required"))
	}
	userID, err := uuid.Parse(b.UserID)
	if err != nil {
		return services.GenerateRequest{}, apierr.Validation(fmt.Errorf("userId is not a valid id"))
	}
	return services.GenerateRequest{
		CourseSpec: b.CourseSpec,
		UserID:     userID,
		RequestID:  strings.TrimSpace(b.RequestID),
	}, nil
}

// GenerateSync is POST /api/courses/generate: the full pipeline inline, with
// the created course in the response body.
func (h *GenerateHandler) GenerateSync(c *gin.Context) {
	var body generateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("invalid request body"))
		return
	}
	req, err := body.toRequest()
	if err != nil {
		RespondAPIError(c, err)
		return
	}

	course, err := h.svc.GenerateSync(c.Request.Context(), req, nil)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"success": true,
		"course":  course,
		"message": "Course generated successfully",
	})
}

// Enqueue is POST /api/courses/generate/queue: admission checks run inline,
// then the request is parked on the durable queue and the worker is woken.
func (h *GenerateHandler) Enqueue(c *gin.Context) {
	var body generateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("invalid request body"))
		return
	}
	req, err := body.toRequest()
	if err != nil {
		RespondAPIError(c, err)
		return
	}

	entry, err := h.svc.EnqueueGeneration(c.Request.Context(), req)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	if h.worker != nil {
		h.worker.Wake()
	}
	RespondOK(c, gin.H{
		"success":   true,
		"requestId": entry.RequestID,
		"courseId":  entry.CourseID,
		"message":   "Course generation queued",
	})
}

type streamRequestBody struct {
	Prompt string `json:"prompt"`
}

// Stream is POST /api/courses/generate/stream: one non-streaming generation
// call whose output is replayed as an artificial, time-delayed token stream.
// The chunking is a transport nicety only.
func (h *GenerateHandler) Stream(c *gin.Context) {
	var body streamRequestBody
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Prompt) == "" {
		RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("prompt is required"))
		return
	}

	content, err := h.client.GenerateContent(c.Request.Context(), body.Prompt)
	if err != nil {
		RespondAPIError(c, apierr.Generation(err))
		return
	}

	c.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	words := strings.Fields(content)
	for i, w := range words {
		if c.Request.Context().Err() != nil {
			return
		}
		if i > 0 {
			fmt.Fprint(c.Writer, " ")
		}
		fmt.Fprint(c.Writer, w)
		c.Writer.Flush()
		time.Sleep(20 * time.Millisecond)
	}
}
