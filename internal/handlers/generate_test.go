package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursecraft/coursecraft-backend/internal/apierr"
	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/queue"
	"github.com/coursecraft/coursecraft-backend/internal/services"
	"github.com/coursecraft/coursecraft-backend/internal/types"
)

type stubGenService struct {
	course *types.Course
	entry  *queue.GenerationRequest
	err    error
}

func (s *stubGenService) GenerateSync(ctx context.Context, req services.GenerateRequest, events chan<- services.ProgressEvent) (*types.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.course, nil
}

func (s *stubGenService) EnqueueGeneration(ctx context.Context, req services.GenerateRequest) (*queue.GenerationRequest, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entry, nil
}

func (s *stubGenService) ProcessQueued(ctx context.Context) {}

func newGenerateRouter(svc services.CourseGenerationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewGenerateHandler(logger.NewNop(), svc, nil, nil)
	r := gin.New()
	r.POST("/api/courses/generate", h.GenerateSync)
	r.POST("/api/courses/generate/queue", h.Enqueue)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateSyncHandler_Success(t *testing.T) {
	course := &types.Course{ID: uuid.New(), Title: "Intro Bio"}
	r := newGenerateRouter(&stubGenService{course: course})

	w := postJSON(t, r, "/api/courses/generate",
		`{"courseSpec":{"academicLevel":"HS","subject":"Biology"},"userId":"`+uuid.NewString()+`"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	var body struct {
		Success bool         `json:"success"`
		Course  types.Course `json:"course"`
		Message string       `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body.Success || body.Course.Title != "Intro Bio" || body.Message == "" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestGenerateSyncHandler_MissingFields(t *testing.T) {
	r := newGenerateRouter(&stubGenService{})

	for name, body := range map[string]string{
		"no courseSpec": `{"userId":"` + uuid.NewString() + `"}`,
		"no userId":     `{"courseSpec":{"subject":"Biology"}}`,
		"bad userId":    `{"courseSpec":{"subject":"Biology"},"userId":"not-a-uuid"}`,
		"not json":      `{{{`,
	} {
		w := postJSON(t, r, "/api/courses/generate", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: want=400 got=%d", name, w.Code)
		}
		var envelope ErrorEnvelope
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("%s: unmarshal: %v", name, err)
		}
		if envelope.Error.Code != "validation_error" {
			t.Fatalf("%s: code: want=validation_error got=%q", name, envelope.Error.Code)
		}
	}
}

func TestGenerateSyncHandler_MapsServiceErrors(t *testing.T) {
	body := `{"courseSpec":{"subject":"Biology"},"userId":"` + uuid.NewString() + `"}`

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apierr.Auth(errors.New("identity mismatch")), http.StatusUnauthorized, "auth_error"},
		{apierr.QuotaExceeded(errors.New("limit reached")), http.StatusForbidden, "quota_exceeded"},
		{apierr.QuotaNotFound(errors.New("no usage row")), http.StatusNotFound, "quota_not_found"},
		{apierr.Lookup(errors.New("unknown subject")), http.StatusBadRequest, "lookup_error"},
		{apierr.Generation(errors.New("upstream down")), http.StatusInternalServerError, "generation_failed"},
		{apierr.Persistence(errors.New("write refused")), http.StatusInternalServerError, "persistence_failed"},
		{errors.New("plain failure"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		r := newGenerateRouter(&stubGenService{err: tc.err})
		w := postJSON(t, r, "/api/courses/generate", body)
		if w.Code != tc.status {
			t.Fatalf("%s: status want=%d got=%d", tc.code, tc.status, w.Code)
		}
		var envelope ErrorEnvelope
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("%s: unmarshal: %v", tc.code, err)
		}
		if envelope.Error.Code != tc.code {
			t.Fatalf("code want=%q got=%q", tc.code, envelope.Error.Code)
		}
		if tc.status >= http.StatusInternalServerError && envelope.Error.Details == "" {
			t.Fatalf("%s: server errors must carry details", tc.code)
		}
	}
}

func TestEnqueueHandler_Success(t *testing.T) {
	entry := &queue.GenerationRequest{
		ID:        "q1",
		RequestID: "r1",
		CourseID:  uuid.New(),
	}
	r := newGenerateRouter(&stubGenService{entry: entry})

	w := postJSON(t, r, "/api/courses/generate/queue",
		`{"courseSpec":{"subject":"Biology"},"userId":"`+uuid.NewString()+`"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	var body struct {
		Success   bool   `json:"success"`
		RequestID string `json:"requestId"`
		CourseID  string `json:"courseId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body.Success || body.RequestID != "r1" || body.CourseID != entry.CourseID.String() {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
