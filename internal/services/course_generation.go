package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/coursecraft/coursecraft-backend/internal/apierr"
	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/normalize"
	"github.com/coursecraft/coursecraft-backend/internal/queue"
	"github.com/coursecraft/coursecraft-backend/internal/repos"
	"github.com/coursecraft/coursecraft-backend/internal/requestdata"
	"github.com/coursecraft/coursecraft-backend/internal/types"
)

const freeGenerationLimit = 3

// GenerateRequest is the caller's input for both the synchronous endpoint
// and the foreground enqueue. CourseSpec is the immutable specification
// forwarded to the generative service.
type GenerateRequest struct {
	CourseSpec map[string]any
	UserID     uuid.UUID
	RequestID  string
}

// CourseGenerationService drives the Invoker -> Normalizer -> Fan-out chain.
// GenerateSync runs it inline for the foreground path; EnqueueGeneration
// defers it to the durable queue; ProcessQueued is the background drain pass.
type CourseGenerationService interface {
	GenerateSync(ctx context.Context, req GenerateRequest, events chan<- ProgressEvent) (*types.Course, error)
	EnqueueGeneration(ctx context.Context, req GenerateRequest) (*queue.GenerationRequest, error)
	ProcessQueued(ctx context.Context)
}

type courseGenerationService struct {
	log            *logger.Logger
	client         GenerationClient
	fanout         FanoutService
	notifier       Notifier
	jobQueue       queue.Queue
	userRepo       repos.UserRepo
	courseRepo     repos.CourseRepo
	levelRepo      repos.AcademicLevelRepo
	subjectRepo    repos.SubjectRepo
	usageRepo      repos.GenerationUsageRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewCourseGenerationService(
	baseLog *logger.Logger,
	client GenerationClient,
	fanout FanoutService,
	notifier Notifier,
	jobQueue queue.Queue,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	levelRepo repos.AcademicLevelRepo,
	subjectRepo repos.SubjectRepo,
	usageRepo repos.GenerationUsageRepo,
	enrollmentRepo repos.EnrollmentRepo,
) CourseGenerationService {
	return &courseGenerationService{
		log:            baseLog.With("service", "CourseGenerationService"),
		client:         client,
		fanout:         fanout,
		notifier:       notifier,
		jobQueue:       jobQueue,
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		levelRepo:      levelRepo,
		subjectRepo:    subjectRepo,
		usageRepo:      usageRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *courseGenerationService) GenerateSync(ctx context.Context, req GenerateRequest, events chan<- ProgressEvent) (*types.Course, error) {
	user, level, subject, err := s.admit(ctx, req)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.GenerateCourse(ctx, req.CourseSpec, events)
	if err != nil {
		return nil, apierr.Generation(err)
	}

	res := normalize.Normalize(raw)
	if res.Degraded {
		s.log.Warn("generation output degraded to fallback course", "user_id", user.ID, "request_id", req.RequestID)
	}

	course, err := s.createCourse(ctx, user.ID, level, subject, res.Course.Title)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	if err := s.fanout.Persist(ctx, res, course.ID); err != nil {
		return nil, apierr.Persistence(err)
	}

	if err := s.completeRun(ctx, user.ID, course.ID); err != nil {
		return nil, apierr.Persistence(err)
	}

	created, err := s.courseRepo.GetByID(ctx, nil, course.ID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return created, nil
}

func (s *courseGenerationService) EnqueueGeneration(ctx context.Context, req GenerateRequest) (*queue.GenerationRequest, error) {
	user, level, subject, err := s.admit(ctx, req)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(asSpecString(req.CourseSpec["title"]))
	if title == "" {
		title = normalize.DefaultCourseTitle
	}

	// The queued pipeline persists into a pre-existing course row, so the
	// placeholder is created up front and patched by the fan-out later.
	course, err := s.createCourse(ctx, user.ID, level, subject, title)
	if err != nil {
		return nil, apierr.Persistence(err)
	}

	entry := &queue.GenerationRequest{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		RequestID:   req.RequestID,
		CourseID:    course.ID,
		CourseTitle: title,
		CourseSpec:  req.CourseSpec,
	}
	if entry.RequestID == "" {
		entry.RequestID = entry.ID
	}
	if err := s.jobQueue.Enqueue(ctx, entry); err != nil {
		return nil, apierr.Persistence(err)
	}
	return entry, nil
}

// ProcessQueued drains the queue and runs every entry sequentially. Failures
// are isolated per entry: the entry stays queued for the next pass and a
// failure notification is dispatched, then draining continues.
func (s *courseGenerationService) ProcessQueued(ctx context.Context) {
	entries, err := s.jobQueue.Drain(ctx)
	if err != nil {
		s.log.Error("queue drain failed", "error", err)
		return
	}
	if len(entries) == 0 {
		return
	}
	s.log.Info("processing queued generation requests", "count", len(entries))

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if err := s.processEntry(ctx, entry); err != nil {
			ref := entry.RequestID
			if ref == "" {
				ref = entry.ID
			}
			s.log.Error("queued generation failed, leaving entry for retry",
				"id", entry.ID, "request_id", entry.RequestID, "error", err)
			s.notifier.NotifyFailure(ctx, entry.UserID, ref)
			continue
		}
		if err := s.jobQueue.Remove(ctx, entry.ID); err != nil {
			s.log.Error("failed to remove completed entry", "id", entry.ID, "error", err)
		}
	}
}

func (s *courseGenerationService) processEntry(ctx context.Context, entry *queue.GenerationRequest) error {
	raw, err := s.client.GenerateCourse(ctx, entry.CourseSpec, nil)
	if err != nil {
		return fmt.Errorf("generation: %w", err)
	}

	res := normalize.Normalize(raw)
	if res.Degraded {
		s.log.Warn("queued generation output degraded to fallback course", "id", entry.ID)
	}

	if err := s.fanout.Persist(ctx, res, entry.CourseID); err != nil {
		return fmt.Errorf("persistence: %w", err)
	}
	if err := s.completeRun(ctx, entry.UserID, entry.CourseID); err != nil {
		return fmt.Errorf("persistence: %w", err)
	}

	s.notifier.NotifySuccess(ctx, entry.UserID, res.Course.Title)
	return nil
}

// admit runs the shared admission checks: input presence, caller identity,
// lookup resolution, and the free-generation quota.
func (s *courseGenerationService) admit(ctx context.Context, req GenerateRequest) (*types.User, *types.AcademicLevel, *types.Subject, error) {
	if len(req.CourseSpec) == 0 {
		return nil, nil, nil, apierr.Validation(fmt.Errorf("courseSpec is required"))
	}
	if req.UserID == uuid.Nil {
		return nil, nil, nil, apierr.Validation(fmt.Errorf("userId is required"))
	}
	caller := requestdata.UserID(ctx)
	if caller == uuid.Nil || caller != req.UserID {
		return nil, nil, nil, apierr.Auth(fmt.Errorf("userId does not match authenticated identity"))
	}

	user, err := s.userRepo.GetByID(ctx, nil, req.UserID)
	if err != nil {
		return nil, nil, nil, apierr.Persistence(fmt.Errorf("load user: %w", err))
	}
	if user == nil {
		return nil, nil, nil, apierr.Auth(fmt.Errorf("unknown user"))
	}

	levelName := strings.TrimSpace(asSpecString(req.CourseSpec["academicLevel"]))
	level, err := s.levelRepo.GetByName(ctx, nil, levelName)
	if err != nil {
		return nil, nil, nil, apierr.Persistence(fmt.Errorf("resolve academic level: %w", err))
	}
	if level == nil {
		return nil, nil, nil, apierr.Lookup(fmt.Errorf("unknown academic level %q", levelName))
	}
	subjectName := strings.TrimSpace(asSpecString(req.CourseSpec["subject"]))
	subject, err := s.subjectRepo.GetByName(ctx, nil, subjectName)
	if err != nil {
		return nil, nil, nil, apierr.Persistence(fmt.Errorf("resolve subject: %w", err))
	}
	if subject == nil {
		return nil, nil, nil, apierr.Lookup(fmt.Errorf("unknown subject %q", subjectName))
	}

	usage, err := s.usageRepo.GetByUser(ctx, nil, user.ID)
	if err != nil {
		return nil, nil, nil, apierr.Persistence(fmt.Errorf("load generation usage: %w", err))
	}
	if usage == nil {
		return nil, nil, nil, apierr.QuotaNotFound(fmt.Errorf("no generation usage record for user %s", user.ID))
	}
	if usage.FreeGenerationsUsed >= freeGenerationLimit && !user.SubscriptionActive() {
		return nil, nil, nil, apierr.QuotaExceeded(fmt.Errorf("free generation limit of %d reached", freeGenerationLimit))
	}

	return user, level, subject, nil
}

func (s *courseGenerationService) createCourse(ctx context.Context, userID uuid.UUID, level *types.AcademicLevel, subject *types.Subject, title string) (*types.Course, error) {
	empty, _ := json.Marshal([]string{})
	course := &types.Course{
		UserID:          userID,
		AcademicLevelID: &level.ID,
		SubjectID:       &subject.ID,
		Title:           title,
		Objectives:      datatypes.JSON(empty),
		Prerequisites:   datatypes.JSON(empty),
	}
	if _, err := s.courseRepo.Create(ctx, nil, []*types.Course{course}); err != nil {
		return nil, err
	}
	return course, nil
}

// completeRun applies the per-success bookkeeping: the quota increment and
// the enrollment. The increment is a plain read-modify-write; concurrent
// completions for one user can under-count.
func (s *courseGenerationService) completeRun(ctx context.Context, userID, courseID uuid.UUID) error {
	usage, err := s.usageRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		return err
	}
	if usage != nil {
		if err := s.usageRepo.UpdateFields(ctx, nil, usage.ID, map[string]interface{}{
			"free_generations_used": usage.FreeGenerationsUsed + 1,
		}); err != nil {
			return err
		}
	}

	enrollment := &types.Enrollment{UserID: userID, CourseID: courseID}
	if _, err := s.enrollmentRepo.Create(ctx, nil, []*types.Enrollment{enrollment}); err != nil {
		return err
	}
	return nil
}

func asSpecString(v any) string {
	s, _ := v.(string)
	return s
}
