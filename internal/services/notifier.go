package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/repos"
	"github.com/coursecraft/coursecraft-backend/internal/sse"
)

// NotificationAction is one of the choices attached to a notification.
// "view" opens the course list, "dismiss" does nothing, and picking neither
// (the default tap) opens the dashboard.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Target string `json:"target,omitempty"`
}

type NotificationPayload struct {
	Title         string               `json:"title"`
	Body          string               `json:"body"`
	Icon          string               `json:"icon"`
	Tag           string               `json:"tag"`
	Data          map[string]any       `json:"data,omitempty"`
	Actions       []NotificationAction `json:"actions"`
	DefaultTarget string               `json:"defaultTarget"`
}

// Notifier is the out-of-band channel for pipeline outcomes. The triggering
// page may be gone, so every outcome goes over SSE and is mirrored to email.
// Dispatch never returns an error to the pipeline.
type Notifier interface {
	NotifySuccess(ctx context.Context, userID uuid.UUID, courseTitle string)
	NotifyFailure(ctx context.Context, userID uuid.UUID, ref string)
}

type notifier struct {
	log      *logger.Logger
	hub      *sse.Hub
	mailer   Mailer
	userRepo repos.UserRepo
}

func NewNotifier(baseLog *logger.Logger, hub *sse.Hub, mailer Mailer, userRepo repos.UserRepo) Notifier {
	return &notifier{
		log:      baseLog.With("service", "Notifier"),
		hub:      hub,
		mailer:   mailer,
		userRepo: userRepo,
	}
}

func defaultActions() []NotificationAction {
	return []NotificationAction{
		{Action: "view", Title: "View Courses", Target: "/courses"},
		{Action: "dismiss", Title: "Dismiss"},
	}
}

func (n *notifier) NotifySuccess(ctx context.Context, userID uuid.UUID, courseTitle string) {
	payload := NotificationPayload{
		Title:         "Course Ready",
		Body:          "Your course \"" + courseTitle + "\" has been generated.",
		Icon:          "/icons/course-ready.png",
		Tag:           "course-generation",
		Data:          map[string]any{"courseTitle": courseTitle},
		Actions:       defaultActions(),
		DefaultTarget: "/dashboard",
	}
	n.dispatch(ctx, userID, sse.EventGenerationCompleted, payload)
}

func (n *notifier) NotifyFailure(ctx context.Context, userID uuid.UUID, ref string) {
	payload := NotificationPayload{
		Title:         "Course Generation Failed",
		Body:          "Generation for request " + ref + " failed. It will be retried automatically.",
		Icon:          "/icons/course-failed.png",
		Tag:           "course-generation",
		Data:          map[string]any{"requestId": ref},
		Actions:       defaultActions(),
		DefaultTarget: "/dashboard",
	}
	n.dispatch(ctx, userID, sse.EventGenerationFailed, payload)
}

func (n *notifier) dispatch(ctx context.Context, userID uuid.UUID, event sse.Event, payload NotificationPayload) {
	if userID == uuid.Nil {
		return
	}
	if n.hub != nil {
		n.hub.Broadcast(sse.Message{
			Channel: sse.UserChannel(userID),
			Event:   event,
			Data:    payload,
		})
	}
	if n.mailer == nil || n.userRepo == nil {
		return
	}
	user, err := n.userRepo.GetByID(ctx, nil, userID)
	if err != nil || user == nil {
		n.log.Warn("skipping notification email, user lookup failed", "user_id", userID, "error", err)
		return
	}
	if err := n.mailer.Send(user.Email, payload.Title, payload.Body); err != nil {
		n.log.Warn("notification email failed", "user_id", userID, "error", err)
	}
}
