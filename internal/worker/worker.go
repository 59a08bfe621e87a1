package worker

import (
	"context"
	"time"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/services"
)

// Worker is the background trigger for the generation queue. It drains on a
// periodic tick and on explicit Wake signals. Wake timing carries no
// guarantee; entries that fail simply wait for a later pass, so a
// persistently failing entry is retried on every drain.
type Worker struct {
	log      *logger.Logger
	svc      services.CourseGenerationService
	interval time.Duration
	wake     chan struct{}
}

func New(baseLog *logger.Logger, svc services.CourseGenerationService, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Worker{
		log:      baseLog.With("component", "GenerationWorker"),
		svc:      svc,
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Wake requests an immediate drain pass. Signals coalesce: waking an
// already-pending worker is a no-op.
func (w *Worker) Wake() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Start runs the drain loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("generation worker started", "interval", w.interval.String())
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("generation worker stopped")
			return
		case <-ticker.C:
			w.svc.ProcessQueued(ctx)
		case <-w.wake:
			w.svc.ProcessQueued(ctx)
		}
	}
}
