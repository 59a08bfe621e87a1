package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/queue"
	"github.com/coursecraft/coursecraft-backend/internal/services"
	"github.com/coursecraft/coursecraft-backend/internal/types"
)

type countingService struct {
	calls atomic.Int64
}

func (s *countingService) GenerateSync(ctx context.Context, req services.GenerateRequest, events chan<- services.ProgressEvent) (*types.Course, error) {
	return nil, nil
}

func (s *countingService) EnqueueGeneration(ctx context.Context, req services.GenerateRequest) (*queue.GenerationRequest, error) {
	return nil, nil
}

func (s *countingService) ProcessQueued(ctx context.Context) {
	s.calls.Add(1)
}

func TestWorker_WakeTriggersDrain(t *testing.T) {
	svc := &countingService{}
	w := New(logger.NewNop(), svc, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	w.Wake()
	deadline := time.After(2 * time.Second)
	for svc.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("wake did not trigger a drain pass")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop on context cancel")
	}
}

func TestWorker_TickTriggersDrain(t *testing.T) {
	svc := &countingService{}
	w := New(logger.NewNop(), svc, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	deadline := time.After(2 * time.Second)
	for svc.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("ticker did not trigger drain passes, got %d", svc.calls.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWorker_WakeCoalesces(t *testing.T) {
	w := New(logger.NewNop(), &countingService{}, time.Hour)
	// Not started: repeated wakes must not block.
	for i := 0; i < 5; i++ {
		w.Wake()
	}
}
