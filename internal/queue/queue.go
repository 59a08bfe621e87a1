package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
)

// GenerationRequest is one queued course-generation job. Entries are stored
// as JSON values in a single Redis hash keyed by ID, so the queue survives
// process restarts. EnqueuedAt orders draining; Redis hashes have no inherent
// order.
type GenerationRequest struct {
	ID          string         `json:"id"`
	UserID      uuid.UUID      `json:"userId"`
	RequestID   string         `json:"requestId"`
	CourseID    uuid.UUID      `json:"courseId"`
	CourseTitle string         `json:"courseTitle"`
	CourseSpec  map[string]any `json:"courseSpec"`
	EnqueuedAt  time.Time      `json:"enqueuedAt"`
}

type Queue interface {
	Enqueue(ctx context.Context, req *GenerationRequest) error
	// Drain returns every queued entry ordered by enqueue time. Entries stay
	// in the hash until Remove; a crash mid-processing loses nothing.
	Drain(ctx context.Context) ([]*GenerationRequest, error)
	Remove(ctx context.Context, id string) error
	Len(ctx context.Context) (int64, error)
}

type redisQueue struct {
	rdb *redis.Client
	key string
	log *logger.Logger
}

// NewRedisQueue connects using REDIS_ADDR. The hash itself is created lazily
// by the first Enqueue; an empty queue needs no key at all.
func NewRedisQueue(baseLog *logger.Logger) (Queue, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	key := strings.TrimSpace(os.Getenv("GENERATION_QUEUE_KEY"))
	if key == "" {
		key = "course_generation_queue"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisQueue{
		rdb: rdb,
		key: key,
		log: baseLog.With("service", "RedisQueue"),
	}, nil
}

func (q *redisQueue) Enqueue(ctx context.Context, req *GenerationRequest) error {
	if req == nil {
		return fmt.Errorf("nil generation request")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.EnqueuedAt.IsZero() {
		req.EnqueuedAt = time.Now().UTC()
	}
	b, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal generation request: %w", err)
	}
	if err := q.rdb.HSet(ctx, q.key, req.ID, b).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", req.ID, err)
	}
	q.log.Info("enqueued generation request", "id", req.ID, "user_id", req.UserID)
	return nil
}

func (q *redisQueue) Drain(ctx context.Context) ([]*GenerationRequest, error) {
	vals, err := q.rdb.HGetAll(ctx, q.key).Result()
	if err != nil {
		return nil, fmt.Errorf("drain queue: %w", err)
	}
	out := make([]*GenerationRequest, 0, len(vals))
	for id, v := range vals {
		var req GenerationRequest
		if err := json.Unmarshal([]byte(v), &req); err != nil {
			q.log.Warn("skipping undecodable queue entry", "id", id, "error", err)
			continue
		}
		out = append(out, &req)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EnqueuedAt.Before(out[j].EnqueuedAt)
	})
	return out, nil
}

func (q *redisQueue) Remove(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := q.rdb.HDel(ctx, q.key, id).Err(); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	return nil
}

func (q *redisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.rdb.HLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("queue len: %w", err)
	}
	return n, nil
}
