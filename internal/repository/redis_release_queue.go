package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/redisclient"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/telemetry"
)

const releaseQueueKey = "inventory:release:pending"

// RedisReleaseQueue implements ReleaseQueue on a Redis list. Tasks are
// JSON-encoded and survive process restarts.
type RedisReleaseQueue struct {
	client *redisclient.Client
}

// NewRedisReleaseQueue creates a new RedisReleaseQueue
func NewRedisReleaseQueue(client *redisclient.Client) *RedisReleaseQueue {
	return &RedisReleaseQueue{client: client}
}

// Enqueue appends a release task to the queue
func (q *RedisReleaseQueue) Enqueue(ctx context.Context, task *ReleaseTask) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.release_queue.enqueue")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", task.BookingID))

	payload, err := json.Marshal(task)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to marshal release task: %w", err)
	}

	if err := q.client.RPush(ctx, releaseQueueKey, payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Retryable(fmt.Errorf("failed to enqueue release task: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Dequeue pops the oldest task. Returns (nil, nil) when empty.
func (q *RedisReleaseQueue) Dequeue(ctx context.Context) (*ReleaseTask, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.release_queue.dequeue")
	defer span.End()

	payload, err := q.client.LPop(ctx, releaseQueueKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetStatus(codes.Ok, "")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Retryable(fmt.Errorf("failed to dequeue release task: %w", err))
	}

	task := &ReleaseTask{}
	if err := json.Unmarshal([]byte(payload), task); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to unmarshal release task: %w", err)
	}

	span.SetAttributes(attribute.String("booking_id", task.BookingID))
	span.SetStatus(codes.Ok, "")
	return task, nil
}

// Size returns the number of queued tasks
func (q *RedisReleaseQueue) Size(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, releaseQueueKey)
}
