package repository

import (
	"context"
	"sync"
)

// MemoryReleaseQueue implements ReleaseQueue in process memory. Used when
// Redis is not configured; queued tasks do not survive a restart.
type MemoryReleaseQueue struct {
	mu    sync.Mutex
	tasks []*ReleaseTask
}

// NewMemoryReleaseQueue creates a new MemoryReleaseQueue
func NewMemoryReleaseQueue() *MemoryReleaseQueue {
	return &MemoryReleaseQueue{}
}

// Enqueue appends a release task to the queue
func (q *MemoryReleaseQueue) Enqueue(ctx context.Context, task *ReleaseTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	c := *task
	q.tasks = append(q.tasks, &c)
	return nil
}

// Dequeue pops the oldest task. Returns (nil, nil) when empty.
func (q *MemoryReleaseQueue) Dequeue(ctx context.Context) (*ReleaseTask, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, nil
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	return task, nil
}

// Size returns the number of queued tasks
func (q *MemoryReleaseQueue) Size(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.tasks)), nil
}
