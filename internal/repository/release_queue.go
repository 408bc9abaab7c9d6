package repository

import (
	"context"
	"time"
)

// ReleaseTask describes inventory that failed to release inline and must
// be retried by the release worker.
type ReleaseTask struct {
	BookingID  string    `json:"booking_id"`
	HotelID    string    `json:"hotel_id,omitempty"`
	RoomID     string    `json:"room_id,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	LotID      string    `json:"lot_id,omitempty"`
	SpotID     string    `json:"spot_id,omitempty"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// ReleaseQueue defines the interface for the pending-release queue
type ReleaseQueue interface {
	// Enqueue appends a release task to the queue
	Enqueue(ctx context.Context, task *ReleaseTask) error

	// Dequeue pops the oldest task. Returns (nil, nil) when empty.
	Dequeue(ctx context.Context) (*ReleaseTask, error)

	// Size returns the number of queued tasks
	Size(ctx context.Context) (int64, error)
}
