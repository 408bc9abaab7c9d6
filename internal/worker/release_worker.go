// Package worker drains the pending-release queue in the background so
// inventory held by failed or interrupted releases is always returned.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/logger"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/metrics"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/repository"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/retry"
)

// ReleaseWorkerConfig contains configuration for the release worker
type ReleaseWorkerConfig struct {
	PollInterval time.Duration
	MaxAttempts  int
}

// ReleaseWorker retries queued inventory releases. Releases are
// idempotent, so a task that raced with an inline release simply
// no-ops.
type ReleaseWorker struct {
	queue         repository.ReleaseQueue
	inventoryRepo repository.InventoryRepository
	bookingRepo   repository.BookingRepository
	retrier       *retry.Retrier
	pollInterval  time.Duration
	maxAttempts   int
}

// NewReleaseWorker creates a new release worker
func NewReleaseWorker(
	queue repository.ReleaseQueue,
	inventoryRepo repository.InventoryRepository,
	bookingRepo repository.BookingRepository,
	cfg *ReleaseWorkerConfig,
) *ReleaseWorker {
	pollInterval := 5 * time.Second
	maxAttempts := 10
	if cfg != nil {
		if cfg.PollInterval > 0 {
			pollInterval = cfg.PollInterval
		}
		if cfg.MaxAttempts > 0 {
			maxAttempts = cfg.MaxAttempts
		}
	}
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = 3
	return &ReleaseWorker{
		queue:         queue,
		inventoryRepo: inventoryRepo,
		bookingRepo:   bookingRepo,
		retrier:       retry.New(retryCfg),
		pollInterval:  pollInterval,
		maxAttempts:   maxAttempts,
	}
}

// Start drains the queue until the context is cancelled
func (w *ReleaseWorker) Start(ctx context.Context) error {
	log := logger.Get()
	log.Info("release worker started", zap.Duration("poll_interval", w.pollInterval))

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("release worker stopped")
			return ctx.Err()
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain processes the tasks present when the pass starts. Tasks
// requeued by this pass wait for the next tick so a persistently
// failing task cannot spin.
func (w *ReleaseWorker) drain(ctx context.Context) {
	log := logger.Get()

	pending, err := w.queue.Size(ctx)
	if err != nil {
		log.Error("failed to read release queue size", zap.Error(err))
		return
	}

	for ; pending > 0; pending-- {
		task, err := w.queue.Dequeue(ctx)
		if err != nil {
			log.Error("failed to dequeue release task", zap.Error(err))
			return
		}
		if task == nil {
			return
		}

		if err := w.process(ctx, task); err != nil {
			task.Attempts++
			if task.Attempts >= w.maxAttempts {
				log.Error("release task dropped after max attempts",
					zap.String("booking_id", task.BookingID),
					zap.Int("attempts", task.Attempts),
					zap.Error(err))
				continue
			}
			log.Warn("release task failed, requeueing",
				zap.String("booking_id", task.BookingID),
				zap.Int("attempts", task.Attempts),
				zap.Error(err))
			metrics.RecordReleaseRetry(ctx)
			if err := w.queue.Enqueue(ctx, task); err != nil {
				log.Error("failed to requeue release task",
					zap.String("booking_id", task.BookingID),
					zap.Error(err))
			}
			continue
		}

		w.markReleased(ctx, task.BookingID)
		log.Info("release task completed", zap.String("booking_id", task.BookingID))
		if ctx.Err() != nil {
			return
		}
	}
}

// process releases the legs named by the task, retrying transient
// failures with backoff.
func (w *ReleaseWorker) process(ctx context.Context, task *repository.ReleaseTask) error {
	return w.retrier.Do(ctx, func(ctx context.Context) error {
		if task.RoomID != "" {
			qty := task.Quantity
			if qty <= 0 {
				qty = 1
			}
			err := w.inventoryRepo.ReleaseRoom(ctx, task.HotelID, task.RoomID, qty)
			if errors.Is(err, domain.ErrOverRelease) {
				// Counter corruption, not a transient failure. The leg
				// counts as released but the violation is logged loudly.
				logger.Get().Error("room release would exceed total count",
					zap.String("booking_id", task.BookingID),
					zap.String("hotel_id", task.HotelID),
					zap.String("room_id", task.RoomID),
					zap.Error(err))
				err = nil
			}
			if err != nil {
				if domain.IsNotFoundError(err) {
					return retry.Permanent(err)
				}
				return fmt.Errorf("room release: %w", err)
			}
		}
		if task.SpotID != "" {
			err := w.inventoryRepo.ReleaseSpot(ctx, task.LotID, task.SpotID, task.BookingID)
			// A conflict means the spot was already freed and reassigned,
			// so the release is done.
			if err != nil && !errors.Is(err, domain.ErrSpotConflict) {
				if domain.IsNotFoundError(err) {
					return retry.Permanent(err)
				}
				return fmt.Errorf("spot release: %w", err)
			}
		}
		return nil
	})
}

// markReleased flips the booking's released flag once the retry lands.
// Tasks from create-time compensation reference a booking that was never
// persisted; that lookup failing is fine.
func (w *ReleaseWorker) markReleased(ctx context.Context, bookingID string) {
	booking, err := w.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return
	}
	if booking.InventoryReleased {
		return
	}
	booking.InventoryReleased = true
	if err := w.bookingRepo.Update(ctx, booking); err != nil {
		logger.Get().Error("failed to mark inventory released",
			zap.String("booking_id", bookingID),
			zap.Error(err))
	}
}
