package metrics

import (
	"context"
	"sync"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// Booking counters
	BookingsCreated   *telemetry.Counter
	BookingsConfirmed *telemetry.Counter
	BookingsCancelled *telemetry.Counter
	BookingsCompleted *telemetry.Counter
	BookingsRefunded  *telemetry.Counter
	BookingsFailed    *telemetry.Counter

	// Inventory counters
	AllocationsRejected *telemetry.Counter
	ReleaseRetries      *telemetry.Counter

	// Histograms
	CreateDuration *telemetry.Histogram

	// Gauges
	HeldRooms *telemetry.UpDownCounter
	HeldSpots *telemetry.UpDownCounter

	initOnce sync.Once
	initErr  error
)

// Init initializes all booking metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	BookingsCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_created_total",
		Description: "Total number of bookings created",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsConfirmed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_confirmed_total",
		Description: "Total number of bookings confirmed",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsCancelled, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_cancelled_total",
		Description: "Total number of bookings cancelled",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsCompleted, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_completed_total",
		Description: "Total number of bookings completed",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsRefunded, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_refunded_total",
		Description: "Total number of bookings refunded",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_failed_total",
		Description: "Total number of booking requests rejected",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	AllocationsRejected, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "inventory_allocations_rejected_total",
		Description: "Allocation attempts rejected for insufficient or unavailable inventory",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	ReleaseRetries, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "inventory_release_retries_total",
		Description: "Inventory releases that failed and were queued for retry",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	CreateDuration, err = telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "booking_create_duration_seconds",
		Description: "Time to validate, allocate and persist a booking",
		Unit:        "s",
	})
	if err != nil {
		return err
	}

	HeldRooms, err = telemetry.NewUpDownCounter(telemetry.MetricOpts{
		Name:        "inventory_held_rooms",
		Description: "Room units currently held by non-terminal bookings",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	HeldSpots, err = telemetry.NewUpDownCounter(telemetry.MetricOpts{
		Name:        "inventory_held_spots",
		Description: "Parking spots currently held by non-terminal bookings",
		Unit:        "1",
	})
	return err
}

// RecordCreated records a successful booking creation
func RecordCreated(ctx context.Context, kind string, seconds float64) {
	if BookingsCreated == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("kind", kind)}
	BookingsCreated.Add(ctx, 1, attrs...)
	CreateDuration.Record(ctx, seconds, attrs...)
}

// RecordRejected records a rejected booking request
func RecordRejected(ctx context.Context, kind, reason string) {
	if BookingsFailed == nil {
		return
	}
	BookingsFailed.Add(ctx, 1,
		attribute.String("kind", kind),
		attribute.String("reason", reason),
	)
}

// RecordTransition records a lifecycle transition
func RecordTransition(ctx context.Context, status string) {
	var counter *telemetry.Counter
	switch status {
	case "confirmed":
		counter = BookingsConfirmed
	case "cancelled":
		counter = BookingsCancelled
	case "completed":
		counter = BookingsCompleted
	case "refunded":
		counter = BookingsRefunded
	}
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

// RecordReleaseRetry records a release that was queued for retry
func RecordReleaseRetry(ctx context.Context) {
	if ReleaseRetries != nil {
		ReleaseRetries.Add(ctx, 1)
	}
}
