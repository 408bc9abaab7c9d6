package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/dto"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/logger"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/metrics"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/repository"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/telemetry"
)

// BookingService defines the interface for booking lifecycle logic
type BookingService interface {
	// ConfirmBooking transitions a pending booking to confirmed
	ConfirmBooking(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error)

	// CancelBooking cancels a pending or confirmed booking and releases
	// its inventory
	CancelBooking(ctx context.Context, bookingID, ownerID string, req *dto.CancelBookingRequest) (*dto.BookingResponse, error)

	// CompleteBooking transitions a confirmed booking to completed
	CompleteBooking(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error)

	// RefundBooking refunds a confirmed or completed booking and releases
	// its inventory
	RefundBooking(ctx context.Context, bookingID, ownerID string, req *dto.RefundBookingRequest) (*dto.BookingResponse, error)

	// GetBooking retrieves a booking by ID
	GetBooking(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error)

	// ListBookings retrieves the owner's bookings, newest first
	ListBookings(ctx context.Context, filter repository.BookingFilter, limit, offset int) (*dto.ListBookingsResponse, error)
}

// bookingService implements BookingService
type bookingService struct {
	bookingRepo    repository.BookingRepository
	inventoryRepo  repository.InventoryRepository
	releaseQueue   repository.ReleaseQueue
	eventPublisher EventPublisher
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repository.BookingRepository,
	inventoryRepo repository.InventoryRepository,
	releaseQueue repository.ReleaseQueue,
	eventPublisher EventPublisher,
) BookingService {
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	return &bookingService{
		bookingRepo:    bookingRepo,
		inventoryRepo:  inventoryRepo,
		releaseQueue:   releaseQueue,
		eventPublisher: eventPublisher,
	}
}

// ConfirmBooking transitions a pending booking to confirmed
func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.confirm")
	defer span.End()

	booking, err := s.getOwnedBooking(ctx, span, bookingID, ownerID)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if err := booking.Confirm(time.Now()); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking, from); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	_ = s.eventPublisher.PublishBookingConfirmed(ctx, booking)
	metrics.RecordTransition(ctx, booking.Status.String())

	span.SetStatus(codes.Ok, "")
	return dto.FromDomain(booking), nil
}

// CancelBooking cancels a pending or confirmed booking. The status
// transition commits first; the inventory release that follows never
// reverts it.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, ownerID string, req *dto.CancelBookingRequest) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.cancel")
	defer span.End()

	booking, err := s.getOwnedBooking(ctx, span, bookingID, ownerID)
	if err != nil {
		return nil, err
	}

	reason := ""
	if req != nil {
		reason = req.Reason
	}

	from := booking.Status
	if err := booking.Cancel(reason, time.Now()); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// The status guard makes this commit the single point of arbitration:
	// of two concurrent cancels, only the winner proceeds to release.
	if err := s.bookingRepo.UpdateStatus(ctx, booking, from); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.releaseInventory(ctx, booking)

	_ = s.eventPublisher.PublishBookingCancelled(ctx, booking)
	metrics.RecordTransition(ctx, booking.Status.String())

	span.SetStatus(codes.Ok, "")
	return dto.FromDomain(booking), nil
}

// CompleteBooking transitions a confirmed booking to completed. The stay
// ended normally; inventory stays allocated and is only returned by a
// subsequent refund.
func (s *bookingService) CompleteBooking(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.complete")
	defer span.End()

	booking, err := s.getOwnedBooking(ctx, span, bookingID, ownerID)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if err := booking.Complete(time.Now()); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking, from); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	_ = s.eventPublisher.PublishBookingCompleted(ctx, booking)
	metrics.RecordTransition(ctx, booking.Status.String())

	span.SetStatus(codes.Ok, "")
	return dto.FromDomain(booking), nil
}

// RefundBooking refunds a confirmed or completed booking. Inventory is
// released at most once across cancel, complete and refund.
func (s *bookingService) RefundBooking(ctx context.Context, bookingID, ownerID string, req *dto.RefundBookingRequest) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.refund")
	defer span.End()

	if req == nil {
		span.SetStatus(codes.Error, "missing refund amount")
		return nil, domain.ErrInvalidRefundAmount
	}

	booking, err := s.getOwnedBooking(ctx, span, bookingID, ownerID)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if err := booking.Refund(req.Amount, time.Now()); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking, from); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.releaseInventory(ctx, booking)

	_ = s.eventPublisher.PublishBookingRefunded(ctx, booking)
	metrics.RecordTransition(ctx, booking.Status.String())

	span.SetStatus(codes.Ok, "")
	return dto.FromDomain(booking), nil
}

// GetBooking retrieves a booking by ID
func (s *bookingService) GetBooking(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get")
	defer span.End()

	booking, err := s.getOwnedBooking(ctx, span, bookingID, ownerID)
	if err != nil {
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.FromDomain(booking), nil
}

// ListBookings retrieves bookings matching the filter, newest first
func (s *bookingService) ListBookings(ctx context.Context, filter repository.BookingFilter, limit, offset int) (*dto.ListBookingsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list")
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	bookings, err := s.bookingRepo.List(ctx, filter, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	total, err := s.bookingRepo.Count(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp := &dto.ListBookingsResponse{
		Bookings: make([]*dto.BookingResponse, 0, len(bookings)),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, dto.FromDomain(b))
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

func (s *bookingService) getOwnedBooking(ctx context.Context, span trace.Span, bookingID, ownerID string) (*domain.Booking, error) {
	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// owners see only their own bookings; an empty ownerID is an
	// administrative caller
	if ownerID != "" && !booking.BelongsToOwner(ownerID) {
		span.SetStatus(codes.Error, "not found")
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}

// releaseInventory returns the booking's held inventory exactly once.
// Legs that fail inline are queued for the release worker; the booking's
// committed status is never reverted. Runs detached from the caller's
// deadline so compensation still lands after a timeout.
func (s *bookingService) releaseInventory(ctx context.Context, booking *domain.Booking) {
	if !booking.HoldsInventory() {
		return
	}
	ctx = context.WithoutCancel(ctx)
	log := logger.Get()

	task := &repository.ReleaseTask{
		BookingID:  booking.ID,
		EnqueuedAt: time.Now(),
	}
	failed := false

	if booking.Kind.IncludesHotel() && booking.HotelDetail != nil {
		h := booking.HotelDetail
		switch err := s.inventoryRepo.ReleaseRoom(ctx, h.HotelID, h.RoomID, 1); {
		case errors.Is(err, domain.ErrOverRelease):
			// The counter no longer accounts for this hold. The leg is
			// treated as returned, but the corruption must not pass quietly.
			log.Error("room release would exceed total count",
				zap.String("booking_id", booking.ID),
				zap.String("hotel_id", h.HotelID),
				zap.String("room_id", h.RoomID),
				zap.Error(err))
		case err != nil:
			log.Warn("room release failed, queueing retry",
				zap.String("booking_id", booking.ID),
				zap.String("hotel_id", h.HotelID),
				zap.String("room_id", h.RoomID),
				zap.Error(err))
			task.HotelID, task.RoomID, task.Quantity = h.HotelID, h.RoomID, 1
			failed = true
		}
	}

	if booking.Kind == domain.BookingKindParking && booking.ParkingDetail != nil && booking.ParkingDetail.SpotID != "" {
		p := booking.ParkingDetail
		// A conflict means the hold is already gone and the spot was
		// reassigned; the release is done, retrying would steal it.
		if err := s.inventoryRepo.ReleaseSpot(ctx, p.LotID, p.SpotID, booking.ID); err != nil && !errors.Is(err, domain.ErrSpotConflict) {
			log.Warn("spot release failed, queueing retry",
				zap.String("booking_id", booking.ID),
				zap.String("lot_id", p.LotID),
				zap.String("spot_id", p.SpotID),
				zap.Error(err))
			task.LotID, task.SpotID = p.LotID, p.SpotID
			failed = true
		}
	}

	if failed {
		if err := s.releaseQueue.Enqueue(ctx, task); err != nil {
			log.Error("failed to queue inventory release",
				zap.String("booking_id", booking.ID),
				zap.Error(err))
		}
		metrics.RecordReleaseRetry(ctx)
		return
	}

	booking.InventoryReleased = true
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		log.Error("failed to mark inventory released",
			zap.String("booking_id", booking.ID),
			zap.Error(err))
	}
}
