package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/dto"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/logger"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/metrics"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/pricing"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/repository"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/telemetry"
)

// ReservationService coordinates inventory allocation, pricing and
// booking persistence so the whole create appears atomic to callers.
type ReservationService interface {
	// CreateBooking validates the request, allocates inventory, prices
	// the stay and persists the pending booking. Any failure after an
	// allocation rolls the allocation back.
	CreateBooking(ctx context.Context, ownerID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
}

// ReservationConfig contains coordinator configuration
type ReservationConfig struct {
	Rates            pricing.RateTable
	PaymentTolerance float64
}

// reservationService implements ReservationService
type reservationService struct {
	bookingRepo      repository.BookingRepository
	inventoryRepo    repository.InventoryRepository
	releaseQueue     repository.ReleaseQueue
	eventPublisher   EventPublisher
	rates            pricing.RateTable
	paymentTolerance float64
}

// NewReservationService creates a new reservation coordinator
func NewReservationService(
	bookingRepo repository.BookingRepository,
	inventoryRepo repository.InventoryRepository,
	releaseQueue repository.ReleaseQueue,
	eventPublisher EventPublisher,
	cfg *ReservationConfig,
) ReservationService {
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	tolerance := 0.01
	var rates pricing.RateTable
	if cfg != nil {
		rates = cfg.Rates
		if cfg.PaymentTolerance > 0 {
			tolerance = cfg.PaymentTolerance
		}
	}
	return &reservationService{
		bookingRepo:      bookingRepo,
		inventoryRepo:    inventoryRepo,
		releaseQueue:     releaseQueue,
		eventPublisher:   eventPublisher,
		rates:            rates,
		paymentTolerance: tolerance,
	}
}

// CreateBooking validates, allocates, prices and persists a booking
func (s *reservationService) CreateBooking(ctx context.Context, ownerID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.reservation.create")
	defer span.End()
	start := time.Now()

	if req == nil {
		span.SetStatus(codes.Error, "missing request")
		return nil, domain.ErrInvalidKind
	}

	// honor the caller's deadline before touching inventory
	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	booking := req.ToDomain(ownerID)
	booking.ID = uuid.New().String()
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := booking.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordRejected(ctx, req.Kind, "validation")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("owner_id", ownerID),
		attribute.String("kind", booking.Kind.String()),
	)

	var room *domain.HotelRoom
	if booking.Kind.IncludesHotel() {
		var err error
		room, err = s.inventoryRepo.GetRoom(ctx, booking.HotelDetail.HotelID, booking.HotelDetail.RoomID)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRejected(ctx, req.Kind, "room_not_found")
			return nil, err
		}
		booking.HotelDetail.RoomType = room.Type
		booking.HotelDetail.PricePerNight = room.PricePerNight
	}

	// standalone parking reserves a concrete spot; combined bookings use
	// the hotel's own parking capacity and hold none
	if booking.Kind == domain.BookingKindParking {
		if err := s.resolveSpot(ctx, booking); err != nil {
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRejected(ctx, req.Kind, "spot_unavailable")
			return nil, err
		}
	}

	roomAllocated := false
	spotAllocated := false
	rollback := func() {
		s.compensate(ctx, booking, roomAllocated, spotAllocated)
	}

	if booking.Kind.IncludesHotel() {
		if err := s.inventoryRepo.AllocateRoom(ctx, booking.HotelDetail.HotelID, booking.HotelDetail.RoomID, 1); err != nil {
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRejected(ctx, req.Kind, "insufficient")
			return nil, err
		}
		roomAllocated = true
	}

	if booking.Kind == domain.BookingKindParking {
		if err := s.inventoryRepo.AllocateSpot(ctx, booking.ParkingDetail.LotID, booking.ParkingDetail.SpotID, booking.ID); err != nil {
			rollback()
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRejected(ctx, req.Kind, "spot_conflict")
			return nil, err
		}
		spotAllocated = true
	}

	if err := s.price(booking, req.Discount); err != nil {
		rollback()
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordRejected(ctx, req.Kind, "pricing")
		return nil, err
	}

	if err := s.checkPayment(booking); err != nil {
		rollback()
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordRejected(ctx, req.Kind, "payment_mismatch")
		return nil, err
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		rollback()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	_ = s.eventPublisher.PublishBookingCreated(ctx, booking)
	metrics.RecordCreated(ctx, booking.Kind.String(), time.Since(start).Seconds())

	span.SetStatus(codes.Ok, "")
	return dto.FromDomain(booking), nil
}

// resolveSpot pins the booking to a concrete spot, either the requested
// one or the first free spot of the requested type.
func (s *reservationService) resolveSpot(ctx context.Context, booking *domain.Booking) error {
	p := booking.ParkingDetail

	var (
		spot *domain.ParkingSpot
		err  error
	)
	if p.SpotID != "" {
		spot, err = s.inventoryRepo.GetSpot(ctx, p.LotID, p.SpotID)
	} else {
		spot, err = s.inventoryRepo.FindAvailableSpot(ctx, p.LotID, p.SpotType)
	}
	if err != nil {
		return err
	}

	p.SpotID = spot.SpotID
	p.SpotType = spot.Type
	p.PricePerUnit = spot.PricePerUnit
	return nil
}

// price fills in the booking's cost breakdown. The discount applies once
// to the whole booking.
func (s *reservationService) price(booking *domain.Booking, discount float64) error {
	rates := s.rates

	switch booking.Kind {
	case domain.BookingKindHotel:
		p, err := pricing.ForHotel(booking.HotelDetail.PricePerNight, booking.HotelDetail.CheckIn, booking.HotelDetail.CheckOut, rates, discount)
		if err != nil {
			return err
		}
		booking.Pricing = p
	case domain.BookingKindParking:
		if booking.ParkingDetail.PricePerUnit > 0 {
			rates.Hourly = booking.ParkingDetail.PricePerUnit
		}
		p, err := pricing.ForParking(booking.ParkingDetail.CheckIn, booking.ParkingDetail.CheckOut, rates, discount)
		if err != nil {
			return err
		}
		booking.Pricing = p
	case domain.BookingKindBoth:
		hotelLeg, err := pricing.ForHotel(booking.HotelDetail.PricePerNight, booking.HotelDetail.CheckIn, booking.HotelDetail.CheckOut, rates, discount)
		if err != nil {
			return err
		}
		parkingLeg, err := pricing.ForParking(booking.ParkingDetail.CheckIn, booking.ParkingDetail.CheckOut, rates, 0)
		if err != nil {
			return err
		}
		booking.Pricing = pricing.Combine(hotelLeg, parkingLeg)
	}
	return nil
}

// checkPayment verifies the settled amount matches the computed total
// within the rounding tolerance, then marks the payment completed.
func (s *reservationService) checkPayment(booking *domain.Booking) error {
	diff := booking.Payment.Amount - booking.Pricing.Total
	if diff < 0 {
		diff = -diff
	}
	if booking.Payment.Amount < 0 || diff > s.paymentTolerance {
		return domain.ErrPaymentAmountMismatch
	}
	booking.Payment.Status = domain.PaymentStatusCompleted
	return nil
}

// compensate releases allocations made earlier in a failed create. It
// runs detached from the caller's deadline; legs that still fail are
// queued for the release worker so held inventory never leaks.
func (s *reservationService) compensate(ctx context.Context, booking *domain.Booking, roomAllocated, spotAllocated bool) {
	ctx = context.WithoutCancel(ctx)
	log := logger.Get()

	task := &repository.ReleaseTask{
		BookingID:  booking.ID,
		EnqueuedAt: time.Now(),
	}
	failed := false

	if roomAllocated {
		h := booking.HotelDetail
		if err := s.inventoryRepo.ReleaseRoom(ctx, h.HotelID, h.RoomID, 1); err != nil {
			log.Warn("compensating room release failed, queueing retry",
				zap.String("booking_id", booking.ID),
				zap.String("hotel_id", h.HotelID),
				zap.String("room_id", h.RoomID),
				zap.Error(err))
			task.HotelID, task.RoomID, task.Quantity = h.HotelID, h.RoomID, 1
			failed = true
		}
	}
	if spotAllocated {
		p := booking.ParkingDetail
		if err := s.inventoryRepo.ReleaseSpot(ctx, p.LotID, p.SpotID, booking.ID); err != nil && !errors.Is(err, domain.ErrSpotConflict) {
			log.Warn("compensating spot release failed, queueing retry",
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
			log.Error("failed to queue compensating release",
				zap.String("booking_id", booking.ID),
				zap.Error(err))
		}
		metrics.RecordReleaseRetry(ctx)
	}
}
