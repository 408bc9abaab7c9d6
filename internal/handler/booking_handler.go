package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/dto"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/middleware"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/repository"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/service"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/telemetry"
)

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	reservationService service.ReservationService
	bookingService     service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(reservationService service.ReservationService, bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{
		reservationService: reservationService,
		bookingService:     bookingService,
	}
}

// RegisterRoutes mounts the booking endpoints on the given group
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/confirm", h.ConfirmBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/complete", h.CompleteBooking)
		bookings.POST("/:id/refund", h.RefundBooking)
	}
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	ownerID := middleware.GetUserID(c)
	if ownerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "unauthorized",
			Code:  "UNAUTHORIZED",
		})
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request",
			Code:    "VALIDATION_FAILED",
			Message: err.Error(),
		})
		return
	}

	span.SetAttributes(
		attribute.String("owner_id", ownerID),
		attribute.String("kind", req.Kind),
	)

	result, err := h.reservationService.CreateBooking(ctx, ownerID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("booking_id", result.ID))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusCreated, result)
}

// GetBooking handles GET /bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	ownerID, bookingID, ok := h.callerAndBookingID(c, span)
	if !ok {
		return
	}

	result, err := h.bookingService.GetBooking(ctx, bookingID, ownerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// ListBookings handles GET /bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	ownerID := middleware.GetUserID(c)
	if ownerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "unauthorized",
			Code:  "UNAUTHORIZED",
		})
		return
	}

	filter := repository.BookingFilter{OwnerID: ownerID}
	if middleware.IsAdmin(c) {
		// Admins may list across owners, optionally narrowed by query.
		filter.OwnerID = c.Query("owner_id")
	}
	filter.Status = domain.BookingStatus(c.Query("status"))
	filter.Kind = domain.BookingKind(c.Query("kind"))

	limit := 20
	offset := 0
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if o := c.Query("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	span.SetAttributes(
		attribute.String("owner_id", filter.OwnerID),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	result, err := h.bookingService.ListBookings(ctx, filter, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// ConfirmBooking handles POST /bookings/:id/confirm
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.confirm")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	ownerID, bookingID, ok := h.callerAndBookingID(c, span)
	if !ok {
		return
	}

	result, err := h.bookingService.ConfirmBooking(ctx, bookingID, ownerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// CancelBooking handles POST /bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	ownerID, bookingID, ok := h.callerAndBookingID(c, span)
	if !ok {
		return
	}

	var req dto.CancelBookingRequest
	// Reason is optional, an empty body is accepted.
	_ = c.ShouldBindJSON(&req)

	result, err := h.bookingService.CancelBooking(ctx, bookingID, ownerID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// CompleteBooking handles POST /bookings/:id/complete
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.complete")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	ownerID, bookingID, ok := h.callerAndBookingID(c, span)
	if !ok {
		return
	}

	result, err := h.bookingService.CompleteBooking(ctx, bookingID, ownerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// RefundBooking handles POST /bookings/:id/refund
func (h *BookingHandler) RefundBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.refund")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	ownerID, bookingID, ok := h.callerAndBookingID(c, span)
	if !ok {
		return
	}

	var req dto.RefundBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request",
			Code:    "VALIDATION_FAILED",
			Message: err.Error(),
		})
		return
	}

	span.SetAttributes(attribute.Float64("refund_amount", req.Amount))

	result, err := h.bookingService.RefundBooking(ctx, bookingID, ownerID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// callerAndBookingID pulls the caller identity and path booking ID,
// writing the error response itself when either is missing. Admin
// callers get an empty owner ID, which the service layer treats as
// unrestricted access.
func (h *BookingHandler) callerAndBookingID(c *gin.Context, span trace.Span) (ownerID, bookingID string, ok bool) {
	ownerID = middleware.GetUserID(c)
	if ownerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "unauthorized",
			Code:  "UNAUTHORIZED",
		})
		return "", "", false
	}
	if middleware.IsAdmin(c) {
		ownerID = ""
	}

	bookingID = c.Param("id")
	if bookingID == "" {
		span.SetStatus(codes.Error, "booking id required")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "booking id required",
			Code:  "VALIDATION_FAILED",
		})
		return "", "", false
	}

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("owner_id", ownerID),
	)
	return ownerID, bookingID, true
}

// handleError converts domain errors to HTTP responses
func (h *BookingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientRooms):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "INSUFFICIENT_ROOMS",
		})
	case errors.Is(err, domain.ErrSpotUnavailable):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "SPOT_UNAVAILABLE",
		})
	case errors.Is(err, domain.ErrSpotConflict),
		errors.Is(err, domain.ErrBookingExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "CONFLICT",
		})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_TRANSITION",
		})
	case errors.Is(err, domain.ErrOverRelease):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "OVER_RELEASE",
		})
	case errors.Is(err, domain.ErrPaymentNotCompleted):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "PAYMENT_NOT_COMPLETED",
		})
	case domain.IsValidationError(err), errors.Is(err, domain.ErrNegativeTotal):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
	case domain.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "NOT_FOUND",
		})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		c.JSON(http.StatusRequestTimeout, dto.ErrorResponse{
			Error: "request deadline exceeded",
			Code:  "DEADLINE_EXCEEDED",
		})
	case domain.IsRetryableError(err):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "service temporarily unavailable",
			Code:  "SERVICE_UNAVAILABLE",
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "internal server error",
			Code:  "INTERNAL_ERROR",
		})
	}
}
