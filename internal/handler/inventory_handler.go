package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/dto"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/middleware"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/service"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/telemetry"
)

// InventoryHandler handles hotel room and parking spot HTTP requests
type InventoryHandler struct {
	inventoryService service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// RegisterRoutes mounts the inventory endpoints on the given group.
// Availability reads are open to any authenticated caller, writes are
// admin only.
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	hotels := rg.Group("/hotels")
	{
		hotels.GET("/:hotelId/rooms", h.ListRoomAvailability)
		hotels.GET("/:hotelId/rooms/:roomId", h.GetRoomAvailability)
		hotels.PUT("/:hotelId/rooms/:roomId", middleware.RequireAdmin(), h.UpsertRoom)
	}
	lots := rg.Group("/lots")
	{
		lots.GET("/:lotId/spots", h.ListSpotAvailability)
		lots.GET("/:lotId/spots/:spotId", h.GetSpotAvailability)
		lots.PUT("/:lotId/spots/:spotId", middleware.RequireAdmin(), h.UpsertSpot)
	}
}

// UpsertRoom handles PUT /hotels/:hotelId/rooms/:roomId
func (h *InventoryHandler) UpsertRoom(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.inventory.upsert_room")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.UpsertRoomRequest
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
	req.HotelID = c.Param("hotelId")
	req.RoomID = c.Param("roomId")

	span.SetAttributes(
		attribute.String("hotel_id", req.HotelID),
		attribute.String("room_id", req.RoomID),
		attribute.Int("total_count", req.TotalCount),
	)

	result, err := h.inventoryService.UpsertRoom(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// GetRoomAvailability handles GET /hotels/:hotelId/rooms/:roomId
func (h *InventoryHandler) GetRoomAvailability(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.inventory.get_room")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	hotelID := c.Param("hotelId")
	roomID := c.Param("roomId")
	span.SetAttributes(
		attribute.String("hotel_id", hotelID),
		attribute.String("room_id", roomID),
	)

	result, err := h.inventoryService.GetRoomAvailability(ctx, hotelID, roomID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// ListRoomAvailability handles GET /hotels/:hotelId/rooms
func (h *InventoryHandler) ListRoomAvailability(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.inventory.list_rooms")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	hotelID := c.Param("hotelId")
	span.SetAttributes(attribute.String("hotel_id", hotelID))

	result, err := h.inventoryService.ListRoomAvailability(ctx, hotelID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// UpsertSpot handles PUT /lots/:lotId/spots/:spotId
func (h *InventoryHandler) UpsertSpot(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.inventory.upsert_spot")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.UpsertSpotRequest
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
	req.LotID = c.Param("lotId")
	req.SpotID = c.Param("spotId")

	span.SetAttributes(
		attribute.String("lot_id", req.LotID),
		attribute.String("spot_id", req.SpotID),
	)

	result, err := h.inventoryService.UpsertSpot(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// GetSpotAvailability handles GET /lots/:lotId/spots/:spotId
func (h *InventoryHandler) GetSpotAvailability(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.inventory.get_spot")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	lotID := c.Param("lotId")
	spotID := c.Param("spotId")
	span.SetAttributes(
		attribute.String("lot_id", lotID),
		attribute.String("spot_id", spotID),
	)

	result, err := h.inventoryService.GetSpotAvailability(ctx, lotID, spotID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// ListSpotAvailability handles GET /lots/:lotId/spots
func (h *InventoryHandler) ListSpotAvailability(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.inventory.list_spots")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	lotID := c.Param("lotId")
	span.SetAttributes(attribute.String("lot_id", lotID))

	result, err := h.inventoryService.ListSpotAvailability(ctx, lotID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// handleError converts domain errors to HTTP responses
func (h *InventoryHandler) handleError(c *gin.Context, err error) {
	switch {
	case domain.IsValidationError(err):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
	case domain.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "NOT_FOUND",
		})
	case errors.Is(err, domain.ErrSpotConflict):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "CONFLICT",
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
