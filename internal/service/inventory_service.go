package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/dto"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/repository"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/telemetry"
)

// InventoryService defines the interface for inventory administration
// and availability queries.
type InventoryService interface {
	// UpsertRoom creates or replaces a hotel room type
	UpsertRoom(ctx context.Context, req *dto.UpsertRoomRequest) (*dto.RoomAvailabilityResponse, error)

	// GetRoomAvailability reports the live counter for a room type
	GetRoomAvailability(ctx context.Context, hotelID, roomID string) (*dto.RoomAvailabilityResponse, error)

	// ListRoomAvailability reports all room types of a hotel
	ListRoomAvailability(ctx context.Context, hotelID string) ([]*dto.RoomAvailabilityResponse, error)

	// UpsertSpot creates or replaces a parking spot
	UpsertSpot(ctx context.Context, req *dto.UpsertSpotRequest) (*dto.SpotAvailabilityResponse, error)

	// GetSpotAvailability reports the state of a single spot
	GetSpotAvailability(ctx context.Context, lotID, spotID string) (*dto.SpotAvailabilityResponse, error)

	// ListSpotAvailability reports all spots of a lot
	ListSpotAvailability(ctx context.Context, lotID string) ([]*dto.SpotAvailabilityResponse, error)
}

// inventoryService implements InventoryService
type inventoryService struct {
	inventoryRepo repository.InventoryRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(inventoryRepo repository.InventoryRepository) InventoryService {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

// UpsertRoom creates or replaces a hotel room type. New rooms start with
// the full count available; replacing keeps the definition but resets the
// counter to the provisioned total.
func (s *inventoryService) UpsertRoom(ctx context.Context, req *dto.UpsertRoomRequest) (*dto.RoomAvailabilityResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.inventory.upsert_room")
	defer span.End()

	span.SetAttributes(
		attribute.String("hotel_id", req.HotelID),
		attribute.String("room_id", req.RoomID),
	)

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	room := &domain.HotelRoom{
		HotelID:        req.HotelID,
		RoomID:         req.RoomID,
		Type:           req.Type,
		PricePerNight:  req.PricePerNight,
		Capacity:       req.Capacity,
		TotalCount:     req.TotalCount,
		AvailableCount: req.TotalCount,
		IsActive:       active,
	}

	if err := s.inventoryRepo.UpsertRoom(ctx, room); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.RoomFromDomain(room), nil
}

// GetRoomAvailability reports the live counter for a room type
func (s *inventoryService) GetRoomAvailability(ctx context.Context, hotelID, roomID string) (*dto.RoomAvailabilityResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.inventory.get_room")
	defer span.End()

	room, err := s.inventoryRepo.GetRoom(ctx, hotelID, roomID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.RoomFromDomain(room), nil
}

// ListRoomAvailability reports all room types of a hotel
func (s *inventoryService) ListRoomAvailability(ctx context.Context, hotelID string) ([]*dto.RoomAvailabilityResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.inventory.list_rooms")
	defer span.End()

	rooms, err := s.inventoryRepo.ListRooms(ctx, hotelID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]*dto.RoomAvailabilityResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, dto.RoomFromDomain(room))
	}

	span.SetStatus(codes.Ok, "")
	return out, nil
}

// UpsertSpot creates or replaces a parking spot. Reservation state of an
// existing spot is preserved so an admin edit cannot free a held spot.
func (s *inventoryService) UpsertSpot(ctx context.Context, req *dto.UpsertSpotRequest) (*dto.SpotAvailabilityResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.inventory.upsert_spot")
	defer span.End()

	span.SetAttributes(
		attribute.String("lot_id", req.LotID),
		attribute.String("spot_id", req.SpotID),
	)

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	spot := &domain.ParkingSpot{
		LotID:        req.LotID,
		SpotID:       req.SpotID,
		SpotNumber:   req.SpotNumber,
		Type:         req.Type,
		PricePerUnit: req.PricePerUnit,
		IsAvailable:  available,
	}

	if existing, err := s.inventoryRepo.GetSpot(ctx, req.LotID, req.SpotID); err == nil {
		spot.IsReserved = existing.IsReserved
		spot.CurrentBookingID = existing.CurrentBookingID
	}

	if err := s.inventoryRepo.UpsertSpot(ctx, spot); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.SpotFromDomain(spot), nil
}

// GetSpotAvailability reports the state of a single spot
func (s *inventoryService) GetSpotAvailability(ctx context.Context, lotID, spotID string) (*dto.SpotAvailabilityResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.inventory.get_spot")
	defer span.End()

	spot, err := s.inventoryRepo.GetSpot(ctx, lotID, spotID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.SpotFromDomain(spot), nil
}

// ListSpotAvailability reports all spots of a lot
func (s *inventoryService) ListSpotAvailability(ctx context.Context, lotID string) ([]*dto.SpotAvailabilityResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.inventory.list_spots")
	defer span.End()

	spots, err := s.inventoryRepo.ListSpots(ctx, lotID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]*dto.SpotAvailabilityResponse, 0, len(spots))
	for _, spot := range spots {
		out = append(out, dto.SpotFromDomain(spot))
	}

	span.SetStatus(codes.Ok, "")
	return out, nil
}
