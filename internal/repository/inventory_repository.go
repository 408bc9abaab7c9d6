package repository

import (
	"context"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
)

// InventoryRepository defines the interface for room and spot inventory.
// Allocate and Release calls on the same hotel or lot are serialized by
// the implementation, so concurrent requests for the last unit resolve
// to exactly one winner.
type InventoryRepository interface {
	// UpsertRoom creates or replaces a room type definition
	UpsertRoom(ctx context.Context, room *domain.HotelRoom) error

	// GetRoom retrieves a room type by hotel and room ID
	GetRoom(ctx context.Context, hotelID, roomID string) (*domain.HotelRoom, error)

	// ListRooms retrieves all room types of a hotel
	ListRooms(ctx context.Context, hotelID string) ([]*domain.HotelRoom, error)

	// AllocateRoom decrements the available counter by quantity.
	// Returns domain.ErrInsufficientRooms when fewer units remain.
	AllocateRoom(ctx context.Context, hotelID, roomID string, quantity int) error

	// ReleaseRoom increments the available counter by quantity.
	// Returns domain.ErrOverRelease when the counter would exceed the total.
	ReleaseRoom(ctx context.Context, hotelID, roomID string, quantity int) error

	// UpsertSpot creates or replaces a parking spot
	UpsertSpot(ctx context.Context, spot *domain.ParkingSpot) error

	// GetSpot retrieves a spot by lot and spot ID
	GetSpot(ctx context.Context, lotID, spotID string) (*domain.ParkingSpot, error)

	// ListSpots retrieves all spots of a lot
	ListSpots(ctx context.Context, lotID string) ([]*domain.ParkingSpot, error)

	// FindAvailableSpot picks a free spot of the given type in the lot.
	// Returns domain.ErrSpotUnavailable when none is free.
	FindAvailableSpot(ctx context.Context, lotID, spotType string) (*domain.ParkingSpot, error)

	// AllocateSpot reserves the spot for the booking.
	// Returns domain.ErrSpotConflict when another booking holds it.
	AllocateSpot(ctx context.Context, lotID, spotID, bookingID string) error

	// ReleaseSpot frees the spot held by the booking. Releasing an
	// already-free spot is a no-op; releasing a spot reassigned to a
	// different booking returns domain.ErrSpotConflict.
	ReleaseSpot(ctx context.Context, lotID, spotID, bookingID string) error
}
