package repository

import (
	"context"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
)

// BookingFilter narrows List results. Zero-value fields are ignored.
type BookingFilter struct {
	OwnerID string
	Status  domain.BookingStatus
	Kind    domain.BookingKind
}

// BookingRepository defines the interface for booking persistence
type BookingRepository interface {
	// Create persists a new booking
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by its ID
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// Update replaces the stored booking state
	Update(ctx context.Context, booking *domain.Booking) error

	// UpdateStatus commits a lifecycle transition. The write lands only
	// while the stored status still equals from; a concurrent transition
	// that got there first surfaces as domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) error

	// List retrieves bookings matching the filter, newest first
	List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*domain.Booking, error)

	// Count returns how many bookings match the filter
	Count(ctx context.Context, filter BookingFilter) (int, error)
}
