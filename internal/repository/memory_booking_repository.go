package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
)

// MemoryBookingRepository implements BookingRepository with an in-memory
// map. Used in tests and single-node deployments without Postgres.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
}

// NewMemoryBookingRepository creates a new MemoryBookingRepository
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// Create persists a new booking
func (r *MemoryBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return domain.ErrBookingExists
	}
	r.bookings[booking.ID] = copyBooking(booking)
	return nil
}

// GetByID retrieves a booking by its ID
func (r *MemoryBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return copyBooking(booking), nil
}

// Update replaces the stored booking state
func (r *MemoryBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[booking.ID]; !ok {
		return domain.ErrBookingNotFound
	}
	r.bookings[booking.ID] = copyBooking(booking)
	return nil
}

// UpdateStatus commits a lifecycle transition only if the stored status
// still matches from. A stale caller loses the race and gets
// ErrInvalidTransition instead of overwriting the winner's commit.
func (r *MemoryBookingRepository) UpdateStatus(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[booking.ID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	if stored.Status != from {
		return domain.ErrInvalidTransition
	}
	r.bookings[booking.ID] = copyBooking(booking)
	return nil
}

// List retrieves bookings matching the filter, newest first
func (r *MemoryBookingRepository) List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]*domain.Booking, 0, len(matched))
	for _, b := range matched {
		out = append(out, copyBooking(b))
	}
	return out, nil
}

// Count returns how many bookings match the filter
func (r *MemoryBookingRepository) Count(ctx context.Context, filter BookingFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.match(filter)), nil
}

func (r *MemoryBookingRepository) match(filter BookingFilter) []*domain.Booking {
	var matched []*domain.Booking
	for _, b := range r.bookings {
		if filter.OwnerID != "" && b.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && b.Kind != filter.Kind {
			continue
		}
		matched = append(matched, b)
	}
	return matched
}

// copyBooking deep-copies a booking so callers never share pointers with
// the stored state.
func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	if b.HotelDetail != nil {
		h := *b.HotelDetail
		c.HotelDetail = &h
	}
	if b.ParkingDetail != nil {
		p := *b.ParkingDetail
		c.ParkingDetail = &p
	}
	return &c
}
