package service

import (
	"context"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/repository"
)

// MockBookingRepository is a mock implementation of BookingRepository
type MockBookingRepository struct {
	CreateFunc  func(ctx context.Context, booking *domain.Booking) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Booking, error)
	UpdateFunc  func(ctx context.Context, booking *domain.Booking) error
	ListFunc    func(ctx context.Context, filter repository.BookingFilter, limit, offset int) ([]*domain.Booking, error)
	CountFunc   func(ctx context.Context, filter repository.BookingFilter) (int, error)

	UpdateStatusFunc func(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) error
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, booking, from)
	}
	return nil
}

func (m *MockBookingRepository) List(ctx context.Context, filter repository.BookingFilter, limit, offset int) ([]*domain.Booking, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, limit, offset)
	}
	return nil, nil
}

func (m *MockBookingRepository) Count(ctx context.Context, filter repository.BookingFilter) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	return 0, nil
}

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	UpsertRoomFunc        func(ctx context.Context, room *domain.HotelRoom) error
	GetRoomFunc           func(ctx context.Context, hotelID, roomID string) (*domain.HotelRoom, error)
	ListRoomsFunc         func(ctx context.Context, hotelID string) ([]*domain.HotelRoom, error)
	AllocateRoomFunc      func(ctx context.Context, hotelID, roomID string, quantity int) error
	ReleaseRoomFunc       func(ctx context.Context, hotelID, roomID string, quantity int) error
	UpsertSpotFunc        func(ctx context.Context, spot *domain.ParkingSpot) error
	GetSpotFunc           func(ctx context.Context, lotID, spotID string) (*domain.ParkingSpot, error)
	ListSpotsFunc         func(ctx context.Context, lotID string) ([]*domain.ParkingSpot, error)
	FindAvailableSpotFunc func(ctx context.Context, lotID, spotType string) (*domain.ParkingSpot, error)
	AllocateSpotFunc      func(ctx context.Context, lotID, spotID, bookingID string) error
	ReleaseSpotFunc       func(ctx context.Context, lotID, spotID, bookingID string) error
}

func (m *MockInventoryRepository) UpsertRoom(ctx context.Context, room *domain.HotelRoom) error {
	if m.UpsertRoomFunc != nil {
		return m.UpsertRoomFunc(ctx, room)
	}
	return nil
}

func (m *MockInventoryRepository) GetRoom(ctx context.Context, hotelID, roomID string) (*domain.HotelRoom, error) {
	if m.GetRoomFunc != nil {
		return m.GetRoomFunc(ctx, hotelID, roomID)
	}
	return nil, domain.ErrRoomNotFound
}

func (m *MockInventoryRepository) ListRooms(ctx context.Context, hotelID string) ([]*domain.HotelRoom, error) {
	if m.ListRoomsFunc != nil {
		return m.ListRoomsFunc(ctx, hotelID)
	}
	return nil, nil
}

func (m *MockInventoryRepository) AllocateRoom(ctx context.Context, hotelID, roomID string, quantity int) error {
	if m.AllocateRoomFunc != nil {
		return m.AllocateRoomFunc(ctx, hotelID, roomID, quantity)
	}
	return nil
}

func (m *MockInventoryRepository) ReleaseRoom(ctx context.Context, hotelID, roomID string, quantity int) error {
	if m.ReleaseRoomFunc != nil {
		return m.ReleaseRoomFunc(ctx, hotelID, roomID, quantity)
	}
	return nil
}

func (m *MockInventoryRepository) UpsertSpot(ctx context.Context, spot *domain.ParkingSpot) error {
	if m.UpsertSpotFunc != nil {
		return m.UpsertSpotFunc(ctx, spot)
	}
	return nil
}

func (m *MockInventoryRepository) GetSpot(ctx context.Context, lotID, spotID string) (*domain.ParkingSpot, error) {
	if m.GetSpotFunc != nil {
		return m.GetSpotFunc(ctx, lotID, spotID)
	}
	return nil, domain.ErrSpotNotFound
}

func (m *MockInventoryRepository) ListSpots(ctx context.Context, lotID string) ([]*domain.ParkingSpot, error) {
	if m.ListSpotsFunc != nil {
		return m.ListSpotsFunc(ctx, lotID)
	}
	return nil, nil
}

func (m *MockInventoryRepository) FindAvailableSpot(ctx context.Context, lotID, spotType string) (*domain.ParkingSpot, error) {
	if m.FindAvailableSpotFunc != nil {
		return m.FindAvailableSpotFunc(ctx, lotID, spotType)
	}
	return nil, domain.ErrSpotUnavailable
}

func (m *MockInventoryRepository) AllocateSpot(ctx context.Context, lotID, spotID, bookingID string) error {
	if m.AllocateSpotFunc != nil {
		return m.AllocateSpotFunc(ctx, lotID, spotID, bookingID)
	}
	return nil
}

func (m *MockInventoryRepository) ReleaseSpot(ctx context.Context, lotID, spotID, bookingID string) error {
	if m.ReleaseSpotFunc != nil {
		return m.ReleaseSpotFunc(ctx, lotID, spotID, bookingID)
	}
	return nil
}

// MockReleaseQueue is a mock implementation of ReleaseQueue
type MockReleaseQueue struct {
	EnqueueFunc func(ctx context.Context, task *repository.ReleaseTask) error
	DequeueFunc func(ctx context.Context) (*repository.ReleaseTask, error)
	SizeFunc    func(ctx context.Context) (int64, error)
}

func (m *MockReleaseQueue) Enqueue(ctx context.Context, task *repository.ReleaseTask) error {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, task)
	}
	return nil
}

func (m *MockReleaseQueue) Dequeue(ctx context.Context) (*repository.ReleaseTask, error) {
	if m.DequeueFunc != nil {
		return m.DequeueFunc(ctx)
	}
	return nil, nil
}

func (m *MockReleaseQueue) Size(ctx context.Context) (int64, error) {
	if m.SizeFunc != nil {
		return m.SizeFunc(ctx)
	}
	return 0, nil
}

// MockEventPublisher records published event types
type MockEventPublisher struct {
	Events []domain.BookingEventType
}

func (m *MockEventPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	m.Events = append(m.Events, domain.BookingEventCreated)
	return nil
}

func (m *MockEventPublisher) PublishBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	m.Events = append(m.Events, domain.BookingEventConfirmed)
	return nil
}

func (m *MockEventPublisher) PublishBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	m.Events = append(m.Events, domain.BookingEventCancelled)
	return nil
}

func (m *MockEventPublisher) PublishBookingCompleted(ctx context.Context, booking *domain.Booking) error {
	m.Events = append(m.Events, domain.BookingEventCompleted)
	return nil
}

func (m *MockEventPublisher) PublishBookingRefunded(ctx context.Context, booking *domain.Booking) error {
	m.Events = append(m.Events, domain.BookingEventRefunded)
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }
