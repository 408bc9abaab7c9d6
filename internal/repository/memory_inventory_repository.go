package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
)

// MemoryInventoryRepository implements InventoryRepository with in-memory
// state. One mutex per hotel and one per lot serialize all allocations
// and releases touching that aggregate, so two requests racing for the
// last unit resolve to exactly one winner.
type MemoryInventoryRepository struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	roomsMu sync.RWMutex
	rooms   map[string]*domain.HotelRoom

	spotsMu sync.RWMutex
	spots   map[string]*domain.ParkingSpot
}

// NewMemoryInventoryRepository creates a new MemoryInventoryRepository
func NewMemoryInventoryRepository() *MemoryInventoryRepository {
	return &MemoryInventoryRepository{
		locks: make(map[string]*sync.Mutex),
		rooms: make(map[string]*domain.HotelRoom),
		spots: make(map[string]*domain.ParkingSpot),
	}
}

// aggregateLock returns the mutex for a hotel or lot, creating it on
// first use.
func (r *MemoryInventoryRepository) aggregateLock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[key]
	if !ok {
		l = &sync.Mutex{}
		r.locks[key] = l
	}
	return l
}

func roomKey(hotelID, roomID string) string { return hotelID + "/" + roomID }
func spotKey(lotID, spotID string) string   { return lotID + "/" + spotID }

// UpsertRoom creates or replaces a room type definition
func (r *MemoryInventoryRepository) UpsertRoom(ctx context.Context, room *domain.HotelRoom) error {
	lock := r.aggregateLock("hotel/" + room.HotelID)
	lock.Lock()
	defer lock.Unlock()

	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()
	c := *room
	r.rooms[roomKey(room.HotelID, room.RoomID)] = &c
	return nil
}

// GetRoom retrieves a room type by hotel and room ID
func (r *MemoryInventoryRepository) GetRoom(ctx context.Context, hotelID, roomID string) (*domain.HotelRoom, error) {
	r.roomsMu.RLock()
	defer r.roomsMu.RUnlock()

	room, ok := r.rooms[roomKey(hotelID, roomID)]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	c := *room
	return &c, nil
}

// ListRooms retrieves all room types of a hotel
func (r *MemoryInventoryRepository) ListRooms(ctx context.Context, hotelID string) ([]*domain.HotelRoom, error) {
	r.roomsMu.RLock()
	defer r.roomsMu.RUnlock()

	var rooms []*domain.HotelRoom
	for _, room := range r.rooms {
		if room.HotelID == hotelID {
			c := *room
			rooms = append(rooms, &c)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomID < rooms[j].RoomID })
	return rooms, nil
}

// AllocateRoom decrements the available counter by quantity
func (r *MemoryInventoryRepository) AllocateRoom(ctx context.Context, hotelID, roomID string, quantity int) error {
	lock := r.aggregateLock("hotel/" + hotelID)
	lock.Lock()
	defer lock.Unlock()

	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()

	room, ok := r.rooms[roomKey(hotelID, roomID)]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if !room.CanAllocate(quantity) {
		return domain.ErrInsufficientRooms
	}
	room.AvailableCount -= quantity
	return nil
}

// ReleaseRoom increments the available counter by quantity
func (r *MemoryInventoryRepository) ReleaseRoom(ctx context.Context, hotelID, roomID string, quantity int) error {
	lock := r.aggregateLock("hotel/" + hotelID)
	lock.Lock()
	defer lock.Unlock()

	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()

	room, ok := r.rooms[roomKey(hotelID, roomID)]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if room.AvailableCount+quantity > room.TotalCount {
		return domain.ErrOverRelease
	}
	room.AvailableCount += quantity
	return nil
}

// UpsertSpot creates or replaces a parking spot
func (r *MemoryInventoryRepository) UpsertSpot(ctx context.Context, spot *domain.ParkingSpot) error {
	lock := r.aggregateLock("lot/" + spot.LotID)
	lock.Lock()
	defer lock.Unlock()

	r.spotsMu.Lock()
	defer r.spotsMu.Unlock()
	c := *spot
	r.spots[spotKey(spot.LotID, spot.SpotID)] = &c
	return nil
}

// GetSpot retrieves a spot by lot and spot ID
func (r *MemoryInventoryRepository) GetSpot(ctx context.Context, lotID, spotID string) (*domain.ParkingSpot, error) {
	r.spotsMu.RLock()
	defer r.spotsMu.RUnlock()

	spot, ok := r.spots[spotKey(lotID, spotID)]
	if !ok {
		return nil, domain.ErrSpotNotFound
	}
	c := *spot
	return &c, nil
}

// ListSpots retrieves all spots of a lot
func (r *MemoryInventoryRepository) ListSpots(ctx context.Context, lotID string) ([]*domain.ParkingSpot, error) {
	r.spotsMu.RLock()
	defer r.spotsMu.RUnlock()

	var spots []*domain.ParkingSpot
	for _, spot := range r.spots {
		if spot.LotID == lotID {
			c := *spot
			spots = append(spots, &c)
		}
	}
	sort.Slice(spots, func(i, j int) bool { return spots[i].SpotID < spots[j].SpotID })
	return spots, nil
}

// FindAvailableSpot picks the lowest-numbered free spot of the given type
func (r *MemoryInventoryRepository) FindAvailableSpot(ctx context.Context, lotID, spotType string) (*domain.ParkingSpot, error) {
	lock := r.aggregateLock("lot/" + lotID)
	lock.Lock()
	defer lock.Unlock()

	r.spotsMu.RLock()
	defer r.spotsMu.RUnlock()

	var candidates []*domain.ParkingSpot
	for _, spot := range r.spots {
		if spot.LotID == lotID && spot.Type == spotType && spot.IsFree() {
			candidates = append(candidates, spot)
		}
	}
	if len(candidates) == 0 {
		return nil, domain.ErrSpotUnavailable
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].SpotNumber < candidates[j].SpotNumber
	})
	c := *candidates[0]
	return &c, nil
}

// AllocateSpot reserves the spot for the booking
func (r *MemoryInventoryRepository) AllocateSpot(ctx context.Context, lotID, spotID, bookingID string) error {
	lock := r.aggregateLock("lot/" + lotID)
	lock.Lock()
	defer lock.Unlock()

	r.spotsMu.Lock()
	defer r.spotsMu.Unlock()

	spot, ok := r.spots[spotKey(lotID, spotID)]
	if !ok {
		return domain.ErrSpotNotFound
	}
	if !spot.IsAvailable {
		return domain.ErrSpotUnavailable
	}
	if spot.IsReserved {
		if spot.CurrentBookingID == bookingID {
			return nil
		}
		return domain.ErrSpotConflict
	}
	spot.IsReserved = true
	spot.CurrentBookingID = bookingID
	return nil
}

// ReleaseSpot frees the spot held by the booking
func (r *MemoryInventoryRepository) ReleaseSpot(ctx context.Context, lotID, spotID, bookingID string) error {
	lock := r.aggregateLock("lot/" + lotID)
	lock.Lock()
	defer lock.Unlock()

	r.spotsMu.Lock()
	defer r.spotsMu.Unlock()

	spot, ok := r.spots[spotKey(lotID, spotID)]
	if !ok {
		return domain.ErrSpotNotFound
	}
	if !spot.HeldBy(bookingID) {
		if spot.IsReserved {
			// reassigned to another booking since allocation
			return domain.ErrSpotConflict
		}
		// already released, release is idempotent
		return nil
	}
	spot.IsReserved = false
	spot.CurrentBookingID = ""
	return nil
}
