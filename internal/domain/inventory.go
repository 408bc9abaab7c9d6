package domain

// HotelRoom is a room type within a hotel aggregate. AvailableCount is a
// counter over identical units, never negative and never above TotalCount.
type HotelRoom struct {
	HotelID        string  `json:"hotel_id"`
	RoomID         string  `json:"room_id"`
	Type           string  `json:"type"`
	PricePerNight  float64 `json:"price_per_night"`
	Capacity       int     `json:"capacity"`
	TotalCount     int     `json:"total_count"`
	AvailableCount int     `json:"available_count"`
	IsActive       bool    `json:"is_active"`
}

// CanAllocate reports whether quantity units can be taken from the room
func (r *HotelRoom) CanAllocate(quantity int) bool {
	return r.IsActive && r.AvailableCount >= quantity
}

// ParkingSpot is an individually allocatable spot within a parking lot.
// CurrentBookingID back-references the booking holding the spot; it is a
// lookup aid only, never authoritative for booking state.
type ParkingSpot struct {
	LotID            string  `json:"lot_id"`
	SpotID           string  `json:"spot_id"`
	SpotNumber       string  `json:"spot_number"`
	Type             string  `json:"type"`
	PricePerUnit     float64 `json:"price_per_unit"`
	IsAvailable      bool    `json:"is_available"`
	IsReserved       bool    `json:"is_reserved"`
	CurrentBookingID string  `json:"current_booking_id,omitempty"`
}

// IsFree reports whether the spot can be allocated
func (s *ParkingSpot) IsFree() bool {
	return s.IsAvailable && !s.IsReserved
}

// HeldBy reports whether the spot is currently held by the given booking
func (s *ParkingSpot) HeldBy(bookingID string) bool {
	return s.IsReserved && s.CurrentBookingID == bookingID
}
