package domain

import (
	"strings"
	"time"
)

// BookingKind identifies which resources a booking covers
type BookingKind string

const (
	BookingKindHotel   BookingKind = "hotel"
	BookingKindParking BookingKind = "parking"
	BookingKindBoth    BookingKind = "both"
)

// IsValid checks if the kind is a known BookingKind
func (k BookingKind) IsValid() bool {
	switch k {
	case BookingKindHotel, BookingKindParking, BookingKindBoth:
		return true
	}
	return false
}

// String returns the string representation of BookingKind
func (k BookingKind) String() string {
	return string(k)
}

// IncludesHotel reports whether the kind reserves a hotel room
func (k BookingKind) IncludesHotel() bool {
	return k == BookingKindHotel || k == BookingKindBoth
}

// IncludesParking reports whether the kind carries parking details
func (k BookingKind) IncludesParking() bool {
	return k == BookingKindParking || k == BookingKindBoth
}

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusRefunded  BookingStatus = "refunded"
)

// IsValid checks if the status is a valid BookingStatus
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled,
		BookingStatusCompleted, BookingStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is permitted
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusRefunded
}

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// HotelDetail holds the hotel leg of a booking
type HotelDetail struct {
	HotelID       string    `json:"hotel_id"`
	RoomID        string    `json:"room_id"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	Guests        int       `json:"guests"`
	RoomType      string    `json:"room_type"`
	PricePerNight float64   `json:"price_per_night"`
}

// Vehicle describes the parked vehicle
type Vehicle struct {
	Plate string `json:"plate"`
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
}

// ParkingDetail holds the parking leg of a booking.
// SpotID is set only for standalone parking bookings; combined bookings
// rely on hotel-managed parking capacity and hold no individual spot.
type ParkingDetail struct {
	LotID        string    `json:"lot_id"`
	SpotID       string    `json:"spot_id,omitempty"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	Vehicle      Vehicle   `json:"vehicle"`
	SpotType     string    `json:"spot_type"`
	PricePerUnit float64   `json:"price_per_unit"`
}

// Payment holds the payment attached to a booking
type Payment struct {
	Method        string        `json:"method"`
	TransactionID string        `json:"transaction_id,omitempty"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	GatewayRef    string        `json:"gateway_ref,omitempty"`
}

// Pricing is the cost breakdown of a booking.
// Invariant: Total == Subtotal + Taxes + Fees - Discount.
type Pricing struct {
	Subtotal float64 `json:"subtotal"`
	Taxes    float64 `json:"taxes"`
	Fees     float64 `json:"fees"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Booking represents a reservation of hotel and/or parking inventory
type Booking struct {
	ID                 string         `json:"id"`
	OwnerID            string         `json:"owner_id"`
	Kind               BookingKind    `json:"kind"`
	Status             BookingStatus  `json:"status"`
	HotelDetail        *HotelDetail   `json:"hotel_detail,omitempty"`
	ParkingDetail      *ParkingDetail `json:"parking_detail,omitempty"`
	Payment            Payment        `json:"payment"`
	Pricing            Pricing        `json:"pricing"`
	RefundAmount       float64        `json:"refund_amount,omitempty"`
	CancellationReason string         `json:"cancellation_reason,omitempty"`
	InventoryReleased  bool           `json:"inventory_released"`
	ConfirmedAt        *time.Time     `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time     `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time     `json:"completed_at,omitempty"`
	RefundedAt         *time.Time     `json:"refunded_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// Validate checks the structural invariants of the booking
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.OwnerID) == "" {
		return ErrInvalidOwnerID
	}
	if !b.Kind.IsValid() {
		return ErrInvalidKind
	}

	if b.Kind.IncludesHotel() {
		if b.HotelDetail == nil {
			return ErrMissingHotelDetail
		}
		if !b.HotelDetail.CheckOut.After(b.HotelDetail.CheckIn) {
			return ErrInvalidStayWindow
		}
		if b.HotelDetail.Guests < 1 || b.HotelDetail.Guests > 10 {
			return ErrInvalidGuestCount
		}
	} else if b.HotelDetail != nil {
		return ErrUnexpectedDetail
	}

	if b.Kind.IncludesParking() {
		if b.ParkingDetail == nil {
			return ErrMissingParkingDetail
		}
		if !b.ParkingDetail.CheckOut.After(b.ParkingDetail.CheckIn) {
			return ErrInvalidStayWindow
		}
		if b.Kind == BookingKindParking && b.ParkingDetail.SpotID == "" && b.ParkingDetail.SpotType == "" {
			return ErrSpotRequired
		}
	} else if b.ParkingDetail != nil {
		return ErrUnexpectedDetail
	}

	return nil
}

// CanConfirm checks if the booking can be confirmed
func (b *Booking) CanConfirm() bool {
	return b.Status == BookingStatusPending
}

// CanCancel checks if the booking can be cancelled
func (b *Booking) CanCancel() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// CanComplete checks if the booking can be completed
func (b *Booking) CanComplete() bool {
	return b.Status == BookingStatusConfirmed
}

// CanRefund checks if the booking can be refunded
func (b *Booking) CanRefund() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusCompleted
}

// Confirm transitions pending to confirmed. The payment must already be
// completed; confirming stamps ConfirmedAt exactly once.
func (b *Booking) Confirm(now time.Time) error {
	if !b.CanConfirm() {
		return ErrInvalidTransition
	}
	if b.Payment.Status != PaymentStatusCompleted {
		return ErrPaymentNotCompleted
	}
	b.Status = BookingStatusConfirmed
	b.ConfirmedAt = &now
	b.UpdatedAt = now
	return nil
}

// Cancel transitions pending or confirmed to cancelled
func (b *Booking) Cancel(reason string, now time.Time) error {
	if !b.CanCancel() {
		return ErrInvalidTransition
	}
	b.Status = BookingStatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	b.UpdatedAt = now
	return nil
}

// Complete transitions confirmed to completed
func (b *Booking) Complete(now time.Time) error {
	if !b.CanComplete() {
		return ErrInvalidTransition
	}
	b.Status = BookingStatusCompleted
	b.CompletedAt = &now
	b.UpdatedAt = now
	return nil
}

// Refund transitions confirmed or completed to refunded and marks the
// payment refunded. The amount may be partial but not more than the total.
func (b *Booking) Refund(amount float64, now time.Time) error {
	if !b.CanRefund() {
		return ErrInvalidTransition
	}
	if amount <= 0 || amount > b.Pricing.Total {
		return ErrInvalidRefundAmount
	}
	b.Status = BookingStatusRefunded
	b.RefundAmount = amount
	b.Payment.Status = PaymentStatusRefunded
	b.RefundedAt = &now
	b.UpdatedAt = now
	return nil
}

// HoldsInventory reports whether the booking still holds allocated
// inventory that a release must return.
func (b *Booking) HoldsInventory() bool {
	return !b.InventoryReleased
}

// BelongsToOwner checks if the booking belongs to the specified owner
func (b *Booking) BelongsToOwner(ownerID string) bool {
	return b.OwnerID == ownerID
}
