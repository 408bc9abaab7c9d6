package dto

import (
	"time"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
)

// HotelDetailRequest is the hotel leg of a create request
type HotelDetailRequest struct {
	HotelID  string    `json:"hotel_id" binding:"required"`
	RoomID   string    `json:"room_id" binding:"required"`
	CheckIn  time.Time `json:"check_in" binding:"required"`
	CheckOut time.Time `json:"check_out" binding:"required"`
	Guests   int       `json:"guests" binding:"required,min=1,max=10"`
}

// VehicleRequest describes the vehicle to park
type VehicleRequest struct {
	Plate string `json:"plate" binding:"required"`
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
}

// ParkingDetailRequest is the parking leg of a create request. Either
// SpotID or SpotType must be set for standalone parking bookings.
type ParkingDetailRequest struct {
	LotID    string         `json:"lot_id" binding:"required"`
	SpotID   string         `json:"spot_id,omitempty"`
	SpotType string         `json:"spot_type,omitempty"`
	CheckIn  time.Time      `json:"check_in" binding:"required"`
	CheckOut time.Time      `json:"check_out" binding:"required"`
	Vehicle  VehicleRequest `json:"vehicle" binding:"required"`
}

// PaymentRequest carries the payment the caller already settled
type PaymentRequest struct {
	Method        string  `json:"method" binding:"required"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Currency      string  `json:"currency,omitempty"`
	GatewayRef    string  `json:"gateway_ref,omitempty"`
}

// CreateBookingRequest represents a request to create a booking
type CreateBookingRequest struct {
	Kind     string                `json:"kind" binding:"required,oneof=hotel parking both"`
	Hotel    *HotelDetailRequest   `json:"hotel,omitempty"`
	Parking  *ParkingDetailRequest `json:"parking,omitempty"`
	Payment  PaymentRequest        `json:"payment" binding:"required"`
	Discount float64               `json:"discount,omitempty"`
}

// CancelBookingRequest represents a request to cancel a booking
type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RefundBookingRequest represents a request to refund a booking
type RefundBookingRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// PricingResponse is the cost breakdown in API responses
type PricingResponse struct {
	Subtotal float64 `json:"subtotal"`
	Taxes    float64 `json:"taxes"`
	Fees     float64 `json:"fees"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// HotelDetailResponse is the hotel leg in API responses
type HotelDetailResponse struct {
	HotelID  string    `json:"hotel_id"`
	RoomID   string    `json:"room_id"`
	RoomType string    `json:"room_type,omitempty"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Guests   int       `json:"guests"`
}

// ParkingDetailResponse is the parking leg in API responses
type ParkingDetailResponse struct {
	LotID    string    `json:"lot_id"`
	SpotID   string    `json:"spot_id,omitempty"`
	SpotType string    `json:"spot_type,omitempty"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Plate    string    `json:"plate"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID                 string                 `json:"id"`
	OwnerID            string                 `json:"owner_id"`
	Kind               string                 `json:"kind"`
	Status             string                 `json:"status"`
	Hotel              *HotelDetailResponse   `json:"hotel,omitempty"`
	Parking            *ParkingDetailResponse `json:"parking,omitempty"`
	Pricing            PricingResponse        `json:"pricing"`
	PaymentStatus      string                 `json:"payment_status"`
	RefundAmount       float64                `json:"refund_amount,omitempty"`
	CancellationReason string                 `json:"cancellation_reason,omitempty"`
	ConfirmedAt        *time.Time             `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time             `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time             `json:"completed_at,omitempty"`
	RefundedAt         *time.Time             `json:"refunded_at,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
}

// ListBookingsResponse wraps a page of bookings
type ListBookingsResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// RoomAvailabilityResponse reports the live counter for a room type
type RoomAvailabilityResponse struct {
	HotelID        string  `json:"hotel_id"`
	RoomID         string  `json:"room_id"`
	Type           string  `json:"type"`
	PricePerNight  float64 `json:"price_per_night"`
	TotalCount     int     `json:"total_count"`
	AvailableCount int     `json:"available_count"`
}

// SpotAvailabilityResponse reports the state of a single spot
type SpotAvailabilityResponse struct {
	LotID      string  `json:"lot_id"`
	SpotID     string  `json:"spot_id"`
	SpotNumber string  `json:"spot_number"`
	Type       string  `json:"type"`
	PriceUnit  float64 `json:"price_per_unit"`
	Free       bool    `json:"free"`
}

// UpsertRoomRequest creates or replaces a hotel room type
type UpsertRoomRequest struct {
	HotelID       string  `json:"hotel_id"`
	RoomID        string  `json:"room_id"`
	Type          string  `json:"type" binding:"required"`
	PricePerNight float64 `json:"price_per_night" binding:"required,gt=0"`
	Capacity      int     `json:"capacity" binding:"required,min=1"`
	TotalCount    int     `json:"total_count" binding:"required,min=0"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// UpsertSpotRequest creates or replaces a parking spot
type UpsertSpotRequest struct {
	LotID        string  `json:"lot_id"`
	SpotID       string  `json:"spot_id"`
	SpotNumber   string  `json:"spot_number" binding:"required"`
	Type         string  `json:"type" binding:"required"`
	PricePerUnit float64 `json:"price_per_unit,omitempty"`
	IsAvailable  *bool   `json:"is_available,omitempty"`
}

// ErrorResponse represents an error in API responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ToDomain builds a pending domain booking from the create request
func (r *CreateBookingRequest) ToDomain(ownerID string) *domain.Booking {
	b := &domain.Booking{
		OwnerID: ownerID,
		Kind:    domain.BookingKind(r.Kind),
		Status:  domain.BookingStatusPending,
		Payment: domain.Payment{
			Method:        r.Payment.Method,
			TransactionID: r.Payment.TransactionID,
			Amount:        r.Payment.Amount,
			Currency:      r.Payment.Currency,
			Status:        domain.PaymentStatusPending,
			GatewayRef:    r.Payment.GatewayRef,
		},
	}
	if b.Payment.Currency == "" {
		b.Payment.Currency = "USD"
	}
	if r.Hotel != nil {
		b.HotelDetail = &domain.HotelDetail{
			HotelID:  r.Hotel.HotelID,
			RoomID:   r.Hotel.RoomID,
			CheckIn:  r.Hotel.CheckIn,
			CheckOut: r.Hotel.CheckOut,
			Guests:   r.Hotel.Guests,
		}
	}
	if r.Parking != nil {
		b.ParkingDetail = &domain.ParkingDetail{
			LotID:    r.Parking.LotID,
			SpotID:   r.Parking.SpotID,
			SpotType: r.Parking.SpotType,
			CheckIn:  r.Parking.CheckIn,
			CheckOut: r.Parking.CheckOut,
			Vehicle: domain.Vehicle{
				Plate: r.Parking.Vehicle.Plate,
				Make:  r.Parking.Vehicle.Make,
				Model: r.Parking.Vehicle.Model,
			},
		}
	}
	return b
}

// FromDomain converts a domain Booking to a BookingResponse
func FromDomain(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:      b.ID,
		OwnerID: b.OwnerID,
		Kind:    b.Kind.String(),
		Status:  b.Status.String(),
		Pricing: PricingResponse{
			Subtotal: b.Pricing.Subtotal,
			Taxes:    b.Pricing.Taxes,
			Fees:     b.Pricing.Fees,
			Discount: b.Pricing.Discount,
			Total:    b.Pricing.Total,
		},
		PaymentStatus:      string(b.Payment.Status),
		RefundAmount:       b.RefundAmount,
		CancellationReason: b.CancellationReason,
		ConfirmedAt:        b.ConfirmedAt,
		CancelledAt:        b.CancelledAt,
		CompletedAt:        b.CompletedAt,
		RefundedAt:         b.RefundedAt,
		CreatedAt:          b.CreatedAt,
	}
	if b.HotelDetail != nil {
		resp.Hotel = &HotelDetailResponse{
			HotelID:  b.HotelDetail.HotelID,
			RoomID:   b.HotelDetail.RoomID,
			RoomType: b.HotelDetail.RoomType,
			CheckIn:  b.HotelDetail.CheckIn,
			CheckOut: b.HotelDetail.CheckOut,
			Guests:   b.HotelDetail.Guests,
		}
	}
	if b.ParkingDetail != nil {
		resp.Parking = &ParkingDetailResponse{
			LotID:    b.ParkingDetail.LotID,
			SpotID:   b.ParkingDetail.SpotID,
			SpotType: b.ParkingDetail.SpotType,
			CheckIn:  b.ParkingDetail.CheckIn,
			CheckOut: b.ParkingDetail.CheckOut,
			Plate:    b.ParkingDetail.Vehicle.Plate,
		}
	}
	return resp
}

// RoomFromDomain converts a domain HotelRoom to its availability response
func RoomFromDomain(r *domain.HotelRoom) *RoomAvailabilityResponse {
	return &RoomAvailabilityResponse{
		HotelID:        r.HotelID,
		RoomID:         r.RoomID,
		Type:           r.Type,
		PricePerNight:  r.PricePerNight,
		TotalCount:     r.TotalCount,
		AvailableCount: r.AvailableCount,
	}
}

// SpotFromDomain converts a domain ParkingSpot to its availability response
func SpotFromDomain(s *domain.ParkingSpot) *SpotAvailabilityResponse {
	return &SpotAvailabilityResponse{
		LotID:      s.LotID,
		SpotID:     s.SpotID,
		SpotNumber: s.SpotNumber,
		Type:       s.Type,
		PriceUnit:  s.PricePerUnit,
		Free:       s.IsFree(),
	}
}
