package domain

import "time"

// BookingEventType identifies a booking lifecycle event
type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventConfirmed BookingEventType = "booking.confirmed"
	BookingEventCancelled BookingEventType = "booking.cancelled"
	BookingEventCompleted BookingEventType = "booking.completed"
	BookingEventRefunded  BookingEventType = "booking.refunded"
)

// BookingEvent is the payload published on every lifecycle transition
type BookingEvent struct {
	EventID   string           `json:"event_id"`
	EventType BookingEventType `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`
	BookingID string           `json:"booking_id"`
	OwnerID   string           `json:"owner_id"`
	Kind      BookingKind      `json:"kind"`
	Status    BookingStatus    `json:"status"`
	Total     float64          `json:"total"`
}

// NewBookingEvent builds an event snapshot from a booking
func NewBookingEvent(eventType BookingEventType, booking *Booking, eventID string) *BookingEvent {
	return &BookingEvent{
		EventID:   eventID,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		BookingID: booking.ID,
		OwnerID:   booking.OwnerID,
		Kind:      booking.Kind,
		Status:    booking.Status,
		Total:     booking.Pricing.Total,
	}
}

// Key returns the partition key for the event
func (e *BookingEvent) Key() string {
	return e.BookingID
}
