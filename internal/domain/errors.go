package domain

import "errors"

// Domain errors
var (
	// Booking errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingExists     = errors.New("booking id already exists")
	ErrInvalidTransition = errors.New("booking status transition not allowed")

	// Inventory errors
	ErrRoomNotFound      = errors.New("hotel room not found")
	ErrSpotNotFound      = errors.New("parking spot not found")
	ErrInsufficientRooms = errors.New("insufficient rooms available")
	ErrSpotUnavailable   = errors.New("parking spot is not available")
	ErrSpotConflict      = errors.New("parking spot is held by another booking")
	ErrOverRelease       = errors.New("release would exceed provisioned capacity")

	// Validation errors
	ErrInvalidOwnerID        = errors.New("invalid owner id")
	ErrInvalidBookingID      = errors.New("invalid booking id")
	ErrInvalidKind           = errors.New("invalid booking kind")
	ErrInvalidStayWindow     = errors.New("check-out must be after check-in")
	ErrInvalidGuestCount     = errors.New("guest count must be between 1 and 10")
	ErrMissingHotelDetail    = errors.New("hotel detail is required for this booking kind")
	ErrMissingParkingDetail  = errors.New("parking detail is required for this booking kind")
	ErrUnexpectedDetail      = errors.New("detail not allowed for this booking kind")
	ErrSpotRequired          = errors.New("spot id or spot type is required for parking bookings")
	ErrInvalidRefundAmount   = errors.New("refund amount must be positive and not exceed the total paid")
	ErrPaymentNotCompleted   = errors.New("payment must be completed before confirming")
	ErrPaymentAmountMismatch = errors.New("payment amount does not match the computed total")

	// Pricing errors
	ErrNegativeTotal = errors.New("computed total is negative and requires review")
)

// RetryableError marks a transient failure (e.g. store unavailability)
// that callers may safely retry.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps an error as retryable
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryableError reports whether the error is safe to retry
func IsRetryableError(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrSpotNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidOwnerID) ||
		errors.Is(err, ErrInvalidBookingID) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidStayWindow) ||
		errors.Is(err, ErrInvalidGuestCount) ||
		errors.Is(err, ErrMissingHotelDetail) ||
		errors.Is(err, ErrMissingParkingDetail) ||
		errors.Is(err, ErrUnexpectedDetail) ||
		errors.Is(err, ErrSpotRequired) ||
		errors.Is(err, ErrInvalidRefundAmount) ||
		errors.Is(err, ErrPaymentAmountMismatch)
}

// IsConflictError checks if the error is an inventory conflict
func IsConflictError(err error) bool {
	return errors.Is(err, ErrInsufficientRooms) ||
		errors.Is(err, ErrSpotUnavailable) ||
		errors.Is(err, ErrSpotConflict) ||
		errors.Is(err, ErrBookingExists)
}
