package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/dto"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/middleware"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/repository"
)

// MockReservationService is a mock implementation of ReservationService for testing
type MockReservationService struct {
	CreateBookingFunc func(ctx context.Context, ownerID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
}

func (m *MockReservationService) CreateBooking(ctx context.Context, ownerID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if m.CreateBookingFunc != nil {
		return m.CreateBookingFunc(ctx, ownerID, req)
	}
	return nil, nil
}

// MockBookingService is a mock implementation of BookingService for testing
type MockBookingService struct {
	ConfirmBookingFunc  func(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error)
	CancelBookingFunc   func(ctx context.Context, bookingID, ownerID string, req *dto.CancelBookingRequest) (*dto.BookingResponse, error)
	CompleteBookingFunc func(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error)
	RefundBookingFunc   func(ctx context.Context, bookingID, ownerID string, req *dto.RefundBookingRequest) (*dto.BookingResponse, error)
	GetBookingFunc      func(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error)
	ListBookingsFunc    func(ctx context.Context, filter repository.BookingFilter, limit, offset int) (*dto.ListBookingsResponse, error)
}

func (m *MockBookingService) ConfirmBooking(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error) {
	if m.ConfirmBookingFunc != nil {
		return m.ConfirmBookingFunc(ctx, bookingID, ownerID)
	}
	return nil, nil
}

func (m *MockBookingService) CancelBooking(ctx context.Context, bookingID, ownerID string, req *dto.CancelBookingRequest) (*dto.BookingResponse, error) {
	if m.CancelBookingFunc != nil {
		return m.CancelBookingFunc(ctx, bookingID, ownerID, req)
	}
	return nil, nil
}

func (m *MockBookingService) CompleteBooking(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error) {
	if m.CompleteBookingFunc != nil {
		return m.CompleteBookingFunc(ctx, bookingID, ownerID)
	}
	return nil, nil
}

func (m *MockBookingService) RefundBooking(ctx context.Context, bookingID, ownerID string, req *dto.RefundBookingRequest) (*dto.BookingResponse, error) {
	if m.RefundBookingFunc != nil {
		return m.RefundBookingFunc(ctx, bookingID, ownerID, req)
	}
	return nil, nil
}

func (m *MockBookingService) GetBooking(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error) {
	if m.GetBookingFunc != nil {
		return m.GetBookingFunc(ctx, bookingID, ownerID)
	}
	return nil, nil
}

func (m *MockBookingService) ListBookings(ctx context.Context, filter repository.BookingFilter, limit, offset int) (*dto.ListBookingsResponse, error) {
	if m.ListBookingsFunc != nil {
		return m.ListBookingsFunc(ctx, filter, limit, offset)
	}
	return &dto.ListBookingsResponse{}, nil
}

// identityMiddleware injects a fixed caller identity the way the auth
// middleware would after validating a token.
func identityMiddleware(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.UserIDKey, userID)
			c.Set(middleware.UserRoleKey, role)
		}
		c.Next()
	}
}

func setupBookingRouter(h *BookingHandler, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(identityMiddleware(userID, role))
	h.RegisterRoutes(api)
	return router
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validCreateRequest() *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		Kind: "hotel",
		Hotel: &dto.HotelDetailRequest{
			HotelID:  "h1",
			RoomID:   "r1",
			CheckIn:  time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC),
			CheckOut: time.Date(2026, 9, 3, 11, 0, 0, 0, time.UTC),
			Guests:   2,
		},
		Payment: dto.PaymentRequest{
			Method: "card",
			Amount: 223,
		},
	}
}

func TestCreateBooking(t *testing.T) {
	var gotOwner string
	reservations := &MockReservationService{
		CreateBookingFunc: func(ctx context.Context, ownerID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
			gotOwner = ownerID
			return &dto.BookingResponse{ID: "b1", Status: "pending"}, nil
		},
	}
	h := NewBookingHandler(reservations, &MockBookingService{})
	router := setupBookingRouter(h, "u1", "customer")

	w := performRequest(router, http.MethodPost, "/api/v1/bookings", validCreateRequest())

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}
	if gotOwner != "u1" {
		t.Errorf("ownerID = %s, want u1", gotOwner)
	}

	var resp dto.BookingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.ID != "b1" {
		t.Errorf("booking ID = %s, want b1", resp.ID)
	}
}

func TestCreateBooking_Unauthorized(t *testing.T) {
	h := NewBookingHandler(&MockReservationService{}, &MockBookingService{})
	router := setupBookingRouter(h, "", "")

	w := performRequest(router, http.MethodPost, "/api/v1/bookings", validCreateRequest())

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCreateBooking_InvalidBody(t *testing.T) {
	h := NewBookingHandler(&MockReservationService{}, &MockBookingService{})
	router := setupBookingRouter(h, "u1", "customer")

	// kind is required, so an empty object fails binding
	w := performRequest(router, http.MethodPost, "/api/v1/bookings", map[string]string{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Code != "VALIDATION_FAILED" {
		t.Errorf("code = %s, want VALIDATION_FAILED", resp.Code)
	}
}

func TestCreateBooking_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"insufficient rooms", domain.ErrInsufficientRooms, http.StatusConflict, "INSUFFICIENT_ROOMS"},
		{"spot unavailable", domain.ErrSpotUnavailable, http.StatusConflict, "SPOT_UNAVAILABLE"},
		{"spot conflict", domain.ErrSpotConflict, http.StatusConflict, "CONFLICT"},
		{"payment mismatch", domain.ErrPaymentAmountMismatch, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"room not found", domain.ErrRoomNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"deadline exceeded", context.DeadlineExceeded, http.StatusRequestTimeout, "DEADLINE_EXCEEDED"},
		{"transient store failure", domain.Retryable(errors.New("connection refused")), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservations := &MockReservationService{
				CreateBookingFunc: func(ctx context.Context, ownerID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
					return nil, tt.err
				},
			}
			h := NewBookingHandler(reservations, &MockBookingService{})
			router := setupBookingRouter(h, "u1", "customer")

			w := performRequest(router, http.MethodPost, "/api/v1/bookings", validCreateRequest())

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp dto.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestGetBooking(t *testing.T) {
	bookings := &MockBookingService{
		GetBookingFunc: func(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error) {
			if bookingID != "b1" || ownerID != "u1" {
				t.Errorf("GetBooking(%s, %s), want (b1, u1)", bookingID, ownerID)
			}
			return &dto.BookingResponse{ID: "b1"}, nil
		},
	}
	h := NewBookingHandler(&MockReservationService{}, bookings)
	router := setupBookingRouter(h, "u1", "customer")

	w := performRequest(router, http.MethodGet, "/api/v1/bookings/b1", nil)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestGetBooking_AdminBypassesOwnership(t *testing.T) {
	var gotOwner string
	bookings := &MockBookingService{
		GetBookingFunc: func(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error) {
			gotOwner = ownerID
			return &dto.BookingResponse{ID: bookingID}, nil
		},
	}
	h := NewBookingHandler(&MockReservationService{}, bookings)
	router := setupBookingRouter(h, "admin-1", middleware.RoleAdmin)

	w := performRequest(router, http.MethodGet, "/api/v1/bookings/b1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotOwner != "" {
		t.Errorf("ownerID = %q, want empty for admin", gotOwner)
	}
}

func TestGetBooking_NotFound(t *testing.T) {
	bookings := &MockBookingService{
		GetBookingFunc: func(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error) {
			return nil, domain.ErrBookingNotFound
		},
	}
	h := NewBookingHandler(&MockReservationService{}, bookings)
	router := setupBookingRouter(h, "u1", "customer")

	w := performRequest(router, http.MethodGet, "/api/v1/bookings/missing", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestConfirmBooking_InvalidTransition(t *testing.T) {
	bookings := &MockBookingService{
		ConfirmBookingFunc: func(ctx context.Context, bookingID, ownerID string) (*dto.BookingResponse, error) {
			return nil, domain.ErrInvalidTransition
		},
	}
	h := NewBookingHandler(&MockReservationService{}, bookings)
	router := setupBookingRouter(h, "u1", "customer")

	w := performRequest(router, http.MethodPost, "/api/v1/bookings/b1/confirm", nil)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Code != "INVALID_TRANSITION" {
		t.Errorf("code = %s, want INVALID_TRANSITION", resp.Code)
	}
}

func TestCancelBooking_PassesReason(t *testing.T) {
	var gotReason string
	bookings := &MockBookingService{
		CancelBookingFunc: func(ctx context.Context, bookingID, ownerID string, req *dto.CancelBookingRequest) (*dto.BookingResponse, error) {
			gotReason = req.Reason
			return &dto.BookingResponse{ID: bookingID, Status: "cancelled"}, nil
		},
	}
	h := NewBookingHandler(&MockReservationService{}, bookings)
	router := setupBookingRouter(h, "u1", "customer")

	w := performRequest(router, http.MethodPost, "/api/v1/bookings/b1/cancel", dto.CancelBookingRequest{Reason: "change of plans"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotReason != "change of plans" {
		t.Errorf("reason = %q, want %q", gotReason, "change of plans")
	}
}

func TestRefundBooking_RequiresPositiveAmount(t *testing.T) {
	h := NewBookingHandler(&MockReservationService{}, &MockBookingService{})
	router := setupBookingRouter(h, "u1", "customer")

	w := performRequest(router, http.MethodPost, "/api/v1/bookings/b1/refund", dto.RefundBookingRequest{Amount: 0})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListBookings_Pagination(t *testing.T) {
	var gotLimit, gotOffset int
	var gotFilter repository.BookingFilter
	bookings := &MockBookingService{
		ListBookingsFunc: func(ctx context.Context, filter repository.BookingFilter, limit, offset int) (*dto.ListBookingsResponse, error) {
			gotFilter = filter
			gotLimit = limit
			gotOffset = offset
			return &dto.ListBookingsResponse{Limit: limit, Offset: offset}, nil
		},
	}
	h := NewBookingHandler(&MockReservationService{}, bookings)
	router := setupBookingRouter(h, "u1", "customer")

	w := performRequest(router, http.MethodGet, "/api/v1/bookings?limit=50&offset=10&status=confirmed", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotLimit != 50 || gotOffset != 10 {
		t.Errorf("limit, offset = %d, %d, want 50, 10", gotLimit, gotOffset)
	}
	if gotFilter.OwnerID != "u1" {
		t.Errorf("filter owner = %s, want u1", gotFilter.OwnerID)
	}
	if gotFilter.Status != domain.BookingStatusConfirmed {
		t.Errorf("filter status = %s, want confirmed", gotFilter.Status)
	}
}
