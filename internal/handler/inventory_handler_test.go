package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/dto"
)

// MockInventoryService is a mock implementation of InventoryService for testing
type MockInventoryService struct {
	UpsertRoomFunc           func(ctx context.Context, req *dto.UpsertRoomRequest) (*dto.RoomAvailabilityResponse, error)
	GetRoomAvailabilityFunc  func(ctx context.Context, hotelID, roomID string) (*dto.RoomAvailabilityResponse, error)
	ListRoomAvailabilityFunc func(ctx context.Context, hotelID string) ([]*dto.RoomAvailabilityResponse, error)
	UpsertSpotFunc           func(ctx context.Context, req *dto.UpsertSpotRequest) (*dto.SpotAvailabilityResponse, error)
	GetSpotAvailabilityFunc  func(ctx context.Context, lotID, spotID string) (*dto.SpotAvailabilityResponse, error)
	ListSpotAvailabilityFunc func(ctx context.Context, lotID string) ([]*dto.SpotAvailabilityResponse, error)
}

func (m *MockInventoryService) UpsertRoom(ctx context.Context, req *dto.UpsertRoomRequest) (*dto.RoomAvailabilityResponse, error) {
	if m.UpsertRoomFunc != nil {
		return m.UpsertRoomFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockInventoryService) GetRoomAvailability(ctx context.Context, hotelID, roomID string) (*dto.RoomAvailabilityResponse, error) {
	if m.GetRoomAvailabilityFunc != nil {
		return m.GetRoomAvailabilityFunc(ctx, hotelID, roomID)
	}
	return nil, nil
}

func (m *MockInventoryService) ListRoomAvailability(ctx context.Context, hotelID string) ([]*dto.RoomAvailabilityResponse, error) {
	if m.ListRoomAvailabilityFunc != nil {
		return m.ListRoomAvailabilityFunc(ctx, hotelID)
	}
	return nil, nil
}

func (m *MockInventoryService) UpsertSpot(ctx context.Context, req *dto.UpsertSpotRequest) (*dto.SpotAvailabilityResponse, error) {
	if m.UpsertSpotFunc != nil {
		return m.UpsertSpotFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockInventoryService) GetSpotAvailability(ctx context.Context, lotID, spotID string) (*dto.SpotAvailabilityResponse, error) {
	if m.GetSpotAvailabilityFunc != nil {
		return m.GetSpotAvailabilityFunc(ctx, lotID, spotID)
	}
	return nil, nil
}

func (m *MockInventoryService) ListSpotAvailability(ctx context.Context, lotID string) ([]*dto.SpotAvailabilityResponse, error) {
	if m.ListSpotAvailabilityFunc != nil {
		return m.ListSpotAvailabilityFunc(ctx, lotID)
	}
	return nil, nil
}

func setupInventoryRouter(svc *MockInventoryService, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(identityMiddleware(userID, role))
	NewInventoryHandler(svc).RegisterRoutes(api)
	return router
}

func TestUpsertRoom_AdminOnly(t *testing.T) {
	called := false
	svc := &MockInventoryService{
		UpsertRoomFunc: func(ctx context.Context, req *dto.UpsertRoomRequest) (*dto.RoomAvailabilityResponse, error) {
			called = true
			return &dto.RoomAvailabilityResponse{HotelID: req.HotelID, RoomID: req.RoomID}, nil
		},
	}
	body := dto.UpsertRoomRequest{
		Type:          "deluxe",
		PricePerNight: 100,
		Capacity:      2,
		TotalCount:    5,
	}

	// non-admin rejected before the service runs
	router := setupInventoryRouter(svc, "u1", "customer")
	w := performRequest(router, http.MethodPut, "/api/v1/hotels/h1/rooms/r1", body)
	if w.Code != http.StatusForbidden {
		t.Errorf("customer status = %d, want 403", w.Code)
	}
	if called {
		t.Error("service called for non-admin request")
	}

	// admin accepted, IDs taken from the path
	router = setupInventoryRouter(svc, "admin-1", "admin")
	w = performRequest(router, http.MethodPut, "/api/v1/hotels/h1/rooms/r1", body)
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp dto.RoomAvailabilityResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.HotelID != "h1" || resp.RoomID != "r1" {
		t.Errorf("ids = %s/%s, want h1/r1", resp.HotelID, resp.RoomID)
	}
}

func TestGetRoomAvailability_NotFound(t *testing.T) {
	svc := &MockInventoryService{
		GetRoomAvailabilityFunc: func(ctx context.Context, hotelID, roomID string) (*dto.RoomAvailabilityResponse, error) {
			return nil, domain.ErrRoomNotFound
		},
	}
	router := setupInventoryRouter(svc, "u1", "customer")

	w := performRequest(router, http.MethodGet, "/api/v1/hotels/h1/rooms/missing", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListSpotAvailability(t *testing.T) {
	svc := &MockInventoryService{
		ListSpotAvailabilityFunc: func(ctx context.Context, lotID string) ([]*dto.SpotAvailabilityResponse, error) {
			return []*dto.SpotAvailabilityResponse{
				{LotID: lotID, SpotID: "s1", Free: true},
				{LotID: lotID, SpotID: "s2", Free: false},
			}, nil
		},
	}
	router := setupInventoryRouter(svc, "u1", "customer")

	w := performRequest(router, http.MethodGet, "/api/v1/lots/l1/spots", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp []*dto.SpotAvailabilityResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("len = %d, want 2", len(resp))
	}
}
