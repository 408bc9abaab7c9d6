package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/database"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/redisclient"
)

// probeTimeout bounds each dependency check so a hung pool cannot
// stall the readiness endpoint.
const probeTimeout = 5 * time.Second

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db    *database.PostgresDB
	redis *redisclient.Client
}

// NewHealthHandler creates a new HealthHandler. Either dependency may be
// nil when the process runs against in-memory stores.
func NewHealthHandler(db *database.PostgresDB, redis *redisclient.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

type componentStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readyResponse struct {
	Status     string            `json:"status"`
	CheckedAt  time.Time         `json:"checked_at"`
	Components []componentStatus `json:"components"`
}

// Health is the liveness probe. It answers as long as the process is up.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"checked_at": time.Now().UTC(),
	})
}

// Ready is the readiness probe. It pings every configured backing store
// and reports 503 if any of them fails.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	checks := []struct {
		name string
		ping func(context.Context) error
	}{
		{"postgres", nil},
		{"redis", nil},
	}
	if h.db != nil {
		checks[0].ping = h.db.HealthCheck
	}
	if h.redis != nil {
		checks[1].ping = h.redis.HealthCheck
	}

	resp := readyResponse{Status: "ready", CheckedAt: time.Now().UTC()}
	status := http.StatusOK

	for _, chk := range checks {
		cs := componentStatus{Name: chk.name, Status: "up"}
		if chk.ping == nil {
			cs.Status = "disabled"
		} else if err := chk.ping(ctx); err != nil {
			cs.Status = "down"
			cs.Error = err.Error()
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
		}
		resp.Components = append(resp.Components, cs)
	}

	c.JSON(status, resp)
}
