package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/dto"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/logger"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/utils"
)

const healthTimeout = 2 * time.Second

// Pinger is anything that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and dependency health.
type HealthHandler struct {
	store Pinger
	redis Pinger
	log   *logger.Logger
}

// NewHealthHandler creates the handler. redis may be nil.
func NewHealthHandler(store, redis Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{store: store, redis: redis, log: log}
}

// GET /ping
func (h *HealthHandler) Ping(c *gin.Context) {
	utils.SuccessResponse(c, dto.PingResponse{Message: "pong"})
}

// GET /healthz
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Store: "ok"}

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("store health check failed", "error", err)
		resp.Status, resp.Store = "degraded", "unreachable"
	}

	if h.redis != nil {
		resp.Redis = "ok"
		if err := h.redis.Ping(ctx); err != nil {
			h.log.Warn("redis health check failed", "error", err)
			resp.Status, resp.Redis = "degraded", "unreachable"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}
