package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/database"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is anything whose liveness can be probed
type Pinger interface {
	Ping(ctx context.Context) error
}

// poolReporter is implemented by stores backed by a connection pool
type poolReporter interface {
	PoolStats() database.PoolStats
}

// HealthHandler reports liveness of the service and its store
type HealthHandler struct {
	store  Pinger
	logger coreport.Logger
}

// NewHealthHandler creates a health handler. A nil store is reported as "memory".
func NewHealthHandler(store Pinger, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Database: "memory"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "unreachable"})
		return
	}
	resp := dto.HealthResponse{Status: "ok", Database: "ok"}
	if r, ok := h.store.(poolReporter); ok {
		resp.Pool = r.PoolStats()
	}
	c.JSON(http.StatusOK, resp)
}
