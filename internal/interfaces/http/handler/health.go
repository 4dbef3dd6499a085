package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/erp/salesledger/internal/infrastructure/event"
	"github.com/erp/salesledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const readinessTimeout = 2 * time.Second

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	db          *gorm.DB
	redis       *redis.Client
	idempotency *event.IdempotencyMetrics
	version     string
}

// NewHealthHandler creates a new HealthHandler. redis and idempotency may be nil.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, idempotency *event.IdempotencyMetrics, version string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redis:       redisClient,
		idempotency: idempotency,
		version:     version,
	}
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ReadyResponse reports each dependency's state
type ReadyResponse struct {
	Status      string                  `json:"status"`
	Checks      map[string]string       `json:"checks"`
	Idempotency *event.IdempotencyStats `json:"idempotency,omitempty"`
}

// Health godoc
// @ID           health
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{Status: "ok", Version: h.version})
}

// Ready godoc
// @ID           ready
// @Summary      Readiness probe
// @Description  Pings the database and, when configured, redis.
// @Tags         health
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Checks: map[string]string{}}
	resp.Checks["database"] = h.pingDB(ctx)
	if h.redis != nil {
		resp.Checks["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			// the service degrades without redis, it does not stop
			resp.Checks["redis"] = "degraded: " + err.Error()
		}
	}
	if h.idempotency != nil {
		stats := h.idempotency.Stats()
		resp.Idempotency = &stats
	}

	if resp.Checks["database"] != "ok" {
		resp.Status = "unavailable"
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp, Error: &dto.ErrorInfo{
			Code:    dto.ErrCodeServiceUnavailable,
			Message: "Database is unreachable",
		}})
		return
	}
	h.Success(c, resp)
}

func (h *HealthHandler) pingDB(ctx context.Context) string {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err.Error()
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
