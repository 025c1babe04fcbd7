package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"skillswap/internal/config"
	"skillswap/internal/pkg/response"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        *gorm.DB
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startedAt: time.Now(),
	}
}

// Health returns liveness info
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return response.Success(c, "Service is healthy", fiber.Map{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Ready returns readiness info including the database ping
// @Summary Readiness check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if err := config.HealthCheck(h.db); err != nil {
		return response.ServiceUnavailable(c, "Database is unreachable")
	}

	return response.Success(c, "Service is ready", fiber.Map{
		"status":   "ok",
		"database": "up",
	})
}
