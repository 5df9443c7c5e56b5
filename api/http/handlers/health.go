package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/contacts/api/http/presenter"
	"github.com/artem13815/contacts/pkg/health"
)

// HealthHandler serves the banner, liveness and readiness probes.
type HealthHandler struct {
	svc   health.ReadinessUseCase
	store string
	port  string
}

func NewHealthHandler(svc health.ReadinessUseCase, store, port string) *HealthHandler {
	return &HealthHandler{svc: svc, store: store, port: port}
}

// Root answers plain text so a browser hit shows the service is up.
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.SendString(fmt.Sprintf("API is running on port %s", h.port))
}

// Health: basic liveness check.
// @Summary Liveness probe
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]string
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{"status": "ok", "store": h.store})
}

// Ready: readiness check against the configured store.
// @Summary Readiness probe
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.svc.Ready(ctx); err != nil {
		return presenter.JSON(c, http.StatusServiceUnavailable, fiber.Map{
			"status":  "not_ready",
			"details": err.Error(),
		})
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"status": "ready"})
}
