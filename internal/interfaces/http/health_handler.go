package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck comprueba una dependencia externa (base, redis). nil si no hay nada que chequear.
type HealthCheck func(ctx context.Context) error

// HealthHandler responde el estado del servicio y de sus dependencias.
type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler construye el handler. checks puede ser nil.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	out := fiber.Map{"status": "ok"}
	status := fiber.StatusOK
	for name, check := range h.checks {
		if check == nil {
			continue
		}
		if err := check(ctx); err != nil {
			out[name] = err.Error()
			out["status"] = "degraded"
			status = fiber.StatusServiceUnavailable
			continue
		}
		out[name] = "ok"
	}
	return c.Status(status).JSON(out)
}
