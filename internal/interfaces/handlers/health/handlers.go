package health

import (
	"time"

	healthsvc "unimarket-backend/internal/application/health"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers serves the health endpoint.
type Handlers struct {
	Rdb       *redis.Client
	DB        healthsvc.DBPinger
	StartedAt time.Time
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	res := healthsvc.Collect(c.Context(), h.Rdb, h.DB, h.StartedAt)
	return c.JSON(res)
}
