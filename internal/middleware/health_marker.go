package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Redis keys for request stats, read back by the health handlers.
const (
	KeyReqTotal  = "health:global:req_total"
	KeyReqErrors = "health:global:req_errors"
	KeyResTime   = "health:global:res_time_total"
	KeyResCount  = "health:global:res_count"
	KeyStartTime = "health:global:start_time"
)

// HealthMarker records request stats in Redis (skips /health* and favicon).
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		ctx := context.Background()
		rdb.Incr(ctx, KeyReqTotal)
		rdb.IncrBy(ctx, KeyResTime, time.Since(start).Milliseconds())
		rdb.Incr(ctx, KeyResCount)
		if err != nil || c.Response().StatusCode() >= 400 {
			rdb.Incr(ctx, KeyReqErrors)
		}
		return err
	}
}
