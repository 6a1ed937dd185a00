package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/stop-registry/internal/config"
	"github.com/stop-registry/internal/pkg/errors"
	"github.com/stop-registry/internal/pkg/utils"
)

// RateLimiter - ограничение числа запросов с одного IP
func RateLimiter(cfg config.RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.SendError(c, errors.ErrTooManyRequests.WithDetails(map[string]interface{}{
				"retry_after": int(cfg.Expiration / time.Second),
			}))
		},
	})
}
