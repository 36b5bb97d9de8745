package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// ============================================================================
// RATE LIMITING MIDDLEWARE
// ============================================================================
// Protege el backend contra abuso. Límites por IP con ventana deslizante.

// RateLimiter limita cada IP a max requests por ventana.
// max == 0 desactiva el limitador.
func RateLimiter(max int, window time.Duration, message string) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       message,
				"retry_after": int(window.Seconds()),
			})
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}

// GlobalRateLimiter - Limitador general para todos los endpoints
func GlobalRateLimiter(max int) fiber.Handler {
	return RateLimiter(max, time.Minute, "Too many requests. Please try again in 1 minute.")
}

// RegisterRateLimiter - Limitador para el registro de usuarios (registros masivos)
func RegisterRateLimiter(max int) fiber.Handler {
	return RateLimiter(max, time.Minute, "Too many registration attempts. Please try again in 1 minute.")
}
