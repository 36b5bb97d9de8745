package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LogSink recibe una entrada por request
type LogSink interface {
	SendLog(level, message string, metadata map[string]any)
}

// DashboardLogger middleware para enviar logs al dashboard en tiempo real
func DashboardLogger(sink LogSink) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		// Si hay error, el ErrorHandler todavía no escribe la respuesta
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		level := "info"
		if status >= 500 {
			level = "error"
		} else if status >= 400 {
			level = "warn"
		}

		metadata := map[string]any{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"ip":          c.IP(),
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			metadata["request_id"] = rid
		}
		if err != nil {
			metadata["error"] = err.Error()
		}

		sink.SendLog(level, fmt.Sprintf("%s %s", c.Method(), c.Path()), metadata)
		return err
	}
}
