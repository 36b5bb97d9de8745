package server

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/yourorg/exercisetracker/internal/config"
	"github.com/yourorg/exercisetracker/internal/debug"
	"github.com/yourorg/exercisetracker/internal/middleware"
	"github.com/yourorg/exercisetracker/internal/models"
)

const accessLogFormat = "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n"

// New crea la app fiber con la cadena de middleware compartida:
// recover, request id, access log (y feed al dashboard), rate limit global.
// Las rutas se montan aparte. hub puede ser nil.
func New(cfg config.Config, hub *debug.Hub) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "exercisetracker",
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{Format: accessLogFormat}))
	if hub != nil {
		app.Use(middleware.DashboardLogger(hub))
	}
	app.Use(middleware.GlobalRateLimiter(cfg.RateLimitMax))

	return app
}

// ErrorHandler responde en JSON los errores que escapan de un handler
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		log.Printf("request_id=%v unhandled error: %v", c.Locals("requestid"), err)
	}
	return c.Status(code).JSON(models.ErrorResponse{Error: msg})
}
