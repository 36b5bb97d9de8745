package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/exercisetracker/internal/auth"
	"github.com/yourorg/exercisetracker/internal/debug"
	"github.com/yourorg/exercisetracker/internal/handlers"
	"github.com/yourorg/exercisetracker/internal/middleware"
	"github.com/yourorg/exercisetracker/internal/models"
)

// Deps agrupa lo que Register monta
type Deps struct {
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
	Variant auth.Variant
	// RegisterRateLimitMax limita POST /users por IP por minuto; 0 lo desactiva.
	RegisterRateLimitMax int
	// Hub es nil cuando el dashboard de debug está apagado.
	Hub *debug.Hub
}

// Register monta la API de la variante de auth configurada y luego el
// fallback 404. Debe llamarse después de instalar el middleware del servidor.
func Register(app *fiber.App, d Deps) {
	// ============================================================================
	// API PÚBLICA
	// ============================================================================
	api := app.Group("/api/v1")

	api.Get("/health", d.Health.Health)

	// Registro (con rate limiting estricto)
	api.Post("/users", middleware.RegisterRateLimiter(d.RegisterRateLimitMax), d.Handler.Register)

	switch d.Variant {
	case auth.VariantPath:
		api.Post("/users/:userId/exercises", d.Handler.CreateExercise)
		api.Get("/users/:userId/exercises", d.Handler.QueryExercises)
	default:
		api.Post("/users/exercises", d.Handler.CreateExercise)
		api.Get("/users/exercises", d.Handler.QueryExercises)
	}

	// ============================================================================
	// DEBUG DASHBOARD WEBSOCKET
	// ============================================================================
	if d.Hub != nil {
		app.Use("/ws/debug", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws/debug", websocket.New(d.Hub.Handle))
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(models.MessageResponse{Msg: "Resource not found"})
	})
}
