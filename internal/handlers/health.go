package handlers

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/exercisetracker/internal/cache"
)

// HealthResponse representa el estado de salud del sistema
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	UserCache *cache.Stats      `json:"user_cache,omitempty"`
	Variant   string            `json:"auth_variant"`
	Version   string            `json:"version,omitempty"`
}

// Pinger lo implementa *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reporta si la base de datos responde
type HealthHandler struct {
	db         Pinger
	variant    string
	cacheStats func() cache.Stats
}

// NewHealthHandler crea el handler. cacheStats puede ser nil si no hay caché
// de usuarios.
func NewHealthHandler(db Pinger, variant string, cacheStats func() cache.Stats) *HealthHandler {
	return &HealthHandler{db: db, variant: variant, cacheStats: cacheStats}
}

// Health proporciona un health check del sistema (GET /api/v1/health)
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	services := make(map[string]string)
	overall := "healthy"

	// ============================================================================
	// CHECK: Base de Datos
	// ============================================================================
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			log.Printf("request_id=%s health: database ping: %v", requestID(c), err)
			services["database"] = "unhealthy"
			overall = "degraded"
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "not_initialized"
		overall = "degraded"
	}

	resp := HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
		Services:  services,
		Variant:   h.variant,
		Version:   os.Getenv("APP_VERSION"),
	}
	if h.cacheStats != nil {
		stats := h.cacheStats()
		resp.UserCache = &stats
	}

	statusCode := fiber.StatusOK
	if overall == "degraded" {
		statusCode = fiber.StatusServiceUnavailable
	}
	return c.Status(statusCode).JSON(resp)
}
