package routes

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/exercisetracker/internal/auth"
	appdb "github.com/yourorg/exercisetracker/internal/db"
	"github.com/yourorg/exercisetracker/internal/debug"
	"github.com/yourorg/exercisetracker/internal/handlers"
	"github.com/yourorg/exercisetracker/internal/repository"
)

func newRoutedApp(t *testing.T, variant auth.Variant, registerMax int, hub *debug.Hub) *fiber.App {
	t.Helper()
	conn, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	users := repository.NewUserRepository(conn, appdb.MySQL)
	exercises := repository.NewExerciseRepository(conn, appdb.MySQL)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	strategy := auth.NewStrategy(string(variant), users, hasher)

	app := fiber.New()
	Register(app, Deps{
		Handler:              handlers.New(users, exercises, hasher, strategy, handlers.Options{}),
		Health:               handlers.NewHealthHandler(nil, string(variant), nil),
		Variant:              variant,
		RegisterRateLimitMax: registerMax,
		Hub:                  hub,
	})
	return app
}

func status(t *testing.T, app *fiber.App, method, target string) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp.StatusCode
}

func TestFallbackNotFound(t *testing.T) {
	app := newRoutedApp(t, auth.VariantHeader, 0, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/nope", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("Expected 404, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["msg"] != "Resource not found" {
		t.Errorf("Unexpected body %v", body)
	}
}

func TestOnlyActiveVariantIsMounted(t *testing.T) {
	header := newRoutedApp(t, auth.VariantHeader, 0, nil)
	if got := status(t, header, "GET", "/api/v1/users/7/exercises"); got != fiber.StatusNotFound {
		t.Errorf("header variant: expected path route to be missing, got %d", got)
	}
	// No Authorization header: the route exists and rejects the request.
	if got := status(t, header, "GET", "/api/v1/users/exercises"); got != fiber.StatusBadRequest {
		t.Errorf("header variant: expected 400, got %d", got)
	}

	path := newRoutedApp(t, auth.VariantPath, 0, nil)
	if got := status(t, path, "GET", "/api/v1/users/abc/exercises"); got != fiber.StatusUnprocessableEntity {
		t.Errorf("path variant: expected 422 for bad id, got %d", got)
	}
}

func TestRegisterRateLimit(t *testing.T) {
	app := newRoutedApp(t, auth.VariantHeader, 1, nil)

	// An empty body is rejected without touching the store.
	if got := status(t, app, "POST", "/api/v1/users"); got != fiber.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", got)
	}
	if got := status(t, app, "POST", "/api/v1/users"); got != fiber.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", got)
	}
}

func TestDebugSocketRequiresUpgrade(t *testing.T) {
	hub := debug.NewHub()
	defer hub.Close()

	app := newRoutedApp(t, auth.VariantHeader, 0, hub)
	if got := status(t, app, "GET", "/ws/debug"); got != fiber.StatusUpgradeRequired {
		t.Errorf("Expected 426, got %d", got)
	}

	off := newRoutedApp(t, auth.VariantHeader, 0, nil)
	if got := status(t, off, "GET", "/ws/debug"); got != fiber.StatusNotFound {
		t.Errorf("Expected 404 when dashboard is off, got %d", got)
	}
}
