package main

import (
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourorg/exercisetracker/internal/auth"
	"github.com/yourorg/exercisetracker/internal/cache"
	"github.com/yourorg/exercisetracker/internal/config"
	appdb "github.com/yourorg/exercisetracker/internal/db"
	"github.com/yourorg/exercisetracker/internal/debug"
	"github.com/yourorg/exercisetracker/internal/handlers"
	"github.com/yourorg/exercisetracker/internal/models"
	"github.com/yourorg/exercisetracker/internal/repository"
	"github.com/yourorg/exercisetracker/internal/routes"
	"github.com/yourorg/exercisetracker/internal/server"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, dialect := connectWithRetry(cfg.DB)
	defer conn.Close()
	if err := appdb.EnsureSchema(conn, dialect, cfg.DB.SkipSchema); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	users := repository.NewUserRepository(conn, dialect)
	exercises := repository.NewExerciseRepository(conn, dialect)

	userCache := cache.NewCache[models.User](cfg.UserCacheTTL, time.Minute)
	defer userCache.Stop()
	cachedUsers := repository.NewCachedUsers(users, userCache)

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	strategy := auth.NewStrategy(cfg.AuthVariant, cachedUsers, hasher)

	var hub *debug.Hub
	if cfg.DebugDashboard {
		hub = debug.NewHub()
		defer hub.Close()
		log.Println("debug dashboard enabled at /ws/debug")
	}

	app := server.New(cfg, hub)
	routes.Register(app, routes.Deps{
		Handler:              handlers.New(users, exercises, hasher, strategy, handlers.Options{LegacyErrorKey: cfg.LegacyErrorKey}),
		Health:               handlers.NewHealthHandler(conn, cfg.AuthVariant, cachedUsers.Stats),
		Variant:              strategy.Variant(),
		RegisterRateLimitMax: cfg.RegisterRateLimitMax,
		Hub:                  hub,
	})

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("shutdown signal received, closing server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("exercise tracker listening on :%s (auth variant %s, %s store)", cfg.Port, cfg.AuthVariant, dialect)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
	log.Println("server closed")
}

// connectWithRetry espera a la base de datos, que puede levantar después del servidor
func connectWithRetry(cfg config.DB) (*sql.DB, appdb.Dialect) {
	const attempts = 10
	for i := 1; ; i++ {
		conn, dialect, err := appdb.Connect(cfg)
		if err == nil {
			log.Printf("database ready (%s at %s:%s)", dialect, cfg.Host, cfg.Port)
			return conn, dialect
		}
		if i == attempts {
			log.Fatalf("db connect: %v (giving up after %d attempts)", err, attempts)
		}
		log.Printf("db connect error: %v (retrying in 5s)", err)
		time.Sleep(5 * time.Second)
	}
}
