package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/exercisetracker/internal/auth"
	"github.com/yourorg/exercisetracker/internal/config"
	appdb "github.com/yourorg/exercisetracker/internal/db"
	"github.com/yourorg/exercisetracker/internal/repository"
	"github.com/yourorg/exercisetracker/internal/validation"
)

func main() {
	cfg := config.Load()
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== Exercise Tracker CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Migrate schema")
		fmt.Println("3) Seed database (create sample user)")
		fmt.Println("4) Exit")
		fmt.Print("Select option: ")
		choice, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("Bye")
			return
		}
		switch strings.TrimSpace(choice) {
		case "1":
			doHealthCheck()
		case "2":
			doMigrate(cfg)
		case "3":
			doSeed(cfg)
		case "4":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func doHealthCheck() {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	url := strings.TrimRight(base, "/") + "/api/v1/health"

	code, body, errs := fiber.Get(url).Timeout(5 * time.Second).Bytes()
	if len(errs) > 0 {
		fmt.Println("Health: ERROR:", errors.Join(errs...))
		return
	}
	fmt.Printf("Health status: %d %s\n", code, body)
}

func doMigrate(cfg config.Config) {
	conn, dialect, err := appdb.Connect(cfg.DB)
	if err != nil {
		log.Println("DB connect error:", err)
		return
	}
	defer conn.Close()
	if err := appdb.EnsureSchema(conn, dialect, false); err != nil {
		log.Println("Ensure schema error:", err)
		return
	}
	fmt.Printf("Migrate: schema ready on %s\n", dialect)
}

func doSeed(cfg config.Config) {
	conn, dialect, err := appdb.Connect(cfg.DB)
	if err != nil {
		log.Println("DB connect error:", err)
		return
	}
	defer conn.Close()
	if err := appdb.EnsureSchema(conn, dialect, cfg.DB.SkipSchema); err != nil {
		log.Println("Ensure schema error:", err)
		return
	}

	username := validation.Normalize("demo")
	password := validation.Normalize("demo1234")
	hash, err := auth.NewBcryptHasher(cfg.BcryptCost).Hash(password)
	if err != nil {
		fmt.Println("Seed: bcrypt error:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := repository.NewUserRepository(conn, dialect).Create(ctx, username, &hash)
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		fmt.Printf("Seed: user '%s' already exists\n", username)
	case err != nil:
		fmt.Println("Seed: insert error:", err)
	default:
		fmt.Printf("Seed: created user '%s' (id %d) with password '%s'\n", user.Username, user.ID, password)
	}
}
