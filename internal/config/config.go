package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	VariantHeader = "header"
	VariantPath   = "path"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DB holds the store connection parameters.
type DB struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Pass            string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SkipSchema      bool
}

// Config is everything the server needs at startup. It is built once in main
// and passed down explicitly.
type Config struct {
	Port                 string
	AuthVariant          string
	DB                   DB
	BcryptCost           int
	RateLimitMax         int
	RegisterRateLimitMax int
	UserCacheTTL         time.Duration
	LegacyErrorKey       bool
	DebugDashboard       bool
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() Config {
	driver := strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverMySQL))
	defaultPort := "3306"
	if driver == DriverPostgres {
		defaultPort = "5432"
	}

	return Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		AuthVariant: strings.ToLower(getEnvOrDefault("AUTH_VARIANT", VariantHeader)),
		DB: DB{
			Driver:          driver,
			Host:            getEnvOrDefault("DB_HOST", "127.0.0.1"),
			Port:            getEnvOrDefault("DB_PORT", defaultPort),
			User:            os.Getenv("DB_USER"),
			Pass:            os.Getenv("DB_PASS"),
			Name:            getEnvOrDefault("DB_NAME", "exercisetracker"),
			SSLMode:         getEnvOrDefault("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntEnvOrDefault("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnvOrDefault("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: time.Duration(getIntEnvOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 3)) * time.Minute,
			SkipSchema:      getBoolEnv("DB_SKIP_SCHEMA"),
		},
		BcryptCost:           getIntEnvOrDefault("BCRYPT_COST", 10),
		RateLimitMax:         getNonNegativeIntEnv("RATE_LIMIT_MAX", 200),
		RegisterRateLimitMax: getNonNegativeIntEnv("REGISTER_RATE_LIMIT_MAX", 10),
		UserCacheTTL:         getDurationEnvOrDefault("USER_CACHE_TTL", 5*time.Minute),
		LegacyErrorKey:       getBoolEnv("API_LEGACY_ERROR_KEY"),
		DebugDashboard:       getBoolEnv("DEBUG_DASHBOARD"),
	}
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch c.AuthVariant {
	case VariantHeader, VariantPath:
	default:
		return fmt.Errorf("AUTH_VARIANT must be %q or %q, got %q", VariantHeader, VariantPath, c.AuthVariant)
	}
	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverMySQL, DriverPostgres, c.DB.Driver)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}

// DSN returns the driver-specific connection string.
func (d DB) DSN() string {
	if d.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Pass, d.Name, d.SSLMode)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4,utf8", d.User, d.Pass, d.Host, d.Port, d.Name)
}

func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Printf("invalid %s=%q, using default %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

// getNonNegativeIntEnv accepts 0, which callers treat as "disabled".
func getNonNegativeIntEnv(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		log.Printf("invalid %s=%q, using default %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	dur, err := time.ParseDuration(raw)
	if err != nil || dur < 0 {
		log.Printf("invalid %s=%q, using default %s", key, raw, defaultValue)
		return defaultValue
	}
	return dur
}

func getBoolEnv(key string) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	return strings.EqualFold(raw, "true") || raw == "1"
}
