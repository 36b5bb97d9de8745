package db

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/yourorg/exercisetracker/internal/config"
)

// Dialect covers the few places where MySQL and Postgres SQL differ.
type Dialect string

const (
	MySQL    Dialect = config.DriverMySQL
	Postgres Dialect = config.DriverPostgres
)

// Rebind rewrites ? placeholders into the dialect's bind style.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UsesReturning reports whether inserted ids come back through RETURNING
// instead of LastInsertId.
func (d Dialect) UsesReturning() bool {
	return d == Postgres
}

// Connect opens the pool described by cfg.
func Connect(cfg config.DB) (*sql.DB, Dialect, error) {
	conn, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, "", fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return conn, Dialect(cfg.Driver), nil
}

// EnsureSchema creates required tables if not exist.
func EnsureSchema(conn *sql.DB, d Dialect, skip bool) error {
	if skip {
		log.Printf("EnsureSchema: skipped (DB_SKIP_SCHEMA)")
		return nil
	}
	for _, stmt := range schema(d) {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func schema(d Dialect) []string {
	if d == Postgres {
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
				id BIGSERIAL PRIMARY KEY,
				username VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS exercises (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES users(id),
				description TEXT NOT NULL,
				duration INTEGER NOT NULL,
				date DATE NOT NULL DEFAULT CURRENT_DATE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_exercises_user_date ON exercises(user_id, date)`,
		}
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS exercises (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			description TEXT NOT NULL,
			duration INT NOT NULL,
			date DATE NOT NULL DEFAULT (CURRENT_DATE),
			INDEX idx_exercises_user_date (user_id, date),
			FOREIGN KEY (user_id) REFERENCES users(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
}
