package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/exercisetracker/internal/auth"
	appdb "github.com/yourorg/exercisetracker/internal/db"
	"github.com/yourorg/exercisetracker/internal/repository"
)

const (
	userLookupSQL = `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`
	insertUserSQL = `INSERT INTO users (username, password_hash) VALUES (?, ?)`
)

var testHasher = auth.NewBcryptHasher(bcrypt.MinCost)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("sql expectations: %v", err)
		}
		_ = conn.Close()
	})
	return conn, mock
}

// newTestApp mounts the handlers for one variant on a bare fiber app backed
// by sqlmock.
func newTestApp(t *testing.T, variant auth.Variant, opts Options) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock := setupMockDB(t)

	users := repository.NewUserRepository(conn, appdb.MySQL)
	exercises := repository.NewExerciseRepository(conn, appdb.MySQL)
	strategy := auth.NewStrategy(string(variant), users, testHasher)
	h := New(users, exercises, testHasher, strategy, opts)

	app := fiber.New()
	app.Post("/api/v1/users", h.Register)
	if variant == auth.VariantPath {
		app.Post("/api/v1/users/:userId/exercises", h.CreateExercise)
		app.Get("/api/v1/users/:userId/exercises", h.QueryExercises)
	} else {
		app.Post("/api/v1/users/exercises", h.CreateExercise)
		app.Get("/api/v1/users/exercises", h.QueryExercises)
	}
	return app, mock
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := testHasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	return hash
}

type testRequest struct {
	method string
	target string
	body   any
	auth   string
	raw    string
}

func doRequest(t *testing.T, app *fiber.App, tr testRequest) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	switch {
	case tr.raw != "":
		reader = bytes.NewBufferString(tr.raw)
	case tr.body != nil:
		payload, err := json.Marshal(tr.body)
		if err != nil {
			t.Fatalf("json.Marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(tr.method, tr.target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tr.auth != "" {
		req.Header.Set("Authorization", tr.auth)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("json.Unmarshal(%s): %v", data, err)
		}
	}
	return resp.StatusCode, out
}

func mustStatus(t *testing.T, actual int, expected int) {
	t.Helper()
	if actual != expected {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

func expectHTTP200(t *testing.T, status int) {
	t.Helper()
	mustStatus(t, status, http.StatusOK)
}
