package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/exercisetracker/internal/auth"
	"github.com/yourorg/exercisetracker/internal/models"
	"github.com/yourorg/exercisetracker/internal/repository"
)

// UserStore persists new users.
type UserStore interface {
	Create(ctx context.Context, username string, passwordHash *string) (models.User, error)
}

// ExerciseStore persists and queries exercises.
type ExerciseStore interface {
	Create(ctx context.Context, userID int64, description string, duration int, date *time.Time) (models.Exercise, error)
	Query(ctx context.Context, f repository.ExerciseFilter) ([]models.ExerciseView, error)
}

// Options tweaks the response wire format.
type Options struct {
	// LegacyErrorKey puts exercise confirmations under "error", the way
	// older clients of this API expect them.
	LegacyErrorKey bool
}

// Handler serves the user and exercise endpoints for one auth variant.
type Handler struct {
	users     UserStore
	exercises ExerciseStore
	hasher    auth.Hasher
	strategy  auth.Strategy
	opts      Options
}

func New(users UserStore, exercises ExerciseStore, hasher auth.Hasher, strategy auth.Strategy, opts Options) *Handler {
	return &Handler{
		users:     users,
		exercises: exercises,
		hasher:    hasher,
		strategy:  strategy,
		opts:      opts,
	}
}

var errInvalidJSON = errors.New("invalid json")

// parseBody decodes a JSON body into dst. Bodies that are empty or not
// declared as JSON are ignored, which leaves every field missing.
func parseBody(c *fiber.Ctx, dst any) error {
	body := c.Body()
	if len(body) == 0 || !c.Is("json") {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	return nil
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(models.ErrorResponse{Error: msg})
}

func (h *Handler) confirm(c *fiber.Ctx, msg string) error {
	if h.opts.LegacyErrorKey {
		return c.Status(fiber.StatusOK).JSON(models.ErrorResponse{Error: msg})
	}
	return c.Status(fiber.StatusOK).JSON(models.MessageResponse{Msg: msg})
}

// authFailure maps a Strategy error to a response. Anything that is not a
// credential problem is a store failure and gets the caller's fallback.
func authFailure(c *fiber.Ctx, err error, fallbackStatus int, fallbackMsg string) error {
	switch {
	case errors.Is(err, auth.ErrMissingAuthorization):
		return fail(c, fiber.StatusBadRequest, "Authorization credentials not found")
	case errors.Is(err, auth.ErrMalformedAuthorization):
		return fail(c, fiber.StatusBadRequest, "Malformed authorization credentials")
	case errors.Is(err, auth.ErrUnknownUser):
		return fail(c, fiber.StatusBadRequest, "Invalid username or user does not exist")
	case errors.Is(err, auth.ErrWrongPassword):
		return fail(c, fiber.StatusBadRequest, "Wrong password for username")
	case errors.Is(err, auth.ErrInvalidUserID):
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid user id")
	}
	log.Printf("request_id=%s resolve user: %v", requestID(c), err)
	return fail(c, fallbackStatus, fallbackMsg)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return "-"
}
