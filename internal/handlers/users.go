package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/exercisetracker/internal/auth"
	"github.com/yourorg/exercisetracker/internal/models"
	"github.com/yourorg/exercisetracker/internal/repository"
	"github.com/yourorg/exercisetracker/internal/validation"
)

// Register crea un usuario (POST /api/v1/users)
func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	needPassword := h.strategy.Variant() == auth.VariantHeader
	if req.Username == "" {
		return fail(c, fiber.StatusBadRequest, "No username found")
	}
	if needPassword && req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "No password found")
	}

	var errs validation.Errors
	username, fe := validation.Username(req.Username.String())
	errs.Add(fe)
	var password string
	if needPassword {
		password, fe = validation.Password(req.Password.String())
		errs.Add(fe)
	}
	if err := errs.Err(); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid input")
	}

	var hash *string
	if needPassword {
		hashed, err := h.hasher.Hash(password)
		if err != nil {
			log.Printf("request_id=%s hash password for %s: %v", requestID(c), username, err)
			return fail(c, fiber.StatusBadRequest, fmt.Sprintf("Could not create username %s", username))
		}
		hash = &hashed
	}

	user, err := h.users.Create(c.UserContext(), username, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return fail(c, fiber.StatusBadRequest, fmt.Sprintf("Username %s already exists", username))
		}
		log.Printf("request_id=%s create user %s: %v", requestID(c), username, err)
		return fail(c, fiber.StatusBadRequest, fmt.Sprintf("Could not create username %s", username))
	}

	resp := models.RegisterResponse{Msg: fmt.Sprintf("Username %s created.", user.Username)}
	if !needPassword {
		resp.ID = user.ID
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
