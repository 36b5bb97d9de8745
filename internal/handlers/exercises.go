package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/exercisetracker/internal/auth"
	"github.com/yourorg/exercisetracker/internal/models"
	"github.com/yourorg/exercisetracker/internal/repository"
	"github.com/yourorg/exercisetracker/internal/validation"
)

const createExerciseFailed = "Could not create exercise."

// CreateExercise registra un ejercicio.
// POST /api/v1/users/exercises (variante header) o
// POST /api/v1/users/:userId/exercises (variante path).
//
// La variante header autentica antes de leer el body; la variante path valida
// el body primero y el id al final.
func (h *Handler) CreateExercise(c *fiber.Ctx) error {
	var req models.ExerciseCreateRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	var (
		owner auth.Owner
		err   error
	)
	authFirst := h.strategy.Variant() == auth.VariantHeader
	if authFirst {
		if owner, err = h.strategy.Resolve(c); err != nil {
			return authFailure(c, err, fiber.StatusBadRequest, createExerciseFailed)
		}
	}

	var errs validation.Errors
	description, fe := validation.Description(req.Description.String())
	errs.Add(fe)
	duration, fe := validation.Duration(req.Duration.String())
	errs.Add(fe)
	if err := errs.Err(); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid input data")
	}

	date, fe := validation.Date("date", req.Date.String())
	if fe != nil {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid date")
	}

	if !authFirst {
		if owner, err = h.strategy.Resolve(c); err != nil {
			return authFailure(c, err, fiber.StatusBadRequest, createExerciseFailed)
		}
	}

	if _, err := h.exercises.Create(c.UserContext(), owner.ID, description, duration, date); err != nil {
		log.Printf("request_id=%s create exercise for %s: %v", requestID(c), owner.Label(), err)
		return fail(c, fiber.StatusBadRequest, createExerciseFailed)
	}

	return h.confirm(c, fmt.Sprintf("Exercise created for user %s", owner.Label()))
}

// QueryExercises obtiene los ejercicios del usuario (GET .../exercises?from=&to=&limit=)
func (h *Handler) QueryExercises(c *fiber.Ctx) error {
	owner, err := h.strategy.Resolve(c)
	if err != nil {
		return authFailure(c, err, fiber.StatusNotFound, "Exercises not found.")
	}

	from, fe := validation.Date("from", c.Query("from"))
	if fe != nil {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid start date")
	}
	to, fe := validation.Date("to", c.Query("to"))
	if fe != nil {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid end date")
	}
	limit, fe := validation.Limit(c.Query("limit"))
	if fe != nil {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid limit")
	}

	exercises, err := h.exercises.Query(c.UserContext(), repository.ExerciseFilter{
		UserID: owner.ID,
		From:   from,
		To:     to,
		Limit:  limit,
	})
	if err != nil {
		log.Printf("request_id=%s query exercises for %s: %v", requestID(c), owner.Label(), err)
		return fail(c, fiber.StatusNotFound, fmt.Sprintf("Exercises for user %s not found.", owner.Label()))
	}

	return c.Status(fiber.StatusOK).JSON(models.ExerciseListResponse{Exercises: exercises})
}
