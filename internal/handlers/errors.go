package handlers

import (
	"errors"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errorClasses binds a controller package's sentinel errors to HTTP statuses.
// A nil field means the controller never returns that class.
type errorClasses struct {
	Validation        error
	NotFound          error
	Conflict          error
	BusinessRule      error
	InsufficientStock error
}

// respondError translates controller errors into responses: field-level
// validation failures → 400 with the violation list, validation sentinel →
// 400, not found → 404, conflict → 409, business rule and insufficient
// stock → 422, anything else → 500 with a generic message.
func respondError(c *fiber.Ctx, err error, classes errorClasses, fallback string) error {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
	}

	if classes.Validation != nil && errors.Is(err, classes.Validation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if classes.NotFound != nil && errors.Is(err, classes.NotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if classes.Conflict != nil && errors.Is(err, classes.Conflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if classes.BusinessRule != nil && errors.Is(err, classes.BusinessRule) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if classes.InsufficientStock != nil && errors.Is(err, classes.InsufficientStock) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
	})
}
