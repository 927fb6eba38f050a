package handlers

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/app"
	engineController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/engines"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type EngineHandler struct {
	Handler
	engineController engineController.EngineControllerInterface
}

func NewEngineHandler(app app.App, router fiber.Router) *EngineHandler {
	log := logger.New("handlers").File("engine_handler")
	return &EngineHandler{
		engineController: app.Controllers.Engine,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *EngineHandler) Register() {
	engines := h.router.Group("/engines")
	engines.Get("", h.listEngines)
	engines.Post("", h.createEngine)
	engines.Get("/:id", h.getEngine)
	engines.Patch("/:id", h.updateEngine)
	engines.Delete("/:id", h.deleteEngine)
}

func (h *EngineHandler) engineErrors() errorClasses {
	return errorClasses{
		Validation: engineController.ErrValidation,
		NotFound:   engineController.ErrNotFound,
		Conflict:   engineController.ErrConflict,
	}
}

func (h *EngineHandler) listEngines(c *fiber.Ctx) error {
	filter := repositories.EngineFilter{
		SpareOnly: c.QueryBool("spareOnly", false),
	}
	if status := c.Query("status"); status != "" {
		entityStatus := models.EntityStatus(status)
		if !entityStatus.IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid status filter",
			})
		}
		filter.Status = &entityStatus
	}
	if engineType := c.Query("engineType"); engineType != "" {
		filter.EngineType = &engineType
	}

	engines, total, err := h.engineController.ListEngines(c.UserContext(), filter, parsePagination(c))
	if err != nil {
		return respondError(c, err, h.engineErrors(), "Failed to list engines")
	}

	return c.JSON(fiber.Map{
		"engines": engines,
		"total":   total,
	})
}

func (h *EngineHandler) createEngine(c *fiber.Ctx) error {
	var req engineController.CreateEngineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	engine, err := h.engineController.CreateEngine(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, h.engineErrors(), "Failed to create engine")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"engine": engine,
	})
}

func (h *EngineHandler) getEngine(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid engine ID",
		})
	}

	engine, err := h.engineController.GetEngine(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, h.engineErrors(), "Failed to get engine")
	}

	return c.JSON(fiber.Map{
		"engine": engine,
	})
}

func (h *EngineHandler) updateEngine(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid engine ID",
		})
	}

	var req engineController.UpdateEngineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.engineController.UpdateEngine(c.UserContext(), id, &req); err != nil {
		return respondError(c, err, h.engineErrors(), "Failed to update engine")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *EngineHandler) deleteEngine(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid engine ID",
		})
	}

	if err := h.engineController.DeleteEngine(c.UserContext(), id); err != nil {
		return respondError(c, err, h.engineErrors(), "Failed to delete engine")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
