package handlers

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/app"
	cycleController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/cycles"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CycleHandler struct {
	Handler
	cycleController cycleController.CycleControllerInterface
}

func NewCycleHandler(app app.App, router fiber.Router) *CycleHandler {
	log := logger.New("handlers").File("cycle_handler")
	return &CycleHandler{
		cycleController: app.Controllers.Cycle,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CycleHandler) Register() {
	cycles := h.router.Group("/cycles")
	cycles.Get("/fleet-status", h.getFleetStatus)
	cycles.Get("", h.listCycles)
	cycles.Post("", h.createCycle)
	cycles.Get("/:id", h.getCycle)
	cycles.Patch("/:id", h.updateCycle)
	cycles.Delete("/:id", h.deleteCycle)
	cycles.Get("/:id/readiness", h.getReadiness)
}

func (h *CycleHandler) cycleErrors() errorClasses {
	return errorClasses{
		Validation: cycleController.ErrValidation,
		NotFound:   cycleController.ErrNotFound,
	}
}

func (h *CycleHandler) listCycles(c *fiber.Ctx) error {
	filter := repositories.CycleFilter{}
	if status := c.Query("status"); status != "" {
		entityStatus := models.EntityStatus(status)
		if !entityStatus.IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid status filter",
			})
		}
		filter.Status = &entityStatus
	}
	if model := c.Query("model"); model != "" {
		filter.Model = &model
	}

	cycles, total, err := h.cycleController.ListCycles(c.UserContext(), filter, parsePagination(c))
	if err != nil {
		return respondError(c, err, h.cycleErrors(), "Failed to list cycles")
	}

	return c.JSON(fiber.Map{
		"cycles": cycles,
		"total":  total,
	})
}

func (h *CycleHandler) createCycle(c *fiber.Ctx) error {
	var req cycleController.CreateCycleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cycle, err := h.cycleController.CreateCycle(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, h.cycleErrors(), "Failed to create cycle")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"cycle": cycle,
	})
}

func (h *CycleHandler) getCycle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cycle ID",
		})
	}

	cycle, err := h.cycleController.GetCycle(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, h.cycleErrors(), "Failed to get cycle")
	}

	return c.JSON(fiber.Map{
		"cycle": cycle,
	})
}

func (h *CycleHandler) updateCycle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cycle ID",
		})
	}

	var req cycleController.UpdateCycleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.cycleController.UpdateCycle(c.UserContext(), id, &req); err != nil {
		return respondError(c, err, h.cycleErrors(), "Failed to update cycle")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *CycleHandler) deleteCycle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cycle ID",
		})
	}

	if err := h.cycleController.DeleteCycle(c.UserContext(), id); err != nil {
		return respondError(c, err, h.cycleErrors(), "Failed to delete cycle")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *CycleHandler) getReadiness(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cycle ID",
		})
	}

	readiness, err := h.cycleController.GetReadiness(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, h.cycleErrors(), "Failed to evaluate readiness")
	}

	return c.JSON(fiber.Map{
		"readiness": readiness,
	})
}

func (h *CycleHandler) getFleetStatus(c *fiber.Ctx) error {
	status, err := h.cycleController.GetFleetStatus(c.UserContext())
	if err != nil {
		return respondError(c, err, h.cycleErrors(), "Failed to build fleet status")
	}

	return c.JSON(status)
}
