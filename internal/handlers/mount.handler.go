package handlers

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/app"
	mountController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/mounts"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MountHandler struct {
	Handler
	mountController mountController.MountControllerInterface
}

func NewMountHandler(app app.App, router fiber.Router) *MountHandler {
	log := logger.New("handlers").File("mount_handler")
	return &MountHandler{
		mountController: app.Controllers.Mount,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *MountHandler) Register() {
	mounts := h.router.Group("/mounts")
	mounts.Post("", h.openMount)
	mounts.Get("/cycle/:cycleId", h.listByCycle)
	mounts.Get("/:id", h.getMount)
	mounts.Post("/:id/close", h.closeMount)
}

func (h *MountHandler) mountErrors() errorClasses {
	return errorClasses{
		Validation:   mountController.ErrValidation,
		NotFound:     mountController.ErrNotFound,
		Conflict:     mountController.ErrConflict,
		BusinessRule: mountController.ErrBusinessRule,
	}
}

func (h *MountHandler) openMount(c *fiber.Ctx) error {
	var req mountController.OpenMountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	record, err := h.mountController.OpenMount(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, h.mountErrors(), "Failed to mount engine")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"mount": record,
	})
}

func (h *MountHandler) closeMount(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid mount ID",
		})
	}

	record, err := h.mountController.CloseMount(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, h.mountErrors(), "Failed to unmount engine")
	}

	return c.JSON(fiber.Map{
		"mount": record,
	})
}

func (h *MountHandler) getMount(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid mount ID",
		})
	}

	record, err := h.mountController.GetMount(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, h.mountErrors(), "Failed to get mount record")
	}

	return c.JSON(fiber.Map{
		"mount": record,
	})
}

func (h *MountHandler) listByCycle(c *fiber.Ctx) error {
	cycleID, err := uuid.Parse(c.Params("cycleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cycle ID",
		})
	}

	records, err := h.mountController.ListByCycle(c.UserContext(), cycleID, parsePagination(c))
	if err != nil {
		return respondError(c, err, h.mountErrors(), "Failed to list mount records")
	}

	return c.JSON(fiber.Map{
		"mounts": records,
	})
}
