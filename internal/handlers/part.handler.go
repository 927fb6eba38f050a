package handlers

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/app"
	partController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/parts"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PartHandler struct {
	Handler
	partController partController.PartControllerInterface
}

func NewPartHandler(app app.App, router fiber.Router) *PartHandler {
	log := logger.New("handlers").File("part_handler")
	return &PartHandler{
		partController: app.Controllers.Part,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PartHandler) Register() {
	parts := h.router.Group("/parts")
	parts.Get("", h.listParts)
	parts.Post("", h.createPart)
	parts.Get("/:id", h.getPart)
	parts.Patch("/:id", h.updatePart)
	parts.Delete("/:id", h.deletePart)
	parts.Post("/:id/adjust-stock", h.adjustStock)
}

func (h *PartHandler) partErrors() errorClasses {
	return errorClasses{
		Validation:        partController.ErrValidation,
		NotFound:          partController.ErrNotFound,
		InsufficientStock: partController.ErrInsufficientStock,
	}
}

func (h *PartHandler) listParts(c *fiber.Ctx) error {
	filter := repositories.PartFilter{
		LowStockOnly: c.QueryBool("lowStockOnly", false),
	}
	if partType := c.Query("type"); partType != "" {
		pt := models.PartType(partType)
		if !pt.IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid type filter",
			})
		}
		filter.Type = &pt
	}

	parts, total, err := h.partController.ListParts(c.UserContext(), filter, parsePagination(c))
	if err != nil {
		return respondError(c, err, h.partErrors(), "Failed to list parts")
	}

	return c.JSON(fiber.Map{
		"parts": parts,
		"total": total,
	})
}

func (h *PartHandler) createPart(c *fiber.Ctx) error {
	var req partController.CreatePartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	part, err := h.partController.CreatePart(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, h.partErrors(), "Failed to create part")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"part": part,
	})
}

func (h *PartHandler) getPart(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid part ID",
		})
	}

	part, err := h.partController.GetPart(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, h.partErrors(), "Failed to get part")
	}

	return c.JSON(fiber.Map{
		"part": part,
	})
}

func (h *PartHandler) updatePart(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid part ID",
		})
	}

	var req partController.UpdatePartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.partController.UpdatePart(c.UserContext(), id, &req); err != nil {
		return respondError(c, err, h.partErrors(), "Failed to update part")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *PartHandler) deletePart(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid part ID",
		})
	}

	if err := h.partController.DeletePart(c.UserContext(), id); err != nil {
		return respondError(c, err, h.partErrors(), "Failed to delete part")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *PartHandler) adjustStock(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid part ID",
		})
	}

	var req partController.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.partController.AdjustStock(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err, h.partErrors(), "Failed to adjust stock")
	}

	return c.JSON(result)
}
