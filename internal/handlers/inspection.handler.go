package handlers

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/app"
	inspectionController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/inspections"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InspectionHandler struct {
	Handler
	inspectionController inspectionController.InspectionControllerInterface
}

func NewInspectionHandler(app app.App, router fiber.Router) *InspectionHandler {
	log := logger.New("handlers").File("inspection_handler")
	return &InspectionHandler{
		inspectionController: app.Controllers.Inspection,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *InspectionHandler) Register() {
	inspections := h.router.Group("/inspections")
	inspections.Post("", h.createInspection)
	inspections.Get("/cycle/:cycleId", h.listInspections)
	inspections.Get("/cycle/:cycleId/latest", h.latestInspection)
	inspections.Get("/cycle/:cycleId/needed", h.needsInspection)
}

func (h *InspectionHandler) inspectionErrors() errorClasses {
	return errorClasses{
		Validation: inspectionController.ErrValidation,
		NotFound:   inspectionController.ErrNotFound,
	}
}

func (h *InspectionHandler) createInspection(c *fiber.Ctx) error {
	var req inspectionController.CreateInspectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	inspection, err := h.inspectionController.CreateInspection(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, h.inspectionErrors(), "Failed to record inspection")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"inspection": inspection,
	})
}

func (h *InspectionHandler) listInspections(c *fiber.Ctx) error {
	cycleID, err := uuid.Parse(c.Params("cycleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cycle ID",
		})
	}

	inspections, err := h.inspectionController.ListInspections(c.UserContext(), cycleID, parsePagination(c))
	if err != nil {
		return respondError(c, err, h.inspectionErrors(), "Failed to list inspections")
	}

	return c.JSON(fiber.Map{
		"inspections": inspections,
	})
}

func (h *InspectionHandler) latestInspection(c *fiber.Ctx) error {
	cycleID, err := uuid.Parse(c.Params("cycleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cycle ID",
		})
	}

	inspection, err := h.inspectionController.LatestInspection(c.UserContext(), cycleID)
	if err != nil {
		return respondError(c, err, h.inspectionErrors(), "Failed to get latest inspection")
	}

	return c.JSON(fiber.Map{
		"inspection": inspection,
	})
}

func (h *InspectionHandler) needsInspection(c *fiber.Ctx) error {
	cycleID, err := uuid.Parse(c.Params("cycleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cycle ID",
		})
	}

	needed, err := h.inspectionController.NeedsInspection(c.UserContext(), cycleID)
	if err != nil {
		return respondError(c, err, h.inspectionErrors(), "Failed to check inspection status")
	}

	return c.JSON(fiber.Map{
		"needsInspection": needed,
	})
}
