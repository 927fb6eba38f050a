package handlers

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/app"
	maintenanceController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/maintenance"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MaintenanceHandler struct {
	Handler
	maintenanceController maintenanceController.MaintenanceControllerInterface
}

func NewMaintenanceHandler(app app.App, router fiber.Router) *MaintenanceHandler {
	log := logger.New("handlers").File("maintenance_handler")
	return &MaintenanceHandler{
		maintenanceController: app.Controllers.Maintenance,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *MaintenanceHandler) Register() {
	maintenance := h.router.Group("/maintenance")
	maintenance.Get("", h.listMaintenance)
	maintenance.Post("", h.createMaintenance)
	maintenance.Get("/:id", h.getMaintenance)
	maintenance.Post("/:id/finalize", h.finalizeMaintenance)
}

func (h *MaintenanceHandler) maintenanceErrors() errorClasses {
	return errorClasses{
		Validation:        maintenanceController.ErrValidation,
		NotFound:          maintenanceController.ErrNotFound,
		InsufficientStock: maintenanceController.ErrInsufficientStock,
	}
}

func (h *MaintenanceHandler) listMaintenance(c *fiber.Ctx) error {
	filter := repositories.MaintenanceFilter{}
	if cycleID := c.Query("cycleId"); cycleID != "" {
		id, err := uuid.Parse(cycleID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid cycleId filter",
			})
		}
		filter.CycleID = &id
	}
	if engineID := c.Query("engineId"); engineID != "" {
		id, err := uuid.Parse(engineID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid engineId filter",
			})
		}
		filter.EngineID = &id
	}
	if maintenanceType := c.Query("type"); maintenanceType != "" {
		mt := models.MaintenanceType(maintenanceType)
		if !mt.IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid type filter",
			})
		}
		filter.Type = &mt
	}

	records, total, err := h.maintenanceController.ListMaintenance(c.UserContext(), filter, parsePagination(c))
	if err != nil {
		return respondError(c, err, h.maintenanceErrors(), "Failed to list maintenance records")
	}

	return c.JSON(fiber.Map{
		"maintenance": records,
		"total":       total,
	})
}

func (h *MaintenanceHandler) createMaintenance(c *fiber.Ctx) error {
	var req maintenanceController.CreateMaintenanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	record, err := h.maintenanceController.CreateMaintenance(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, h.maintenanceErrors(), "Failed to create maintenance")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"maintenance": record,
	})
}

func (h *MaintenanceHandler) getMaintenance(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid maintenance ID",
		})
	}

	record, err := h.maintenanceController.GetMaintenance(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, h.maintenanceErrors(), "Failed to get maintenance record")
	}

	return c.JSON(fiber.Map{
		"maintenance": record,
	})
}

func (h *MaintenanceHandler) finalizeMaintenance(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid maintenance ID",
		})
	}

	var req maintenanceController.FinalizeMaintenanceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	if err := h.maintenanceController.FinalizeMaintenance(c.UserContext(), id, &req); err != nil {
		return respondError(c, err, h.maintenanceErrors(), "Failed to finalize maintenance")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
