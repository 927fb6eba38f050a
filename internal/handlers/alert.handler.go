package handlers

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/app"
	alertController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/alerts"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AlertHandler struct {
	Handler
	alertController alertController.AlertControllerInterface
}

func NewAlertHandler(app app.App, router fiber.Router) *AlertHandler {
	log := logger.New("handlers").File("alert_handler")
	return &AlertHandler{
		alertController: app.Controllers.Alert,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AlertHandler) Register() {
	alerts := h.router.Group("/alerts")
	alerts.Get("", h.listAlerts)
	alerts.Get("/:id", h.getAlert)
	alerts.Post("/:id/resolve", h.resolveAlert)
}

func (h *AlertHandler) alertErrors() errorClasses {
	return errorClasses{
		Validation: alertController.ErrValidation,
		NotFound:   alertController.ErrNotFound,
		Conflict:   alertController.ErrConflict,
	}
}

func (h *AlertHandler) listAlerts(c *fiber.Ctx) error {
	filter := repositories.AlertFilter{
		UnresolvedOnly: c.QueryBool("unresolvedOnly", false),
	}
	if category := c.Query("category"); category != "" {
		ac := models.AlertCategory(category)
		if !ac.IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid category filter",
			})
		}
		filter.Category = &ac
	}
	if severity := c.Query("severity"); severity != "" {
		as := models.AlertSeverity(severity)
		if !as.IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid severity filter",
			})
		}
		filter.Severity = &as
	}
	if cycleID := c.Query("cycleId"); cycleID != "" {
		id, err := uuid.Parse(cycleID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid cycleId filter",
			})
		}
		filter.CycleID = &id
	}
	if partID := c.Query("partId"); partID != "" {
		id, err := uuid.Parse(partID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid partId filter",
			})
		}
		filter.PartID = &id
	}

	alerts, total, err := h.alertController.ListAlerts(c.UserContext(), filter, parsePagination(c))
	if err != nil {
		return respondError(c, err, h.alertErrors(), "Failed to list alerts")
	}

	return c.JSON(fiber.Map{
		"alerts": alerts,
		"total":  total,
	})
}

func (h *AlertHandler) getAlert(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid alert ID",
		})
	}

	alert, err := h.alertController.GetAlert(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, h.alertErrors(), "Failed to get alert")
	}

	return c.JSON(fiber.Map{
		"alert": alert,
	})
}

func (h *AlertHandler) resolveAlert(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid alert ID",
		})
	}

	var req alertController.ResolveAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.alertController.ResolveAlert(c.UserContext(), id, &req); err != nil {
		return respondError(c, err, h.alertErrors(), "Failed to resolve alert")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
