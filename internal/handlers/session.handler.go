package handlers

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/app"
	sessionController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/sessions"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SessionHandler struct {
	Handler
	sessionController sessionController.SessionControllerInterface
}

func NewSessionHandler(app app.App, router fiber.Router) *SessionHandler {
	log := logger.New("handlers").File("session_handler")
	return &SessionHandler{
		sessionController: app.Controllers.Session,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SessionHandler) Register() {
	sessions := h.router.Group("/sessions")
	sessions.Get("", h.listSessions)
	sessions.Post("", h.recordSession)
	sessions.Get("/:id", h.getSession)
	sessions.Delete("/:id", h.deleteSession)
}

func (h *SessionHandler) sessionErrors() errorClasses {
	return errorClasses{
		Validation: sessionController.ErrValidation,
		NotFound:   sessionController.ErrNotFound,
	}
}

func (h *SessionHandler) listSessions(c *fiber.Ctx) error {
	filter := repositories.SessionFilter{}
	if cycleID := c.Query("cycleId"); cycleID != "" {
		id, err := uuid.Parse(cycleID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid cycleId filter",
			})
		}
		filter.CycleID = &id
	}
	if sessionType := c.Query("sessionType"); sessionType != "" {
		st := models.SessionType(sessionType)
		if !st.IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid sessionType filter",
			})
		}
		filter.SessionType = &st
	}

	sessions, total, err := h.sessionController.ListSessions(c.UserContext(), filter, parsePagination(c))
	if err != nil {
		return respondError(c, err, h.sessionErrors(), "Failed to list sessions")
	}

	return c.JSON(fiber.Map{
		"sessions": sessions,
		"total":    total,
	})
}

func (h *SessionHandler) recordSession(c *fiber.Ctx) error {
	var req sessionController.RecordSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.sessionController.RecordSession(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, h.sessionErrors(), "Failed to record session")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *SessionHandler) getSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	session, err := h.sessionController.GetSession(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, h.sessionErrors(), "Failed to get session")
	}

	return c.JSON(fiber.Map{
		"session": session,
	})
}

func (h *SessionHandler) deleteSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	if err := h.sessionController.DeleteSession(c.UserContext(), id); err != nil {
		return respondError(c, err, h.sessionErrors(), "Failed to delete session")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
