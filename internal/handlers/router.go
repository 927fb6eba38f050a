package handlers

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/app"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/handlers/middleware"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api", app.Middleware.TraceID())
	HealthHandler(api, app.Config)
	NewCycleHandler(*app, api).Register()
	NewEngineHandler(*app, api).Register()
	NewMountHandler(*app, api).Register()
	NewSessionHandler(*app, api).Register()
	NewMaintenanceHandler(*app, api).Register()
	NewInspectionHandler(*app, api).Register()
	NewPartHandler(*app, api).Register()
	NewAlertHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
