package app

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/config"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/database"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/events"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/handlers/middleware"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/jobs"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/services"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/websockets"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	Repository  repositories.Repository
	Services    services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repository := repositories.New(db)
	appServices := services.New(db, config, repository)

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config)
	appControllers := controllers.New(appServices, repository, eventBus, config, db)

	// Register jobs with scheduler if enabled
	if config.SchedulerEnabled {
		fleetStatusJob := jobs.NewFleetStatusJob(
			db,
			repository,
			appServices.Transaction,
			eventBus,
			services.ScheduleDaily,
		)
		if err := appServices.Scheduler.AddJob(fleetStatusJob); err != nil {
			return &App{}, log.Err("failed to register fleet status job", err)
		}
		appServices.Scheduler.Start()
		log.Info("Registered fleet status job with scheduler")
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Repository:  repository,
		Services:    appServices,
		Controllers: appControllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Controllers.Cycle,
		a.Controllers.Engine,
		a.Controllers.Mount,
		a.Controllers.Session,
		a.Controllers.Maintenance,
		a.Controllers.Inspection,
		a.Controllers.Part,
		a.Controllers.Alert,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		a.Services.Scheduler.Stop()
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
