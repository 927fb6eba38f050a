package controllers

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/config"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/database"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/events"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/services"

	alertController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/alerts"
	cycleController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/cycles"
	engineController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/engines"
	inspectionController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/inspections"
	maintenanceController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/maintenance"
	mountController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/mounts"
	partController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/parts"
	sessionController "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/controllers/sessions"
)

type Controllers struct {
	Cycle       cycleController.CycleControllerInterface
	Engine      engineController.EngineControllerInterface
	Mount       mountController.MountControllerInterface
	Session     sessionController.SessionControllerInterface
	Maintenance maintenanceController.MaintenanceControllerInterface
	Inspection  inspectionController.InspectionControllerInterface
	Part        partController.PartControllerInterface
	Alert       alertController.AlertControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Cycle:       cycleController.New(repos, services, eventBus, config, db),
		Engine:      engineController.New(repos, services, eventBus, config, db),
		Mount:       mountController.New(repos, services, eventBus, config, db),
		Session:     sessionController.New(repos, services, eventBus, config, db),
		Maintenance: maintenanceController.New(repos, services, eventBus, config, db),
		Inspection:  inspectionController.New(repos, services, eventBus, config, db),
		Part:        partController.New(repos, services, eventBus, config, db),
		Alert:       alertController.New(repos, services, eventBus, config, db),
	}
}
