package cycleController

import (
	"context"
	"errors"
	"time"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/config"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/database"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/events"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/maintenance"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/services"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type CycleController struct {
	cycleRepo          repositories.CycleRepository
	engineRepo         repositories.EngineRepository
	mountRepo          repositories.MountRepository
	transactionService services.TransactionExecutor
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreateCycleRequest struct {
	SerialNumber    string     `json:"serialNumber" validate:"required"`
	Model           string     `json:"model"        validate:"required"`
	AcquisitionDate *time.Time `json:"acquisitionDate,omitempty"`
	TotalKilometers float64    `json:"totalKilometers"            validate:"gte=0"`
	Status          *string    `json:"status,omitempty"`
}

type UpdateCycleRequest struct {
	Model       *string `json:"model,omitempty"`
	Status      *string `json:"status,omitempty"`
	StatusNotes *string `json:"statusNotes,omitempty"`
}

// CycleStatusEntry is one row of the fleet snapshot: a cycle, its mounted
// engine, and the readiness decision derived from both.
type CycleStatusEntry struct {
	Cycle       *Cycle                `json:"cycle"`
	Readiness   maintenance.Readiness `json:"readiness"`
	RemainingKm float64               `json:"remainingKm"`
}

type FleetStatus struct {
	GeneratedAt time.Time          `json:"generatedAt"`
	Total       int                `json:"total"`
	Ready       int                `json:"ready"`
	Cycles      []CycleStatusEntry `json:"cycles"`
}

type CycleControllerInterface interface {
	GetCycle(ctx context.Context, id uuid.UUID) (*Cycle, error)
	ListCycles(ctx context.Context, filter repositories.CycleFilter, page repositories.Pagination) ([]*Cycle, int64, error)
	CreateCycle(ctx context.Context, request *CreateCycleRequest) (*Cycle, error)
	UpdateCycle(ctx context.Context, id uuid.UUID, request *UpdateCycleRequest) error
	DeleteCycle(ctx context.Context, id uuid.UUID) error
	GetReadiness(ctx context.Context, id uuid.UUID) (maintenance.Readiness, error)
	GetFleetStatus(ctx context.Context) (*FleetStatus, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) CycleControllerInterface {
	return &CycleController{
		cycleRepo:          repos.Cycle,
		engineRepo:         repos.Engine,
		mountRepo:          repos.Mount,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("cycleController"),
	}
}

func (c *CycleController) GetCycle(ctx context.Context, id uuid.UUID) (*Cycle, error) {
	log := c.log.Function("GetCycle")

	cycle, err := c.cycleRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "cycle not found", "cycleID", id)
		}
		return nil, log.Err("failed to get cycle", err, "cycleID", id)
	}

	return cycle, nil
}

func (c *CycleController) ListCycles(
	ctx context.Context,
	filter repositories.CycleFilter,
	page repositories.Pagination,
) ([]*Cycle, int64, error) {
	log := c.log.Function("ListCycles")

	cycles, total, err := c.cycleRepo.List(ctx, c.db.SQL, filter, page)
	if err != nil {
		return nil, 0, log.Err("failed to list cycles", err)
	}

	return cycles, total, nil
}

func (c *CycleController) CreateCycle(
	ctx context.Context,
	request *CreateCycleRequest,
) (*Cycle, error) {
	log := c.log.Function("CreateCycle")

	if err := validation.Struct(request); err != nil {
		return nil, err
	}

	cycle := &Cycle{
		SerialNumber:    request.SerialNumber,
		Model:           request.Model,
		TotalKilometers: request.TotalKilometers,
		Status:          StatusAvailable,
	}
	if request.AcquisitionDate != nil {
		cycle.AcquisitionDate = *request.AcquisitionDate
	}
	if request.Status != nil {
		status := EntityStatus(*request.Status)
		if !status.IsValid() {
			return nil, log.ErrorWithType(ErrValidation, "invalid status", "status", *request.Status)
		}
		cycle.Status = status
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.cycleRepo.Create(ctx, tx, cycle)
	})
	if err != nil {
		return nil, log.Err("failed to create cycle", err, "serialNumber", request.SerialNumber)
	}

	if err := c.eventBus.PublishResourceChanged("cycle", cycle.ID.String(), "created"); err != nil {
		log.Warn("failed to publish resource change", "cycleID", cycle.ID, "error", err)
	}

	log.Info("Cycle created successfully", "cycleID", cycle.ID, "serialNumber", cycle.SerialNumber)

	return cycle, nil
}

func (c *CycleController) UpdateCycle(
	ctx context.Context,
	id uuid.UUID,
	request *UpdateCycleRequest,
) error {
	log := c.log.Function("UpdateCycle")

	updates := make(map[string]any)
	if request.Model != nil {
		updates["model"] = *request.Model
	}
	if request.Status != nil {
		status := EntityStatus(*request.Status)
		if !status.IsValid() {
			return log.ErrorWithType(ErrValidation, "invalid status", "status", *request.Status)
		}
		updates["status"] = status
	}
	if request.StatusNotes != nil {
		updates["status_notes"] = request.StatusNotes
	}

	if len(updates) == 0 {
		return log.ErrorWithType(ErrValidation, "no fields to update")
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.cycleRepo.Update(ctx, tx, id, updates)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return log.ErrorWithType(ErrNotFound, "cycle not found", "cycleID", id)
		}
		return log.Err("failed to update cycle", err, "cycleID", id)
	}

	if err := c.eventBus.PublishResourceChanged("cycle", id.String(), "updated"); err != nil {
		log.Warn("failed to publish resource change", "cycleID", id, "error", err)
	}

	return nil
}

// DeleteCycle removes a cycle. An open mount is closed first, in the same
// transaction, so the engine comes back as a spare instead of staying bound
// to a deleted frame.
func (c *CycleController) DeleteCycle(ctx context.Context, id uuid.UUID) error {
	log := c.log.Function("DeleteCycle")

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		cycle, err := c.cycleRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		open, err := c.mountRepo.GetOpenByCycle(ctx, tx, id)
		if err != nil {
			return err
		}

		if open != nil {
			engine, err := c.engineRepo.GetByIDForUpdate(ctx, tx, open.EngineID)
			if err != nil {
				return err
			}

			if err := c.mountRepo.Close(ctx, tx, open.ID, cycle.TotalKilometers, engine.TotalKilometers); err != nil {
				return err
			}

			if err := c.engineRepo.SetStatus(ctx, tx, engine.ID, StatusAvailable); err != nil {
				return err
			}
		}

		return c.cycleRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return log.ErrorWithType(ErrNotFound, "cycle not found", "cycleID", id)
		}
		return log.Err("failed to delete cycle", err, "cycleID", id)
	}

	if err := c.eventBus.PublishResourceChanged("cycle", id.String(), "deleted"); err != nil {
		log.Warn("failed to publish resource change", "cycleID", id, "error", err)
	}

	log.Info("Cycle deleted successfully", "cycleID", id)

	return nil
}

func (c *CycleController) GetReadiness(
	ctx context.Context,
	id uuid.UUID,
) (maintenance.Readiness, error) {
	log := c.log.Function("GetReadiness")

	cycle, err := c.cycleRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return maintenance.Readiness{}, log.ErrorWithType(ErrNotFound, "cycle not found", "cycleID", id)
		}
		return maintenance.Readiness{}, log.Err("failed to get cycle", err, "cycleID", id)
	}

	readiness, err := maintenance.Evaluate(cycle, cycle.CurrentEngine)
	if err != nil {
		return maintenance.Readiness{}, log.ErrorWithType(ErrValidation, "readiness evaluation failed", "error", err)
	}

	return readiness, nil
}

// GetFleetStatus composes readiness for every cycle. The snapshot is served
// from the fleet cache when fresh; writers clear that cache on any change.
func (c *CycleController) GetFleetStatus(ctx context.Context) (*FleetStatus, error) {
	log := c.log.Function("GetFleetStatus")

	var cached FleetStatus
	if found, err := c.cycleRepo.GetCachedFleetStatus(ctx, &cached); err == nil && found {
		return &cached, nil
	}

	status := &FleetStatus{GeneratedAt: time.Now()}

	page := repositories.Pagination{Page: 1, PageSize: 200}
	for {
		cycles, total, err := c.cycleRepo.List(ctx, c.db.SQL, repositories.CycleFilter{}, page)
		if err != nil {
			return nil, log.Err("failed to list cycles for fleet status", err)
		}

		for _, cycle := range cycles {
			readiness, err := maintenance.Evaluate(cycle, cycle.CurrentEngine)
			if err != nil {
				return nil, log.Err("failed to evaluate readiness", err, "cycleID", cycle.ID)
			}

			entry := CycleStatusEntry{
				Cycle:     cycle,
				Readiness: readiness,
				RemainingKm: maintenance.RemainingKilometers(
					cycle.TotalKilometers,
					maintenance.CycleServiceIntervalKm,
				),
			}

			status.Cycles = append(status.Cycles, entry)
			if readiness.Ready {
				status.Ready++
			}
		}

		if int64(page.Page*page.PageSize) >= total {
			break
		}
		page.Page++
	}

	status.Total = len(status.Cycles)

	if err := c.cycleRepo.CacheFleetStatus(ctx, status); err != nil {
		log.Warn("failed to cache fleet status", "error", err)
	}

	return status, nil
}
