package engineController

import (
	"context"
	"errors"
	"time"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/config"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/database"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/events"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
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
	ErrConflict   = errors.New("conflict")
)

type EngineController struct {
	engineRepo         repositories.EngineRepository
	mountRepo          repositories.MountRepository
	transactionService services.TransactionExecutor
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreateEngineRequest struct {
	SerialNumber    string     `json:"serialNumber"   validate:"required"`
	EngineType      string     `json:"engineType"     validate:"required"`
	DisplacementCC  int        `json:"displacementCc" validate:"gt=0"`
	AcquisitionDate *time.Time `json:"acquisitionDate,omitempty"`
	TotalKilometers float64    `json:"totalKilometers" validate:"gte=0"`
	TotalHours      *float64   `json:"totalHours,omitempty"`
}

type UpdateEngineRequest struct {
	EngineType *string  `json:"engineType,omitempty"`
	Status     *string  `json:"status,omitempty"`
	TotalHours *float64 `json:"totalHours,omitempty"`
}

type EngineControllerInterface interface {
	GetEngine(ctx context.Context, id uuid.UUID) (*Engine, error)
	ListEngines(ctx context.Context, filter repositories.EngineFilter, page repositories.Pagination) ([]*Engine, int64, error)
	CreateEngine(ctx context.Context, request *CreateEngineRequest) (*Engine, error)
	UpdateEngine(ctx context.Context, id uuid.UUID, request *UpdateEngineRequest) error
	DeleteEngine(ctx context.Context, id uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) EngineControllerInterface {
	return &EngineController{
		engineRepo:         repos.Engine,
		mountRepo:          repos.Mount,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("engineController"),
	}
}

func (c *EngineController) GetEngine(ctx context.Context, id uuid.UUID) (*Engine, error) {
	log := c.log.Function("GetEngine")

	engine, err := c.engineRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "engine not found", "engineID", id)
		}
		return nil, log.Err("failed to get engine", err, "engineID", id)
	}

	return engine, nil
}

func (c *EngineController) ListEngines(
	ctx context.Context,
	filter repositories.EngineFilter,
	page repositories.Pagination,
) ([]*Engine, int64, error) {
	log := c.log.Function("ListEngines")

	engines, total, err := c.engineRepo.List(ctx, c.db.SQL, filter, page)
	if err != nil {
		return nil, 0, log.Err("failed to list engines", err)
	}

	return engines, total, nil
}

func (c *EngineController) CreateEngine(
	ctx context.Context,
	request *CreateEngineRequest,
) (*Engine, error) {
	log := c.log.Function("CreateEngine")

	if err := validation.Struct(request); err != nil {
		return nil, err
	}

	engine := &Engine{
		SerialNumber:    request.SerialNumber,
		EngineType:      request.EngineType,
		DisplacementCC:  request.DisplacementCC,
		TotalKilometers: request.TotalKilometers,
		TotalHours:      request.TotalHours,
		Status:          StatusAvailable,
	}
	if request.AcquisitionDate != nil {
		engine.AcquisitionDate = *request.AcquisitionDate
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.engineRepo.Create(ctx, tx, engine)
	})
	if err != nil {
		return nil, log.Err("failed to create engine", err, "serialNumber", request.SerialNumber)
	}

	if err := c.eventBus.PublishResourceChanged("engine", engine.ID.String(), "created"); err != nil {
		log.Warn("failed to publish resource change", "engineID", engine.ID, "error", err)
	}

	log.Info("Engine created successfully", "engineID", engine.ID, "serialNumber", engine.SerialNumber)

	return engine, nil
}

func (c *EngineController) UpdateEngine(
	ctx context.Context,
	id uuid.UUID,
	request *UpdateEngineRequest,
) error {
	log := c.log.Function("UpdateEngine")

	updates := make(map[string]any)
	if request.EngineType != nil {
		updates["engine_type"] = *request.EngineType
	}
	if request.Status != nil {
		status := EntityStatus(*request.Status)
		if !status.IsValid() {
			return log.ErrorWithType(ErrValidation, "invalid status", "status", *request.Status)
		}
		updates["status"] = status
	}
	if request.TotalHours != nil {
		updates["total_hours"] = *request.TotalHours
	}

	if len(updates) == 0 {
		return log.ErrorWithType(ErrValidation, "no fields to update")
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.engineRepo.Update(ctx, tx, id, updates)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return log.ErrorWithType(ErrNotFound, "engine not found", "engineID", id)
		}
		return log.Err("failed to update engine", err, "engineID", id)
	}

	if err := c.eventBus.PublishResourceChanged("engine", id.String(), "updated"); err != nil {
		log.Warn("failed to publish resource change", "engineID", id, "error", err)
	}

	return nil
}

// DeleteEngine refuses while the engine is mounted; unmount first.
func (c *EngineController) DeleteEngine(ctx context.Context, id uuid.UUID) error {
	log := c.log.Function("DeleteEngine")

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		open, err := c.mountRepo.GetOpenByEngine(ctx, tx, id)
		if err != nil {
			return err
		}
		if open != nil {
			return ErrConflict
		}

		return c.engineRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return log.ErrorWithType(ErrConflict, "engine is mounted on a cycle", "engineID", id)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return log.ErrorWithType(ErrNotFound, "engine not found", "engineID", id)
		}
		return log.Err("failed to delete engine", err, "engineID", id)
	}

	if err := c.eventBus.PublishResourceChanged("engine", id.String(), "deleted"); err != nil {
		log.Warn("failed to publish resource change", "engineID", id, "error", err)
	}

	log.Info("Engine deleted successfully", "engineID", id)

	return nil
}
