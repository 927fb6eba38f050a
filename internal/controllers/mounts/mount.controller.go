package mountController

import (
	"context"
	"errors"

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
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBusinessRule = errors.New("business rule violation")
)

type MountController struct {
	mountRepo          repositories.MountRepository
	cycleRepo          repositories.CycleRepository
	engineRepo         repositories.EngineRepository
	transactionService services.TransactionExecutor
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type OpenMountRequest struct {
	CycleID    uuid.UUID `json:"cycleId"    validate:"required"`
	EngineID   uuid.UUID `json:"engineId"   validate:"required"`
	Technician string    `json:"technician" validate:"required"`
}

type MountControllerInterface interface {
	GetMount(ctx context.Context, id uuid.UUID) (*MountRecord, error)
	ListByCycle(ctx context.Context, cycleID uuid.UUID, page repositories.Pagination) ([]*MountRecord, error)
	OpenMount(ctx context.Context, request *OpenMountRequest) (*MountRecord, error)
	CloseMount(ctx context.Context, mountID uuid.UUID) (*MountRecord, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) MountControllerInterface {
	return &MountController{
		mountRepo:          repos.Mount,
		cycleRepo:          repos.Cycle,
		engineRepo:         repos.Engine,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("mountController"),
	}
}

func (c *MountController) GetMount(ctx context.Context, id uuid.UUID) (*MountRecord, error) {
	log := c.log.Function("GetMount")

	record, err := c.mountRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "mount record not found", "mountID", id)
		}
		return nil, log.Err("failed to get mount record", err, "mountID", id)
	}

	return record, nil
}

func (c *MountController) ListByCycle(
	ctx context.Context,
	cycleID uuid.UUID,
	page repositories.Pagination,
) ([]*MountRecord, error) {
	log := c.log.Function("ListByCycle")

	records, err := c.mountRepo.ListByCycle(ctx, c.db.SQL, cycleID, page)
	if err != nil {
		return nil, log.Err("failed to list mount records", err, "cycleID", cycleID)
	}

	return records, nil
}

// OpenMount installs an engine on a cycle. Both rows are locked for the
// duration of the transaction so two concurrent mounts cannot both claim the
// same engine or the same cycle.
func (c *MountController) OpenMount(
	ctx context.Context,
	request *OpenMountRequest,
) (*MountRecord, error) {
	log := c.log.Function("OpenMount")

	if err := validation.Struct(request); err != nil {
		return nil, err
	}

	var record *MountRecord
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		cycle, err := c.cycleRepo.GetByIDForUpdate(ctx, tx, request.CycleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return log.ErrorWithType(ErrNotFound, "cycle not found", "cycleID", request.CycleID)
			}
			return err
		}

		engine, err := c.engineRepo.GetByIDForUpdate(ctx, tx, request.EngineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return log.ErrorWithType(ErrNotFound, "engine not found", "engineID", request.EngineID)
			}
			return err
		}

		if engine.Status != StatusAvailable {
			return log.ErrorWithType(
				ErrBusinessRule,
				"engine is not available",
				"engineID", engine.ID,
				"status", engine.Status,
			)
		}

		openOnCycle, err := c.mountRepo.GetOpenByCycle(ctx, tx, cycle.ID)
		if err != nil {
			return err
		}
		if openOnCycle != nil {
			return log.ErrorWithType(
				ErrConflict,
				"cycle already has an engine mounted",
				"cycleID", cycle.ID,
				"mountID", openOnCycle.ID,
			)
		}

		openElsewhere, err := c.mountRepo.GetOpenByEngine(ctx, tx, engine.ID)
		if err != nil {
			return err
		}
		if openElsewhere != nil {
			return log.ErrorWithType(
				ErrConflict,
				"engine is mounted on another cycle",
				"engineID", engine.ID,
				"cycleID", openElsewhere.CycleID,
			)
		}

		record = &MountRecord{
			CycleID:         cycle.ID,
			EngineID:        engine.ID,
			CycleKmAtMount:  cycle.TotalKilometers,
			EngineKmAtMount: engine.TotalKilometers,
			Technician:      request.Technician,
		}
		if err := c.mountRepo.Create(ctx, tx, record); err != nil {
			return err
		}

		engineID := engine.ID
		return c.cycleRepo.SetCurrentEngine(ctx, tx, cycle.ID, &engineID)
	})
	if err != nil {
		return nil, err
	}

	if err := c.eventBus.PublishResourceChanged("mount", record.ID.String(), "created"); err != nil {
		log.Warn("failed to publish resource change", "mountID", record.ID, "error", err)
	}

	log.Info(
		"Engine mounted",
		"mountID", record.ID,
		"cycleID", request.CycleID,
		"engineID", request.EngineID,
	)

	return record, nil
}

// CloseMount stamps the record with the entities' current odometers and
// frees the cycle's engine slot. Closing twice is a conflict.
func (c *MountController) CloseMount(
	ctx context.Context,
	mountID uuid.UUID,
) (*MountRecord, error) {
	log := c.log.Function("CloseMount")

	var record *MountRecord
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		found, err := c.mountRepo.GetByIDForUpdate(ctx, tx, mountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return log.ErrorWithType(ErrNotFound, "mount record not found", "mountID", mountID)
			}
			return err
		}

		if !found.IsOpen() {
			return log.ErrorWithType(ErrConflict, "mount record already closed", "mountID", mountID)
		}

		cycle, err := c.cycleRepo.GetByIDForUpdate(ctx, tx, found.CycleID)
		if err != nil {
			return err
		}
		engine, err := c.engineRepo.GetByIDForUpdate(ctx, tx, found.EngineID)
		if err != nil {
			return err
		}

		if err := c.mountRepo.Close(ctx, tx, mountID, cycle.TotalKilometers, engine.TotalKilometers); err != nil {
			return err
		}

		if err := c.cycleRepo.SetCurrentEngine(ctx, tx, cycle.ID, nil); err != nil {
			return err
		}

		record, err = c.mountRepo.GetByID(ctx, tx, mountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.eventBus.PublishResourceChanged("mount", mountID.String(), "closed"); err != nil {
		log.Warn("failed to publish resource change", "mountID", mountID, "error", err)
	}

	log.Info("Engine unmounted", "mountID", mountID)

	return record, nil
}
