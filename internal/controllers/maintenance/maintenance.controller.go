package maintenanceController

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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type MaintenanceController struct {
	maintenanceRepo    repositories.MaintenanceRepository
	cycleRepo          repositories.CycleRepository
	engineRepo         repositories.EngineRepository
	partRepo           repositories.PartRepository
	transactionService services.TransactionExecutor
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type PartUsageRequest struct {
	PartID    uuid.UUID        `json:"partId"   validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
}

type CreateMaintenanceRequest struct {
	CycleID     *uuid.UUID         `json:"cycleId,omitempty"`
	EngineID    *uuid.UUID         `json:"engineId,omitempty"`
	Type        string             `json:"type"       validate:"required"`
	Technician  string             `json:"technician" validate:"required"`
	BaseCost    decimal.Decimal    `json:"baseCost"`
	Description *string            `json:"description,omitempty"`
	PerformedAt *time.Time         `json:"performedAt,omitempty"`
	Parts       []PartUsageRequest `json:"parts,omitempty" validate:"dive"`
}

type FinalizeMaintenanceRequest struct {
	Description *string `json:"description,omitempty"`
}

type MaintenanceControllerInterface interface {
	GetMaintenance(ctx context.Context, id uuid.UUID) (*MaintenanceRecord, error)
	ListMaintenance(ctx context.Context, filter repositories.MaintenanceFilter, page repositories.Pagination) ([]*MaintenanceRecord, int64, error)
	CreateMaintenance(ctx context.Context, request *CreateMaintenanceRequest) (*MaintenanceRecord, error)
	FinalizeMaintenance(ctx context.Context, id uuid.UUID, request *FinalizeMaintenanceRequest) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) MaintenanceControllerInterface {
	return &MaintenanceController{
		maintenanceRepo:    repos.Maintenance,
		cycleRepo:          repos.Cycle,
		engineRepo:         repos.Engine,
		partRepo:           repos.Part,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("maintenanceController"),
	}
}

// TotalCost sums the base labor cost and every part line. Prices are the
// snapshots taken at creation, not current catalog prices.
func TotalCost(baseCost decimal.Decimal, usages []PartUsage) decimal.Decimal {
	total := baseCost
	for i := range usages {
		total = total.Add(usages[i].LineCost())
	}
	return total
}

func (c *MaintenanceController) GetMaintenance(
	ctx context.Context,
	id uuid.UUID,
) (*MaintenanceRecord, error) {
	log := c.log.Function("GetMaintenance")

	record, err := c.maintenanceRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "maintenance record not found", "maintenanceID", id)
		}
		return nil, log.Err("failed to get maintenance record", err, "maintenanceID", id)
	}

	return record, nil
}

func (c *MaintenanceController) ListMaintenance(
	ctx context.Context,
	filter repositories.MaintenanceFilter,
	page repositories.Pagination,
) ([]*MaintenanceRecord, int64, error) {
	log := c.log.Function("ListMaintenance")

	records, total, err := c.maintenanceRepo.List(ctx, c.db.SQL, filter, page)
	if err != nil {
		return nil, 0, log.Err("failed to list maintenance records", err)
	}

	return records, total, nil
}

// CreateMaintenance opens a maintenance on a cycle, an engine, or both. In
// one transaction it moves the targets to in_maintenance, consumes the
// requested parts under row locks, and writes the record with snapshot
// prices. Any insufficient stock aborts the whole thing.
func (c *MaintenanceController) CreateMaintenance(
	ctx context.Context,
	request *CreateMaintenanceRequest,
) (*MaintenanceRecord, error) {
	log := c.log.Function("CreateMaintenance")

	if err := validation.Struct(request); err != nil {
		return nil, err
	}

	if request.CycleID == nil && request.EngineID == nil {
		return nil, log.ErrorWithType(ErrValidation, "either cycleId or engineId is required")
	}

	maintenanceType := MaintenanceType(request.Type)
	if !maintenanceType.IsValid() {
		return nil, log.ErrorWithType(ErrValidation, "invalid maintenance type", "type", request.Type)
	}

	if request.BaseCost.IsNegative() {
		return nil, log.ErrorWithType(ErrValidation, "baseCost cannot be negative")
	}

	record := &MaintenanceRecord{
		CycleID:     request.CycleID,
		EngineID:    request.EngineID,
		Type:        maintenanceType,
		Technician:  request.Technician,
		BaseCost:    request.BaseCost,
		Description: request.Description,
	}
	if request.PerformedAt != nil {
		record.PerformedAt = *request.PerformedAt
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if request.CycleID != nil {
			cycle, err := c.cycleRepo.GetByIDForUpdate(ctx, tx, *request.CycleID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return log.ErrorWithType(ErrNotFound, "cycle not found", "cycleID", *request.CycleID)
				}
				return err
			}
			record.KilometersAtService = cycle.TotalKilometers

			if err := c.cycleRepo.SetStatus(ctx, tx, cycle.ID, StatusInMaintenance, nil); err != nil {
				return err
			}
		}

		if request.EngineID != nil {
			engine, err := c.engineRepo.GetByIDForUpdate(ctx, tx, *request.EngineID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return log.ErrorWithType(ErrNotFound, "engine not found", "engineID", *request.EngineID)
				}
				return err
			}
			if record.CycleID == nil {
				record.KilometersAtService = engine.TotalKilometers
			}

			if err := c.engineRepo.SetStatus(ctx, tx, engine.ID, StatusInMaintenance); err != nil {
				return err
			}
		}

		usages, err := c.consumeParts(ctx, tx, request.Parts)
		if err != nil {
			return err
		}

		record.PartUsages = usages
		record.TotalCost = TotalCost(record.BaseCost, usages)

		return c.maintenanceRepo.Create(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	if err := c.eventBus.PublishResourceChanged("maintenance", record.ID.String(), "created"); err != nil {
		log.Warn("failed to publish resource change", "maintenanceID", record.ID, "error", err)
	}

	log.Info(
		"Maintenance created",
		"maintenanceID", record.ID,
		"type", string(record.Type),
		"totalCost", record.TotalCost.String(),
	)

	return record, nil
}

// consumeParts locks each part row, decrements its stock under the
// non-negative guard, and builds the usage lines with price snapshots.
func (c *MaintenanceController) consumeParts(
	ctx context.Context,
	tx *gorm.DB,
	requests []PartUsageRequest,
) ([]PartUsage, error) {
	log := c.log.Function("consumeParts")

	usages := make([]PartUsage, 0, len(requests))
	for _, req := range requests {
		part, err := c.partRepo.GetByIDForUpdate(ctx, tx, req.PartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, log.ErrorWithType(ErrNotFound, "part not found", "partID", req.PartID)
			}
			return nil, err
		}

		if err := c.partRepo.AdjustStock(ctx, tx, part.ID, -req.Quantity); err != nil {
			if errors.Is(err, repositories.ErrStockWouldGoNegative) {
				return nil, log.ErrorWithType(
					ErrInsufficientStock,
					"not enough stock for part",
					"partID", part.ID,
					"reference", part.Reference,
					"requested", req.Quantity,
					"available", part.Stock,
				)
			}
			return nil, err
		}

		unitPrice := part.UnitPrice
		if req.UnitPrice != nil {
			unitPrice = *req.UnitPrice
		}

		usages = append(usages, PartUsage{
			PartID:    part.ID,
			Quantity:  req.Quantity,
			UnitPrice: unitPrice,
		})
	}

	return usages, nil
}

// FinalizeMaintenance closes the intervention and returns the targets to
// service. Runs in its own transaction, separate from creation.
func (c *MaintenanceController) FinalizeMaintenance(
	ctx context.Context,
	id uuid.UUID,
	request *FinalizeMaintenanceRequest,
) error {
	log := c.log.Function("FinalizeMaintenance")

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		record, err := c.maintenanceRepo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return log.ErrorWithType(ErrNotFound, "maintenance record not found", "maintenanceID", id)
			}
			return err
		}

		if request != nil && request.Description != nil {
			if err := c.maintenanceRepo.Update(ctx, tx, id, map[string]any{
				"description": request.Description,
			}); err != nil {
				return err
			}
		}

		if record.CycleID != nil {
			if err := c.cycleRepo.SetStatus(ctx, tx, *record.CycleID, StatusAvailable, nil); err != nil {
				return err
			}
		}
		if record.EngineID != nil {
			if err := c.engineRepo.SetStatus(ctx, tx, *record.EngineID, StatusAvailable); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := c.eventBus.PublishResourceChanged("maintenance", id.String(), "finalized"); err != nil {
		log.Warn("failed to publish resource change", "maintenanceID", id, "error", err)
	}

	log.Info("Maintenance finalized", "maintenanceID", id)

	return nil
}
