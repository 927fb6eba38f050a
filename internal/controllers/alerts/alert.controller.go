package alertController

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
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

type AlertController struct {
	alertRepo          repositories.AlertRepository
	transactionService services.TransactionExecutor
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type ResolveAlertRequest struct {
	ResolvedBy string `json:"resolvedBy" validate:"required"`
}

type AlertControllerInterface interface {
	GetAlert(ctx context.Context, id uuid.UUID) (*Alert, error)
	ListAlerts(ctx context.Context, filter repositories.AlertFilter, page repositories.Pagination) ([]*Alert, int64, error)
	ResolveAlert(ctx context.Context, id uuid.UUID, request *ResolveAlertRequest) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) AlertControllerInterface {
	return &AlertController{
		alertRepo:          repos.Alert,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("alertController"),
	}
}

func (c *AlertController) GetAlert(ctx context.Context, id uuid.UUID) (*Alert, error) {
	log := c.log.Function("GetAlert")

	alert, err := c.alertRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "alert not found", "alertID", id)
		}
		return nil, log.Err("failed to get alert", err, "alertID", id)
	}

	return alert, nil
}

func (c *AlertController) ListAlerts(
	ctx context.Context,
	filter repositories.AlertFilter,
	page repositories.Pagination,
) ([]*Alert, int64, error) {
	log := c.log.Function("ListAlerts")

	alerts, total, err := c.alertRepo.List(ctx, c.db.SQL, filter, page)
	if err != nil {
		return nil, 0, log.Err("failed to list alerts", err)
	}

	return alerts, total, nil
}

// ResolveAlert marks the alert treated. Resolving an already resolved alert
// is a conflict, not a no-op, so operators notice double handling.
func (c *AlertController) ResolveAlert(
	ctx context.Context,
	id uuid.UUID,
	request *ResolveAlertRequest,
) error {
	log := c.log.Function("ResolveAlert")

	if err := validation.Struct(request); err != nil {
		return err
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		alert, err := c.alertRepo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return log.ErrorWithType(ErrNotFound, "alert not found", "alertID", id)
			}
			return err
		}

		if alert.IsResolved {
			return log.ErrorWithType(ErrConflict, "alert already resolved", "alertID", id)
		}

		return c.alertRepo.Resolve(ctx, tx, id, request.ResolvedBy)
	})
	if err != nil {
		return err
	}

	if err := c.eventBus.PublishAlertResolved(id, request.ResolvedBy); err != nil {
		log.Warn("failed to publish alert event", "alertID", id, "error", err)
	}

	log.Info("Alert resolved", "alertID", id, "resolvedBy", request.ResolvedBy)

	return nil
}
