package partController

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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type PartController struct {
	partRepo           repositories.PartRepository
	alertRepo          repositories.AlertRepository
	transactionService services.TransactionExecutor
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreatePartRequest struct {
	Reference string          `json:"reference" validate:"required"`
	Name      string          `json:"name"      validate:"required"`
	Type      string          `json:"type"      validate:"required"`
	Supplier  *string         `json:"supplier,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Stock     int             `json:"stock"    validate:"gte=0"`
	MinStock  int             `json:"minStock" validate:"gte=0"`
	Location  *string         `json:"location,omitempty"`
}

type UpdatePartRequest struct {
	Name      *string          `json:"name,omitempty"`
	Supplier  *string          `json:"supplier,omitempty"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	MinStock  *int             `json:"minStock,omitempty"`
	Location  *string          `json:"location,omitempty"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// AdjustStockResult reports the stock after the adjustment and whether a low
// stock alert was raised.
type AdjustStockResult struct {
	Part         *Part `json:"part"`
	AlertCreated bool  `json:"alertCreated"`
}

type PartControllerInterface interface {
	GetPart(ctx context.Context, id uuid.UUID) (*Part, error)
	ListParts(ctx context.Context, filter repositories.PartFilter, page repositories.Pagination) ([]*Part, int64, error)
	CreatePart(ctx context.Context, request *CreatePartRequest) (*Part, error)
	UpdatePart(ctx context.Context, id uuid.UUID, request *UpdatePartRequest) error
	DeletePart(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, request *AdjustStockRequest) (*AdjustStockResult, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) PartControllerInterface {
	return &PartController{
		partRepo:           repos.Part,
		alertRepo:          repos.Alert,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("partController"),
	}
}

// LowStockSeverity grades a low-stock alert: exhausted stock is critical,
// anything at or under the minimum is high.
func LowStockSeverity(stock int) AlertSeverity {
	if stock == 0 {
		return AlertSeverityCritical
	}
	return AlertSeverityHigh
}

func (c *PartController) GetPart(ctx context.Context, id uuid.UUID) (*Part, error) {
	log := c.log.Function("GetPart")

	part, err := c.partRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "part not found", "partID", id)
		}
		return nil, log.Err("failed to get part", err, "partID", id)
	}

	return part, nil
}

func (c *PartController) ListParts(
	ctx context.Context,
	filter repositories.PartFilter,
	page repositories.Pagination,
) ([]*Part, int64, error) {
	log := c.log.Function("ListParts")

	parts, total, err := c.partRepo.List(ctx, c.db.SQL, filter, page)
	if err != nil {
		return nil, 0, log.Err("failed to list parts", err)
	}

	return parts, total, nil
}

func (c *PartController) CreatePart(
	ctx context.Context,
	request *CreatePartRequest,
) (*Part, error) {
	log := c.log.Function("CreatePart")

	if err := validation.Struct(request); err != nil {
		return nil, err
	}

	partType := PartType(request.Type)
	if !partType.IsValid() {
		return nil, log.ErrorWithType(ErrValidation, "invalid part type", "type", request.Type)
	}
	if request.UnitPrice.IsNegative() {
		return nil, log.ErrorWithType(ErrValidation, "unitPrice cannot be negative")
	}

	part := &Part{
		Reference: request.Reference,
		Name:      request.Name,
		Type:      partType,
		Supplier:  request.Supplier,
		UnitPrice: request.UnitPrice,
		Stock:     request.Stock,
		MinStock:  request.MinStock,
		Location:  request.Location,
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.partRepo.Create(ctx, tx, part)
	})
	if err != nil {
		return nil, log.Err("failed to create part", err, "reference", request.Reference)
	}

	log.Info("Part created successfully", "partID", part.ID, "reference", part.Reference)

	return part, nil
}

func (c *PartController) UpdatePart(
	ctx context.Context,
	id uuid.UUID,
	request *UpdatePartRequest,
) error {
	log := c.log.Function("UpdatePart")

	updates := make(map[string]any)
	if request.Name != nil {
		updates["name"] = *request.Name
	}
	if request.Supplier != nil {
		updates["supplier"] = request.Supplier
	}
	if request.UnitPrice != nil {
		if request.UnitPrice.IsNegative() {
			return log.ErrorWithType(ErrValidation, "unitPrice cannot be negative")
		}
		updates["unit_price"] = *request.UnitPrice
	}
	if request.MinStock != nil {
		if *request.MinStock < 0 {
			return log.ErrorWithType(ErrValidation, "minStock cannot be negative")
		}
		updates["min_stock"] = *request.MinStock
	}
	if request.Location != nil {
		updates["location"] = request.Location
	}

	if len(updates) == 0 {
		return log.ErrorWithType(ErrValidation, "no fields to update")
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.partRepo.Update(ctx, tx, id, updates)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return log.ErrorWithType(ErrNotFound, "part not found", "partID", id)
		}
		return log.Err("failed to update part", err, "partID", id)
	}

	return nil
}

func (c *PartController) DeletePart(ctx context.Context, id uuid.UUID) error {
	log := c.log.Function("DeletePart")

	if err := c.partRepo.Delete(ctx, c.db.SQL, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return log.ErrorWithType(ErrNotFound, "part not found", "partID", id)
		}
		return log.Err("failed to delete part", err, "partID", id)
	}

	log.Info("Part deleted successfully", "partID", id)

	return nil
}

// AdjustStock moves the stock level by delta under the non-negative guard.
// If the resulting level is at or below the minimum, a low stock alert is
// raised after the adjustment committed; alert failures are logged and never
// undo the adjustment.
func (c *PartController) AdjustStock(
	ctx context.Context,
	id uuid.UUID,
	request *AdjustStockRequest,
) (*AdjustStockResult, error) {
	log := c.log.Function("AdjustStock")

	// required on an int rejects the zero delta.
	if err := validation.Struct(request); err != nil {
		return nil, err
	}

	var part *Part
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.partRepo.GetByIDForUpdate(ctx, tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return log.ErrorWithType(ErrNotFound, "part not found", "partID", id)
			}
			return err
		}

		if err := c.partRepo.AdjustStock(ctx, tx, id, request.Delta); err != nil {
			if errors.Is(err, repositories.ErrStockWouldGoNegative) {
				return log.ErrorWithType(
					ErrInsufficientStock,
					"stock cannot go negative",
					"partID", id,
					"delta", request.Delta,
				)
			}
			return err
		}

		refreshed, err := c.partRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		part = refreshed

		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &AdjustStockResult{Part: part}
	if part.IsLowStock() {
		result.AlertCreated = c.raiseLowStockAlert(ctx, part)
	}

	return result, nil
}

// raiseLowStockAlert is best effort: the stock adjustment already committed,
// so failures here are logged and swallowed.
func (c *PartController) raiseLowStockAlert(ctx context.Context, part *Part) bool {
	log := c.log.Function("raiseLowStockAlert")

	exists, err := c.alertRepo.HasOpenAlert(ctx, c.db.SQL, AlertCategoryStock, nil, &part.ID)
	if err != nil {
		log.Warn("failed to check open alerts", "partID", part.ID, "error", err)
		return false
	}
	if exists {
		return false
	}

	partID := part.ID
	alert := &Alert{
		Title:    "Low stock: " + part.Name,
		Message:  part.Name + " (" + part.Reference + ") is at or below its minimum stock level",
		Category: AlertCategoryStock,
		Severity: LowStockSeverity(part.Stock),
		PartID:   &partID,
	}

	if err := c.alertRepo.Create(ctx, c.db.SQL, alert); err != nil {
		log.Warn("failed to create low stock alert", "partID", part.ID, "error", err)
		return false
	}

	if err := c.eventBus.PublishAlertCreated(alert); err != nil {
		log.Warn("failed to publish alert event", "alertId", alert.ID, "error", err)
	}

	log.Info("Low stock alert created", "partID", part.ID, "severity", string(alert.Severity))

	return true
}
