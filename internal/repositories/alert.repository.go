package repositories

import (
	"context"
	"time"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertFilter struct {
	Category       *AlertCategory
	Severity       *AlertSeverity
	UnresolvedOnly bool
	CycleID        *uuid.UUID
	PartID         *uuid.UUID
}

type AlertRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Alert, error)
	List(ctx context.Context, tx *gorm.DB, filter AlertFilter, page Pagination) ([]*Alert, int64, error)
	Create(ctx context.Context, tx *gorm.DB, alert *Alert) error
	Resolve(ctx context.Context, tx *gorm.DB, id uuid.UUID, by string) error
	HasOpenAlert(ctx context.Context, tx *gorm.DB, category AlertCategory, cycleID *uuid.UUID, partID *uuid.UUID) (bool, error)
}

type alertRepository struct{}

func NewAlertRepository() AlertRepository {
	return &alertRepository{}
}

func (r *alertRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Alert, error) {
	log := logger.NewWithContext(ctx, "alertRepository").Function("GetByID")

	var alert Alert
	if err := tx.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get alert", err, "alertID", id)
	}

	return &alert, nil
}

func (r *alertRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter AlertFilter,
	page Pagination,
) ([]*Alert, int64, error) {
	log := logger.NewWithContext(ctx, "alertRepository").Function("List")

	query := tx.WithContext(ctx).Model(&Alert{})
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Severity != nil {
		query = query.Where("severity = ?", *filter.Severity)
	}
	if filter.UnresolvedOnly {
		query = query.Where("is_resolved = false")
	}
	if filter.CycleID != nil {
		query = query.Where("cycle_id = ?", *filter.CycleID)
	}
	if filter.PartID != nil {
		query = query.Where("part_id = ?", *filter.PartID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count alerts", err)
	}

	limit, offset := page.limitOffset()

	var alerts []*Alert
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&alerts).Error; err != nil {
		return nil, 0, log.Err("failed to list alerts", err)
	}

	return alerts, total, nil
}

func (r *alertRepository) Create(ctx context.Context, tx *gorm.DB, alert *Alert) error {
	log := logger.NewWithContext(ctx, "alertRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(alert).Error; err != nil {
		return log.Err("failed to create alert", err, "title", alert.Title)
	}

	log.Info(
		"Alert created",
		"alertID", alert.ID,
		"category", alert.Category,
		"severity", alert.Severity,
	)

	return nil
}

func (r *alertRepository) Resolve(ctx context.Context, tx *gorm.DB, id uuid.UUID, by string) error {
	log := logger.NewWithContext(ctx, "alertRepository").Function("Resolve")

	result := tx.WithContext(ctx).Model(&Alert{}).
		Where("id = ? AND is_resolved = false", id).
		Updates(map[string]any{
			"is_resolved": true,
			"resolved_by": by,
			"resolved_at": time.Now(),
		})
	if result.Error != nil {
		return log.Err("failed to resolve alert", result.Error, "alertID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.Info("Alert resolved", "alertID", id, "by", by)

	return nil
}

// HasOpenAlert keeps the sweep job from stacking duplicates for the same
// entity while a previous alert is still unresolved.
func (r *alertRepository) HasOpenAlert(
	ctx context.Context,
	tx *gorm.DB,
	category AlertCategory,
	cycleID *uuid.UUID,
	partID *uuid.UUID,
) (bool, error) {
	log := logger.NewWithContext(ctx, "alertRepository").Function("HasOpenAlert")

	query := tx.WithContext(ctx).Model(&Alert{}).
		Where("category = ? AND is_resolved = false", category)
	if cycleID != nil {
		query = query.Where("cycle_id = ?", *cycleID)
	}
	if partID != nil {
		query = query.Where("part_id = ?", *partID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, log.Err("failed to check open alerts", err)
	}

	return count > 0, nil
}
