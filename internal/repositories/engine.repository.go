package repositories

import (
	"context"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/database"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EngineFilter struct {
	Status     *EntityStatus
	EngineType *string
	// SpareOnly keeps engines with no open mount record.
	SpareOnly bool
}

type EngineRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Engine, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Engine, error)
	List(ctx context.Context, tx *gorm.DB, filter EngineFilter, page Pagination) ([]*Engine, int64, error)
	Create(ctx context.Context, tx *gorm.DB, engine *Engine) error
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	IncrementKilometers(ctx context.Context, tx *gorm.DB, id uuid.UUID, deltaKm float64) error
	SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status EntityStatus) error
}

type engineRepository struct {
	cache database.CacheClient
}

func NewEngineRepository(cache database.CacheClient) EngineRepository {
	return &engineRepository{cache: cache}
}

func (r *engineRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Engine, error) {
	log := logger.NewWithContext(ctx, "engineRepository").Function("GetByID")

	var engine Engine
	if err := tx.WithContext(ctx).First(&engine, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get engine", err, "engineID", id)
	}

	return &engine, nil
}

func (r *engineRepository) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Engine, error) {
	log := logger.NewWithContext(ctx, "engineRepository").Function("GetByIDForUpdate")

	var engine Engine
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&engine, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to lock engine", err, "engineID", id)
	}

	return &engine, nil
}

func (r *engineRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter EngineFilter,
	page Pagination,
) ([]*Engine, int64, error) {
	log := logger.NewWithContext(ctx, "engineRepository").Function("List")

	query := tx.WithContext(ctx).Model(&Engine{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.EngineType != nil {
		query = query.Where("engine_type = ?", *filter.EngineType)
	}
	if filter.SpareOnly {
		query = query.Where(
			"id NOT IN (?)",
			tx.Model(&MountRecord{}).Select("engine_id").Where("unmounted_at IS NULL"),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count engines", err)
	}

	limit, offset := page.limitOffset()

	var engines []*Engine
	if err := query.
		Order("serial_number ASC").
		Limit(limit).
		Offset(offset).
		Find(&engines).Error; err != nil {
		return nil, 0, log.Err("failed to list engines", err)
	}

	return engines, total, nil
}

func (r *engineRepository) Create(ctx context.Context, tx *gorm.DB, engine *Engine) error {
	log := logger.NewWithContext(ctx, "engineRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(engine).Error; err != nil {
		return log.Err("failed to create engine", err, "serialNumber", engine.SerialNumber)
	}

	r.clearFleetCache(ctx)
	log.Info("Engine created", "engineID", engine.ID, "serialNumber", engine.SerialNumber)

	return nil
}

func (r *engineRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) error {
	log := logger.NewWithContext(ctx, "engineRepository").Function("Update")

	result := tx.WithContext(ctx).Model(&Engine{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return log.Err("failed to update engine", result.Error, "engineID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.clearFleetCache(ctx)
	return nil
}

func (r *engineRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "engineRepository").Function("Delete")

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Engine{})
	if result.Error != nil {
		return log.Err("failed to delete engine", result.Error, "engineID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.clearFleetCache(ctx)
	log.Info("Engine deleted", "engineID", id)

	return nil
}

func (r *engineRepository) IncrementKilometers(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	deltaKm float64,
) error {
	log := logger.NewWithContext(ctx, "engineRepository").Function("IncrementKilometers")

	result := tx.WithContext(ctx).Model(&Engine{}).
		Where("id = ?", id).
		UpdateColumn("total_kilometers", gorm.Expr("total_kilometers + ?", deltaKm))
	if result.Error != nil {
		return log.Err("failed to increment engine kilometers", result.Error, "engineID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.clearFleetCache(ctx)
	return nil
}

func (r *engineRepository) SetStatus(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	status EntityStatus,
) error {
	log := logger.NewWithContext(ctx, "engineRepository").Function("SetStatus")

	result := tx.WithContext(ctx).Model(&Engine{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return log.Err("failed to set engine status", result.Error, "engineID", id, "status", status)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.clearFleetCache(ctx)
	log.Info("Engine status changed", "engineID", id, "status", status)

	return nil
}

func (r *engineRepository) clearFleetCache(ctx context.Context) {
	log := logger.NewWithContext(ctx, "engineRepository").Function("clearFleetCache")

	err := database.NewCacheBuilder(r.cache, FLEET_STATUS_CACHE_KEY).
		WithContext(ctx).
		Delete()
	if err != nil {
		log.Warn("failed to clear fleet status cache", "error", err)
	}
}
