package repositories

import (
	"context"
	"time"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/database"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	FLEET_STATUS_CACHE_KEY    = "fleet_status"
	FLEET_STATUS_CACHE_EXPIRY = 5 * time.Minute
)

// CycleFilter narrows List results. Nil fields are ignored; each set field
// maps to one explicit comparison.
type CycleFilter struct {
	Status *EntityStatus
	Model  *string
}

type CycleRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Cycle, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Cycle, error)
	List(ctx context.Context, tx *gorm.DB, filter CycleFilter, page Pagination) ([]*Cycle, int64, error)
	Create(ctx context.Context, tx *gorm.DB, cycle *Cycle) error
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	IncrementKilometers(ctx context.Context, tx *gorm.DB, id uuid.UUID, deltaKm float64) error
	SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status EntityStatus, notes *string) error
	SetCurrentEngine(ctx context.Context, tx *gorm.DB, id uuid.UUID, engineID *uuid.UUID) error

	CacheFleetStatus(ctx context.Context, snapshot any) error
	GetCachedFleetStatus(ctx context.Context, result any) (bool, error)
	ClearFleetCache(ctx context.Context)
}

type cycleRepository struct {
	cache database.CacheClient
}

func NewCycleRepository(cache database.CacheClient) CycleRepository {
	return &cycleRepository{cache: cache}
}

func (r *cycleRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Cycle, error) {
	log := logger.NewWithContext(ctx, "cycleRepository").Function("GetByID")

	var cycle Cycle
	if err := tx.WithContext(ctx).
		Preload("CurrentEngine").
		First(&cycle, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get cycle", err, "cycleID", id)
	}

	return &cycle, nil
}

// GetByIDForUpdate locks the cycle row for the duration of the surrounding
// transaction so concurrent odometer/status writes serialize.
func (r *cycleRepository) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Cycle, error) {
	log := logger.NewWithContext(ctx, "cycleRepository").Function("GetByIDForUpdate")

	var cycle Cycle
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cycle, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to lock cycle", err, "cycleID", id)
	}

	return &cycle, nil
}

func (r *cycleRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter CycleFilter,
	page Pagination,
) ([]*Cycle, int64, error) {
	log := logger.NewWithContext(ctx, "cycleRepository").Function("List")

	query := tx.WithContext(ctx).Model(&Cycle{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Model != nil {
		query = query.Where("model ILIKE ?", "%"+*filter.Model+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count cycles", err)
	}

	limit, offset := page.limitOffset()

	var cycles []*Cycle
	if err := query.
		Preload("CurrentEngine").
		Order("serial_number ASC").
		Limit(limit).
		Offset(offset).
		Find(&cycles).Error; err != nil {
		return nil, 0, log.Err("failed to list cycles", err)
	}

	return cycles, total, nil
}

func (r *cycleRepository) Create(ctx context.Context, tx *gorm.DB, cycle *Cycle) error {
	log := logger.NewWithContext(ctx, "cycleRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(cycle).Error; err != nil {
		return log.Err("failed to create cycle", err, "serialNumber", cycle.SerialNumber)
	}

	r.ClearFleetCache(ctx)
	log.Info("Cycle created", "cycleID", cycle.ID, "serialNumber", cycle.SerialNumber)

	return nil
}

func (r *cycleRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) error {
	log := logger.NewWithContext(ctx, "cycleRepository").Function("Update")

	result := tx.WithContext(ctx).Model(&Cycle{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return log.Err("failed to update cycle", result.Error, "cycleID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.ClearFleetCache(ctx)
	return nil
}

func (r *cycleRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "cycleRepository").Function("Delete")

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Cycle{})
	if result.Error != nil {
		return log.Err("failed to delete cycle", result.Error, "cycleID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.ClearFleetCache(ctx)
	log.Info("Cycle deleted", "cycleID", id)

	return nil
}

// IncrementKilometers applies a guarded in-database increment so concurrent
// sessions never lose a delta to a read-modify-write race.
func (r *cycleRepository) IncrementKilometers(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	deltaKm float64,
) error {
	log := logger.NewWithContext(ctx, "cycleRepository").Function("IncrementKilometers")

	result := tx.WithContext(ctx).Model(&Cycle{}).
		Where("id = ?", id).
		UpdateColumn("total_kilometers", gorm.Expr("total_kilometers + ?", deltaKm))
	if result.Error != nil {
		return log.Err("failed to increment cycle kilometers", result.Error, "cycleID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.ClearFleetCache(ctx)
	return nil
}

func (r *cycleRepository) SetStatus(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	status EntityStatus,
	notes *string,
) error {
	log := logger.NewWithContext(ctx, "cycleRepository").Function("SetStatus")

	updates := map[string]any{"status": status}
	if notes != nil {
		updates["status_notes"] = *notes
	}

	result := tx.WithContext(ctx).Model(&Cycle{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return log.Err("failed to set cycle status", result.Error, "cycleID", id, "status", status)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.ClearFleetCache(ctx)
	log.Info("Cycle status changed", "cycleID", id, "status", status)

	return nil
}

func (r *cycleRepository) SetCurrentEngine(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	engineID *uuid.UUID,
) error {
	log := logger.NewWithContext(ctx, "cycleRepository").Function("SetCurrentEngine")

	result := tx.WithContext(ctx).Model(&Cycle{}).
		Where("id = ?", id).
		Update("current_engine_id", engineID)
	if result.Error != nil {
		return log.Err("failed to set current engine", result.Error, "cycleID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.ClearFleetCache(ctx)
	return nil
}

func (r *cycleRepository) CacheFleetStatus(ctx context.Context, snapshot any) error {
	return database.NewCacheBuilder(r.cache, FLEET_STATUS_CACHE_KEY).
		WithContext(ctx).
		WithStruct(snapshot).
		WithTTL(FLEET_STATUS_CACHE_EXPIRY).
		Set()
}

func (r *cycleRepository) GetCachedFleetStatus(ctx context.Context, result any) (bool, error) {
	return database.NewCacheBuilder(r.cache, FLEET_STATUS_CACHE_KEY).
		WithContext(ctx).
		Get(result)
}

func (r *cycleRepository) ClearFleetCache(ctx context.Context) {
	log := logger.NewWithContext(ctx, "cycleRepository").Function("ClearFleetCache")

	err := database.NewCacheBuilder(r.cache, FLEET_STATUS_CACHE_KEY).
		WithContext(ctx).
		Delete()
	if err != nil {
		log.Warn("failed to clear fleet status cache", "error", err)
	}
}
