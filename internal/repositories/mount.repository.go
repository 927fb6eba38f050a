package repositories

import (
	"context"
	"time"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MountRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MountRecord, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MountRecord, error)
	GetOpenByCycle(ctx context.Context, tx *gorm.DB, cycleID uuid.UUID) (*MountRecord, error)
	GetOpenByEngine(ctx context.Context, tx *gorm.DB, engineID uuid.UUID) (*MountRecord, error)
	ListByCycle(ctx context.Context, tx *gorm.DB, cycleID uuid.UUID, page Pagination) ([]*MountRecord, error)
	Create(ctx context.Context, tx *gorm.DB, record *MountRecord) error
	Close(ctx context.Context, tx *gorm.DB, id uuid.UUID, cycleKm, engineKm float64) error
}

type mountRepository struct{}

func NewMountRepository() MountRepository {
	return &mountRepository{}
}

func (r *mountRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MountRecord, error) {
	log := logger.NewWithContext(ctx, "mountRepository").Function("GetByID")

	var record MountRecord
	if err := tx.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get mount record", err, "mountID", id)
	}

	return &record, nil
}

func (r *mountRepository) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*MountRecord, error) {
	log := logger.NewWithContext(ctx, "mountRepository").Function("GetByIDForUpdate")

	var record MountRecord
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to lock mount record", err, "mountID", id)
	}

	return &record, nil
}

// GetOpenByCycle returns the cycle's open mount, or nil when none exists.
func (r *mountRepository) GetOpenByCycle(
	ctx context.Context,
	tx *gorm.DB,
	cycleID uuid.UUID,
) (*MountRecord, error) {
	log := logger.NewWithContext(ctx, "mountRepository").Function("GetOpenByCycle")

	var record MountRecord
	err := tx.WithContext(ctx).
		Where("cycle_id = ? AND unmounted_at IS NULL", cycleID).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get open mount for cycle", err, "cycleID", cycleID)
	}

	return &record, nil
}

func (r *mountRepository) GetOpenByEngine(
	ctx context.Context,
	tx *gorm.DB,
	engineID uuid.UUID,
) (*MountRecord, error) {
	log := logger.NewWithContext(ctx, "mountRepository").Function("GetOpenByEngine")

	var record MountRecord
	err := tx.WithContext(ctx).
		Where("engine_id = ? AND unmounted_at IS NULL", engineID).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get open mount for engine", err, "engineID", engineID)
	}

	return &record, nil
}

func (r *mountRepository) ListByCycle(
	ctx context.Context,
	tx *gorm.DB,
	cycleID uuid.UUID,
	page Pagination,
) ([]*MountRecord, error) {
	log := logger.NewWithContext(ctx, "mountRepository").Function("ListByCycle")

	limit, offset := page.limitOffset()

	var records []*MountRecord
	if err := tx.WithContext(ctx).
		Preload("Engine").
		Where("cycle_id = ?", cycleID).
		Order("mounted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return nil, log.Err("failed to list mount records", err, "cycleID", cycleID)
	}

	return records, nil
}

func (r *mountRepository) Create(ctx context.Context, tx *gorm.DB, record *MountRecord) error {
	log := logger.NewWithContext(ctx, "mountRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(record).Error; err != nil {
		return log.Err(
			"failed to create mount record",
			err,
			"cycleID", record.CycleID,
			"engineID", record.EngineID,
		)
	}

	log.Info(
		"Mount record created",
		"mountID", record.ID,
		"cycleID", record.CycleID,
		"engineID", record.EngineID,
	)

	return nil
}

// Close stamps the record's end fields. The WHERE clause re-checks openness
// so a concurrently closed record is not closed twice.
func (r *mountRepository) Close(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	cycleKm, engineKm float64,
) error {
	log := logger.NewWithContext(ctx, "mountRepository").Function("Close")

	now := time.Now()
	result := tx.WithContext(ctx).Model(&MountRecord{}).
		Where("id = ? AND unmounted_at IS NULL", id).
		Updates(map[string]any{
			"unmounted_at":         now,
			"cycle_km_at_unmount":  cycleKm,
			"engine_km_at_unmount": engineKm,
		})
	if result.Error != nil {
		return log.Err("failed to close mount record", result.Error, "mountID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.Info("Mount record closed", "mountID", id)

	return nil
}
