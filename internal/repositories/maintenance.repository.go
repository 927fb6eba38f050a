package repositories

import (
	"context"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaintenanceFilter struct {
	CycleID  *uuid.UUID
	EngineID *uuid.UUID
	Type     *MaintenanceType
}

type MaintenanceRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MaintenanceRecord, error)
	List(ctx context.Context, tx *gorm.DB, filter MaintenanceFilter, page Pagination) ([]*MaintenanceRecord, int64, error)
	Create(ctx context.Context, tx *gorm.DB, record *MaintenanceRecord) error
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
}

type maintenanceRepository struct{}

func NewMaintenanceRepository() MaintenanceRepository {
	return &maintenanceRepository{}
}

func (r *maintenanceRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*MaintenanceRecord, error) {
	log := logger.NewWithContext(ctx, "maintenanceRepository").Function("GetByID")

	var record MaintenanceRecord
	if err := tx.WithContext(ctx).
		Preload("PartUsages").
		Preload("PartUsages.Part").
		First(&record, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get maintenance record", err, "maintenanceID", id)
	}

	return &record, nil
}

func (r *maintenanceRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter MaintenanceFilter,
	page Pagination,
) ([]*MaintenanceRecord, int64, error) {
	log := logger.NewWithContext(ctx, "maintenanceRepository").Function("List")

	query := tx.WithContext(ctx).Model(&MaintenanceRecord{})
	if filter.CycleID != nil {
		query = query.Where("cycle_id = ?", *filter.CycleID)
	}
	if filter.EngineID != nil {
		query = query.Where("engine_id = ?", *filter.EngineID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count maintenance records", err)
	}

	limit, offset := page.limitOffset()

	var records []*MaintenanceRecord
	if err := query.
		Preload("PartUsages").
		Order("performed_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return nil, 0, log.Err("failed to list maintenance records", err)
	}

	return records, total, nil
}

// Create persists the record together with its PartUsage rows; GORM cascades
// the association inside the caller's transaction.
func (r *maintenanceRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	record *MaintenanceRecord,
) error {
	log := logger.NewWithContext(ctx, "maintenanceRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(record).Error; err != nil {
		return log.Err("failed to create maintenance record", err, "type", record.Type)
	}

	log.Info(
		"Maintenance record created",
		"maintenanceID", record.ID,
		"type", record.Type,
		"totalCost", record.TotalCost,
	)

	return nil
}

func (r *maintenanceRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) error {
	log := logger.NewWithContext(ctx, "maintenanceRepository").Function("Update")

	result := tx.WithContext(ctx).Model(&MaintenanceRecord{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return log.Err("failed to update maintenance record", result.Error, "maintenanceID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
