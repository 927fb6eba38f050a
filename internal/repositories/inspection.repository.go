package repositories

import (
	"context"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InspectionRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*DailyInspection, error)
	LatestByCycle(ctx context.Context, tx *gorm.DB, cycleID uuid.UUID) (*DailyInspection, error)
	ListByCycle(ctx context.Context, tx *gorm.DB, cycleID uuid.UUID, page Pagination) ([]*DailyInspection, error)
	Create(ctx context.Context, tx *gorm.DB, inspection *DailyInspection) error
}

type inspectionRepository struct{}

func NewInspectionRepository() InspectionRepository {
	return &inspectionRepository{}
}

func (r *inspectionRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*DailyInspection, error) {
	log := logger.NewWithContext(ctx, "inspectionRepository").Function("GetByID")

	var inspection DailyInspection
	if err := tx.WithContext(ctx).First(&inspection, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get inspection", err, "inspectionID", id)
	}

	return &inspection, nil
}

// LatestByCycle returns the most recent inspection, or nil when the cycle
// has never been inspected.
func (r *inspectionRepository) LatestByCycle(
	ctx context.Context,
	tx *gorm.DB,
	cycleID uuid.UUID,
) (*DailyInspection, error) {
	log := logger.NewWithContext(ctx, "inspectionRepository").Function("LatestByCycle")

	var inspection DailyInspection
	err := tx.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("inspection_date DESC").
		First(&inspection).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get latest inspection", err, "cycleID", cycleID)
	}

	return &inspection, nil
}

func (r *inspectionRepository) ListByCycle(
	ctx context.Context,
	tx *gorm.DB,
	cycleID uuid.UUID,
	page Pagination,
) ([]*DailyInspection, error) {
	log := logger.NewWithContext(ctx, "inspectionRepository").Function("ListByCycle")

	limit, offset := page.limitOffset()

	var inspections []*DailyInspection
	if err := tx.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("inspection_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&inspections).Error; err != nil {
		return nil, log.Err("failed to list inspections", err, "cycleID", cycleID)
	}

	return inspections, nil
}

func (r *inspectionRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	inspection *DailyInspection,
) error {
	log := logger.NewWithContext(ctx, "inspectionRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(inspection).Error; err != nil {
		return log.Err("failed to create inspection", err, "cycleID", inspection.CycleID)
	}

	log.Info(
		"Inspection created",
		"inspectionID", inspection.ID,
		"cycleID", inspection.CycleID,
		"isConform", inspection.IsConform,
	)

	return nil
}
