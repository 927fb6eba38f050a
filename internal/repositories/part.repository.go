package repositories

import (
	"context"
	"errors"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStockWouldGoNegative is returned when a guarded stock adjustment would
// take the quantity below zero.
var ErrStockWouldGoNegative = errors.New("stock would go negative")

type PartFilter struct {
	Type         *PartType
	LowStockOnly bool
}

type PartRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Part, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Part, error)
	GetByReference(ctx context.Context, tx *gorm.DB, reference string) (*Part, error)
	List(ctx context.Context, tx *gorm.DB, filter PartFilter, page Pagination) ([]*Part, int64, error)
	Create(ctx context.Context, tx *gorm.DB, part *Part) error
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	AdjustStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error
}

type partRepository struct{}

func NewPartRepository() PartRepository {
	return &partRepository{}
}

func (r *partRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Part, error) {
	log := logger.NewWithContext(ctx, "partRepository").Function("GetByID")

	var part Part
	if err := tx.WithContext(ctx).First(&part, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get part", err, "partID", id)
	}

	return &part, nil
}

func (r *partRepository) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Part, error) {
	log := logger.NewWithContext(ctx, "partRepository").Function("GetByIDForUpdate")

	var part Part
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&part, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to lock part", err, "partID", id)
	}

	return &part, nil
}

func (r *partRepository) GetByReference(
	ctx context.Context,
	tx *gorm.DB,
	reference string,
) (*Part, error) {
	log := logger.NewWithContext(ctx, "partRepository").Function("GetByReference")

	var part Part
	if err := tx.WithContext(ctx).First(&part, "reference = ?", reference).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get part by reference", err, "reference", reference)
	}

	return &part, nil
}

func (r *partRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter PartFilter,
	page Pagination,
) ([]*Part, int64, error) {
	log := logger.NewWithContext(ctx, "partRepository").Function("List")

	query := tx.WithContext(ctx).Model(&Part{})
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.LowStockOnly {
		query = query.Where("stock <= min_stock")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count parts", err)
	}

	limit, offset := page.limitOffset()

	var parts []*Part
	if err := query.
		Order("reference ASC").
		Limit(limit).
		Offset(offset).
		Find(&parts).Error; err != nil {
		return nil, 0, log.Err("failed to list parts", err)
	}

	return parts, total, nil
}

func (r *partRepository) Create(ctx context.Context, tx *gorm.DB, part *Part) error {
	log := logger.NewWithContext(ctx, "partRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(part).Error; err != nil {
		return log.Err("failed to create part", err, "reference", part.Reference)
	}

	log.Info("Part created", "partID", part.ID, "reference", part.Reference)

	return nil
}

func (r *partRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) error {
	log := logger.NewWithContext(ctx, "partRepository").Function("Update")

	result := tx.WithContext(ctx).Model(&Part{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return log.Err("failed to update part", result.Error, "partID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *partRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "partRepository").Function("Delete")

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Part{})
	if result.Error != nil {
		return log.Err("failed to delete part", result.Error, "partID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// AdjustStock applies the delta as a guarded in-database increment. The
// WHERE clause refuses any adjustment that would take stock below zero, so
// the non-negativity invariant holds even under concurrent adjustments.
func (r *partRepository) AdjustStock(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	delta int,
) error {
	log := logger.NewWithContext(ctx, "partRepository").Function("AdjustStock")

	result := tx.WithContext(ctx).Model(&Part{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return log.Err("failed to adjust part stock", result.Error, "partID", id, "delta", delta)
	}

	if result.RowsAffected == 0 {
		// Either the part is missing or the delta would go negative.
		var exists int64
		if err := tx.WithContext(ctx).Model(&Part{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return log.Err("failed to check part existence", err, "partID", id)
		}
		if exists == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStockWouldGoNegative
	}

	log.Info("Part stock adjusted", "partID", id, "delta", delta)

	return nil
}
