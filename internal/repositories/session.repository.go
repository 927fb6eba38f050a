package repositories

import (
	"context"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionFilter struct {
	CycleID     *uuid.UUID
	SessionType *SessionType
}

type SessionRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*UsageSession, error)
	List(ctx context.Context, tx *gorm.DB, filter SessionFilter, page Pagination) ([]*UsageSession, int64, error)
	Create(ctx context.Context, tx *gorm.DB, session *UsageSession) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type sessionRepository struct{}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{}
}

func (r *sessionRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*UsageSession, error) {
	log := logger.NewWithContext(ctx, "sessionRepository").Function("GetByID")

	var session UsageSession
	if err := tx.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get usage session", err, "sessionID", id)
	}

	return &session, nil
}

func (r *sessionRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter SessionFilter,
	page Pagination,
) ([]*UsageSession, int64, error) {
	log := logger.NewWithContext(ctx, "sessionRepository").Function("List")

	query := tx.WithContext(ctx).Model(&UsageSession{})
	if filter.CycleID != nil {
		query = query.Where("cycle_id = ?", *filter.CycleID)
	}
	if filter.SessionType != nil {
		query = query.Where("session_type = ?", *filter.SessionType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count usage sessions", err)
	}

	limit, offset := page.limitOffset()

	var sessions []*UsageSession
	if err := query.
		Order("session_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error; err != nil {
		return nil, 0, log.Err("failed to list usage sessions", err)
	}

	return sessions, total, nil
}

func (r *sessionRepository) Create(ctx context.Context, tx *gorm.DB, session *UsageSession) error {
	log := logger.NewWithContext(ctx, "sessionRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(session).Error; err != nil {
		return log.Err("failed to create usage session", err, "cycleID", session.CycleID)
	}

	log.Info(
		"Usage session created",
		"sessionID", session.ID,
		"cycleID", session.CycleID,
		"totalKm", session.TotalKilometers,
	)

	return nil
}

// Delete removes the session record only. Odometer increments applied when
// the session was recorded are intentionally left in place.
func (r *sessionRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "sessionRepository").Function("Delete")

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&UsageSession{})
	if result.Error != nil {
		return log.Err("failed to delete usage session", result.Error, "sessionID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.Info("Usage session deleted", "sessionID", id)

	return nil
}
