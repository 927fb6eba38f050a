package sessionController

import (
	"context"
	"errors"
	"time"

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
)

type SessionController struct {
	sessionRepo        repositories.SessionRepository
	cycleRepo          repositories.CycleRepository
	engineRepo         repositories.EngineRepository
	mountRepo          repositories.MountRepository
	transactionService services.TransactionExecutor
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type RecordSessionRequest struct {
	CycleID      uuid.UUID  `json:"cycleId"      validate:"required"`
	Operator     string     `json:"operator"     validate:"required"`
	LapCount     int        `json:"lapCount"     validate:"required,gt=0"`
	MetersPerLap float64    `json:"metersPerLap" validate:"required,gt=0"`
	SessionDate  *time.Time `json:"sessionDate,omitempty"`
	SessionType  *string    `json:"sessionType,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// RecordSessionResult carries the created session plus the cycle's odometer
// after the increment was applied.
type RecordSessionResult struct {
	Session         *UsageSession `json:"session"`
	CycleKilometers float64       `json:"cycleKilometers"`
}

type SessionControllerInterface interface {
	GetSession(ctx context.Context, id uuid.UUID) (*UsageSession, error)
	ListSessions(ctx context.Context, filter repositories.SessionFilter, page repositories.Pagination) ([]*UsageSession, int64, error)
	RecordSession(ctx context.Context, request *RecordSessionRequest) (*RecordSessionResult, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) SessionControllerInterface {
	return &SessionController{
		sessionRepo:        repos.Session,
		cycleRepo:          repos.Cycle,
		engineRepo:         repos.Engine,
		mountRepo:          repos.Mount,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("sessionController"),
	}
}

// SessionDistanceKm converts laps into kilometers. Kept as a standalone
// function so the derivation stays trivially testable.
func SessionDistanceKm(lapCount int, metersPerLap float64) float64 {
	return float64(lapCount) * metersPerLap / 1000.0
}

func (c *SessionController) GetSession(ctx context.Context, id uuid.UUID) (*UsageSession, error) {
	log := c.log.Function("GetSession")

	session, err := c.sessionRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "session not found", "sessionID", id)
		}
		return nil, log.Err("failed to get session", err, "sessionID", id)
	}

	return session, nil
}

func (c *SessionController) ListSessions(
	ctx context.Context,
	filter repositories.SessionFilter,
	page repositories.Pagination,
) ([]*UsageSession, int64, error) {
	log := c.log.Function("ListSessions")

	sessions, total, err := c.sessionRepo.List(ctx, c.db.SQL, filter, page)
	if err != nil {
		return nil, 0, log.Err("failed to list sessions", err)
	}

	return sessions, total, nil
}

// RecordSession inserts the session and pushes its distance onto the cycle's
// odometer and, when an engine is mounted, onto the engine's. One
// transaction, cycle row locked first so concurrent sessions on the same
// cycle serialize.
func (c *SessionController) RecordSession(
	ctx context.Context,
	request *RecordSessionRequest,
) (*RecordSessionResult, error) {
	log := c.log.Function("RecordSession")

	if err := validation.Struct(request); err != nil {
		return nil, err
	}

	session := &UsageSession{
		CycleID:         request.CycleID,
		Operator:        request.Operator,
		LapCount:        request.LapCount,
		MetersPerLap:    request.MetersPerLap,
		TotalKilometers: SessionDistanceKm(request.LapCount, request.MetersPerLap),
		Notes:           request.Notes,
	}
	if request.SessionDate != nil {
		session.SessionDate = *request.SessionDate
	}
	if request.SessionType != nil {
		sessionType := SessionType(*request.SessionType)
		if !sessionType.IsValid() {
			return nil, log.ErrorWithType(
				ErrValidation,
				"invalid session type",
				"sessionType", *request.SessionType,
			)
		}
		session.SessionType = sessionType
	}

	result := &RecordSessionResult{}
	err := c.transactionService.ExecuteWithRetry(ctx, func(ctx context.Context, tx *gorm.DB) error {
		cycle, err := c.cycleRepo.GetByIDForUpdate(ctx, tx, request.CycleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return log.ErrorWithType(ErrNotFound, "cycle not found", "cycleID", request.CycleID)
			}
			return err
		}

		if err := c.sessionRepo.Create(ctx, tx, session); err != nil {
			return err
		}

		if err := c.cycleRepo.IncrementKilometers(ctx, tx, cycle.ID, session.TotalKilometers); err != nil {
			return err
		}

		open, err := c.mountRepo.GetOpenByCycle(ctx, tx, cycle.ID)
		if err != nil {
			return err
		}
		if open != nil {
			if err := c.engineRepo.IncrementKilometers(ctx, tx, open.EngineID, session.TotalKilometers); err != nil {
				return err
			}
		}

		result.CycleKilometers = cycle.TotalKilometers + session.TotalKilometers
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Session = session

	if err := c.eventBus.PublishResourceChanged("session", session.ID.String(), "created"); err != nil {
		log.Warn("failed to publish resource change", "sessionID", session.ID, "error", err)
	}

	log.Info(
		"Session recorded",
		"sessionID", session.ID,
		"cycleID", request.CycleID,
		"distanceKm", session.TotalKilometers,
	)

	return result, nil
}

// DeleteSession removes the ledger entry only. The odometer increments the
// session caused stay in place; odometers never move backwards.
func (c *SessionController) DeleteSession(ctx context.Context, id uuid.UUID) error {
	log := c.log.Function("DeleteSession")

	if err := c.sessionRepo.Delete(ctx, c.db.SQL, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return log.ErrorWithType(ErrNotFound, "session not found", "sessionID", id)
		}
		return log.Err("failed to delete session", err, "sessionID", id)
	}

	if err := c.eventBus.PublishResourceChanged("session", id.String(), "deleted"); err != nil {
		log.Warn("failed to publish resource change", "sessionID", id, "error", err)
	}

	return nil
}
