package inspectionController

import (
	"context"
	"errors"
	"fmt"
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

// inspectionValidity is how long a conform inspection clears a cycle for
// dispatch.
const inspectionValidity = 24 * time.Hour

type InspectionController struct {
	inspectionRepo     repositories.InspectionRepository
	cycleRepo          repositories.CycleRepository
	transactionService services.TransactionExecutor
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreateInspectionRequest struct {
	CycleID   uuid.UUID `json:"cycleId"   validate:"required"`
	Inspector string    `json:"inspector" validate:"required"`

	FrontBrakesOK  bool `json:"frontBrakesOk"`
	RearBrakesOK   bool `json:"rearBrakesOk"`
	TiresOK        bool `json:"tiresOk"`
	SuspensionOK   bool `json:"suspensionOk"`
	TransmissionOK bool `json:"transmissionOk"`
	FluidLevelsOK  bool `json:"fluidLevelsOk"`
	LightingOK     bool `json:"lightingOk"`

	// IsConform lets the inspector fail an inspection even when every
	// sub-check passed (the reason goes in Notes). Absent, conformity is
	// derived from the sub-checks. It can never upgrade a failing checklist.
	IsConform *bool `json:"isConform,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

type InspectionControllerInterface interface {
	CreateInspection(ctx context.Context, request *CreateInspectionRequest) (*DailyInspection, error)
	LatestInspection(ctx context.Context, cycleID uuid.UUID) (*DailyInspection, error)
	ListInspections(ctx context.Context, cycleID uuid.UUID, page repositories.Pagination) ([]*DailyInspection, error)
	NeedsInspection(ctx context.Context, cycleID uuid.UUID) (bool, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) InspectionControllerInterface {
	return &InspectionController{
		inspectionRepo:     repos.Inspection,
		cycleRepo:          repos.Cycle,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("inspectionController"),
	}
}

// ChecksPass reports whether every sub-check of the request passed.
func (r *CreateInspectionRequest) ChecksPass() bool {
	return r.FrontBrakesOK &&
		r.RearBrakesOK &&
		r.TiresOK &&
		r.SuspensionOK &&
		r.TransmissionOK &&
		r.FluidLevelsOK &&
		r.LightingOK
}

// NonConformNote is the status note written onto the cycle when an
// inspection fails.
func NonConformNote(inspectionDate time.Time, notes *string) string {
	note := fmt.Sprintf("Non-conform inspection on %s", inspectionDate.Format("2006-01-02"))
	if notes != nil && *notes != "" {
		note += ": " + *notes
	}
	return note
}

// CreateInspection records the checklist and, when non-conform, pulls the
// cycle out of dispatch by setting needs_verification and overwriting its
// status notes with the failure summary.
func (c *InspectionController) CreateInspection(
	ctx context.Context,
	request *CreateInspectionRequest,
) (*DailyInspection, error) {
	log := c.log.Function("CreateInspection")

	if err := validation.Struct(request); err != nil {
		return nil, err
	}

	isConform := request.ChecksPass()
	if request.IsConform != nil {
		isConform = isConform && *request.IsConform
	}

	inspection := &DailyInspection{
		CycleID:        request.CycleID,
		Inspector:      request.Inspector,
		IsConform:      isConform,
		FrontBrakesOK:  request.FrontBrakesOK,
		RearBrakesOK:   request.RearBrakesOK,
		TiresOK:        request.TiresOK,
		SuspensionOK:   request.SuspensionOK,
		TransmissionOK: request.TransmissionOK,
		FluidLevelsOK:  request.FluidLevelsOK,
		LightingOK:     request.LightingOK,
		Notes:          request.Notes,
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.cycleRepo.GetByIDForUpdate(ctx, tx, request.CycleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return log.ErrorWithType(ErrNotFound, "cycle not found", "cycleID", request.CycleID)
			}
			return err
		}

		if err := c.inspectionRepo.Create(ctx, tx, inspection); err != nil {
			return err
		}

		if !inspection.IsConform {
			note := NonConformNote(inspection.InspectionDate, inspection.Notes)
			return c.cycleRepo.SetStatus(ctx, tx, request.CycleID, StatusNeedsVerification, &note)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.eventBus.PublishResourceChanged("inspection", inspection.ID.String(), "created"); err != nil {
		log.Warn("failed to publish resource change", "inspectionID", inspection.ID, "error", err)
	}

	log.Info(
		"Inspection recorded",
		"inspectionID", inspection.ID,
		"cycleID", request.CycleID,
		"conform", inspection.IsConform,
	)

	return inspection, nil
}

func (c *InspectionController) LatestInspection(
	ctx context.Context,
	cycleID uuid.UUID,
) (*DailyInspection, error) {
	log := c.log.Function("LatestInspection")

	latest, err := c.inspectionRepo.LatestByCycle(ctx, c.db.SQL, cycleID)
	if err != nil {
		return nil, log.Err("failed to get latest inspection", err, "cycleID", cycleID)
	}
	if latest == nil {
		return nil, log.ErrorWithType(ErrNotFound, "no inspection recorded for cycle", "cycleID", cycleID)
	}

	return latest, nil
}

func (c *InspectionController) ListInspections(
	ctx context.Context,
	cycleID uuid.UUID,
	page repositories.Pagination,
) ([]*DailyInspection, error) {
	log := c.log.Function("ListInspections")

	inspections, err := c.inspectionRepo.ListByCycle(ctx, c.db.SQL, cycleID, page)
	if err != nil {
		return nil, log.Err("failed to list inspections", err, "cycleID", cycleID)
	}

	return inspections, nil
}

// NeedsInspection is true when the cycle has no inspection at all or the
// latest one is older than 24 hours.
func (c *InspectionController) NeedsInspection(
	ctx context.Context,
	cycleID uuid.UUID,
) (bool, error) {
	log := c.log.Function("NeedsInspection")

	latest, err := c.inspectionRepo.LatestByCycle(ctx, c.db.SQL, cycleID)
	if err != nil {
		return false, log.Err("failed to get latest inspection", err, "cycleID", cycleID)
	}
	if latest == nil {
		return true, nil
	}

	return time.Since(latest.InspectionDate) > inspectionValidity, nil
}
