package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/database"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/events"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/maintenance"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// inspectionValidity is how long a conform inspection keeps a cycle cleared
// for dispatch before the sweep flags it again.
const inspectionValidity = 24 * time.Hour

// FleetStatusJob is the daily sweep over the fleet: it raises maintenance
// alerts for cycles and engines inside the service window, flags cycles
// missing a recent conform inspection, and backstops the event driven
// low stock alerts.
type FleetStatusJob struct {
	db          database.DB
	repository  repositories.Repository
	transaction *services.TransactionService
	eventBus    *events.EventBus
	log         logger.Logger
	schedule    services.Schedule
}

func NewFleetStatusJob(
	db database.DB,
	repository repositories.Repository,
	transaction *services.TransactionService,
	eventBus *events.EventBus,
	schedule services.Schedule,
) *FleetStatusJob {
	log := logger.New("fleetStatusJob")
	log.Info("Creating new fleet status job", "schedule", schedule)

	return &FleetStatusJob{
		db:          db,
		repository:  repository,
		transaction: transaction,
		eventBus:    eventBus,
		log:         log,
		schedule:    schedule,
	}
}

func (j *FleetStatusJob) Name() string {
	return "DailyFleetStatusSweep"
}

func (j *FleetStatusJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *FleetStatusJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting fleet status sweep")

	created := 0
	if err := j.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		n, err := j.sweepCycles(ctx, tx)
		if err != nil {
			return err
		}
		created += n

		n, err = j.sweepStock(ctx, tx)
		if err != nil {
			return err
		}
		created += n

		return nil
	}); err != nil {
		return log.Err("fleet status sweep failed", err)
	}

	log.Info("Fleet status sweep completed", "alertsCreated", created)
	return nil
}

func (j *FleetStatusJob) sweepCycles(ctx context.Context, tx *gorm.DB) (int, error) {
	log := j.log.Function("sweepCycles")

	created := 0
	page := repositories.Pagination{Page: 1, PageSize: 200}
	for {
		cycles, total, err := j.repository.Cycle.List(ctx, tx, repositories.CycleFilter{}, page)
		if err != nil {
			return created, err
		}

		for _, cycle := range cycles {
			alert, err := j.cycleAlert(ctx, tx, cycle)
			if err != nil {
				return created, err
			}
			if alert == nil {
				continue
			}

			if err := j.repository.Alert.Create(ctx, tx, alert); err != nil {
				return created, err
			}
			created++

			if err := j.eventBus.PublishAlertCreated(alert); err != nil {
				log.Warn("failed to publish alert event", "alertId", alert.ID, "error", err)
			}
		}

		if int64(page.Page*page.PageSize) >= total {
			break
		}
		page.Page++
	}

	return created, nil
}

// cycleAlert builds at most one maintenance alert per cycle and sweep. The
// reasons are accumulated so a cycle that is both overdue for service and
// missing an inspection produces a single alert carrying both.
func (j *FleetStatusJob) cycleAlert(
	ctx context.Context,
	tx *gorm.DB,
	cycle *models.Cycle,
) (*models.Alert, error) {
	var reasons []string
	severity := models.AlertSeverityMedium

	urgency := maintenance.UrgencyFor(cycle.TotalKilometers, maintenance.CycleServiceIntervalKm)
	if urgency != maintenance.UrgencyOK {
		remaining := maintenance.RemainingKilometers(
			cycle.TotalKilometers,
			maintenance.CycleServiceIntervalKm,
		)
		reasons = append(reasons, fmt.Sprintf("cycle service in %.0f km", remaining))
	}

	if cycle.CurrentEngine != nil {
		engineUrgency := maintenance.UrgencyFor(
			cycle.CurrentEngine.TotalKilometers,
			maintenance.EngineServiceIntervalKm,
		)
		if engineUrgency != maintenance.UrgencyOK {
			remaining := maintenance.RemainingKilometers(
				cycle.CurrentEngine.TotalKilometers,
				maintenance.EngineServiceIntervalKm,
			)
			reasons = append(
				reasons,
				fmt.Sprintf("engine %s service in %.0f km", cycle.CurrentEngine.SerialNumber, remaining),
			)
		}
		urgency = maintenance.CombinedUrgency(urgency, engineUrgency)
	}

	if urgency == maintenance.UrgencyCritical {
		severity = models.AlertSeverityHigh
	}

	if cycle.Status == models.StatusAvailable {
		due, err := j.inspectionDue(ctx, tx, cycle)
		if err != nil {
			return nil, err
		}
		if due {
			reasons = append(reasons, "no conform inspection in the last 24h")
		}
	}

	if len(reasons) == 0 {
		return nil, nil
	}

	exists, err := j.repository.Alert.HasOpenAlert(
		ctx,
		tx,
		models.AlertCategoryMaintenance,
		&cycle.ID,
		nil,
	)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	details, err := json.Marshal(map[string]any{
		"reasons":         reasons,
		"totalKilometers": cycle.TotalKilometers,
		"urgency":         urgency.String(),
	})
	if err != nil {
		return nil, err
	}

	cycleID := cycle.ID
	return &models.Alert{
		Title:    fmt.Sprintf("Attention required: %s", cycle.SerialNumber),
		Message:  fmt.Sprintf("%s: %s", cycle.SerialNumber, reasons[0]),
		Category: models.AlertCategoryMaintenance,
		Severity: severity,
		CycleID:  &cycleID,
		Context:  details,
	}, nil
}

func (j *FleetStatusJob) inspectionDue(
	ctx context.Context,
	tx *gorm.DB,
	cycle *models.Cycle,
) (bool, error) {
	latest, err := j.repository.Inspection.LatestByCycle(ctx, tx, cycle.ID)
	if err != nil {
		return false, err
	}
	if latest == nil {
		return true, nil
	}
	if !latest.IsConform {
		return true, nil
	}
	return time.Since(latest.InspectionDate) > inspectionValidity, nil
}

// sweepStock backstops the alerts raised at adjustment time, catching parts
// whose stock alert was resolved while the level is still low.
func (j *FleetStatusJob) sweepStock(ctx context.Context, tx *gorm.DB) (int, error) {
	log := j.log.Function("sweepStock")

	parts, _, err := j.repository.Part.List(
		ctx,
		tx,
		repositories.PartFilter{LowStockOnly: true},
		repositories.Pagination{Page: 1, PageSize: 200},
	)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, part := range parts {
		exists, err := j.repository.Alert.HasOpenAlert(
			ctx,
			tx,
			models.AlertCategoryStock,
			nil,
			&part.ID,
		)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		severity := models.AlertSeverityHigh
		if part.Stock == 0 {
			severity = models.AlertSeverityCritical
		}

		partID := part.ID
		alert := &models.Alert{
			Title: fmt.Sprintf("Low stock: %s", part.Name),
			Message: fmt.Sprintf(
				"%s (%s) is at %d units, minimum is %d",
				part.Name,
				part.Reference,
				part.Stock,
				part.MinStock,
			),
			Category: models.AlertCategoryStock,
			Severity: severity,
			PartID:   &partID,
		}

		if err := j.repository.Alert.Create(ctx, tx, alert); err != nil {
			return created, err
		}
		created++

		if err := j.eventBus.PublishAlertCreated(alert); err != nil {
			log.Warn("failed to publish alert event", "alertId", alert.ID, "error", err)
		}
	}

	return created, nil
}
