package inspectionController

import (
	"context"
	"testing"
	"time"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/config"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/events"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubExecutor struct {
	calls int
	txErr error
}

func (s *stubExecutor) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	s.calls++
	s.txErr = fn(ctx, nil)
	return s.txErr
}

func (s *stubExecutor) ExecuteWithRetry(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	return s.Execute(ctx, fn)
}

type fakeCycleRepo struct {
	repositories.CycleRepository
	cycle       *Cycle
	statuses    []EntityStatus
	statusNotes []*string
}

func (f *fakeCycleRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Cycle, error) {
	if f.cycle == nil || f.cycle.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.cycle, nil
}

func (f *fakeCycleRepo) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status EntityStatus, notes *string) error {
	f.statuses = append(f.statuses, status)
	f.statusNotes = append(f.statusNotes, notes)
	return nil
}

type fakeInspectionRepo struct {
	repositories.InspectionRepository
	created []*DailyInspection
}

func (f *fakeInspectionRepo) Create(ctx context.Context, tx *gorm.DB, inspection *DailyInspection) error {
	f.created = append(f.created, inspection)
	return nil
}

func newTestController(cycles *fakeCycleRepo, inspections *fakeInspectionRepo) (*InspectionController, *stubExecutor) {
	exec := &stubExecutor{}
	return &InspectionController{
		inspectionRepo:     inspections,
		cycleRepo:          cycles,
		transactionService: exec,
		eventBus:           events.New(nil, config.Config{}),
		log:                logger.New("inspectionController"),
	}, exec
}

func conformRequest(cycleID uuid.UUID) CreateInspectionRequest {
	return CreateInspectionRequest{
		CycleID:        cycleID,
		Inspector:      "Nadia",
		FrontBrakesOK:  true,
		RearBrakesOK:   true,
		TiresOK:        true,
		SuspensionOK:   true,
		TransmissionOK: true,
		FluidLevelsOK:  true,
		LightingOK:     true,
	}
}

func TestChecksPass(t *testing.T) {
	request := conformRequest(uuid.New())
	assert.True(t, request.ChecksPass())

	failing := conformRequest(uuid.New())
	failing.RearBrakesOK = false
	assert.False(t, failing.ChecksPass())

	failing = conformRequest(uuid.New())
	failing.FluidLevelsOK = false
	assert.False(t, failing.ChecksPass())
}

func TestCreateInspectionConformity(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	t.Run("conformity derived from checks when absent", func(t *testing.T) {
		cycleID := uuid.New()
		cycles := &fakeCycleRepo{cycle: &Cycle{BaseUUIDModel: BaseUUIDModel{ID: cycleID}}}
		inspections := &fakeInspectionRepo{}
		c, _ := newTestController(cycles, inspections)

		request := conformRequest(cycleID)
		inspection, err := c.CreateInspection(context.Background(), &request)

		require.NoError(t, err)
		assert.True(t, inspection.IsConform)
		assert.Empty(t, cycles.statuses)
	})

	t.Run("inspector can fail an inspection despite passing checks", func(t *testing.T) {
		cycleID := uuid.New()
		cycles := &fakeCycleRepo{cycle: &Cycle{BaseUUIDModel: BaseUUIDModel{ID: cycleID}}}
		inspections := &fakeInspectionRepo{}
		c, _ := newTestController(cycles, inspections)

		request := conformRequest(cycleID)
		request.IsConform = boolPtr(false)
		comment := "unusual vibration under braking"
		request.Notes = &comment

		inspection, err := c.CreateInspection(context.Background(), &request)

		require.NoError(t, err)
		assert.False(t, inspection.IsConform)
		require.Len(t, inspections.created, 1)
		assert.False(t, inspections.created[0].IsConform)
		require.Len(t, cycles.statuses, 1)
		assert.Equal(t, StatusNeedsVerification, cycles.statuses[0])
	})

	t.Run("explicit true cannot override a failing check", func(t *testing.T) {
		cycleID := uuid.New()
		cycles := &fakeCycleRepo{cycle: &Cycle{BaseUUIDModel: BaseUUIDModel{ID: cycleID}}}
		inspections := &fakeInspectionRepo{}
		c, _ := newTestController(cycles, inspections)

		request := conformRequest(cycleID)
		request.RearBrakesOK = false
		request.IsConform = boolPtr(true)

		inspection, err := c.CreateInspection(context.Background(), &request)

		require.NoError(t, err)
		assert.False(t, inspection.IsConform)
		require.Len(t, cycles.statuses, 1)
		assert.Equal(t, StatusNeedsVerification, cycles.statuses[0])
	})
}

func TestCreateInspectionUnknownCycle(t *testing.T) {
	cycles := &fakeCycleRepo{}
	inspections := &fakeInspectionRepo{}
	c, exec := newTestController(cycles, inspections)

	request := conformRequest(uuid.New())
	inspection, err := c.CreateInspection(context.Background(), &request)

	assert.Nil(t, inspection)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, inspections.created)
	assert.Error(t, exec.txErr)
}

func TestNonConformNote(t *testing.T) {
	date := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("without notes", func(t *testing.T) {
		note := NonConformNote(date, nil)
		assert.Equal(t, "Non-conform inspection on 2026-03-14", note)
	})

	t.Run("with notes", func(t *testing.T) {
		comment := "front brake pads worn"
		note := NonConformNote(date, &comment)
		assert.Equal(t, "Non-conform inspection on 2026-03-14: front brake pads worn", note)
	})

	t.Run("empty notes treated as absent", func(t *testing.T) {
		empty := ""
		note := NonConformNote(date, &empty)
		assert.Equal(t, "Non-conform inspection on 2026-03-14", note)
	})
}
