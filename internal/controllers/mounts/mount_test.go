package mountController

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
	cycle      *Cycle
	engineSets []*uuid.UUID
}

func (f *fakeCycleRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Cycle, error) {
	if f.cycle == nil || f.cycle.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.cycle, nil
}

func (f *fakeCycleRepo) SetCurrentEngine(ctx context.Context, tx *gorm.DB, id uuid.UUID, engineID *uuid.UUID) error {
	f.engineSets = append(f.engineSets, engineID)
	return nil
}

type fakeEngineRepo struct {
	repositories.EngineRepository
	engine *Engine
}

func (f *fakeEngineRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Engine, error) {
	if f.engine == nil || f.engine.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.engine, nil
}

type fakeMountRepo struct {
	repositories.MountRepository
	openByCycle  *MountRecord
	openByEngine *MountRecord
	record       *MountRecord
	created      []*MountRecord
	closed       bool
}

func (f *fakeMountRepo) GetOpenByCycle(ctx context.Context, tx *gorm.DB, cycleID uuid.UUID) (*MountRecord, error) {
	return f.openByCycle, nil
}

func (f *fakeMountRepo) GetOpenByEngine(ctx context.Context, tx *gorm.DB, engineID uuid.UUID) (*MountRecord, error) {
	return f.openByEngine, nil
}

func (f *fakeMountRepo) Create(ctx context.Context, tx *gorm.DB, record *MountRecord) error {
	f.created = append(f.created, record)
	return nil
}

func (f *fakeMountRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MountRecord, error) {
	if f.record == nil || f.record.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.record, nil
}

func (f *fakeMountRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MountRecord, error) {
	return f.GetByID(ctx, tx, id)
}

func (f *fakeMountRepo) Close(ctx context.Context, tx *gorm.DB, id uuid.UUID, cycleKm, engineKm float64) error {
	now := time.Now()
	f.record.UnmountedAt = &now
	f.record.CycleKmAtUnmount = &cycleKm
	f.record.EngineKmAtUnmount = &engineKm
	f.closed = true
	return nil
}

func newTestController(
	cycles *fakeCycleRepo,
	engines *fakeEngineRepo,
	mounts *fakeMountRepo,
) (*MountController, *stubExecutor) {
	exec := &stubExecutor{}
	return &MountController{
		mountRepo:          mounts,
		cycleRepo:          cycles,
		engineRepo:         engines,
		transactionService: exec,
		eventBus:           events.New(nil, config.Config{}),
		log:                logger.New("mountController"),
	}, exec
}

func testCycle(km float64) *Cycle {
	return &Cycle{
		BaseUUIDModel:   BaseUUIDModel{ID: uuid.New()},
		SerialNumber:    "CYC-2025-010",
		Model:           "GP Mono 125",
		TotalKilometers: km,
		Status:          StatusAvailable,
	}
}

func testEngine(km float64, status EntityStatus) *Engine {
	return &Engine{
		BaseUUIDModel:   BaseUUIDModel{ID: uuid.New()},
		SerialNumber:    "ENG-2025-010",
		EngineType:      "125cc 2T",
		TotalKilometers: km,
		Status:          status,
	}
}

func TestOpenMountRecordsOdometerSnapshots(t *testing.T) {
	cycle := testCycle(150)
	engine := testEngine(30, StatusAvailable)
	cycles := &fakeCycleRepo{cycle: cycle}
	engines := &fakeEngineRepo{engine: engine}
	mounts := &fakeMountRepo{}
	c, _ := newTestController(cycles, engines, mounts)

	record, err := c.OpenMount(context.Background(), &OpenMountRequest{
		CycleID:    cycle.ID,
		EngineID:   engine.ID,
		Technician: "Marc",
	})

	require.NoError(t, err)
	require.Len(t, mounts.created, 1)
	assert.InDelta(t, 150.0, record.CycleKmAtMount, 1e-9)
	assert.InDelta(t, 30.0, record.EngineKmAtMount, 1e-9)
	require.Len(t, cycles.engineSets, 1)
	require.NotNil(t, cycles.engineSets[0])
	assert.Equal(t, engine.ID, *cycles.engineSets[0])
}

func TestOpenMountRejectsBusyEngine(t *testing.T) {
	cycle := testCycle(0)
	engine := testEngine(0, StatusInMaintenance)
	cycles := &fakeCycleRepo{cycle: cycle}
	engines := &fakeEngineRepo{engine: engine}
	mounts := &fakeMountRepo{}
	c, exec := newTestController(cycles, engines, mounts)

	record, err := c.OpenMount(context.Background(), &OpenMountRequest{
		CycleID:    cycle.ID,
		EngineID:   engine.ID,
		Technician: "Marc",
	})

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrBusinessRule)
	assert.Empty(t, mounts.created)
	assert.Empty(t, cycles.engineSets)
	assert.Error(t, exec.txErr)
}

func TestOpenMountConflictWhenCycleOccupied(t *testing.T) {
	cycle := testCycle(0)
	engine := testEngine(0, StatusAvailable)
	cycles := &fakeCycleRepo{cycle: cycle}
	engines := &fakeEngineRepo{engine: engine}
	mounts := &fakeMountRepo{openByCycle: &MountRecord{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		CycleID:       cycle.ID,
	}}
	c, _ := newTestController(cycles, engines, mounts)

	record, err := c.OpenMount(context.Background(), &OpenMountRequest{
		CycleID:    cycle.ID,
		EngineID:   engine.ID,
		Technician: "Marc",
	})

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, mounts.created)
}

func TestOpenMountConflictWhenEngineMountedElsewhere(t *testing.T) {
	cycle := testCycle(0)
	engine := testEngine(0, StatusAvailable)
	cycles := &fakeCycleRepo{cycle: cycle}
	engines := &fakeEngineRepo{engine: engine}
	mounts := &fakeMountRepo{openByEngine: &MountRecord{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		CycleID:       uuid.New(),
		EngineID:      engine.ID,
	}}
	c, _ := newTestController(cycles, engines, mounts)

	record, err := c.OpenMount(context.Background(), &OpenMountRequest{
		CycleID:    cycle.ID,
		EngineID:   engine.ID,
		Technician: "Marc",
	})

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, mounts.created)
	assert.Empty(t, cycles.engineSets)
}

func TestCloseMountStampsOdometersAndFreesSlot(t *testing.T) {
	cycle := testCycle(420)
	engine := testEngine(180, StatusAvailable)
	open := &MountRecord{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		CycleID:       cycle.ID,
		EngineID:      engine.ID,
	}
	cycles := &fakeCycleRepo{cycle: cycle}
	engines := &fakeEngineRepo{engine: engine}
	mounts := &fakeMountRepo{record: open}
	c, _ := newTestController(cycles, engines, mounts)

	record, err := c.CloseMount(context.Background(), open.ID)

	require.NoError(t, err)
	assert.True(t, mounts.closed)
	require.NotNil(t, record.CycleKmAtUnmount)
	assert.InDelta(t, 420.0, *record.CycleKmAtUnmount, 1e-9)
	require.NotNil(t, record.EngineKmAtUnmount)
	assert.InDelta(t, 180.0, *record.EngineKmAtUnmount, 1e-9)
	require.Len(t, cycles.engineSets, 1)
	assert.Nil(t, cycles.engineSets[0])
}

func TestCloseMountAlreadyClosed(t *testing.T) {
	cycle := testCycle(0)
	engine := testEngine(0, StatusAvailable)
	unmounted := time.Now()
	closed := &MountRecord{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		CycleID:       cycle.ID,
		EngineID:      engine.ID,
		UnmountedAt:   &unmounted,
	}
	cycles := &fakeCycleRepo{cycle: cycle}
	engines := &fakeEngineRepo{engine: engine}
	mounts := &fakeMountRepo{record: closed}
	c, _ := newTestController(cycles, engines, mounts)

	record, err := c.CloseMount(context.Background(), closed.ID)

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrConflict)
	assert.False(t, mounts.closed)
	assert.Empty(t, cycles.engineSets)
}
