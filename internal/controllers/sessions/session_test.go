package sessionController

import (
	"context"
	"errors"
	"testing"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/config"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/events"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSessionDistanceKm(t *testing.T) {
	tests := []struct {
		name         string
		lapCount     int
		metersPerLap float64
		expected     float64
	}{
		{
			name:         "25 laps of 800m is 20km",
			lapCount:     25,
			metersPerLap: 800,
			expected:     20.0,
		},
		{
			name:         "single lap",
			lapCount:     1,
			metersPerLap: 1200,
			expected:     1.2,
		},
		{
			name:         "fractional lap length",
			lapCount:     10,
			metersPerLap: 1333.5,
			expected:     13.335,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SessionDistanceKm(tt.lapCount, tt.metersPerLap), 1e-9)
		})
	}
}

func TestRecordSessionRejectsInvalidInput(t *testing.T) {
	c := &SessionController{log: logger.New("sessionController")}

	tests := []struct {
		name    string
		request RecordSessionRequest
	}{
		{
			name: "zero lap count",
			request: RecordSessionRequest{
				CycleID:      uuid.New(),
				Operator:     "Alex",
				LapCount:     0,
				MetersPerLap: 800,
			},
		},
		{
			name: "negative meters per lap",
			request: RecordSessionRequest{
				CycleID:      uuid.New(),
				Operator:     "Alex",
				LapCount:     10,
				MetersPerLap: -5,
			},
		},
		{
			name: "missing operator",
			request: RecordSessionRequest{
				CycleID:      uuid.New(),
				LapCount:     10,
				MetersPerLap: 800,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.RecordSession(context.Background(), &tt.request)

			assert.Nil(t, result)
			var validationErr *validation.Error
			assert.True(t, errors.As(err, &validationErr))
			assert.NotEmpty(t, validationErr.Fields)
		})
	}
}

func TestRecordSessionRejectsUnknownSessionType(t *testing.T) {
	c := &SessionController{log: logger.New("sessionController")}

	badType := "qualifying"
	result, err := c.RecordSession(context.Background(), &RecordSessionRequest{
		CycleID:      uuid.New(),
		Operator:     "Alex",
		LapCount:     10,
		MetersPerLap: 800,
		SessionType:  &badType,
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrValidation)
}

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
	increments []float64
}

func (f *fakeCycleRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Cycle, error) {
	if f.cycle == nil || f.cycle.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.cycle, nil
}

func (f *fakeCycleRepo) IncrementKilometers(ctx context.Context, tx *gorm.DB, id uuid.UUID, deltaKm float64) error {
	f.increments = append(f.increments, deltaKm)
	return nil
}

type fakeEngineRepo struct {
	repositories.EngineRepository
	increments map[uuid.UUID]float64
}

func (f *fakeEngineRepo) IncrementKilometers(ctx context.Context, tx *gorm.DB, id uuid.UUID, deltaKm float64) error {
	if f.increments == nil {
		f.increments = make(map[uuid.UUID]float64)
	}
	f.increments[id] += deltaKm
	return nil
}

type fakeMountRepo struct {
	repositories.MountRepository
	open *MountRecord
}

func (f *fakeMountRepo) GetOpenByCycle(ctx context.Context, tx *gorm.DB, cycleID uuid.UUID) (*MountRecord, error) {
	return f.open, nil
}

type fakeSessionRepo struct {
	repositories.SessionRepository
	created []*UsageSession
}

func (f *fakeSessionRepo) Create(ctx context.Context, tx *gorm.DB, session *UsageSession) error {
	f.created = append(f.created, session)
	return nil
}

func newTestController(
	cycles *fakeCycleRepo,
	engines *fakeEngineRepo,
	mounts *fakeMountRepo,
	sessions *fakeSessionRepo,
) (*SessionController, *stubExecutor) {
	exec := &stubExecutor{}
	return &SessionController{
		sessionRepo:        sessions,
		cycleRepo:          cycles,
		engineRepo:         engines,
		mountRepo:          mounts,
		transactionService: exec,
		eventBus:           events.New(nil, config.Config{}),
		log:                logger.New("sessionController"),
	}, exec
}

func TestRecordSessionIncrementsCycleAndMountedEngine(t *testing.T) {
	cycleID := uuid.New()
	engineID := uuid.New()
	cycles := &fakeCycleRepo{cycle: &Cycle{
		BaseUUIDModel:   BaseUUIDModel{ID: cycleID},
		TotalKilometers: 120,
	}}
	engines := &fakeEngineRepo{}
	mounts := &fakeMountRepo{open: &MountRecord{CycleID: cycleID, EngineID: engineID}}
	sessions := &fakeSessionRepo{}
	c, exec := newTestController(cycles, engines, mounts, sessions)

	result, err := c.RecordSession(context.Background(), &RecordSessionRequest{
		CycleID:      cycleID,
		Operator:     "Alex",
		LapCount:     25,
		MetersPerLap: 800,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, exec.calls)
	require.Len(t, sessions.created, 1)
	require.Len(t, cycles.increments, 1)
	assert.InDelta(t, 20.0, cycles.increments[0], 1e-9)
	assert.InDelta(t, 20.0, engines.increments[engineID], 1e-9)
	assert.InDelta(t, 140.0, result.CycleKilometers, 1e-9)
}

func TestRecordSessionWithoutMountedEngine(t *testing.T) {
	cycleID := uuid.New()
	cycles := &fakeCycleRepo{cycle: &Cycle{
		BaseUUIDModel:   BaseUUIDModel{ID: cycleID},
		TotalKilometers: 50,
	}}
	engines := &fakeEngineRepo{}
	mounts := &fakeMountRepo{}
	sessions := &fakeSessionRepo{}
	c, _ := newTestController(cycles, engines, mounts, sessions)

	result, err := c.RecordSession(context.Background(), &RecordSessionRequest{
		CycleID:      cycleID,
		Operator:     "Alex",
		LapCount:     10,
		MetersPerLap: 1000,
	})

	require.NoError(t, err)
	require.Len(t, cycles.increments, 1)
	assert.Empty(t, engines.increments)
	assert.InDelta(t, 60.0, result.CycleKilometers, 1e-9)
}

func TestRecordSessionUnknownCycleAbortsTransaction(t *testing.T) {
	cycles := &fakeCycleRepo{}
	engines := &fakeEngineRepo{}
	mounts := &fakeMountRepo{}
	sessions := &fakeSessionRepo{}
	c, exec := newTestController(cycles, engines, mounts, sessions)

	result, err := c.RecordSession(context.Background(), &RecordSessionRequest{
		CycleID:      uuid.New(),
		Operator:     "Alex",
		LapCount:     10,
		MetersPerLap: 1000,
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, sessions.created)
	assert.Empty(t, cycles.increments)
	assert.Error(t, exec.txErr)
}
