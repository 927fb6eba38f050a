package maintenanceController

import (
	"context"
	"testing"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/config"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/events"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTotalCost(t *testing.T) {
	tests := []struct {
		name     string
		baseCost decimal.Decimal
		usages   []PartUsage
		expected string
	}{
		{
			name:     "no parts",
			baseCost: decimal.NewFromFloat(50),
			usages:   nil,
			expected: "50",
		},
		{
			name:     "base plus two lines",
			baseCost: decimal.NewFromFloat(100),
			usages: []PartUsage{
				{Quantity: 2, UnitPrice: decimal.NewFromFloat(19.90)},
				{Quantity: 1, UnitPrice: decimal.NewFromFloat(45.50)},
			},
			expected: "185.3",
		},
		{
			name:     "zero base cost",
			baseCost: decimal.Zero,
			usages: []PartUsage{
				{Quantity: 4, UnitPrice: decimal.NewFromFloat(12.25)},
			},
			expected: "49",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := TotalCost(tt.baseCost, tt.usages)
			assert.True(
				t,
				total.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, total.String(),
			)
		})
	}
}

func TestCreateMaintenanceRequiresTarget(t *testing.T) {
	c := &MaintenanceController{log: logger.New("maintenanceController")}

	record, err := c.CreateMaintenance(context.Background(), &CreateMaintenanceRequest{
		Type:       string(MaintenanceTypeRoutine),
		Technician: "Sam",
	})

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateMaintenanceRejectsUnknownType(t *testing.T) {
	c := &MaintenanceController{log: logger.New("maintenanceController")}

	cycleID := uuid.New()
	record, err := c.CreateMaintenance(context.Background(), &CreateMaintenanceRequest{
		CycleID:    &cycleID,
		Type:       "detailing",
		Technician: "Sam",
	})

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateMaintenanceRejectsNegativeBaseCost(t *testing.T) {
	c := &MaintenanceController{log: logger.New("maintenanceController")}

	cycleID := uuid.New()
	record, err := c.CreateMaintenance(context.Background(), &CreateMaintenanceRequest{
		CycleID:    &cycleID,
		Type:       string(MaintenanceTypeRepair),
		Technician: "Sam",
		BaseCost:   decimal.NewFromFloat(-10),
	})

	assert.Nil(t, record)
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
	cycle    *Cycle
	statuses []EntityStatus
}

func (f *fakeCycleRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Cycle, error) {
	if f.cycle == nil || f.cycle.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.cycle, nil
}

func (f *fakeCycleRepo) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status EntityStatus, notes *string) error {
	f.statuses = append(f.statuses, status)
	return nil
}

type fakePartRepo struct {
	repositories.PartRepository
	parts   map[uuid.UUID]*Part
	adjusts map[uuid.UUID]int
}

func (f *fakePartRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Part, error) {
	part, ok := f.parts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return part, nil
}

func (f *fakePartRepo) AdjustStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	part := f.parts[id]
	if part.Stock+delta < 0 {
		return repositories.ErrStockWouldGoNegative
	}
	part.Stock += delta
	if f.adjusts == nil {
		f.adjusts = make(map[uuid.UUID]int)
	}
	f.adjusts[id] += delta
	return nil
}

type fakeMaintenanceRepo struct {
	repositories.MaintenanceRepository
	created []*MaintenanceRecord
}

func (f *fakeMaintenanceRepo) Create(ctx context.Context, tx *gorm.DB, record *MaintenanceRecord) error {
	f.created = append(f.created, record)
	return nil
}

func newTestController(
	cycles *fakeCycleRepo,
	parts *fakePartRepo,
	records *fakeMaintenanceRepo,
) (*MaintenanceController, *stubExecutor) {
	exec := &stubExecutor{}
	return &MaintenanceController{
		maintenanceRepo:    records,
		cycleRepo:          cycles,
		partRepo:           parts,
		transactionService: exec,
		eventBus:           events.New(nil, config.Config{}),
		log:                logger.New("maintenanceController"),
	}, exec
}

func newPart(stock int, price float64) *Part {
	return &Part{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		Reference:     "BRK-PAD-STD",
		Name:          "Brake pads",
		Type:          PartTypeBraking,
		UnitPrice:     decimal.NewFromFloat(price),
		Stock:         stock,
	}
}

func TestCreateMaintenanceConsumesPartsAtSnapshotPrices(t *testing.T) {
	cycleID := uuid.New()
	cycles := &fakeCycleRepo{cycle: &Cycle{
		BaseUUIDModel:   BaseUUIDModel{ID: cycleID},
		TotalKilometers: 5800,
	}}
	part := newPart(10, 19.90)
	parts := &fakePartRepo{parts: map[uuid.UUID]*Part{part.ID: part}}
	records := &fakeMaintenanceRepo{}
	c, _ := newTestController(cycles, parts, records)

	record, err := c.CreateMaintenance(context.Background(), &CreateMaintenanceRequest{
		CycleID:    &cycleID,
		Type:       string(MaintenanceTypeBrakes),
		Technician: "Sam",
		BaseCost:   decimal.NewFromFloat(100),
		Parts: []PartUsageRequest{
			{PartID: part.ID, Quantity: 2},
		},
	})

	require.NoError(t, err)
	require.Len(t, records.created, 1)
	assert.InDelta(t, 5800.0, record.KilometersAtService, 1e-9)
	assert.Contains(t, cycles.statuses, StatusInMaintenance)
	assert.Equal(t, -2, parts.adjusts[part.ID])
	assert.Equal(t, 8, part.Stock)
	require.Len(t, record.PartUsages, 1)
	assert.True(t, record.PartUsages[0].UnitPrice.Equal(decimal.NewFromFloat(19.90)))
	assert.True(t, record.TotalCost.Equal(decimal.NewFromFloat(139.80)),
		"expected 139.80, got %s", record.TotalCost.String())
}

func TestCreateMaintenanceInsufficientStockLeavesNoRecord(t *testing.T) {
	cycleID := uuid.New()
	cycles := &fakeCycleRepo{cycle: &Cycle{BaseUUIDModel: BaseUUIDModel{ID: cycleID}}}
	plenty := newPart(10, 19.90)
	scarce := newPart(1, 45.50)
	parts := &fakePartRepo{parts: map[uuid.UUID]*Part{plenty.ID: plenty, scarce.ID: scarce}}
	records := &fakeMaintenanceRepo{}
	c, exec := newTestController(cycles, parts, records)

	record, err := c.CreateMaintenance(context.Background(), &CreateMaintenanceRequest{
		CycleID:    &cycleID,
		Type:       string(MaintenanceTypeRepair),
		Technician: "Sam",
		Parts: []PartUsageRequest{
			{PartID: plenty.ID, Quantity: 2},
			{PartID: scarce.ID, Quantity: 3},
		},
	})

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Empty(t, records.created)
	assert.Equal(t, 1, scarce.Stock)
	assert.Error(t, exec.txErr)
}

func TestCreateMaintenanceUnknownPartAborts(t *testing.T) {
	cycleID := uuid.New()
	cycles := &fakeCycleRepo{cycle: &Cycle{BaseUUIDModel: BaseUUIDModel{ID: cycleID}}}
	parts := &fakePartRepo{parts: map[uuid.UUID]*Part{}}
	records := &fakeMaintenanceRepo{}
	c, exec := newTestController(cycles, parts, records)

	record, err := c.CreateMaintenance(context.Background(), &CreateMaintenanceRequest{
		CycleID:    &cycleID,
		Type:       string(MaintenanceTypeRepair),
		Technician: "Sam",
		Parts: []PartUsageRequest{
			{PartID: uuid.New(), Quantity: 1},
		},
	})

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, records.created)
	assert.Error(t, exec.txErr)
}
