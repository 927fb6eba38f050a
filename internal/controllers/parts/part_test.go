package partController

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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLowStockSeverity(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		expected AlertSeverity
	}{
		{
			name:     "exhausted stock is critical",
			stock:    0,
			expected: AlertSeverityCritical,
		},
		{
			name:     "low but present stock is high",
			stock:    2,
			expected: AlertSeverityHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LowStockSeverity(tt.stock))
		})
	}
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

type fakePartRepo struct {
	repositories.PartRepository
	part *Part
}

func (f *fakePartRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Part, error) {
	if f.part == nil || f.part.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.part, nil
}

func (f *fakePartRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Part, error) {
	return f.GetByID(ctx, tx, id)
}

func (f *fakePartRepo) AdjustStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	if f.part.Stock+delta < 0 {
		return repositories.ErrStockWouldGoNegative
	}
	f.part.Stock += delta
	return nil
}

type fakeAlertRepo struct {
	repositories.AlertRepository
	hasOpen bool
	created []*Alert
}

func (f *fakeAlertRepo) HasOpenAlert(ctx context.Context, tx *gorm.DB, category AlertCategory, cycleID *uuid.UUID, partID *uuid.UUID) (bool, error) {
	return f.hasOpen, nil
}

func (f *fakeAlertRepo) Create(ctx context.Context, tx *gorm.DB, alert *Alert) error {
	f.created = append(f.created, alert)
	return nil
}

func newTestController(parts *fakePartRepo, alerts *fakeAlertRepo) (*PartController, *stubExecutor) {
	exec := &stubExecutor{}
	return &PartController{
		partRepo:           parts,
		alertRepo:          alerts,
		transactionService: exec,
		eventBus:           events.New(nil, config.Config{}),
		log:                logger.New("partController"),
	}, exec
}

func stockedPart(stock, minStock int) *Part {
	return &Part{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		Reference:     "TIRE-SLK-F",
		Name:          "Front slick tire",
		Type:          PartTypeTire,
		UnitPrice:     decimal.NewFromFloat(85),
		Stock:         stock,
		MinStock:      minStock,
	}
}

func TestAdjustStockRejectsZeroDelta(t *testing.T) {
	c := &PartController{log: logger.New("partController")}

	result, err := c.AdjustStock(context.Background(), uuid.New(), &AdjustStockRequest{Delta: 0})

	assert.Nil(t, result)
	var validationErr *validation.Error
	assert.True(t, errors.As(err, &validationErr))
	assert.NotEmpty(t, validationErr.Fields)
}

func TestAdjustStockGuardsAgainstNegativeStock(t *testing.T) {
	part := stockedPart(3, 1)
	parts := &fakePartRepo{part: part}
	alerts := &fakeAlertRepo{}
	c, exec := newTestController(parts, alerts)

	result, err := c.AdjustStock(context.Background(), part.ID, &AdjustStockRequest{Delta: -5})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, part.Stock)
	assert.Empty(t, alerts.created)
	assert.Error(t, exec.txErr)
}

func TestAdjustStockRaisesLowStockAlert(t *testing.T) {
	part := stockedPart(10, 3)
	parts := &fakePartRepo{part: part}
	alerts := &fakeAlertRepo{}
	c, _ := newTestController(parts, alerts)

	result, err := c.AdjustStock(context.Background(), part.ID, &AdjustStockRequest{Delta: -8})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Part.Stock)
	assert.True(t, result.AlertCreated)
	require.Len(t, alerts.created, 1)
	assert.Equal(t, AlertCategoryStock, alerts.created[0].Category)
	assert.Equal(t, AlertSeverityHigh, alerts.created[0].Severity)
	require.NotNil(t, alerts.created[0].PartID)
	assert.Equal(t, part.ID, *alerts.created[0].PartID)
}

func TestAdjustStockSkipsDuplicateAlert(t *testing.T) {
	part := stockedPart(4, 3)
	parts := &fakePartRepo{part: part}
	alerts := &fakeAlertRepo{hasOpen: true}
	c, _ := newTestController(parts, alerts)

	result, err := c.AdjustStock(context.Background(), part.ID, &AdjustStockRequest{Delta: -2})

	require.NoError(t, err)
	assert.False(t, result.AlertCreated)
	assert.Empty(t, alerts.created)
}
