package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMaintenanceRecordRequiresTarget(t *testing.T) {
	record := &MaintenanceRecord{
		Type:       MaintenanceTypeRoutine,
		Technician: "J. Perez",
	}

	err := record.BeforeCreate(nil)
	assert.ErrorIs(t, err, gorm.ErrInvalidValue)

	cycleID := uuid.New()
	record.CycleID = &cycleID
	assert.NoError(t, record.BeforeCreate(nil))
	assert.False(t, record.PerformedAt.IsZero())
}

func TestMaintenanceTypeValidity(t *testing.T) {
	valid := []MaintenanceType{
		MaintenanceTypeRoutine, MaintenanceTypeRepair, MaintenanceTypeEngineOverhaul,
		MaintenanceTypeOilChange, MaintenanceTypeBrakes, MaintenanceTypeTires,
		MaintenanceTypeTransmission, MaintenanceTypeOther,
	}
	for _, mt := range valid {
		assert.True(t, mt.IsValid(), string(mt))
	}
	assert.False(t, MaintenanceType("detailing").IsValid())
}

func TestUsageSessionHookRejectsNonPositiveInputs(t *testing.T) {
	session := &UsageSession{
		CycleID:      uuid.New(),
		Operator:     "pilot",
		LapCount:     0,
		MetersPerLap: 800,
	}
	assert.ErrorIs(t, session.BeforeCreate(nil), gorm.ErrInvalidValue)

	session.LapCount = 25
	session.MetersPerLap = 0
	assert.ErrorIs(t, session.BeforeCreate(nil), gorm.ErrInvalidValue)

	session.MetersPerLap = 800
	require.NoError(t, session.BeforeCreate(nil))
	assert.Equal(t, SessionTypeNormal, session.SessionType)
	assert.False(t, session.SessionDate.IsZero())
}

func TestPartLowStock(t *testing.T) {
	part := &Part{Reference: "BRK-01", Name: "Brake pads", Type: PartTypeBraking, Stock: 5, MinStock: 5}
	assert.True(t, part.IsLowStock())

	part.Stock = 6
	assert.False(t, part.IsLowStock())
}

func TestPartHookDefaultsAndValidation(t *testing.T) {
	part := &Part{Reference: "FLT-02", Name: "Fork oil"}
	require.NoError(t, part.BeforeCreate(nil))
	assert.Equal(t, PartTypeOther, part.Type)

	part.Stock = -1
	assert.ErrorIs(t, part.BeforeUpdate(nil), gorm.ErrInvalidValue)
}

func TestPartUsageLineCost(t *testing.T) {
	usage := &PartUsage{
		PartID:    uuid.New(),
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("12.50"),
	}

	assert.True(t, usage.LineCost().Equal(decimal.RequireFromString("37.50")))
}

func TestMountRecordIsOpen(t *testing.T) {
	record := &MountRecord{
		CycleID:    uuid.New(),
		EngineID:   uuid.New(),
		Technician: "mechanic",
	}
	require.NoError(t, record.BeforeCreate(nil))
	assert.True(t, record.IsOpen())
}

func TestEntityStatusValidity(t *testing.T) {
	assert.True(t, StatusAvailable.IsValid())
	assert.True(t, StatusNeedsVerification.IsValid())
	assert.False(t, EntityStatus("parked").IsValid())
}

func TestCycleHookDefaults(t *testing.T) {
	cycle := &Cycle{SerialNumber: "CY-001", Model: "450 SX"}
	require.NoError(t, cycle.BeforeCreate(nil))
	assert.Equal(t, StatusAvailable, cycle.Status)
	assert.False(t, cycle.AcquisitionDate.IsZero())

	cycle.TotalKilometers = -1
	assert.ErrorIs(t, cycle.BeforeUpdate(nil), gorm.ErrInvalidValue)
}

func TestAlertResolve(t *testing.T) {
	alert := &Alert{
		Title:    "Stock bas",
		Message:  "Brake pads at threshold",
		Category: AlertCategoryStock,
		Severity: AlertSeverityHigh,
	}
	require.NoError(t, alert.BeforeCreate(nil))

	alert.Resolve("manager")
	assert.True(t, alert.IsResolved)
	require.NotNil(t, alert.ResolvedBy)
	assert.Equal(t, "manager", *alert.ResolvedBy)
	assert.NotNil(t, alert.ResolvedAt)
}
