package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MaintenanceType string

const (
	MaintenanceTypeRoutine        MaintenanceType = "routine"
	MaintenanceTypeRepair         MaintenanceType = "repair"
	MaintenanceTypeEngineOverhaul MaintenanceType = "engine_overhaul"
	MaintenanceTypeOilChange      MaintenanceType = "oil_change"
	MaintenanceTypeBrakes         MaintenanceType = "brakes"
	MaintenanceTypeTires          MaintenanceType = "tires"
	MaintenanceTypeTransmission   MaintenanceType = "transmission"
	MaintenanceTypeOther          MaintenanceType = "other"
)

func (t MaintenanceType) IsValid() bool {
	switch t {
	case MaintenanceTypeRoutine,
		MaintenanceTypeRepair,
		MaintenanceTypeEngineOverhaul,
		MaintenanceTypeOilChange,
		MaintenanceTypeBrakes,
		MaintenanceTypeTires,
		MaintenanceTypeTransmission,
		MaintenanceTypeOther:
		return true
	}
	return false
}

// MaintenanceRecord targets a cycle, an engine, or both; at least one
// reference must be present. TotalCost = BaseCost + sum of part usages.
type MaintenanceRecord struct {
	BaseUUIDModel
	CycleID             *uuid.UUID      `gorm:"type:uuid;index:idx_maintenance_records_cycle"  json:"cycleId,omitempty"`
	EngineID            *uuid.UUID      `gorm:"type:uuid;index:idx_maintenance_records_engine" json:"engineId,omitempty"`
	Type                MaintenanceType `gorm:"type:text;not null;index:idx_maintenance_records_type" json:"type" validate:"required"`
	PerformedAt         time.Time       `gorm:"type:timestamp;not null;index:idx_maintenance_records_performed_at" json:"performedAt"`
	KilometersAtService float64         `gorm:"type:decimal(10,2);not null"        json:"kilometersAtService"`
	Technician          string          `gorm:"type:text;not null"                 json:"technician" validate:"required"`
	BaseCost            decimal.Decimal `gorm:"type:decimal(10,2);not null"        json:"baseCost"`
	TotalCost           decimal.Decimal `gorm:"type:decimal(10,2);not null"        json:"totalCost"`
	Description         *string         `gorm:"type:text"                          json:"description,omitempty"`

	// Relationships
	Cycle      *Cycle      `gorm:"foreignKey:CycleID"             json:"cycle,omitempty"`
	Engine     *Engine     `gorm:"foreignKey:EngineID"            json:"engine,omitempty"`
	PartUsages []PartUsage `gorm:"foreignKey:MaintenanceRecordID" json:"partUsages,omitempty"`
}

func (mr *MaintenanceRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if mr.CycleID == nil && mr.EngineID == nil {
		return gorm.ErrInvalidValue
	}
	if mr.Type == "" {
		return gorm.ErrInvalidValue
	}
	if !mr.Type.IsValid() {
		return gorm.ErrInvalidValue
	}
	if mr.Technician == "" {
		return gorm.ErrInvalidValue
	}
	if mr.PerformedAt.IsZero() {
		mr.PerformedAt = time.Now()
	}
	return nil
}

// PartUsage is a line item of spare-part consumption inside one maintenance.
// UnitPrice is a snapshot taken when the maintenance was created and may
// differ from the part's current catalog price.
type PartUsage struct {
	BaseUUIDModel
	PartID              uuid.UUID       `gorm:"type:uuid;not null;index:idx_part_usages_part"        json:"partId" validate:"required"`
	MaintenanceRecordID uuid.UUID       `gorm:"type:uuid;not null;index:idx_part_usages_maintenance" json:"maintenanceRecordId"`
	Quantity            int             `gorm:"type:int;not null"                                    json:"quantity" validate:"required,gt=0"`
	UnitPrice           decimal.Decimal `gorm:"type:decimal(10,2);not null"                          json:"unitPrice"`

	Part *Part `gorm:"foreignKey:PartID" json:"part,omitempty"`
}

func (pu *PartUsage) BeforeCreate(tx *gorm.DB) (err error) {
	if pu.PartID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if pu.Quantity <= 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}

// LineCost returns quantity x unit price snapshot.
func (pu *PartUsage) LineCost() decimal.Decimal {
	return pu.UnitPrice.Mul(decimal.NewFromInt(int64(pu.Quantity)))
}
