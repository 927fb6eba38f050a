package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cycle is the motorcycle frame. The engine mounted on it is tracked
// separately through MountRecord; CurrentEngineID mirrors the open mount.
type Cycle struct {
	BaseUUIDModel
	SerialNumber    string       `gorm:"type:text;not null;uniqueIndex:idx_cycles_serial" json:"serialNumber" validate:"required"`
	Model           string       `gorm:"type:text;not null"                               json:"model" validate:"required"`
	AcquisitionDate time.Time    `gorm:"type:timestamp;not null"                          json:"acquisitionDate"`
	TotalKilometers float64      `gorm:"type:decimal(10,2);not null;default:0"            json:"totalKilometers"`
	Status          EntityStatus `gorm:"type:text;not null;default:'available';index:idx_cycles_status" json:"status"`
	StatusNotes     *string      `gorm:"type:text"                                        json:"statusNotes,omitempty"`
	CurrentEngineID *uuid.UUID   `gorm:"type:uuid;index:idx_cycles_current_engine"        json:"currentEngineId,omitempty"`

	// Relationships
	CurrentEngine *Engine       `gorm:"foreignKey:CurrentEngineID" json:"currentEngine,omitempty"`
	MountRecords  []MountRecord `gorm:"foreignKey:CycleID"         json:"mountRecords,omitempty"`
}

func (c *Cycle) BeforeCreate(tx *gorm.DB) (err error) {
	if c.SerialNumber == "" {
		return gorm.ErrInvalidValue
	}
	if c.Model == "" {
		return gorm.ErrInvalidValue
	}
	if c.TotalKilometers < 0 {
		return gorm.ErrInvalidValue
	}
	if c.Status == "" {
		c.Status = StatusAvailable
	}
	if !c.Status.IsValid() {
		return gorm.ErrInvalidValue
	}
	if c.AcquisitionDate.IsZero() {
		c.AcquisitionDate = time.Now()
	}
	return nil
}

func (c *Cycle) BeforeUpdate(tx *gorm.DB) (err error) {
	if c.Status != "" && !c.Status.IsValid() {
		return gorm.ErrInvalidValue
	}
	if c.TotalKilometers < 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}
