package models

import (
	"time"

	"gorm.io/gorm"
)

// Engine is a swappable powerplant. It exists independently of any cycle and
// is mounted on at most one cycle at a time (enforced by the mount ledger).
type Engine struct {
	BaseUUIDModel
	SerialNumber    string       `gorm:"type:text;not null;uniqueIndex:idx_engines_serial" json:"serialNumber" validate:"required"`
	EngineType      string       `gorm:"type:text;not null"                                json:"engineType" validate:"required"`
	DisplacementCC  int          `gorm:"type:int;not null"                                 json:"displacementCc"`
	AcquisitionDate time.Time    `gorm:"type:timestamp;not null"                           json:"acquisitionDate"`
	TotalKilometers float64      `gorm:"type:decimal(10,2);not null;default:0"             json:"totalKilometers"`
	TotalHours      *float64     `gorm:"type:decimal(10,2)"                                json:"totalHours,omitempty"`
	Status          EntityStatus `gorm:"type:text;not null;default:'available';index:idx_engines_status" json:"status"`

	MountRecords []MountRecord `gorm:"foreignKey:EngineID" json:"mountRecords,omitempty"`
}

func (e *Engine) BeforeCreate(tx *gorm.DB) (err error) {
	if e.SerialNumber == "" {
		return gorm.ErrInvalidValue
	}
	if e.EngineType == "" {
		return gorm.ErrInvalidValue
	}
	if e.TotalKilometers < 0 {
		return gorm.ErrInvalidValue
	}
	if e.Status == "" {
		e.Status = StatusAvailable
	}
	if !e.Status.IsValid() {
		return gorm.ErrInvalidValue
	}
	if e.AcquisitionDate.IsZero() {
		e.AcquisitionDate = time.Now()
	}
	return nil
}

func (e *Engine) BeforeUpdate(tx *gorm.DB) (err error) {
	if e.Status != "" && !e.Status.IsValid() {
		return gorm.ErrInvalidValue
	}
	if e.TotalKilometers < 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}
