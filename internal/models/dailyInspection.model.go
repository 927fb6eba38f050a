package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyInspection is the pre-dispatch conformity checklist for a cycle.
// A non-conform result forces the cycle into needs_verification.
type DailyInspection struct {
	BaseUUIDModel
	CycleID        uuid.UUID `gorm:"type:uuid;not null;index:idx_daily_inspections_cycle" json:"cycleId" validate:"required"`
	InspectionDate time.Time `gorm:"type:timestamp;not null;index:idx_daily_inspections_date" json:"inspectionDate"`
	Inspector      string    `gorm:"type:text;not null" json:"inspector" validate:"required"`
	IsConform      bool      `gorm:"type:bool;not null" json:"isConform"`

	FrontBrakesOK  bool `gorm:"type:bool;not null" json:"frontBrakesOk"`
	RearBrakesOK   bool `gorm:"type:bool;not null" json:"rearBrakesOk"`
	TiresOK        bool `gorm:"type:bool;not null" json:"tiresOk"`
	SuspensionOK   bool `gorm:"type:bool;not null" json:"suspensionOk"`
	TransmissionOK bool `gorm:"type:bool;not null" json:"transmissionOk"`
	FluidLevelsOK  bool `gorm:"type:bool;not null" json:"fluidLevelsOk"`
	LightingOK     bool `gorm:"type:bool;not null" json:"lightingOk"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`

	Cycle *Cycle `gorm:"foreignKey:CycleID" json:"cycle,omitempty"`
}

func (di *DailyInspection) BeforeCreate(tx *gorm.DB) (err error) {
	if di.CycleID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if di.Inspector == "" {
		return gorm.ErrInvalidValue
	}
	if di.InspectionDate.IsZero() {
		di.InspectionDate = time.Now()
	}
	return nil
}
