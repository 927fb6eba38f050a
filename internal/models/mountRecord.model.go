package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MountRecord is one entry of the mount/unmount ledger. UnmountedAt == nil
// means the mount is open: the engine is currently installed on the cycle.
// At most one open record may exist per cycle and per engine.
type MountRecord struct {
	BaseUUIDModel
	CycleID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_mount_records_cycle"  json:"cycleId" validate:"required"`
	EngineID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_mount_records_engine" json:"engineId" validate:"required"`
	MountedAt         time.Time  `gorm:"type:timestamp;not null"                           json:"mountedAt"`
	UnmountedAt       *time.Time `gorm:"type:timestamp;index:idx_mount_records_unmounted"  json:"unmountedAt,omitempty"`
	CycleKmAtMount    float64    `gorm:"type:decimal(10,2);not null"                       json:"cycleKmAtMount"`
	EngineKmAtMount   float64    `gorm:"type:decimal(10,2);not null"                       json:"engineKmAtMount"`
	CycleKmAtUnmount  *float64   `gorm:"type:decimal(10,2)"                                json:"cycleKmAtUnmount,omitempty"`
	EngineKmAtUnmount *float64   `gorm:"type:decimal(10,2)"                                json:"engineKmAtUnmount,omitempty"`
	Technician        string     `gorm:"type:text;not null"                                json:"technician" validate:"required"`

	Cycle  *Cycle  `gorm:"foreignKey:CycleID"  json:"cycle,omitempty"`
	Engine *Engine `gorm:"foreignKey:EngineID" json:"engine,omitempty"`
}

// IsOpen reports whether the engine is still mounted under this record.
func (m *MountRecord) IsOpen() bool {
	return m.UnmountedAt == nil
}

func (m *MountRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if m.CycleID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if m.EngineID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if m.Technician == "" {
		return gorm.ErrInvalidValue
	}
	if m.MountedAt.IsZero() {
		m.MountedAt = time.Now()
	}
	return nil
}
