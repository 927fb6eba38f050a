package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionType string

const (
	SessionTypeNormal        SessionType = "normal"
	SessionTypeRace          SessionType = "race"
	SessionTypeTraining      SessionType = "training"
	SessionTypeTechnicalTest SessionType = "technical_test"
)

func (s SessionType) IsValid() bool {
	switch s {
	case SessionTypeNormal, SessionTypeRace, SessionTypeTraining, SessionTypeTechnicalTest:
		return true
	}
	return false
}

// UsageSession is one track outing. TotalKilometers is derived at creation
// from LapCount and MetersPerLap. Sessions are immutable once created;
// deleting one does not reverse the odometer increments it caused.
type UsageSession struct {
	BaseUUIDModel
	CycleID         uuid.UUID   `gorm:"type:uuid;not null;index:idx_usage_sessions_cycle" json:"cycleId" validate:"required"`
	SessionDate     time.Time   `gorm:"type:timestamp;not null;index:idx_usage_sessions_date" json:"sessionDate"`
	Operator        string      `gorm:"type:text;not null"                     json:"operator" validate:"required"`
	LapCount        int         `gorm:"type:int;not null"                      json:"lapCount" validate:"required,gt=0"`
	MetersPerLap    float64     `gorm:"type:decimal(10,2);not null"            json:"metersPerLap" validate:"required,gt=0"`
	TotalKilometers float64     `gorm:"type:decimal(10,2);not null"            json:"totalKilometers"`
	SessionType     SessionType `gorm:"type:text;not null;default:'normal'"    json:"sessionType"`
	Notes           *string     `gorm:"type:text"                              json:"notes,omitempty"`

	Cycle *Cycle `gorm:"foreignKey:CycleID" json:"cycle,omitempty"`
}

func (s *UsageSession) BeforeCreate(tx *gorm.DB) (err error) {
	if s.CycleID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if s.LapCount <= 0 {
		return gorm.ErrInvalidValue
	}
	if s.MetersPerLap <= 0 {
		return gorm.ErrInvalidValue
	}
	if s.SessionType == "" {
		s.SessionType = SessionTypeNormal
	}
	if !s.SessionType.IsValid() {
		return gorm.ErrInvalidValue
	}
	if s.SessionDate.IsZero() {
		s.SessionDate = time.Now()
	}
	return nil
}
