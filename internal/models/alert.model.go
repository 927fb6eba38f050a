package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AlertCategory string

const (
	AlertCategoryMaintenance AlertCategory = "maintenance"
	AlertCategoryStock       AlertCategory = "stock"
	AlertCategoryIncident    AlertCategory = "incident"
)

func (c AlertCategory) IsValid() bool {
	switch c {
	case AlertCategoryMaintenance, AlertCategoryStock, AlertCategoryIncident:
		return true
	}
	return false
}

type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "low"
	AlertSeverityMedium   AlertSeverity = "medium"
	AlertSeverityHigh     AlertSeverity = "high"
	AlertSeverityCritical AlertSeverity = "critical"
)

func (s AlertSeverity) IsValid() bool {
	switch s {
	case AlertSeverityLow, AlertSeverityMedium, AlertSeverityHigh, AlertSeverityCritical:
		return true
	}
	return false
}

type Alert struct {
	BaseUUIDModel
	Title      string         `gorm:"type:text;not null" json:"title" validate:"required"`
	Message    string         `gorm:"type:text;not null" json:"message" validate:"required"`
	Category   AlertCategory  `gorm:"type:text;not null;index:idx_alerts_category" json:"category" validate:"required"`
	Severity   AlertSeverity  `gorm:"type:text;not null;index:idx_alerts_severity" json:"severity" validate:"required"`
	CycleID    *uuid.UUID     `gorm:"type:uuid;index:idx_alerts_cycle" json:"cycleId,omitempty"`
	PartID     *uuid.UUID     `gorm:"type:uuid;index:idx_alerts_part"  json:"partId,omitempty"`
	Context    datatypes.JSON `gorm:"type:jsonb"                       json:"context,omitempty"`
	IsResolved bool           `gorm:"type:bool;not null;default:false;index:idx_alerts_resolved" json:"isResolved"`
	ResolvedBy *string        `gorm:"type:text"      json:"resolvedBy,omitempty"`
	ResolvedAt *time.Time     `gorm:"type:timestamp" json:"resolvedAt,omitempty"`

	Cycle *Cycle `gorm:"foreignKey:CycleID" json:"cycle,omitempty"`
	Part  *Part  `gorm:"foreignKey:PartID"  json:"part,omitempty"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) (err error) {
	if a.Title == "" || a.Message == "" {
		return gorm.ErrInvalidValue
	}
	if !a.Category.IsValid() {
		return gorm.ErrInvalidValue
	}
	if !a.Severity.IsValid() {
		return gorm.ErrInvalidValue
	}
	return nil
}

// Resolve marks the alert treated. Timestamps are set here so callers only
// supply who resolved it.
func (a *Alert) Resolve(by string) {
	now := time.Now()
	a.IsResolved = true
	a.ResolvedBy = &by
	a.ResolvedAt = &now
}
