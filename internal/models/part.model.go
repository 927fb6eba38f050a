package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PartType string

const (
	PartTypeBraking      PartType = "braking"
	PartTypeTire         PartType = "tire"
	PartTypeFluid        PartType = "fluid"
	PartTypeEngine       PartType = "engine"
	PartTypeTransmission PartType = "transmission"
	PartTypeElectrical   PartType = "electrical"
	PartTypeOther        PartType = "other"
)

func (t PartType) IsValid() bool {
	switch t {
	case PartTypeBraking,
		PartTypeTire,
		PartTypeFluid,
		PartTypeEngine,
		PartTypeTransmission,
		PartTypeElectrical,
		PartTypeOther:
		return true
	}
	return false
}

// Part is an inventory item. Stock never goes negative; all adjustments go
// through the guarded increment in the part repository.
type Part struct {
	BaseUUIDModel
	Reference string          `gorm:"type:text;not null;uniqueIndex:idx_parts_reference" json:"reference" validate:"required"`
	Name      string          `gorm:"type:text;not null"                                 json:"name" validate:"required"`
	Type      PartType        `gorm:"type:text;not null;index:idx_parts_type"            json:"type" validate:"required"`
	Supplier  *string         `gorm:"type:text"                                          json:"supplier,omitempty"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"                        json:"unitPrice"`
	Stock     int             `gorm:"type:int;not null;default:0;check:stock >= 0"       json:"stock"`
	MinStock  int             `gorm:"type:int;not null;default:0"                        json:"minStock"`
	Location  *string         `gorm:"type:text"                                          json:"location,omitempty"`
}

// IsLowStock reports whether the part is at or below its minimum threshold.
func (p *Part) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

func (p *Part) BeforeCreate(tx *gorm.DB) (err error) {
	if p.Reference == "" {
		return gorm.ErrInvalidValue
	}
	if p.Name == "" {
		return gorm.ErrInvalidValue
	}
	if p.Type == "" {
		p.Type = PartTypeOther
	}
	if !p.Type.IsValid() {
		return gorm.ErrInvalidValue
	}
	if p.Stock < 0 {
		return gorm.ErrInvalidValue
	}
	if p.MinStock < 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (p *Part) BeforeUpdate(tx *gorm.DB) (err error) {
	if p.Stock < 0 {
		return gorm.ErrInvalidValue
	}
	if p.Type != "" && !p.Type.IsValid() {
		return gorm.ErrInvalidValue
	}
	return nil
}
