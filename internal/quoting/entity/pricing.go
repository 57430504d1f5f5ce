package entity

import (
	"time"
)

// ExtrusionCostingMethod how partial stock lengths are charged
const (
	CostingFullStock       = "FULL_STOCK"
	CostingPercentageBased = "PERCENTAGE_BASED"
	CostingHybrid          = "HYBRID"
)

// PricingMode markup/costing configuration applied during BOM compilation.
// Markups are percentages (10 = +10%).
type PricingMode struct {
	ID                     string     `json:"id" gorm:"primaryKey;size:36"`
	Name                   string     `json:"name" gorm:"size:64;not null;uniqueIndex"`
	ExtrusionMarkup        float64    `json:"extrusion_markup" gorm:"type:decimal(8,4);default:0"`
	HardwareMarkup         float64    `json:"hardware_markup" gorm:"type:decimal(8,4);default:0"`
	GlassMarkup            float64    `json:"glass_markup" gorm:"type:decimal(8,4);default:0"`
	OtherMarkup            float64    `json:"other_markup" gorm:"type:decimal(8,4);default:0"`
	ExtrusionCostingMethod string     `json:"extrusion_costing_method" gorm:"size:20;not null;default:FULL_STOCK"`
	IsDefault              bool       `json:"is_default" gorm:"default:false"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
	DeletedAt              *time.Time `json:"deleted_at" gorm:"index"`
}

func (PricingMode) TableName() string {
	return "pricing_modes"
}

// MarkupFor returns the markup percentage for a part classification.
func (p PricingMode) MarkupFor(partType string) float64 {
	switch partType {
	case PartTypeExtrusion:
		return p.ExtrusionMarkup
	case PartTypeHardware:
		return p.HardwareMarkup
	case PartTypeGlass:
		return p.GlassMarkup
	default:
		return p.OtherMarkup
	}
}
