package entity

import (
	"time"
)

// PartType part classification
const (
	PartTypeExtrusion = "EXTRUSION"
	PartTypeHardware  = "HARDWARE"
	PartTypeGlass     = "GLASS"
	PartTypeFoam      = "FOAM"
	PartTypeOther     = "OTHER"
)

// Rule axis the bounds are evaluated against
const (
	AppliesToHeight = "height"
	AppliesToWidth  = "width"
)

// MasterPart catalog part
type MasterPart struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	PartNumber  string     `json:"part_number" gorm:"size:64;not null;uniqueIndex"`
	Description string     `json:"description" gorm:"size:255"`
	PartType    string     `json:"part_type" gorm:"size:20;not null;default:OTHER"`
	BaseCost    float64    `json:"base_cost" gorm:"type:decimal(12,4);default:0"`
	Unit        string     `json:"unit" gorm:"size:20;not null;default:EA"`
	OnHandQty   float64    `json:"on_hand_qty" gorm:"type:decimal(12,4);default:0"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`

	StockLengthRules []StockLengthRule `json:"stock_length_rules,omitempty" gorm:"foreignKey:MasterPartID"`
}

func (MasterPart) TableName() string {
	return "master_parts"
}

// StockLengthRule maps a dimension range to the stock length and base price
// charged for an extrusion part. Nil bounds are unbounded on that side; all
// bounds are inclusive. Rules that touch at a shared endpoint can both match
// that exact value, see the resolver.
type StockLengthRule struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	MasterPartID string     `json:"master_part_id" gorm:"size:36;not null;index"`
	MinWidth     *float64   `json:"min_width" gorm:"type:decimal(12,4)"`
	MaxWidth     *float64   `json:"max_width" gorm:"type:decimal(12,4)"`
	MinHeight    *float64   `json:"min_height" gorm:"type:decimal(12,4)"`
	MaxHeight    *float64   `json:"max_height" gorm:"type:decimal(12,4)"`
	StockLength  float64    `json:"stock_length" gorm:"type:decimal(12,4);not null"`
	BasePrice    float64    `json:"base_price" gorm:"type:decimal(12,4);not null"`
	AppliesTo    string     `json:"applies_to" gorm:"size:10;not null;default:height"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`
}

func (StockLengthRule) TableName() string {
	return "stock_length_rules"
}
