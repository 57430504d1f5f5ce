package entity

import (
	"time"
)

// Product a sellable configuration (door/window system) expanded per panel
type Product struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	Code        string     `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name        string     `json:"name" gorm:"size:128;not null"`
	Description string     `json:"description" gorm:"type:text"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`

	BOM []ProductBOM `json:"bom,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

// ProductBOM one template line of a product's bill of materials.
// Formula is evaluated against the panel's width/height; an empty formula
// makes this a fixed-quantity line. StockLength/PartNumber/Cost are literal
// fallbacks used when no stock-length rule resolves.
type ProductBOM struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	ProductID   string     `json:"product_id" gorm:"size:36;not null;index"`
	PartType    string     `json:"part_type" gorm:"size:20;not null;default:OTHER"`
	PartName    string     `json:"part_name" gorm:"size:128;not null"`
	Formula     string     `json:"formula" gorm:"size:255"`
	Variable    string     `json:"variable" gorm:"size:64"`
	Unit        string     `json:"unit" gorm:"size:20;default:EA"`
	Quantity    float64    `json:"quantity" gorm:"type:decimal(12,4);default:1"`
	StockLength *float64   `json:"stock_length" gorm:"type:decimal(12,4)"`
	PartNumber  *string    `json:"part_number" gorm:"size:64"`
	Cost        *float64   `json:"cost" gorm:"type:decimal(12,4)"`
	SortOrder   int        `json:"sort_order" gorm:"default:0"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`
}

func (ProductBOM) TableName() string {
	return "product_boms"
}
