package entity

import (
	"time"
)

// Project customer job holding openings to be fulfilled
type Project struct {
	ID                  string     `json:"id" gorm:"primaryKey;size:36"`
	Name                string     `json:"name" gorm:"size:128;not null"`
	CustomerName        string     `json:"customer_name" gorm:"size:128"`
	SalesOrderID        string     `json:"sales_order_id" gorm:"size:64;index"`
	SalesOrderConfirmed bool       `json:"sales_order_confirmed" gorm:"default:false"`
	PricingModeID       string     `json:"pricing_mode_id" gorm:"size:36"`
	DefaultBatchSize    int        `json:"default_batch_size" gorm:"default:25"`
	CreatedBy           string     `json:"created_by" gorm:"size:64"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	DeletedAt           *time.Time `json:"deleted_at" gorm:"index"`

	Openings []Opening `json:"openings,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}

// Opening one rough opening in the project, holding one or more panels
type Opening struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	ProjectID    string     `json:"project_id" gorm:"size:36;not null;index"`
	Name         string     `json:"name" gorm:"size:64;not null"`
	RoughWidth   float64    `json:"rough_width" gorm:"type:decimal(12,4);not null"`
	RoughHeight  float64    `json:"rough_height" gorm:"type:decimal(12,4);not null"`
	FinishWidth  float64    `json:"finish_width" gorm:"type:decimal(12,4)"`
	FinishHeight float64    `json:"finish_height" gorm:"type:decimal(12,4)"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`

	Panels []Panel `json:"panels,omitempty" gorm:"foreignKey:OpeningID"`
}

func (Opening) TableName() string {
	return "openings"
}

// Panel one product instance within an opening
type Panel struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	OpeningID    string     `json:"opening_id" gorm:"size:36;not null;index"`
	ProductID    string     `json:"product_id" gorm:"size:36;not null"`
	Width        float64    `json:"width" gorm:"type:decimal(12,4);not null"`
	Height       float64    `json:"height" gorm:"type:decimal(12,4);not null"`
	DisplayOrder int        `json:"display_order" gorm:"default:0"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`
}

func (Panel) TableName() string {
	return "panels"
}
