package entity

import (
	"time"
)

// Inventory movement types
const (
	TxTypeReserve = "RESERVE" // quantity set aside for a confirmed sales order
	TxTypePick    = "PICK"    // reserved quantity issued to production
	TxTypeAdjust  = "ADJUST"  // manual correction
	TxTypeReceive = "RECEIVE" // stock received into on-hand
)

// PartInventory per part (and per extrusion stock length) quantity state.
// Reserved and Picked track the fulfillment lifecycle; OnHand never goes
// negative.
type PartInventory struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	MasterPartID string     `json:"master_part_id" gorm:"size:36;not null;uniqueIndex:idx_inv_part_length"`
	PartNumber   string     `json:"part_number" gorm:"size:64"`
	StockLength  float64    `json:"stock_length" gorm:"type:decimal(12,4);default:0;uniqueIndex:idx_inv_part_length"`
	OnHandQty    float64    `json:"on_hand_qty" gorm:"type:decimal(12,4);not null;default:0"`
	ReservedQty  float64    `json:"reserved_qty" gorm:"type:decimal(12,4);not null;default:0"`
	PickedQty    float64    `json:"picked_qty" gorm:"type:decimal(12,4);not null;default:0"`
	LastMovedAt  *time.Time `json:"last_moved_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`
}

func (PartInventory) TableName() string {
	return "part_inventory"
}

// InventoryTransaction audit row for every quantity movement
type InventoryTransaction struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	MasterPartID    string    `json:"master_part_id" gorm:"size:36;not null;index"`
	PartNumber      string    `json:"part_number" gorm:"size:64"`
	StockLength     float64   `json:"stock_length" gorm:"type:decimal(12,4);default:0"`
	TransactionType string    `json:"transaction_type" gorm:"size:20;not null"`
	Quantity        float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	ReferenceType   string    `json:"reference_type" gorm:"size:20"` // SO, WO
	ReferenceID     string    `json:"reference_id" gorm:"size:64;index"`
	Notes           string    `json:"notes" gorm:"type:text"`
	CreatedBy       string    `json:"created_by" gorm:"size:64"`
	CreatedAt       time.Time `json:"created_at"`
}

func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}
