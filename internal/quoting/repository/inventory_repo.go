package repository

import (
	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// GetByPartAndLength returns the inventory record for a part at a specific
// stock length. Hardware and other non-length parts use stock length 0.
func (r *InventoryRepository) GetByPartAndLength(masterPartID string, stockLength float64) (*entity.PartInventory, error) {
	var inv entity.PartInventory
	err := r.db.Where("master_part_id = ? AND stock_length = ? AND deleted_at IS NULL", masterPartID, stockLength).
		First(&inv).Error
	return &inv, err
}

// Upsert creates or refreshes the inventory record keyed by part and length.
func (r *InventoryRepository) Upsert(inv *entity.PartInventory) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "master_part_id"}, {Name: "stock_length"}},
		DoUpdates: clause.AssignmentColumns([]string{"on_hand_qty", "reserved_qty", "picked_qty", "last_moved_at", "updated_at"}),
	}).Create(inv).Error
}

func (r *InventoryRepository) Update(inv *entity.PartInventory) error {
	return r.db.Save(inv).Error
}

func (r *InventoryRepository) CreateTransaction(tx *entity.InventoryTransaction) error {
	return r.db.Create(tx).Error
}

type InventoryListParams struct {
	MasterPartID string
	Shortfall    bool // reserved exceeds on-hand; purchasing needs to act
	Page         int
	Size         int
}

func (r *InventoryRepository) List(params InventoryListParams) ([]entity.PartInventory, int64, error) {
	query := r.db.Model(&entity.PartInventory{}).Where("deleted_at IS NULL")
	if params.MasterPartID != "" {
		query = query.Where("master_part_id = ?", params.MasterPartID)
	}
	if params.Shortfall {
		query = query.Where("reserved_qty > on_hand_qty")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.PartInventory
	err := query.Order("updated_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

func (r *InventoryRepository) ListTransactions(referenceID string, page, size int) ([]entity.InventoryTransaction, int64, error) {
	query := r.db.Model(&entity.InventoryTransaction{})
	if referenceID != "" {
		query = query.Where("reference_id = ?", referenceID)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var txs []entity.InventoryTransaction
	err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&txs).Error
	return txs, total, err
}

// DB returns the underlying db for transactions
func (r *InventoryRepository) DB() *gorm.DB {
	return r.db
}
