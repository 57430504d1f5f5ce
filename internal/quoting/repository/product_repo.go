package repository

import (
	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *entity.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) GetByID(id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.Preload("BOM", func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL").Order("sort_order ASC")
	}).Where("id = ? AND deleted_at IS NULL", id).First(&p).Error
	return &p, err
}

// BOMEntries returns the template lines for one product in display order.
func (r *ProductRepository) BOMEntries(productID string) ([]entity.ProductBOM, error) {
	var entries []entity.ProductBOM
	err := r.db.Where("product_id = ? AND deleted_at IS NULL", productID).
		Order("sort_order ASC").Find(&entries).Error
	return entries, err
}

func (r *ProductRepository) CreateBOMEntry(e *entity.ProductBOM) error {
	return r.db.Create(e).Error
}
