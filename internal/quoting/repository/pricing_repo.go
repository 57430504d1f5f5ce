package repository

import (
	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
	"gorm.io/gorm"
)

type PricingModeRepository struct {
	db *gorm.DB
}

func NewPricingModeRepository(db *gorm.DB) *PricingModeRepository {
	return &PricingModeRepository{db: db}
}

func (r *PricingModeRepository) Create(p *entity.PricingMode) error {
	return r.db.Create(p).Error
}

func (r *PricingModeRepository) GetByID(id string) (*entity.PricingMode, error) {
	var p entity.PricingMode
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&p).Error
	return &p, err
}

// GetDefault returns the mode flagged as default, falling back to error when
// none is configured.
func (r *PricingModeRepository) GetDefault() (*entity.PricingMode, error) {
	var p entity.PricingMode
	err := r.db.Where("is_default = ? AND deleted_at IS NULL", true).First(&p).Error
	return &p, err
}
