package repository

import (
	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
	"gorm.io/gorm"
)

type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

func (r *PartRepository) Create(p *entity.MasterPart) error {
	return r.db.Create(p).Error
}

func (r *PartRepository) GetByID(id string) (*entity.MasterPart, error) {
	var p entity.MasterPart
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&p).Error
	return &p, err
}

func (r *PartRepository) GetByPartNumber(partNumber string) (*entity.MasterPart, error) {
	var p entity.MasterPart
	err := r.db.Where("part_number = ? AND deleted_at IS NULL", partNumber).First(&p).Error
	return &p, err
}

// ActiveRules returns the active stock-length rules for one part.
func (r *PartRepository) ActiveRules(masterPartID string) ([]entity.StockLengthRule, error) {
	var rules []entity.StockLengthRule
	err := r.db.Where("master_part_id = ? AND is_active = ? AND deleted_at IS NULL", masterPartID, true).
		Order("id ASC").Find(&rules).Error
	return rules, err
}

// AllActiveRules loads every active rule, used to build a catalog snapshot
// for one compilation run.
func (r *PartRepository) AllActiveRules() ([]entity.StockLengthRule, error) {
	var rules []entity.StockLengthRule
	err := r.db.Where("is_active = ? AND deleted_at IS NULL", true).Order("id ASC").Find(&rules).Error
	return rules, err
}

func (r *PartRepository) CreateRule(rule *entity.StockLengthRule) error {
	return r.db.Create(rule).Error
}

type PartListParams struct {
	PartType string
	Keyword  string
	Page     int
	Size     int
}

func (r *PartRepository) List(params PartListParams) ([]entity.MasterPart, int64, error) {
	query := r.db.Model(&entity.MasterPart{}).Where("deleted_at IS NULL")
	if params.PartType != "" {
		query = query.Where("part_type = ?", params.PartType)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("part_number LIKE ? OR description LIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var parts []entity.MasterPart
	err := query.Order("part_number ASC").Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&parts).Error
	return parts, total, err
}

// DB returns the underlying db for transactions
func (r *PartRepository) DB() *gorm.DB {
	return r.db
}
