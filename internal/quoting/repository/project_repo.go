package repository

import (
	"fmt"

	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(p *entity.Project) error {
	return r.db.Create(p).Error
}

func (r *ProjectRepository) GetByID(id string) (*entity.Project, error) {
	var p entity.Project
	err := r.db.Preload("Openings", "deleted_at IS NULL").
		Preload("Openings.Panels", func(db *gorm.DB) *gorm.DB {
			return db.Where("deleted_at IS NULL").Order("display_order ASC")
		}).
		Where("id = ? AND deleted_at IS NULL", id).First(&p).Error
	return &p, err
}

func (r *ProjectRepository) CreateOpening(o *entity.Opening) error {
	return r.db.Create(o).Error
}

func (r *ProjectRepository) CreatePanel(p *entity.Panel) error {
	return r.db.Create(p).Error
}

// ReorderPanels applies a new display order to an opening's panels as one
// transaction; a failure midway leaves the previous ordering intact.
func (r *ProjectRepository) ReorderPanels(openingID string, orderedPanelIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, panelID := range orderedPanelIDs {
			res := tx.Model(&entity.Panel{}).
				Where("id = ? AND opening_id = ?", panelID, openingID).
				Update("display_order", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("panel %s not found in opening %s", panelID, openingID)
			}
		}
		return nil
	})
}

// DB returns the underlying db for transactions
func (r *ProjectRepository) DB() *gorm.DB {
	return r.db
}
