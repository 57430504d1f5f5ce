package repository

import (
	"fmt"

	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
	"gorm.io/gorm"
)

type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

// CreateBatch creates a work order with its items and initial stage-history
// row as one atomic unit. A batch is never half-created.
func (r *WorkOrderRepository) CreateBatch(wo *entity.WorkOrder, initial *entity.WorkOrderStageHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(wo).Error; err != nil {
			return err
		}
		initial.WorkOrderID = wo.ID
		return openStageRow(tx, initial)
	})
}

// openStageRow inserts a history row after verifying no other row for the
// work order is still open. Guarding here, inside the same transaction,
// keeps the single-open-row invariant out of the callers' hands.
func openStageRow(tx *gorm.DB, row *entity.WorkOrderStageHistory) error {
	var open int64
	if err := tx.Model(&entity.WorkOrderStageHistory{}).
		Where("work_order_id = ? AND exited_at IS NULL", row.WorkOrderID).
		Count(&open).Error; err != nil {
		return err
	}
	if open > 0 {
		return fmt.Errorf("work order %s already has an open stage-history row", row.WorkOrderID)
	}
	return tx.Create(row).Error
}

func (r *WorkOrderRepository) GetByID(id string) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := r.db.Preload("Items").
		Preload("StageHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("entered_at ASC")
		}).
		Where("id = ? AND deleted_at IS NULL", id).First(&wo).Error
	return &wo, err
}

func (r *WorkOrderRepository) Update(wo *entity.WorkOrder) error {
	return r.db.Save(wo).Error
}

// OpenHistoryRow returns the work order's current (unexited) stage row.
func (r *WorkOrderRepository) OpenHistoryRow(workOrderID string) (*entity.WorkOrderStageHistory, error) {
	var row entity.WorkOrderStageHistory
	err := r.db.Where("work_order_id = ? AND exited_at IS NULL", workOrderID).First(&row).Error
	return &row, err
}

// MaxBatchNumber returns the highest batch number generated for a project,
// 0 when none exist. Drives idempotent regeneration.
func (r *WorkOrderRepository) MaxBatchNumber(projectID string) (int, error) {
	var result struct{ Max int }
	err := r.db.Raw(`
		SELECT COALESCE(MAX(batch_number), 0) as max
		FROM work_orders
		WHERE project_id = ? AND deleted_at IS NULL
	`, projectID).Scan(&result).Error
	return result.Max, err
}

func (r *WorkOrderRepository) ListByProject(projectID string) ([]entity.WorkOrder, error) {
	var wos []entity.WorkOrder
	err := r.db.Preload("Items").
		Where("project_id = ? AND deleted_at IS NULL", projectID).
		Order("batch_number ASC").Find(&wos).Error
	return wos, err
}

type WOListParams struct {
	Stage     string
	ProjectID string
	SortBy    string // created_at | batch_number | priority
	SortOrder string // asc | desc
	Page      int
	Size      int
}

// sortColumns is the allowlist for client-supplied sort fields.
var sortColumns = map[string]string{
	"created_at":   "created_at",
	"batch_number": "batch_number",
	"priority":     "priority",
}

func (r *WorkOrderRepository) List(params WOListParams) ([]entity.WorkOrder, int64, error) {
	query := r.db.Model(&entity.WorkOrder{}).Where("deleted_at IS NULL")
	if params.Stage != "" {
		query = query.Where("current_stage = ?", params.Stage)
	}
	if params.ProjectID != "" {
		query = query.Where("project_id = ?", params.ProjectID)
	}
	var total int64
	query.Count(&total)

	col, ok := sortColumns[params.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if params.SortOrder == "asc" {
		dir = "ASC"
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var wos []entity.WorkOrder
	err := query.Preload("Items").
		Order(col + " " + dir).
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&wos).Error
	return wos, total, err
}

// CountsByStage returns live work-order counts per current stage for the
// station dashboards. Historical rows do not contribute.
func (r *WorkOrderRepository) CountsByStage() (map[string]int64, error) {
	var rows []struct {
		CurrentStage string
		Total        int64
	}
	err := r.db.Model(&entity.WorkOrder{}).
		Select("current_stage, COUNT(*) as total").
		Where("deleted_at IS NULL").
		Group("current_stage").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(entity.StageSequence))
	for _, s := range entity.StageSequence {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.CurrentStage] = row.Total
	}
	return counts, nil
}

// DB returns the underlying db for transactions
func (r *WorkOrderRepository) DB() *gorm.DB {
	return r.db
}
