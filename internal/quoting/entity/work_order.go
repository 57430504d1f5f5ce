package entity

import (
	"time"
)

// Production stages, in shop-floor order. Transitions are strictly forward.
const (
	StageStaged   = "STAGED"
	StageCutting  = "CUTTING"
	StageMilling  = "MILLING"
	StageAssembly = "ASSEMBLY"
	StageQC       = "QC"
	StageShip     = "SHIP"
	StageComplete = "COMPLETE"
)

// StageSequence is the fixed pipeline order.
var StageSequence = []string{
	StageStaged,
	StageCutting,
	StageMilling,
	StageAssembly,
	StageQC,
	StageShip,
	StageComplete,
}

// NextStage returns the stage after s, or "" when s is terminal or unknown.
func NextStage(s string) string {
	for i, st := range StageSequence {
		if st == s && i+1 < len(StageSequence) {
			return StageSequence[i+1]
		}
	}
	return ""
}

// WorkOrder one production batch of cut-list items for a project
type WorkOrder struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	WOCode       string     `json:"wo_code" gorm:"size:50;not null;uniqueIndex"`
	ProjectID    string     `json:"project_id" gorm:"size:36;not null;index;uniqueIndex:idx_wo_project_batch"`
	BatchNumber  int        `json:"batch_number" gorm:"not null;uniqueIndex:idx_wo_project_batch"`
	CurrentStage string     `json:"current_stage" gorm:"size:20;not null;default:STAGED;index"`
	Priority     int        `json:"priority" gorm:"default:0"` // 0=normal, 1=rush, 2=hot
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedBy    string     `json:"created_by" gorm:"size:64"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`

	Items        []WorkOrderItem         `json:"items,omitempty" gorm:"foreignKey:WorkOrderID"`
	StageHistory []WorkOrderStageHistory `json:"stage_history,omitempty" gorm:"foreignKey:WorkOrderID"`
}

func (WorkOrder) TableName() string {
	return "work_orders"
}

// WorkOrderItem one concrete part requirement inside a batch
type WorkOrderItem struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	WorkOrderID  string    `json:"work_order_id" gorm:"size:36;not null;index"`
	PartNumber   string    `json:"part_number" gorm:"size:64;not null"`
	Description  string    `json:"description" gorm:"size:255"`
	PartType     string    `json:"part_type" gorm:"size:20"`
	OpeningName  string    `json:"opening_name" gorm:"size:64"`
	Quantity     float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Unit         string    `json:"unit" gorm:"size:20;default:EA"`
	CutLength    *float64  `json:"cut_length" gorm:"type:decimal(12,4)"`
	StockLength  *float64  `json:"stock_length" gorm:"type:decimal(12,4)"`
	NeedsReview  bool      `json:"needs_review" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (WorkOrderItem) TableName() string {
	return "work_order_items"
}

// WorkOrderStageHistory one stage visit. The row with ExitedAt nil is the
// work order's current stage; at most one such row exists per work order.
type WorkOrderStageHistory struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	WorkOrderID string     `json:"work_order_id" gorm:"size:36;not null;index"`
	Stage       string     `json:"stage" gorm:"size:20;not null"`
	EnteredAt   time.Time  `json:"entered_at" gorm:"not null"`
	EnteredBy   string     `json:"entered_by" gorm:"size:64"`
	StartedAt   *time.Time `json:"started_at"`
	StartedBy   string     `json:"started_by" gorm:"size:64"`
	ExitedAt    *time.Time `json:"exited_at" gorm:"index"`
	ExitedBy    string     `json:"exited_by" gorm:"size:64"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (WorkOrderStageHistory) TableName() string {
	return "work_order_stage_history"
}
