package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
	"github.com/sympatecoinc/door-quoter/internal/quoting/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WorkOrderService struct {
	woRepo           *repository.WorkOrderRepository
	projRepo         *repository.ProjectRepository
	bom              *BOMService
	inventory        *InventoryService
	db               *gorm.DB
	defaultBatchSize int
	logger           *zap.Logger

	// Serializes generation per project so concurrent triggers cannot
	// interleave the check-existing/create-missing sequence.
	genMu    sync.Mutex
	genLocks map[string]*sync.Mutex
}

func NewWorkOrderService(
	woRepo *repository.WorkOrderRepository,
	projRepo *repository.ProjectRepository,
	bom *BOMService,
	inventory *InventoryService,
	db *gorm.DB,
	defaultBatchSize int,
	logger *zap.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		woRepo:           woRepo,
		projRepo:         projRepo,
		bom:              bom,
		inventory:        inventory,
		db:               db,
		defaultBatchSize: defaultBatchSize,
		logger:           logger,
		genLocks:         make(map[string]*sync.Mutex),
	}
}

func (s *WorkOrderService) projectLock(projectID string) *sync.Mutex {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if _, ok := s.genLocks[projectID]; !ok {
		s.genLocks[projectID] = &sync.Mutex{}
	}
	return s.genLocks[projectID]
}

// DeductionResult outcome of the best-effort inventory deduction run after
// generation. Failure here never invalidates the created work orders.
type DeductionResult struct {
	Success       bool   `json:"success"`
	DeductedCount int    `json:"deducted_count"`
	SkippedCount  int    `json:"skipped_count"`
	Error         string `json:"error,omitempty"`
}

// GenerateResult counts and work orders from one generation run.
type GenerateResult struct {
	WorkOrders []entity.WorkOrder `json:"work_orders"`
	Created    int                `json:"created"`
	Skipped    int                `json:"skipped"`
	Deduction  *DeductionResult   `json:"deduction,omitempty"`
}

// Generate compiles the project's cut list, partitions it into batches no
// larger than the effective batch size, and creates one STAGED work order
// per missing batch. Batches that already exist are skipped, never
// recreated, so repeat calls are idempotent. Each batch is one transaction.
func (s *WorkOrderService) Generate(projectID string, batchSizeOverride int, actor string) (*GenerateResult, error) {
	lock := s.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	project, err := s.projRepo.GetByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	items, err := s.bom.CompileProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("compiling cut list: %w", err)
	}

	batchSize := batchSizeOverride
	if batchSize <= 0 {
		batchSize = project.DefaultBatchSize
	}
	if batchSize <= 0 {
		batchSize = s.defaultBatchSize
	}
	if batchSize <= 0 {
		batchSize = 25
	}

	existing, err := s.woRepo.MaxBatchNumber(projectID)
	if err != nil {
		return nil, fmt.Errorf("checking existing batches: %w", err)
	}

	result := &GenerateResult{}
	now := time.Now()
	// wo_code carries a global unique index, so the code must distinguish
	// projects generating on the same day, not just date and batch.
	projectTag := projectID
	if len(projectTag) > 8 {
		projectTag = projectTag[:8]
	}
	for start, batchNumber := 0, 1; start < len(items); start, batchNumber = start+batchSize, batchNumber+1 {
		if batchNumber <= existing {
			result.Skipped++
			continue
		}
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}

		wo := &entity.WorkOrder{
			ID:           uuid.New().String(),
			WOCode:       fmt.Sprintf("WO-%s-%s-%03d", now.Format("20060102"), projectTag, batchNumber),
			ProjectID:    projectID,
			BatchNumber:  batchNumber,
			CurrentStage: entity.StageStaged,
			CreatedBy:    actor,
		}
		for _, item := range items[start:end] {
			wo.Items = append(wo.Items, entity.WorkOrderItem{
				ID:          uuid.New().String(),
				WorkOrderID: wo.ID,
				PartNumber:  item.PartNumber,
				Description: item.Description,
				PartType:    item.PartType,
				OpeningName: item.OpeningName,
				Quantity:    item.Quantity,
				Unit:        item.Unit,
				CutLength:   item.CutLength,
				StockLength: item.StockLength,
				NeedsReview: item.NeedsReview,
			})
		}
		initial := &entity.WorkOrderStageHistory{
			ID:        uuid.New().String(),
			Stage:     entity.StageStaged,
			EnteredAt: now,
			EnteredBy: actor,
		}
		if err := s.woRepo.CreateBatch(wo, initial); err != nil {
			return nil, fmt.Errorf("creating batch %d: %w", batchNumber, err)
		}
		result.WorkOrders = append(result.WorkOrders, *wo)
		result.Created++
	}

	// Inventory deduction is best effort: a failure is reported, not
	// rolled back, because the work orders and the physical parts exist
	// either way.
	if result.Created > 0 {
		deducted, skipped, err := s.inventory.DeductForWorkOrders(result.WorkOrders, project.SalesOrderID, actor)
		result.Deduction = &DeductionResult{
			Success:       err == nil,
			DeductedCount: deducted,
			SkippedCount:  skipped,
		}
		if err != nil {
			result.Deduction.Error = err.Error()
			s.logger.Error("inventory deduction failed after work order generation",
				zap.String("project_id", projectID),
				zap.Int("created", result.Created),
				zap.Error(err),
			)
		}
	}
	return result, nil
}

// StartInfo who started work on the current stage and when.
type StartInfo struct {
	StartedAt time.Time `json:"started_at"`
	StartedBy string    `json:"started_by"`
}

// Start marks work begun on the work order's current stage. Idempotent:
// starting an already-started stage returns the original start info. The
// update is conditional on started_at still being NULL, so two stations
// racing to start cannot overwrite each other.
func (s *WorkOrderService) Start(workOrderID, actor string) (*StartInfo, error) {
	now := time.Now()
	res := s.db.Model(&entity.WorkOrderStageHistory{}).
		Where("work_order_id = ? AND exited_at IS NULL AND started_at IS NULL", workOrderID).
		Updates(map[string]interface{}{"started_at": now, "started_by": actor})
	if res.Error != nil {
		return nil, fmt.Errorf("recording stage start: %w", res.Error)
	}

	row, err := s.woRepo.OpenHistoryRow(workOrderID)
	if err != nil {
		return nil, fmt.Errorf("work order %s has no open stage-history row: %w", workOrderID, err)
	}
	if row.StartedAt == nil {
		return nil, fmt.Errorf("work order %s stage start not recorded", workOrderID)
	}
	return &StartInfo{StartedAt: *row.StartedAt, StartedBy: row.StartedBy}, nil
}

// AdvanceStage moves the work order to the next stage in the fixed
// sequence: the open history row is closed and a row for the next stage is
// opened in the same transaction. Advancing from COMPLETE is rejected.
func (s *WorkOrderService) AdvanceStage(workOrderID, actor string) (*entity.WorkOrder, error) {
	wo, err := s.woRepo.GetByID(workOrderID)
	if err != nil {
		return nil, fmt.Errorf("work order not found: %w", err)
	}
	next := entity.NextStage(wo.CurrentStage)
	if next == "" {
		return nil, fmt.Errorf("work order %s is %s and cannot advance", wo.WOCode, wo.CurrentStage)
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var open entity.WorkOrderStageHistory
		if err := tx.Where("work_order_id = ? AND exited_at IS NULL", workOrderID).First(&open).Error; err != nil {
			return fmt.Errorf("no open stage-history row: %w", err)
		}
		open.ExitedAt = &now
		open.ExitedBy = actor
		if err := tx.Save(&open).Error; err != nil {
			return err
		}
		nextRow := &entity.WorkOrderStageHistory{
			ID:          uuid.New().String(),
			WorkOrderID: workOrderID,
			Stage:       next,
			EnteredAt:   now,
			EnteredBy:   actor,
		}
		if err := tx.Create(nextRow).Error; err != nil {
			return err
		}
		return tx.Model(&entity.WorkOrder{}).Where("id = ?", workOrderID).
			Update("current_stage", next).Error
	})
	if err != nil {
		return nil, err
	}
	return s.woRepo.GetByID(workOrderID)
}

// TimeInCurrentStage returns whole minutes since the current stage was
// entered.
func (s *WorkOrderService) TimeInCurrentStage(workOrderID string) (int64, error) {
	row, err := s.woRepo.OpenHistoryRow(workOrderID)
	if err != nil {
		return 0, fmt.Errorf("work order %s has no open stage-history row: %w", workOrderID, err)
	}
	return int64(time.Since(row.EnteredAt).Minutes()), nil
}

// ListByStage returns work orders filtered/sorted for the station
// dashboards, along with live per-stage counts.
func (s *WorkOrderService) ListByStage(params repository.WOListParams) ([]entity.WorkOrder, int64, map[string]int64, error) {
	wos, total, err := s.woRepo.List(params)
	if err != nil {
		return nil, 0, nil, err
	}
	counts, err := s.woRepo.CountsByStage()
	if err != nil {
		return nil, 0, nil, err
	}
	return wos, total, counts, nil
}

func (s *WorkOrderService) GetByID(id string) (*entity.WorkOrder, error) {
	return s.woRepo.GetByID(id)
}
