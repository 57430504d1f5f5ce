package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
	"github.com/sympatecoinc/door-quoter/internal/quoting/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InventoryService struct {
	invRepo  *repository.InventoryRepository
	partRepo *repository.PartRepository
	woRepo   *repository.WorkOrderRepository
	db       *gorm.DB
	logger   *zap.Logger
}

func NewInventoryService(invRepo *repository.InventoryRepository, partRepo *repository.PartRepository, woRepo *repository.WorkOrderRepository, db *gorm.DB, logger *zap.Logger) *InventoryService {
	return &InventoryService{invRepo: invRepo, partRepo: partRepo, woRepo: woRepo, db: db, logger: logger}
}

// demandKey aggregates work-order items by part and stock length.
type demandKey struct {
	partNumber  string
	stockLength float64
}

// DeductForWorkOrders moves the quantity the given work orders consume from
// RESERVED to PICKED, one transaction for the whole pass. Parts that cannot
// be deducted (no inventory record, insufficient reserved or on-hand) are
// skipped and counted; they never abort the pass or the work orders.
func (s *InventoryService) DeductForWorkOrders(wos []entity.WorkOrder, salesOrderID, actor string) (deducted, skipped int, err error) {
	demand := make(map[demandKey]float64)
	var order []demandKey
	for _, wo := range wos {
		for _, item := range wo.Items {
			if item.PartNumber == "" {
				skipped++
				continue
			}
			length := 0.0
			if item.StockLength != nil {
				length = *item.StockLength
			}
			k := demandKey{partNumber: item.PartNumber, stockLength: length}
			if _, ok := demand[k]; !ok {
				order = append(order, k)
			}
			demand[k] += item.Quantity
		}
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		parts := repository.NewPartRepository(tx)
		inventory := repository.NewInventoryRepository(tx)
		for _, k := range order {
			qty := demand[k]

			part, err := parts.GetByPartNumber(k.partNumber)
			if err != nil {
				s.logger.Warn("deduction skipped: unknown part",
					zap.String("part_number", k.partNumber))
				skipped++
				continue
			}

			inv, err := inventory.GetByPartAndLength(part.ID, k.stockLength)
			if err != nil {
				s.logger.Warn("deduction skipped: no inventory record",
					zap.String("part_number", k.partNumber),
					zap.Float64("stock_length", k.stockLength))
				skipped++
				continue
			}
			if inv.ReservedQty < qty || inv.OnHandQty < qty {
				s.logger.Warn("deduction skipped: insufficient quantity",
					zap.String("part_number", k.partNumber),
					zap.Float64("required", qty),
					zap.Float64("reserved", inv.ReservedQty),
					zap.Float64("on_hand", inv.OnHandQty))
				skipped++
				continue
			}

			inv.ReservedQty -= qty
			inv.PickedQty += qty
			inv.OnHandQty -= qty
			inv.LastMovedAt = &now
			if err := inventory.Update(inv); err != nil {
				return fmt.Errorf("updating inventory for %s: %w", k.partNumber, err)
			}

			audit := &entity.InventoryTransaction{
				ID:              uuid.New().String(),
				MasterPartID:    part.ID,
				PartNumber:      part.PartNumber,
				StockLength:     k.stockLength,
				TransactionType: entity.TxTypePick,
				Quantity:        -qty,
				ReferenceType:   "SO",
				ReferenceID:     salesOrderID,
				CreatedBy:       actor,
			}
			if err := inventory.CreateTransaction(audit); err != nil {
				return fmt.Errorf("recording inventory transaction for %s: %w", k.partNumber, err)
			}
			deducted++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return deducted, skipped, nil
}

// Deduct runs a deduction pass for every work order under the projects of a
// sales order. Exposed for the collaborator-triggered endpoint.
func (s *InventoryService) Deduct(salesOrderID, actor string) (deducted, skipped int, err error) {
	var projects []entity.Project
	if err := s.db.Where("sales_order_id = ? AND deleted_at IS NULL", salesOrderID).Find(&projects).Error; err != nil {
		return 0, 0, fmt.Errorf("loading projects for sales order %s: %w", salesOrderID, err)
	}
	if len(projects) == 0 {
		return 0, 0, fmt.Errorf("no projects for sales order %s", salesOrderID)
	}

	var wos []entity.WorkOrder
	for _, p := range projects {
		list, err := s.woRepo.ListByProject(p.ID)
		if err != nil {
			return 0, 0, fmt.Errorf("loading work orders for project %s: %w", p.ID, err)
		}
		wos = append(wos, list...)
	}
	return s.DeductForWorkOrders(wos, salesOrderID, actor)
}

// Reserve sets quantity aside for a sales order, upserting the inventory
// record. Used when the surrounding system confirms an order.
func (s *InventoryService) Reserve(partNumber string, stockLength, qty float64, salesOrderID, actor string) error {
	part, err := s.partRepo.GetByPartNumber(partNumber)
	if err != nil {
		return fmt.Errorf("unknown part %s: %w", partNumber, err)
	}
	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		inventory := repository.NewInventoryRepository(tx)
		inv, findErr := inventory.GetByPartAndLength(part.ID, stockLength)
		fresh := findErr != nil
		if fresh {
			inv = &entity.PartInventory{
				ID:           uuid.New().String(),
				MasterPartID: part.ID,
				PartNumber:   part.PartNumber,
				StockLength:  stockLength,
				OnHandQty:    part.OnHandQty,
			}
		}
		inv.ReservedQty += qty
		inv.LastMovedAt = &now
		if fresh {
			// Upsert absorbs a concurrent first-reserve for the same
			// part/length instead of failing on the unique index.
			if err := inventory.Upsert(inv); err != nil {
				return err
			}
		} else if err := inventory.Update(inv); err != nil {
			return err
		}
		audit := &entity.InventoryTransaction{
			ID:              uuid.New().String(),
			MasterPartID:    part.ID,
			PartNumber:      part.PartNumber,
			StockLength:     stockLength,
			TransactionType: entity.TxTypeReserve,
			Quantity:        qty,
			ReferenceType:   "SO",
			ReferenceID:     salesOrderID,
			CreatedBy:       actor,
		}
		return inventory.CreateTransaction(audit)
	})
}

func (s *InventoryService) List(params repository.InventoryListParams) ([]entity.PartInventory, int64, error) {
	return s.invRepo.List(params)
}

func (s *InventoryService) Transactions(referenceID string, page, size int) ([]entity.InventoryTransaction, int64, error) {
	return s.invRepo.ListTransactions(referenceID, page, size)
}
