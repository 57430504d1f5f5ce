package service

import (
	"github.com/redis/go-redis/v9"
	"github.com/sympatecoinc/door-quoter/internal/quoting/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services fulfillment service collection
type Services struct {
	BOM       *BOMService
	WorkOrder *WorkOrderService
	Inventory *InventoryService
	Project   *ProjectService
	Export    *ExportService
}

// Options shop-floor defaults from the production config section. Zero
// values fall back to built-in defaults.
type Options struct {
	DefaultBatchSize   int
	DefaultStockLength float64
}

// NewServices wires the service layer. cache may be nil; the BOM compiler
// then runs without formula memoization.
func NewServices(repos *repository.Repositories, db *gorm.DB, cache *redis.Client, logger *zap.Logger, opts Options) *Services {
	bom := NewBOMService(repos.Part, repos.Product, repos.Project, repos.Pricing, cache, opts.DefaultStockLength, logger)
	inventory := NewInventoryService(repos.Inventory, repos.Part, repos.WorkOrder, db, logger)
	return &Services{
		BOM:       bom,
		WorkOrder: NewWorkOrderService(repos.WorkOrder, repos.Project, bom, inventory, db, opts.DefaultBatchSize, logger),
		Inventory: inventory,
		Project:   NewProjectService(repos.Project),
		Export:    NewExportService(bom),
	}
}
