package repository

import "gorm.io/gorm"

// Repositories fulfillment data access collection
type Repositories struct {
	Part      *PartRepository
	Product   *ProductRepository
	Project   *ProjectRepository
	Pricing   *PricingModeRepository
	WorkOrder *WorkOrderRepository
	Inventory *InventoryRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Part:      NewPartRepository(db),
		Product:   NewProductRepository(db),
		Project:   NewProjectRepository(db),
		Pricing:   NewPricingModeRepository(db),
		WorkOrder: NewWorkOrderRepository(db),
		Inventory: NewInventoryRepository(db),
	}
}
