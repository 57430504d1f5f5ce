package entity

import "gorm.io/gorm"

// AutoMigrate migrates all fulfillment tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// catalog
		&MasterPart{},
		&StockLengthRule{},
		&Product{},
		&ProductBOM{},
		&PricingMode{},

		// projects
		&Project{},
		&Opening{},
		&Panel{},

		// production
		&WorkOrder{},
		&WorkOrderItem{},
		&WorkOrderStageHistory{},

		// inventory
		&PartInventory{},
		&InventoryTransaction{},
	)
}
