package handler

import "github.com/sympatecoinc/door-quoter/internal/quoting/service"

// Handlers fulfillment HTTP handler collection
type Handlers struct {
	Formula   *FormulaHandler
	Rules     *RulesHandler
	BOM       *BOMHandler
	WorkOrder *WorkOrderHandler
	Inventory *InventoryHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Formula:   NewFormulaHandler(),
		Rules:     NewRulesHandler(services.BOM),
		BOM:       NewBOMHandler(services.BOM, services.Project, services.Export),
		WorkOrder: NewWorkOrderHandler(services.WorkOrder),
		Inventory: NewInventoryHandler(services.Inventory),
	}
}
