package service

import (
	"math"
	"testing"

	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
	"github.com/sympatecoinc/door-quoter/internal/quoting/rules"
	"go.uber.org/zap"
)

func newTestBOMService() *BOMService {
	return NewBOMService(nil, nil, nil, nil, nil, 0, zap.NewNop())
}

func f(v float64) *float64 { return &v }
func str(s string) *string { return &s }

// railSnapshot is a catalog with one extrusion part and the two touching
// height ranges from the catalog's vertical rail pricing.
func railSnapshot(costingMethod string) *CatalogSnapshot {
	part := entity.MasterPart{
		ID:         "part-rail",
		PartNumber: "EXT-100",
		PartType:   entity.PartTypeExtrusion,
		Unit:       "IN",
		IsActive:   true,
	}
	return &CatalogSnapshot{
		Parts: map[string]entity.MasterPart{"EXT-100": part},
		Rules: []entity.StockLengthRule{
			{
				ID: "rule-a", MasterPartID: "part-rail",
				MinHeight: f(84), MaxHeight: f(96),
				StockLength: 96, BasePrice: 15,
				AppliesTo: entity.AppliesToHeight, IsActive: true,
			},
			{
				ID: "rule-b", MasterPartID: "part-rail",
				MinHeight: f(96), MaxHeight: f(120),
				StockLength: 120, BasePrice: 50,
				AppliesTo: entity.AppliesToHeight, IsActive: true,
			},
		},
		PricingMode: entity.PricingMode{ExtrusionCostingMethod: costingMethod},
	}
}

func TestCompileFormulaDrivesRuleSelection(t *testing.T) {
	svc := newTestBOMService()
	snap := railSnapshot(entity.CostingFullStock)
	entries := []entity.ProductBOM{
		{
			PartType:   entity.PartTypeExtrusion,
			PartName:   "Vertical Rail",
			Formula:    "height - 2",
			Quantity:   1,
			PartNumber: str("EXT-100"),
		},
	}

	// Panel height 96 cuts at 94, which only the 84-96 range covers: the
	// boundary ambiguity is specific to the exact value 96.
	parts := svc.Compile(entries, rules.Dimensions{Width: 36, Height: 96}, snap)
	if len(parts) != 1 {
		t.Fatalf("expected 1 compiled part, got %d", len(parts))
	}
	cp := parts[0]
	if cp.CutLength == nil || *cp.CutLength != 94 {
		t.Fatalf("expected cut length 94, got %v", cp.CutLength)
	}
	if cp.RuleID != "rule-a" {
		t.Fatalf("expected rule-a to govern, got %q", cp.RuleID)
	}
	if cp.StockLength == nil || *cp.StockLength != 96 {
		t.Fatalf("expected stock length 96, got %v", cp.StockLength)
	}
	if cp.UnitCost != 15 || cp.ExtendedCost != 15 {
		t.Fatalf("expected full-stock cost 15/15, got %v/%v", cp.UnitCost, cp.ExtendedCost)
	}
	if cp.NeedsReview {
		t.Fatal("line should not need review")
	}
}

func TestCompileCostingMethods(t *testing.T) {
	entries := []entity.ProductBOM{
		{
			PartType:   entity.PartTypeExtrusion,
			PartName:   "Header",
			Formula:    "width",
			Quantity:   1,
			PartNumber: str("EXT-100"),
		},
	}
	// width 90 cuts 90 from the 96" stick at $15 base.
	wideSnap := func(method string) *CatalogSnapshot {
		s := railSnapshot(method)
		for i := range s.Rules {
			s.Rules[i].AppliesTo = entity.AppliesToWidth
			s.Rules[i].MinWidth, s.Rules[i].MaxWidth = s.Rules[i].MinHeight, s.Rules[i].MaxHeight
			s.Rules[i].MinHeight, s.Rules[i].MaxHeight = nil, nil
		}
		return s
	}

	tests := []struct {
		method string
		qty    float64
		want   float64
	}{
		{entity.CostingFullStock, 1, 15},          // whole stick regardless of the 90/96 cut
		{entity.CostingPercentageBased, 1, 14.06}, // 15 * 90/96, cent-rounded
		{entity.CostingHybrid, 2.5, 37.03},        // 2 full sticks + half a piece at 90/96
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			svc := newTestBOMService()
			entries[0].Quantity = tt.qty
			parts := svc.Compile(entries, rules.Dimensions{Width: 90, Height: 80}, wideSnap(tt.method))
			if len(parts) != 1 {
				t.Fatalf("expected 1 part, got %d", len(parts))
			}
			if math.Abs(parts[0].ExtendedCost-tt.want) > 0.02 {
				t.Fatalf("%s: extended cost = %v, want ~%v", tt.method, parts[0].ExtendedCost, tt.want)
			}
		})
	}
}

func TestCompileAppliesCategoryMarkup(t *testing.T) {
	svc := newTestBOMService()
	snap := &CatalogSnapshot{
		Parts: map[string]entity.MasterPart{
			"HW-200": {
				ID: "part-hinge", PartNumber: "HW-200",
				PartType: entity.PartTypeHardware, BaseCost: 10, Unit: "EA", IsActive: true,
			},
		},
		PricingMode: entity.PricingMode{
			HardwareMarkup:         25,
			ExtrusionCostingMethod: entity.CostingFullStock,
		},
	}
	entries := []entity.ProductBOM{
		{
			PartType:   entity.PartTypeHardware,
			PartName:   "Hinge",
			Quantity:   3,
			PartNumber: str("HW-200"),
		},
	}

	parts := svc.Compile(entries, rules.Dimensions{Width: 36, Height: 96}, snap)
	if parts[0].UnitCost != 12.5 {
		t.Fatalf("expected marked-up unit cost 12.50, got %v", parts[0].UnitCost)
	}
	if parts[0].ExtendedCost != 37.5 {
		t.Fatalf("expected extended cost 37.50, got %v", parts[0].ExtendedCost)
	}
	if parts[0].Quantity != 3 {
		t.Fatalf("fixed line quantity should be the multiplier, got %v", parts[0].Quantity)
	}
}

func TestCompileNoMatchFallsBackToLiterals(t *testing.T) {
	svc := newTestBOMService()
	snap := railSnapshot(entity.CostingFullStock)
	entries := []entity.ProductBOM{
		{
			PartType:    entity.PartTypeExtrusion,
			PartName:    "Oversize Rail",
			Formula:     "height - 2",
			Quantity:    1,
			PartNumber:  str("EXT-100"),
			StockLength: f(288),
			Cost:        f(80),
		},
	}

	// 248 is beyond every rule; the literal stock length and cost apply.
	parts := svc.Compile(entries, rules.Dimensions{Width: 36, Height: 250}, snap)
	cp := parts[0]
	if cp.NeedsReview {
		t.Fatal("literal fallback should not need review")
	}
	if cp.StockLength == nil || *cp.StockLength != 288 {
		t.Fatalf("expected literal stock length 288, got %v", cp.StockLength)
	}
	if cp.ExtendedCost != 80 {
		t.Fatalf("expected literal cost 80, got %v", cp.ExtendedCost)
	}
}

func TestCompileFallsBackToConfiguredStockLength(t *testing.T) {
	svc := NewBOMService(nil, nil, nil, nil, nil, 288, zap.NewNop())
	snap := railSnapshot(entity.CostingFullStock)
	entries := []entity.ProductBOM{
		{
			PartType:   entity.PartTypeExtrusion,
			PartName:   "Oversize Rail",
			Formula:    "height - 2",
			Quantity:   1,
			PartNumber: str("EXT-100"),
			Cost:       f(80), // cost literal but no stock-length literal
		},
	}

	parts := svc.Compile(entries, rules.Dimensions{Width: 36, Height: 250}, snap)
	cp := parts[0]
	if cp.NeedsReview {
		t.Fatal("configured default stock length should resolve the line")
	}
	if cp.StockLength == nil || *cp.StockLength != 288 {
		t.Fatalf("expected configured stock length 288, got %v", cp.StockLength)
	}
	if cp.ExtendedCost != 80 {
		t.Fatalf("expected literal cost 80, got %v", cp.ExtendedCost)
	}
}

func TestCompileWhitespaceFormulaIsFixedLine(t *testing.T) {
	svc := newTestBOMService()
	snap := railSnapshot(entity.CostingFullStock)
	entries := []entity.ProductBOM{
		{
			PartType: entity.PartTypeHardware,
			PartName: "Handle",
			Formula:  "   ",
			Quantity: 3,
			Cost:     f(12),
		},
	}

	parts := svc.Compile(entries, rules.Dimensions{Width: 36, Height: 96}, snap)
	if parts[0].Quantity != 3 {
		t.Fatalf("whitespace formula must behave like a blank one, got quantity %v", parts[0].Quantity)
	}
	if parts[0].ExtendedCost != 36 {
		t.Fatalf("expected extended cost 36, got %v", parts[0].ExtendedCost)
	}
}

func TestCompileNoMatchWithoutLiteralsFlagsReview(t *testing.T) {
	svc := newTestBOMService()
	snap := railSnapshot(entity.CostingFullStock)
	entries := []entity.ProductBOM{
		{
			PartType:   entity.PartTypeExtrusion,
			PartName:   "Oversize Rail",
			Formula:    "height - 2",
			Quantity:   1,
			PartNumber: str("EXT-100"),
		},
	}

	parts := svc.Compile(entries, rules.Dimensions{Width: 36, Height: 250}, snap)
	if !parts[0].NeedsReview {
		t.Fatal("expected manual-review flag when nothing resolves")
	}
	if parts[0].ExtendedCost != 0 {
		t.Fatalf("flagged line should not carry a cost, got %v", parts[0].ExtendedCost)
	}
}

func TestCompileBadFormulaYieldsZeroNotError(t *testing.T) {
	svc := newTestBOMService()
	snap := railSnapshot(entity.CostingFullStock)
	entries := []entity.ProductBOM{
		{
			PartType: entity.PartTypeGlass,
			PartName: "Glass Panel",
			Formula:  "height $ 2",
			Quantity: 1,
			Cost:     f(40),
		},
		{
			PartType: entity.PartTypeHardware,
			PartName: "Handle",
			Quantity: 1,
			Cost:     f(12),
		},
	}

	parts := svc.Compile(entries, rules.Dimensions{Width: 36, Height: 96}, snap)
	if len(parts) != 2 {
		t.Fatalf("a bad formula must not abort the run: got %d parts", len(parts))
	}
	if parts[0].Quantity != 0 {
		t.Fatalf("bad formula line should compile at quantity 0, got %v", parts[0].Quantity)
	}
	if parts[1].ExtendedCost != 12 {
		t.Fatalf("following line should price normally, got %v", parts[1].ExtendedCost)
	}
}

func TestCompileAmbiguousBoundaryStillPrices(t *testing.T) {
	svc := newTestBOMService()
	snap := railSnapshot(entity.CostingFullStock)
	entries := []entity.ProductBOM{
		{
			PartType:   entity.PartTypeExtrusion,
			PartName:   "Vertical Rail",
			Formula:    "height",
			Quantity:   1,
			PartNumber: str("EXT-100"),
		},
	}

	// Cut of exactly 96 matches both touching ranges; the deterministic
	// tie-break picks the lower rule ID and compilation proceeds.
	parts := svc.Compile(entries, rules.Dimensions{Width: 36, Height: 96}, snap)
	if parts[0].RuleID != "rule-a" {
		t.Fatalf("expected deterministic rule-a at shared boundary, got %q", parts[0].RuleID)
	}
	if parts[0].NeedsReview {
		t.Fatal("ambiguity is a warning, not a review flag")
	}
}
