package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
	"github.com/sympatecoinc/door-quoter/internal/quoting/formula"
	"github.com/sympatecoinc/door-quoter/internal/quoting/repository"
	"github.com/sympatecoinc/door-quoter/internal/quoting/rules"
	"go.uber.org/zap"
)

// CatalogSnapshot is the read-only catalog state for one compilation run.
// Building it up front keeps compilation reproducible: no service touches
// live catalog tables mid-run.
type CatalogSnapshot struct {
	Parts       map[string]entity.MasterPart // keyed by part number
	Rules       []entity.StockLengthRule
	PricingMode entity.PricingMode
}

// CompiledPart one priced line of a compiled bill of materials.
type CompiledPart struct {
	PartNumber   string   `json:"part_number"`
	Description  string   `json:"description"`
	PartType     string   `json:"part_type"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	UnitCost     float64  `json:"unit_cost"`
	ExtendedCost float64  `json:"extended_cost"`
	CutLength    *float64 `json:"cut_length,omitempty"`
	StockLength  *float64 `json:"stock_length,omitempty"`
	RuleID       string   `json:"rule_id,omitempty"`
	NeedsReview  bool     `json:"needs_review"`
}

// CutListItem is a compiled part tied back to its opening and panel.
type CutListItem struct {
	CompiledPart
	OpeningName string `json:"opening_name"`
	PanelID     string `json:"panel_id"`
}

type BOMService struct {
	partRepo    *repository.PartRepository
	productRepo *repository.ProductRepository
	projectRepo *repository.ProjectRepository
	pricingRepo *repository.PricingModeRepository
	cache       *redis.Client // optional; nil runs uncached
	// Shop-floor default stock length from configuration; 0 disables the
	// last-resort fallback for extrusion entries without a literal.
	defaultStockLength float64
	logger             *zap.Logger
}

func NewBOMService(
	partRepo *repository.PartRepository,
	productRepo *repository.ProductRepository,
	projectRepo *repository.ProjectRepository,
	pricingRepo *repository.PricingModeRepository,
	cache *redis.Client,
	defaultStockLength float64,
	logger *zap.Logger,
) *BOMService {
	return &BOMService{
		partRepo:           partRepo,
		productRepo:        productRepo,
		projectRepo:        projectRepo,
		pricingRepo:        pricingRepo,
		cache:              cache,
		defaultStockLength: defaultStockLength,
		logger:             logger,
	}
}

// Snapshot loads the catalog state a compilation run needs.
func (s *BOMService) Snapshot(pricingModeID string) (*CatalogSnapshot, error) {
	parts, _, err := s.partRepo.List(repository.PartListParams{Size: 100000})
	if err != nil {
		return nil, fmt.Errorf("loading part catalog: %w", err)
	}
	ruleSet, err := s.partRepo.AllActiveRules()
	if err != nil {
		return nil, fmt.Errorf("loading stock-length rules: %w", err)
	}

	var mode *entity.PricingMode
	if pricingModeID != "" {
		mode, err = s.pricingRepo.GetByID(pricingModeID)
	} else {
		mode, err = s.pricingRepo.GetDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("loading pricing mode: %w", err)
	}

	snap := &CatalogSnapshot{
		Parts:       make(map[string]entity.MasterPart, len(parts)),
		Rules:       ruleSet,
		PricingMode: *mode,
	}
	for _, p := range parts {
		snap.Parts[p.PartNumber] = p
	}
	return snap, nil
}

// Compile expands a product's BOM template for one panel's dimensions into
// priced part requirements. A line that cannot be fully resolved is flagged
// NeedsReview instead of silently costing zero; a bad formula costs the line
// out at quantity 0 with a warning. Nothing here aborts the run.
func (s *BOMService) Compile(entries []entity.ProductBOM, dims rules.Dimensions, snap *CatalogSnapshot) []CompiledPart {
	vars := map[string]float64{
		"width":  dims.Width,
		"height": dims.Height,
	}

	out := make([]CompiledPart, 0, len(entries))
	for _, e := range entries {
		cp := CompiledPart{
			Description: e.PartName,
			PartType:    e.PartType,
			Unit:        e.Unit,
		}
		if e.PartNumber != nil {
			cp.PartNumber = *e.PartNumber
		}

		length := s.evaluate(e.Formula, vars)

		if e.PartType == entity.PartTypeExtrusion {
			out = append(out, s.compileExtrusion(cp, e, length, snap))
			continue
		}

		// Non-extrusion: the formula result (if any) scaled by the entry
		// multiplier is the required quantity; fixed lines use the
		// multiplier alone. Whitespace-only formulas are fixed lines too,
		// matching the evaluator's blank handling.
		qty := e.Quantity
		if strings.TrimSpace(e.Formula) != "" {
			qty = length * e.Quantity
		}
		cp.Quantity = qty

		unitCost, ok := s.lookupUnitCost(e, snap)
		if !ok {
			cp.NeedsReview = true
			out = append(out, cp)
			continue
		}
		cp.UnitCost, cp.ExtendedCost = priceLine(unitCost, qty, snap.PricingMode.MarkupFor(e.PartType))
		out = append(out, cp)
	}
	return out
}

// compileExtrusion resolves the governing stock length for a cut and prices
// it per the pricing mode's costing method.
func (s *BOMService) compileExtrusion(cp CompiledPart, e entity.ProductBOM, cutLength float64, snap *CatalogSnapshot) CompiledPart {
	cut := cutLength
	cp.CutLength = &cut
	cp.Quantity = e.Quantity

	var part *entity.MasterPart
	if e.PartNumber != nil {
		if p, ok := snap.Parts[*e.PartNumber]; ok {
			part = &p
			cp.Description = p.Description
		}
	}

	var stockLength, basePrice float64
	resolved := false
	if part != nil {
		// The rule's axis reads the computed cut length.
		res := rules.Resolve(part.ID, rules.Dimensions{Width: cutLength, Height: cutLength}, snap.Rules)
		switch res.Outcome {
		case rules.OutcomeAmbiguous:
			ids := make([]string, 0, len(res.Matches))
			for _, m := range res.Matches {
				ids = append(ids, m.Rule.ID)
			}
			s.logger.Warn("ambiguous stock-length rule match, tie-break applied",
				zap.String("part_number", part.PartNumber),
				zap.Float64("dimension", cutLength),
				zap.Strings("candidate_rules", ids),
				zap.String("chosen_rule", res.Rule.ID),
			)
			fallthrough
		case rules.OutcomeMatched:
			stockLength = res.Rule.StockLength
			basePrice = res.Rule.BasePrice
			cp.RuleID = res.Rule.ID
			resolved = true
		}
	}

	if !resolved {
		// No rule covers this cut: fall back to the template's literal
		// stock length, then the configured shop default, and flag for
		// review when neither (or no literal cost) is available.
		if e.StockLength != nil {
			stockLength = *e.StockLength
		} else if s.defaultStockLength > 0 {
			stockLength = s.defaultStockLength
		}
		if stockLength > 0 && e.Cost != nil {
			basePrice = *e.Cost
		} else {
			s.logger.Warn("no stock-length rule matched and no literal fallback",
				zap.String("part_name", e.PartName),
				zap.Float64("dimension", cutLength),
			)
			cp.NeedsReview = true
			return cp
		}
	}
	cp.StockLength = &stockLength

	lineCost := extrusionCost(basePrice, stockLength, cutLength, e.Quantity, snap.PricingMode.ExtrusionCostingMethod)
	unitCost := decimal.Zero
	if e.Quantity > 0 {
		unitCost = lineCost.Div(decimal.NewFromFloat(e.Quantity))
	}
	cp.UnitCost, cp.ExtendedCost = priceLine(unitCost.InexactFloat64(), e.Quantity, snap.PricingMode.MarkupFor(entity.PartTypeExtrusion))
	return cp
}

// extrusionCost prices qty pieces of cutLength from stock sticks of
// stockLength at basePrice per stick, before markup.
func extrusionCost(basePrice, stockLength, cutLength, qty float64, method string) decimal.Decimal {
	base := decimal.NewFromFloat(basePrice)
	if stockLength <= 0 || qty <= 0 {
		return decimal.Zero
	}

	// Sticks one piece consumes; a cut longer than the stock spans several.
	sticksPerPiece := 1.0
	if cutLength > stockLength {
		sticksPerPiece = math.Ceil(cutLength / stockLength)
	}
	fraction := cutLength / stockLength

	switch method {
	case entity.CostingPercentageBased:
		return base.Mul(decimal.NewFromFloat(fraction)).Mul(decimal.NewFromFloat(qty))
	case entity.CostingHybrid:
		whole := math.Floor(qty)
		rem := qty - whole
		full := base.Mul(decimal.NewFromFloat(sticksPerPiece)).Mul(decimal.NewFromFloat(whole))
		partial := base.Mul(decimal.NewFromFloat(fraction)).Mul(decimal.NewFromFloat(rem))
		return full.Add(partial)
	default: // FULL_STOCK
		return base.Mul(decimal.NewFromFloat(sticksPerPiece)).Mul(decimal.NewFromFloat(math.Ceil(qty)))
	}
}

// priceLine applies the category markup to the unit cost and returns
// cent-rounded unit and extended costs.
func priceLine(unitCost, qty, markupPct float64) (float64, float64) {
	unit := decimal.NewFromFloat(unitCost).
		Mul(decimal.NewFromFloat(1 + markupPct/100)).
		Round(2)
	ext := unit.Mul(decimal.NewFromFloat(qty)).Round(2)
	return unit.InexactFloat64(), ext.InexactFloat64()
}

// lookupUnitCost finds the base unit cost for a non-extrusion line: catalog
// part first, then the entry's literal cost.
func (s *BOMService) lookupUnitCost(e entity.ProductBOM, snap *CatalogSnapshot) (float64, bool) {
	if e.PartNumber != nil {
		if p, ok := snap.Parts[*e.PartNumber]; ok {
			return p.BaseCost, true
		}
	}
	if e.Cost != nil {
		return *e.Cost, true
	}
	return 0, false
}

// evaluate runs a formula against the panel variables, memoizing through
// redis when configured. Evaluation is pure, so a cached result is always
// valid for the same formula and dimensions.
func (s *BOMService) evaluate(text string, vars map[string]float64) float64 {
	if text == "" {
		return 0
	}
	key := fmt.Sprintf("dq:formula:%s:w%g:h%g", text, vars["width"], vars["height"])
	if s.cache != nil {
		if v, err := s.cache.Get(context.Background(), key).Float64(); err == nil {
			return v
		}
	}
	v, err := formula.Evaluate(text, vars)
	if err != nil {
		s.logger.Warn("formula evaluation failed, using 0",
			zap.String("formula", text),
			zap.Error(err),
		)
		return 0
	}
	if s.cache != nil {
		s.cache.Set(context.Background(), key, v, time.Hour)
	}
	return v
}

// ResolveStockLength resolves the governing rule for a part at explicit
// dimensions, for the collaborator-facing operation.
func (s *BOMService) ResolveStockLength(masterPartID string, dims rules.Dimensions) (rules.Resolution, error) {
	ruleSet, err := s.partRepo.ActiveRules(masterPartID)
	if err != nil {
		return rules.Resolution{}, fmt.Errorf("loading rules for part %s: %w", masterPartID, err)
	}
	return rules.Resolve(masterPartID, dims, ruleSet), nil
}

// ExplainStockLength scores every active rule for the part, the diagnostic
// variant used by catalog tooling.
func (s *BOMService) ExplainStockLength(masterPartID string, dims rules.Dimensions) ([]rules.ScoredRule, error) {
	ruleSet, err := s.partRepo.ActiveRules(masterPartID)
	if err != nil {
		return nil, fmt.Errorf("loading rules for part %s: %w", masterPartID, err)
	}
	return rules.Explain(masterPartID, dims, ruleSet), nil
}

// CompileForProduct compiles one product's BOM at explicit dimensions, the
// quoting-UI path that prices a single panel configuration.
func (s *BOMService) CompileForProduct(productID string, dims rules.Dimensions, pricingModeID string) ([]CompiledPart, error) {
	entries, err := s.productRepo.BOMEntries(productID)
	if err != nil {
		return nil, fmt.Errorf("loading BOM for product %s: %w", productID, err)
	}
	snap, err := s.Snapshot(pricingModeID)
	if err != nil {
		return nil, err
	}
	return s.Compile(entries, dims, snap), nil
}

// CompileProject compiles every panel of every opening in a project into a
// flat cut list, using the project's pricing mode.
func (s *BOMService) CompileProject(projectID string) ([]CutListItem, error) {
	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}
	snap, err := s.Snapshot(project.PricingModeID)
	if err != nil {
		return nil, err
	}

	var items []CutListItem
	for _, opening := range project.Openings {
		for _, panel := range opening.Panels {
			entries, err := s.productRepo.BOMEntries(panel.ProductID)
			if err != nil {
				return nil, fmt.Errorf("loading BOM for product %s: %w", panel.ProductID, err)
			}
			dims := rules.Dimensions{Width: panel.Width, Height: panel.Height}
			for _, cp := range s.Compile(entries, dims, snap) {
				items = append(items, CutListItem{
					CompiledPart: cp,
					OpeningName:  opening.Name,
					PanelID:      panel.ID,
				})
			}
		}
	}
	return items, nil
}
