package rules

import (
	"testing"

	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
)

func f(v float64) *float64 { return &v }

func heightRule(id, partID string, min, max *float64, stockLength, basePrice float64) entity.StockLengthRule {
	return entity.StockLengthRule{
		ID:           id,
		MasterPartID: partID,
		MinHeight:    min,
		MaxHeight:    max,
		StockLength:  stockLength,
		BasePrice:    basePrice,
		AppliesTo:    entity.AppliesToHeight,
		IsActive:     true,
	}
}

func TestResolveNoMatch(t *testing.T) {
	ruleSet := []entity.StockLengthRule{
		heightRule("r1", "part-1", f(84), f(96), 96, 15),
	}

	res := Resolve("part-1", Dimensions{Height: 200}, ruleSet)
	if res.Outcome != OutcomeNoMatch {
		t.Fatalf("expected NO_MATCH, got %s", res.Outcome)
	}
	if res.Rule != nil {
		t.Fatalf("expected no rule, got %v", res.Rule.ID)
	}
}

func TestResolveIgnoresInactiveAndOtherParts(t *testing.T) {
	inactive := heightRule("r1", "part-1", f(84), f(96), 96, 15)
	inactive.IsActive = false
	ruleSet := []entity.StockLengthRule{
		inactive,
		heightRule("r2", "part-2", f(84), f(96), 96, 15),
	}

	res := Resolve("part-1", Dimensions{Height: 90}, ruleSet)
	if res.Outcome != OutcomeNoMatch {
		t.Fatalf("expected NO_MATCH, got %s", res.Outcome)
	}
}

func TestResolveSingleMatch(t *testing.T) {
	ruleSet := []entity.StockLengthRule{
		heightRule("r1", "part-1", f(84), f(96), 96, 15),
		heightRule("r2", "part-1", f(96), f(120), 120, 50),
	}

	// 94 falls inside only the first range; the shared endpoint at 96 is
	// the only ambiguous value.
	res := Resolve("part-1", Dimensions{Height: 94}, ruleSet)
	if res.Outcome != OutcomeMatched {
		t.Fatalf("expected MATCHED, got %s", res.Outcome)
	}
	if res.Rule.ID != "r1" {
		t.Fatalf("expected r1, got %s", res.Rule.ID)
	}
	if res.Rule.BasePrice != 15 {
		t.Fatalf("expected base price 15, got %v", res.Rule.BasePrice)
	}
}

func TestResolveSharedBoundaryIsDeterministic(t *testing.T) {
	ruleSet := []entity.StockLengthRule{
		heightRule("r2", "part-1", f(96), f(120), 120, 50),
		heightRule("r1", "part-1", f(84), f(96), 96, 15),
	}

	first := Resolve("part-1", Dimensions{Height: 96}, ruleSet)
	if first.Outcome != OutcomeAmbiguous {
		t.Fatalf("expected AMBIGUOUS at shared boundary, got %s", first.Outcome)
	}
	if len(first.Matches) != 2 {
		t.Fatalf("expected both rules in match set, got %d", len(first.Matches))
	}
	// Tie-break is ascending rule ID, and must not alternate between calls.
	for i := 0; i < 20; i++ {
		res := Resolve("part-1", Dimensions{Height: 96}, ruleSet)
		if res.Rule.ID != "r1" {
			t.Fatalf("call %d: expected r1 from tie-break, got %s", i, res.Rule.ID)
		}
	}
}

func TestResolvePrefersHigherSpecificity(t *testing.T) {
	catchAll := entity.StockLengthRule{
		ID: "r-any", MasterPartID: "part-1",
		StockLength: 288, BasePrice: 99,
		AppliesTo: entity.AppliesToHeight, IsActive: true,
	}
	narrow := entity.StockLengthRule{
		ID: "r-narrow", MasterPartID: "part-1",
		MinHeight: f(84), MaxHeight: f(96),
		MinWidth: f(0), MaxWidth: f(48),
		StockLength: 96, BasePrice: 15,
		AppliesTo: entity.AppliesToHeight, IsActive: true,
	}
	ruleSet := []entity.StockLengthRule{catchAll, narrow}

	res := Resolve("part-1", Dimensions{Width: 36, Height: 90}, ruleSet)
	if res.Outcome != OutcomeMatched {
		t.Fatalf("expected MATCHED, got %s", res.Outcome)
	}
	if res.Rule.ID != "r-narrow" {
		t.Fatalf("lower-specificity rule returned over higher: got %s", res.Rule.ID)
	}
	if got := Specificity(narrow); got != 4 {
		t.Fatalf("expected specificity 4, got %d", got)
	}
	if got := Specificity(catchAll); got != 0 {
		t.Fatalf("expected specificity 0, got %d", got)
	}
}

func TestResolveInclusiveBounds(t *testing.T) {
	ruleSet := []entity.StockLengthRule{
		heightRule("r1", "part-1", f(84), f(96), 96, 15),
	}
	for _, h := range []float64{84, 96} {
		res := Resolve("part-1", Dimensions{Height: h}, ruleSet)
		if res.Outcome != OutcomeMatched {
			t.Fatalf("height %v: expected inclusive bound match, got %s", h, res.Outcome)
		}
	}
	for _, h := range []float64{83.999, 96.001} {
		res := Resolve("part-1", Dimensions{Height: h}, ruleSet)
		if res.Outcome != OutcomeNoMatch {
			t.Fatalf("height %v: expected NO_MATCH, got %s", h, res.Outcome)
		}
	}
}

func TestResolveWidthAxis(t *testing.T) {
	rule := entity.StockLengthRule{
		ID: "w1", MasterPartID: "part-1",
		MinWidth: f(24), MaxWidth: f(48),
		StockLength: 48, BasePrice: 10,
		AppliesTo: entity.AppliesToWidth, IsActive: true,
	}
	res := Resolve("part-1", Dimensions{Width: 36, Height: 500}, []entity.StockLengthRule{rule})
	if res.Outcome != OutcomeMatched {
		t.Fatalf("width-axis rule should ignore height, got %s", res.Outcome)
	}
}

func TestExplainScoresEveryCandidate(t *testing.T) {
	ruleSet := []entity.StockLengthRule{
		heightRule("r1", "part-1", f(84), f(96), 96, 15),
		heightRule("r2", "part-1", f(96), f(120), 120, 50),
		heightRule("r3", "part-2", f(84), f(96), 96, 15),
	}

	scored := Explain("part-1", Dimensions{Height: 94}, ruleSet)
	if len(scored) != 2 {
		t.Fatalf("expected 2 candidates for part-1, got %d", len(scored))
	}
	var matched, unmatched int
	for _, s := range scored {
		if s.Specificity != 2 {
			t.Fatalf("rule %s: expected specificity 2, got %d", s.Rule.ID, s.Specificity)
		}
		if s.Matched {
			matched++
		} else {
			unmatched++
		}
	}
	if matched != 1 || unmatched != 1 {
		t.Fatalf("expected 1 matched and 1 unmatched candidate, got %d/%d", matched, unmatched)
	}
}
