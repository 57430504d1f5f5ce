// Package rules selects the stock-length rule governing a part at a given
// dimension. Rules carry inclusive optional bounds; the most specific match
// wins, with a deterministic tie-break when equally specific rules overlap.
package rules

import (
	"sort"

	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
)

// Outcome of a resolution.
const (
	OutcomeMatched   = "MATCHED"
	OutcomeAmbiguous = "AMBIGUOUS" // >1 equally specific match; tie-break applied
	OutcomeNoMatch   = "NO_MATCH"
)

// Dimensions of the panel/opening the rule is evaluated against.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ScoredRule one candidate with its specificity, for diagnostics.
type ScoredRule struct {
	Rule        entity.StockLengthRule `json:"rule"`
	Specificity int                    `json:"specificity"`
	Matched     bool                   `json:"matched"`
}

// Resolution result of resolving one part/dimension pair.
type Resolution struct {
	Outcome string                  `json:"outcome"`
	Rule    *entity.StockLengthRule `json:"rule,omitempty"`
	// Matches holds every matching candidate with its score so catalog
	// tooling can surface boundary ambiguity instead of hiding it.
	Matches []ScoredRule `json:"matches,omitempty"`
}

// Specificity counts the bounds a rule declares (0-4). Narrower rules score
// higher and win over broad catch-alls.
func Specificity(r entity.StockLengthRule) int {
	n := 0
	if r.MinWidth != nil {
		n++
	}
	if r.MaxWidth != nil {
		n++
	}
	if r.MinHeight != nil {
		n++
	}
	if r.MaxHeight != nil {
		n++
	}
	return n
}

// Matches reports whether dims fall inside the rule's bounds on its
// AppliesTo axis. Bounds are inclusive on both ends, nil is unbounded.
func Matches(r entity.StockLengthRule, dims Dimensions) bool {
	v := dims.Height
	min, max := r.MinHeight, r.MaxHeight
	if r.AppliesTo == entity.AppliesToWidth {
		v = dims.Width
		min, max = r.MinWidth, r.MaxWidth
	}
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

// Resolve picks the governing rule for masterPartID at dims from candidates.
// Inactive rules and rules for other parts are ignored. Among matches, the
// highest specificity wins; remaining ties break on ascending rule ID. The
// ID tie-break is a last resort for determinism, not a business rule:
// authored ranges that touch at a shared inclusive endpoint legitimately
// both match that exact value.
func Resolve(masterPartID string, dims Dimensions, candidates []entity.StockLengthRule) Resolution {
	var matches []ScoredRule
	for _, r := range candidates {
		if !r.IsActive || r.MasterPartID != masterPartID {
			continue
		}
		if Matches(r, dims) {
			matches = append(matches, ScoredRule{Rule: r, Specificity: Specificity(r), Matched: true})
		}
	}
	if len(matches) == 0 {
		return Resolution{Outcome: OutcomeNoMatch}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Specificity != matches[j].Specificity {
			return matches[i].Specificity > matches[j].Specificity
		}
		return matches[i].Rule.ID < matches[j].Rule.ID
	})

	top := matches[0]
	outcome := OutcomeMatched
	if len(matches) > 1 && matches[1].Specificity == top.Specificity {
		outcome = OutcomeAmbiguous
	}
	rule := top.Rule
	return Resolution{Outcome: outcome, Rule: &rule, Matches: matches}
}

// Explain scores every candidate for the part, matching or not, so catalog
// maintainers can see why a dimension resolved the way it did.
func Explain(masterPartID string, dims Dimensions, candidates []entity.StockLengthRule) []ScoredRule {
	var out []ScoredRule
	for _, r := range candidates {
		if r.MasterPartID != masterPartID || !r.IsActive {
			continue
		}
		out = append(out, ScoredRule{
			Rule:        r,
			Specificity: Specificity(r),
			Matched:     Matches(r, dims),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Specificity != out[j].Specificity {
			return out[i].Specificity > out[j].Specificity
		}
		return out[i].Rule.ID < out[j].Rule.ID
	})
	return out
}
