package domain

import (
	"strconv"
	"strings"
)

// BudgetTier is a nightly price band a destination is labelled with.
type BudgetTier struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"` // 0 = open-ended
}

var budgetTiers = []BudgetTier{
	{Label: "Budget", Min: 50, Max: 150},
	{Label: "Mid-range", Min: 150, Max: 350},
	{Label: "Luxury", Min: 350},
}

// BudgetTiers returns the closed set of tiers, cheapest first.
func BudgetTiers() []BudgetTier {
	out := make([]BudgetTier, len(budgetTiers))
	copy(out, budgetTiers)
	return out
}

// ParseBudgetTier matches a label case-insensitively.
func ParseBudgetTier(s string) (BudgetTier, bool) {
	s = strings.TrimSpace(s)
	for _, t := range budgetTiers {
		if strings.EqualFold(t.Label, s) {
			return t, true
		}
	}
	return BudgetTier{}, false
}

// Range renders "50-150" or "350+".
func (t BudgetTier) Range() string {
	if t.Max == 0 {
		return strconv.Itoa(t.Min) + "+"
	}
	return strconv.Itoa(t.Min) + "-" + strconv.Itoa(t.Max)
}
