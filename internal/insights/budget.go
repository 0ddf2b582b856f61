package insights

import (
	"luxe/internal/analytics"
	"luxe/internal/core"
)

const (
	TierGreen  Tier = "green"
	TierYellow Tier = "yellow"
	TierRed    Tier = "red"
)

// Tier is the three-way budget adherence classification. It drives
// presentation only; the raw percentage is kept alongside it.
type Tier string

// BudgetStatus reports one configured category's adherence for the
// reference month.
type BudgetStatus struct {
	Category   core.Category `json:"category"`
	Limit      float64       `json:"limit"`
	Spent      float64       `json:"spent"`
	Percentage float64       `json:"percentage"`
	Tier       Tier          `json:"tier"`
}

// BarWidth returns the percentage clamped to [0,100] for progress-bar
// rendering. The unclamped value stays in Percentage.
func (s BudgetStatus) BarWidth() float64 {
	if s.Percentage > 100 {
		return 100
	}
	if s.Percentage < 0 {
		return 0
	}
	return s.Percentage
}

// ClassifyTier maps a spend percentage onto its tier. The 75 and 100
// boundaries belong to the higher tier.
func ClassifyTier(percentage float64) Tier {
	switch {
	case percentage >= 100:
		return TierRed
	case percentage >= 75:
		return TierYellow
	default:
		return TierGreen
	}
}

// TrackBudgets derives adherence for every category with a configured
// positive limit, based on expenses in ref's calendar month. Categories
// without expenses that month report zero spend. The result is ordered
// by the category display order and is empty when no budget is set.
func TrackBudgets(expenses []core.Expense, budgets core.Budgets, ref core.Day) []BudgetStatus {
	if len(budgets) == 0 {
		return nil
	}

	inMonth := analytics.SameMonth(ref)
	spent := make(map[core.Category]float64)
	for _, e := range expenses {
		if inMonth(e.Date) {
			spent[e.Category] += e.Amount
		}
	}

	var out []BudgetStatus
	for _, c := range core.Categories() {
		limit, ok := budgets[c]
		if !ok || !core.ValidAmount(limit) {
			continue
		}
		pct := spent[c] / limit * 100
		out = append(out, BudgetStatus{
			Category:   c,
			Limit:      limit,
			Spent:      spent[c],
			Percentage: pct,
			Tier:       ClassifyTier(pct),
		})
	}
	return out
}
