package http

import (
	"net/http"

	"luxe/internal/analytics"
	"luxe/internal/core"
	"luxe/internal/insights"
)

type periodTotals struct {
	Spent  float64 `json:"spent"`
	Earned float64 `json:"earned"`
	Net    float64 `json:"net"`
}

type dashboardResponse struct {
	Date       core.Day                 `json:"date"`
	Goal       core.Goal                `json:"goal"`
	Today      periodTotals             `json:"today"`
	Week       periodTotals             `json:"week"`
	Month      periodTotals             `json:"month"`
	Categories map[core.Category]float64 `json:"categories"`
	Sources    map[core.Source]float64   `json:"sources"`
}

func totalsFor(expenses []core.Expense, earnings []core.Earning, pred analytics.Predicate) periodTotals {
	spent := analytics.Sum(expenses, pred)
	earned := analytics.Sum(earnings, pred)
	return periodTotals{Spent: spent, Earned: earned, Net: earned - spent}
}

// handleDashboard returns the home screen aggregates: totals for today,
// the current Sunday-started week and the current month, together with
// the month's category and source breakdowns. Everything is recomputed
// from ledger state on each call.
func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	expenses := s.ledger.Expenses()
	earnings := s.ledger.Earnings()
	today := core.Today()

	monthExpenses := filterExpenses(expenses, analytics.SameMonth(today))
	monthEarnings := filterEarnings(earnings, analytics.SameMonth(today))

	resp := dashboardResponse{
		Date:       today,
		Goal:       s.ledger.Goal(),
		Today:      totalsFor(expenses, earnings, analytics.On(today)),
		Week:       totalsFor(expenses, earnings, analytics.WeekOf(today)),
		Month:      totalsFor(expenses, earnings, analytics.SameMonth(today)),
		Categories: analytics.BreakdownByCategory(monthExpenses),
		Sources:    analytics.BreakdownBySource(monthEarnings),
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBudgetInsights(w http.ResponseWriter, _ *http.Request) {
	statuses := insights.TrackBudgets(s.ledger.Expenses(), s.ledger.Budgets(), core.Today())
	if statuses == nil {
		statuses = []insights.BudgetStatus{}
	}
	respondJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	heatmap := insights.BuildHeatmap(s.ledger.Expenses(), s.ledger.Earnings(), year, month)
	respondJSON(w, http.StatusOK, heatmap)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	year := parseYear(r)

	var dist *insights.Distribution
	if r.URL.Query().Get("kind") == string(core.KindEarning) {
		dist = insights.BuildDistribution(s.ledger.Earnings(), year)
	} else {
		dist = insights.BuildDistribution(s.ledger.Expenses(), year)
	}
	respondJSON(w, http.StatusOK, dist)
}

func filterExpenses(expenses []core.Expense, pred analytics.Predicate) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if pred(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

func filterEarnings(earnings []core.Earning, pred analytics.Predicate) []core.Earning {
	out := make([]core.Earning, 0, len(earnings))
	for _, e := range earnings {
		if pred(e.Date) {
			out = append(out, e)
		}
	}
	return out
}
