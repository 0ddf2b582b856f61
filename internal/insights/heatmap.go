package insights

import (
	"time"

	"luxe/internal/analytics"
	"luxe/internal/core"
)

// DayCell is one day of the calendar heatmap. Intensity is meaningful
// only when Active is true; inactive days render the neutral
// "no activity" state.
type DayCell struct {
	Day       int     `json:"day"`
	Net       float64 `json:"net"`
	Intensity float64 `json:"intensity"`
	Active    bool    `json:"active"`
}

// Heatmap is the per-day net-flow view of one calendar month.
type Heatmap struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Cells []DayCell  `json:"cells"`

	selection Selection[int]
}

// BuildHeatmap computes net flow (earnings minus expenses) and a
// normalized intensity for every day of the given month. Positive and
// negative days are each scaled against the month's most extreme day of
// the same sign, mapping onto [0.1, 1.0].
func BuildHeatmap(expenses []core.Expense, earnings []core.Earning, year int, month time.Month) *Heatmap {
	days := analytics.DaysIn(year, month)
	nets := make([]float64, days+1)
	inMonth := analytics.SameMonth(core.NewDay(year, month, 1))

	for _, e := range expenses {
		if inMonth(e.Date) {
			nets[e.Date.DayOfMonth()] -= e.Amount
		}
	}
	for _, e := range earnings {
		if inMonth(e.Date) {
			nets[e.Date.DayOfMonth()] += e.Amount
		}
	}

	var maxPositive, minNegative float64
	for d := 1; d <= days; d++ {
		if nets[d] > maxPositive {
			maxPositive = nets[d]
		}
		if nets[d] < minNegative {
			minNegative = nets[d]
		}
	}

	h := &Heatmap{Year: year, Month: month, Cells: make([]DayCell, days)}
	for d := 1; d <= days; d++ {
		cell := DayCell{Day: d, Net: nets[d]}
		switch {
		case cell.Net > 0:
			cell.Active = true
			cell.Intensity = scaleIntensity(cell.Net, maxPositive)
		case cell.Net < 0:
			cell.Active = true
			cell.Intensity = scaleIntensity(cell.Net, minNegative)
		}
		h.Cells[d-1] = cell
	}
	return h
}

// scaleIntensity maps net against the month extreme of the same sign
// onto [0.1, 1.0]. Both arguments share a sign, so the ratio is
// positive; a zero extreme falls back to the floor.
func scaleIntensity(net, extreme float64) float64 {
	if extreme == 0 {
		return 0.1
	}
	return 0.1 + (net/extreme)*0.9
}

// ToggleDay applies the day selection toggle and reports whether the
// day is selected afterwards. Out-of-range days are ignored.
func (h *Heatmap) ToggleDay(day int) bool {
	if day < 1 || day > len(h.Cells) {
		return false
	}
	return h.selection.Toggle(day)
}

// SelectedDay returns the selected day and its exact net value.
func (h *Heatmap) SelectedDay() (day int, net float64, ok bool) {
	day, ok = h.selection.Selected()
	if !ok {
		return 0, 0, false
	}
	return day, h.Cells[day-1].Net, true
}
