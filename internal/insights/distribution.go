package insights

import (
	"time"

	"luxe/internal/analytics"
)

// MonthSlice is one month of the yearly distribution. Share is the
// month's percentage of the annual total.
type MonthSlice struct {
	Month time.Month `json:"month"`
	Total float64    `json:"total"`
	Share float64    `json:"share"`
}

// Name returns the short month name used for slice labels.
func (s MonthSlice) Name() string {
	return s.Month.String()[:3]
}

// Distribution buckets one year of a record collection into monthly
// totals. Months with no amounts are excluded from Slices.
type Distribution struct {
	Year   int          `json:"year"`
	Slices []MonthSlice `json:"slices"`
	Total  float64      `json:"total"`

	selection Selection[time.Month]
}

// CenterLabel is the chart's center text model: the grand total by
// default, the selected month's name and exact total while one is
// selected.
type CenterLabel struct {
	Caption string  `json:"caption"`
	Value   float64 `json:"value"`
}

// BuildDistribution sums record amounts per calendar month of the given
// year and computes each month's share of the annual total.
func BuildDistribution[R analytics.Record](records []R, year int) *Distribution {
	var totals [13]float64
	for _, r := range records {
		d := r.When()
		if d.Year() == year {
			totals[d.Month()] += r.Value()
		}
	}

	dist := &Distribution{Year: year}
	for m := time.January; m <= time.December; m++ {
		if totals[m] > 0 {
			dist.Slices = append(dist.Slices, MonthSlice{Month: m, Total: totals[m]})
			dist.Total += totals[m]
		}
	}
	for i := range dist.Slices {
		dist.Slices[i].Share = dist.Slices[i].Total / dist.Total * 100
	}
	return dist
}

// ToggleMonth applies the month selection toggle and reports whether
// the month is selected afterwards. Months absent from the distribution
// are ignored.
func (d *Distribution) ToggleMonth(m time.Month) bool {
	if d.slice(m) == nil {
		return false
	}
	return d.selection.Toggle(m)
}

// SelectedMonth returns the selected slice, if any.
func (d *Distribution) SelectedMonth() (MonthSlice, bool) {
	m, ok := d.selection.Selected()
	if !ok {
		return MonthSlice{}, false
	}
	return *d.slice(m), true
}

// Label returns the center-of-chart text: the selected month's name and
// total when one is selected, otherwise the year's grand total.
func (d *Distribution) Label() CenterLabel {
	if s, ok := d.SelectedMonth(); ok {
		return CenterLabel{Caption: s.Name(), Value: s.Total}
	}
	return CenterLabel{Caption: "Total", Value: d.Total}
}

func (d *Distribution) slice(m time.Month) *MonthSlice {
	for i := range d.Slices {
		if d.Slices[i].Month == m {
			return &d.Slices[i]
		}
	}
	return nil
}
