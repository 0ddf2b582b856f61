package insights

import (
	"math"
	"testing"
	"time"

	"luxe/internal/core"
)

func TestBuildDistribution(t *testing.T) {
	expenses := []core.Expense{
		{ID: 1, Amount: 100, Category: core.Food, Date: core.NewDay(2024, time.January, 5)},
		{ID: 2, Amount: 200, Category: core.Bills, Date: core.NewDay(2024, time.January, 20)},
		{ID: 3, Amount: 50, Category: core.Travel, Date: core.NewDay(2024, time.March, 10)},
		{ID: 4, Amount: 999, Category: core.Food, Date: core.NewDay(2023, time.January, 5)}, // other year
	}
	d := BuildDistribution(expenses, 2024)

	if d.Total != 350 {
		t.Fatalf("Total = %v, want 350", d.Total)
	}
	if len(d.Slices) != 2 {
		t.Fatalf("Slices = %v, want Jan and Mar only", d.Slices)
	}
	jan, mar := d.Slices[0], d.Slices[1]
	if jan.Month != time.January || jan.Total != 300 {
		t.Fatalf("jan = %+v", jan)
	}
	if mar.Month != time.March || mar.Total != 50 {
		t.Fatalf("mar = %+v", mar)
	}
	if math.Abs(jan.Share-300.0/350.0*100) > 1e-9 {
		t.Fatalf("jan share = %v", jan.Share)
	}
	if jan.Name() != "Jan" {
		t.Fatalf("jan name = %q", jan.Name())
	}
}

func TestBuildDistributionEmptyYear(t *testing.T) {
	var earnings []core.Earning
	d := BuildDistribution(earnings, 2024)
	if d.Total != 0 || len(d.Slices) != 0 {
		t.Fatalf("empty year distribution = %+v", d)
	}
	label := d.Label()
	if label.Caption != "Total" || label.Value != 0 {
		t.Fatalf("empty label = %+v", label)
	}
}

func TestDistributionToggleMonth(t *testing.T) {
	expenses := []core.Expense{
		{ID: 1, Amount: 300, Category: core.Food, Date: core.NewDay(2024, time.January, 5)},
		{ID: 2, Amount: 50, Category: core.Travel, Date: core.NewDay(2024, time.March, 10)},
	}
	d := BuildDistribution(expenses, 2024)

	if label := d.Label(); label.Caption != "Total" || label.Value != 350 {
		t.Fatalf("default label = %+v", label)
	}

	if !d.ToggleMonth(time.January) {
		t.Fatal("first toggle must select")
	}
	if label := d.Label(); label.Caption != "Jan" || label.Value != 300 {
		t.Fatalf("selected label = %+v", label)
	}

	// Same month clears, back to the grand total.
	if d.ToggleMonth(time.January) {
		t.Fatal("second toggle must clear")
	}
	if label := d.Label(); label.Caption != "Total" || label.Value != 350 {
		t.Fatalf("label after clear = %+v", label)
	}

	// A different month replaces the selection.
	d.ToggleMonth(time.January)
	d.ToggleMonth(time.March)
	if s, ok := d.SelectedMonth(); !ok || s.Month != time.March {
		t.Fatalf("selection after replace = %+v, %v", s, ok)
	}

	// Months without a bucket cannot be selected.
	if d.ToggleMonth(time.July) {
		t.Fatal("zero-bucket month must not be selectable")
	}
}

func TestSelectionToggle(t *testing.T) {
	var s Selection[int]

	if _, ok := s.Selected(); ok {
		t.Fatal("zero value must be unselected")
	}
	if !s.Toggle(4) {
		t.Fatal("toggle of new key must select")
	}
	if k, ok := s.Selected(); !ok || k != 4 {
		t.Fatalf("Selected = %v, %v", k, ok)
	}
	if s.Toggle(4) {
		t.Fatal("toggle of the selected key must clear")
	}
	s.Toggle(4)
	if !s.Toggle(9) {
		t.Fatal("toggle of a different key must replace")
	}
	if k, _ := s.Selected(); k != 9 {
		t.Fatalf("Selected = %v, want 9", k)
	}
	s.Clear()
	if _, ok := s.Selected(); ok {
		t.Fatal("Clear must unselect")
	}
}
