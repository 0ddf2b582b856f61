// Package analytics provides pure aggregation functions over a ledger
// snapshot: window sums, category and source breakdowns, and the merged
// chronological transaction view. Nothing here holds state; every call
// recomputes from the records it is given.
package analytics

import (
	"sort"
	"time"

	"luxe/internal/core"
)

// Record is any dated monetary record. Both core.Expense and
// core.Earning satisfy it.
type Record interface {
	When() core.Day
	Value() float64
}

// Predicate selects records by calendar date.
type Predicate func(core.Day) bool

// All matches every record.
func All(core.Day) bool { return true }

// On matches records dated exactly day.
func On(day core.Day) Predicate {
	return func(d core.Day) bool { return d.Equal(day) }
}

// SameMonth matches records in ref's calendar month and year.
func SameMonth(ref core.Day) Predicate {
	return func(d core.Day) bool {
		return d.Year() == ref.Year() && d.Month() == ref.Month()
	}
}

// SameYear matches records in ref's calendar year.
func SameYear(ref core.Day) Predicate {
	return func(d core.Day) bool { return d.Year() == ref.Year() }
}

// WeekOf matches records from the most recent Sunday on or before ref
// through ref itself, both inclusive. The week starts on Sunday.
func WeekOf(ref core.Day) Predicate {
	start := core.NewDay(ref.Year(), ref.Month(), ref.DayOfMonth()-int(ref.Weekday()))
	return func(d core.Day) bool {
		return !d.Time.Before(start.Time) && !d.Time.After(ref.Time)
	}
}

// Sum totals the amounts of records whose date satisfies pred.
func Sum[R Record](records []R, pred Predicate) float64 {
	var total float64
	for _, r := range records {
		if pred(r.When()) {
			total += r.Value()
		}
	}
	return total
}

// Net returns earnings minus expenses for the window.
func Net(expenses []core.Expense, earnings []core.Earning, pred Predicate) float64 {
	return Sum(earnings, pred) - Sum(expenses, pred)
}

// BreakdownByCategory groups expenses by category, summing amounts.
// Categories with a zero sum are omitted.
func BreakdownByCategory(expenses []core.Expense) map[core.Category]float64 {
	out := make(map[core.Category]float64)
	for _, e := range expenses {
		out[e.Category] += e.Amount
	}
	for c, sum := range out {
		if sum == 0 {
			delete(out, c)
		}
	}
	return out
}

// BreakdownBySource groups earnings by source, summing amounts.
// Sources with a zero sum are omitted.
func BreakdownBySource(earnings []core.Earning) map[core.Source]float64 {
	out := make(map[core.Source]float64)
	for _, e := range earnings {
		out[e.Source] += e.Amount
	}
	for s, sum := range out {
		if sum == 0 {
			delete(out, s)
		}
	}
	return out
}

// Merged tags and interleaves both collections into a single sequence
// ordered by descending identifier. Identifiers encode creation order,
// so this is recency of creation, not necessarily recency of date.
func Merged(expenses []core.Expense, earnings []core.Earning) []core.Transaction {
	out := make([]core.Transaction, 0, len(expenses)+len(earnings))
	for _, e := range expenses {
		out = append(out, e.Tagged())
	}
	for _, e := range earnings {
		out = append(out, e.Tagged())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
