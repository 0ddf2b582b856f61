package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	Food     Category = "Food"
	Travel   Category = "Travel"
	Shopping Category = "Shopping"
	Bills    Category = "Bills"
	OtherCat Category = "Other"
)

const (
	Salary     Source = "Salary"
	Freelance  Source = "Freelance"
	Investment Source = "Investment"
	Gift       Source = "Gift"
	OtherSrc   Source = "Other"
)

const (
	KindExpense Kind = "expense"
	KindEarning Kind = "earning"
)

type (
	// Category is the closed set of spending categories.
	Category string

	// Source is the closed set of income sources.
	Source string

	// Kind tags a record as an expense or an earning in merged views.
	Kind string

	// Day is a calendar date without a time component. The canonical
	// wire form is YYYY-MM-DD.
	Day struct {
		time.Time
	}

	Expense struct {
		ID       int64    `json:"id"`
		Amount   float64  `json:"amount"`
		Category Category `json:"category"`
		Notes    string   `json:"notes"`
		Date     Day      `json:"date"`
	}

	Earning struct {
		ID     int64   `json:"id"`
		Amount float64 `json:"amount"`
		Source Source  `json:"source"`
		Notes  string  `json:"notes"`
		Date   Day     `json:"date"`
	}

	// Transaction is the tagged union of Expense and Earning used by
	// merged chronological views.
	Transaction struct {
		ID       int64    `json:"id"`
		Kind     Kind     `json:"kind"`
		Amount   float64  `json:"amount"`
		Category Category `json:"category,omitempty"`
		Source   Source   `json:"source,omitempty"`
		Notes    string   `json:"notes"`
		Date     Day      `json:"date"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidSource   = errors.New("invalid source")
	ErrInvalidDate     = errors.New("invalid date")
)

// Categories returns every spending category in display order.
func Categories() []Category {
	return []Category{Food, Travel, Shopping, Bills, OtherCat}
}

// Sources returns every income source in display order.
func Sources() []Source {
	return []Source{Salary, Freelance, Investment, Gift, OtherSrc}
}

func (c Category) Valid() bool {
	switch c {
	case Food, Travel, Shopping, Bills, OtherCat:
		return true
	}
	return false
}

func (s Source) Valid() bool {
	switch s {
	case Salary, Freelance, Investment, Gift, OtherSrc:
		return true
	}
	return false
}

// ParseCategory maps a raw string onto the closed category set.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// ParseSource maps a raw string onto the closed source set.
func ParseSource(s string) (Source, error) {
	src := Source(s)
	if !src.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSource, s)
	}
	return src, nil
}

const dayLayout = "2006-01-02"

// NewDay creates a Day from year, month and day of month.
func NewDay(year int, month time.Month, day int) Day {
	return Day{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar date.
func Today() Day {
	now := time.Now()
	return NewDay(now.Year(), now.Month(), now.Day())
}

// ParseDay parses the canonical YYYY-MM-DD form.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Day{Time: t}, nil
}

func (d Day) String() string {
	return d.Format(dayLayout)
}

// DayOfMonth returns the day of the month, 1-31.
func (d Day) DayOfMonth() int {
	return d.Time.Day()
}

// Equal reports whether two Days name the same calendar date.
func (d Day) Equal(other Day) bool {
	return d.Year() == other.Year() && d.Month() == other.Month() && d.DayOfMonth() == other.DayOfMonth()
}

func (d Day) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Day) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	day, err := ParseDay(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = day
	return nil
}

func (e Expense) Validate() error {
	if !ValidAmount(e.Amount) {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	return e.Date.Validate()
}

func (e Earning) Validate() error {
	if !ValidAmount(e.Amount) {
		return ErrInvalidAmount
	}
	if !e.Source.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSource, e.Source)
	}
	return e.Date.Validate()
}

// When returns the record's calendar date. Together with Value it lets
// the analytics package treat expenses and earnings uniformly.
func (e Expense) When() Day { return e.Date }

// Value returns the record's amount.
func (e Expense) Value() float64 { return e.Amount }

// When returns the record's calendar date.
func (e Earning) When() Day { return e.Date }

// Value returns the record's amount.
func (e Earning) Value() float64 { return e.Amount }

// Tagged converts the expense into a merged-view transaction.
func (e Expense) Tagged() Transaction {
	return Transaction{
		ID:       e.ID,
		Kind:     KindExpense,
		Amount:   e.Amount,
		Category: e.Category,
		Notes:    e.Notes,
		Date:     e.Date,
	}
}

// Tagged converts the earning into a merged-view transaction.
func (e Earning) Tagged() Transaction {
	return Transaction{
		ID:     e.ID,
		Kind:   KindEarning,
		Amount: e.Amount,
		Source: e.Source,
		Notes:  e.Notes,
		Date:   e.Date,
	}
}
