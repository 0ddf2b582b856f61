package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-15", true},
		{"2024-12-31", true},
		{"2024-13-01", false},
		{"15-01-2024", false},
		{"2024-1-5", false}, // not canonical
		{"", false},
	}
	for _, tc := range cases {
		d, err := ParseDay(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseDay(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDay(%q) expected error", tc.in)
		}
		if tc.ok && d.String() != tc.in {
			t.Fatalf("ParseDay(%q).String() = %q", tc.in, d.String())
		}
	}
}

func TestDayJSONRoundTrip(t *testing.T) {
	d := NewDay(2024, time.March, 5)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-03-05"` {
		t.Fatalf("marshal = %s, want \"2024-03-05\"", data)
	}
	var back Day
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip changed day: %v != %v", back, d)
	}
	if err := json.Unmarshal([]byte(`42`), &back); err == nil {
		t.Fatal("expected error for non-string date")
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		if err != nil || got != c {
			t.Fatalf("ParseCategory(%q) = %v, %v", c, got, err)
		}
	}
	if _, err := ParseCategory("Groceries"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestParseSource(t *testing.T) {
	for _, s := range Sources() {
		got, err := ParseSource(string(s))
		if err != nil || got != s {
			t.Fatalf("ParseSource(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseSource("Lottery"); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{ID: 1, Amount: 25, Category: Food, Date: NewDay(2024, time.January, 15)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	bads := []Expense{
		{ID: 1, Amount: 0, Category: Food, Date: NewDay(2024, time.January, 15)},
		{ID: 1, Amount: -5, Category: Food, Date: NewDay(2024, time.January, 15)},
		{ID: 1, Amount: 25, Category: "Junk", Date: NewDay(2024, time.January, 15)},
		{ID: 1, Amount: 25, Category: Food},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTagged(t *testing.T) {
	e := Expense{ID: 7, Amount: 12.5, Category: Travel, Notes: "metro", Date: NewDay(2024, time.June, 1)}
	tx := e.Tagged()
	if tx.Kind != KindExpense || tx.ID != 7 || tx.Category != Travel || tx.Source != "" {
		t.Fatalf("unexpected expense transaction: %+v", tx)
	}

	n := Earning{ID: 8, Amount: 500, Source: Salary, Date: NewDay(2024, time.June, 2)}
	tx = n.Tagged()
	if tx.Kind != KindEarning || tx.Source != Salary || tx.Category != "" {
		t.Fatalf("unexpected earning transaction: %+v", tx)
	}
}
