package core

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.34", 12.34, true},
		{"12,34", 12.34, true},
		{" 100 ", 100, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"Inf", 0, false},
		{"NaN", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseAmount(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseAmount(%q) expected error", tc.in)
		}
	}
}

func TestValidAmount(t *testing.T) {
	if ValidAmount(0) || ValidAmount(-1) || ValidAmount(math.NaN()) || ValidAmount(math.Inf(1)) {
		t.Fatal("non-positive or non-finite amounts must be invalid")
	}
	if !ValidAmount(0.01) {
		t.Fatal("small positive amount must be valid")
	}
}
