package google

import "testing"

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		year     int
		expected string
	}{
		{"plain base", "Records", 2026, "2026 Records"},
		{"already prefixed", "2025 Records", 2026, "2025 Records"},
		{"short base", "Log", 2026, "2026 Log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := yearPrefixedName(tt.base, tt.year); got != tt.expected {
				t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.expected)
			}
		})
	}
}
