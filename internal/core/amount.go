// Package core provides the ledger's domain types and validation.
//
// This file contains amount parsing for the input boundary. The ledger
// itself assumes amounts are already positive and finite; callers must
// run raw input through ParseAmount before handing it to the store.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ValidAmount reports whether f is a storable record amount:
// strictly positive and finite.
func ValidAmount(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// ParseAmount converts a raw decimal string to a record amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for anything that is not a strictly positive
// finite number.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if !ValidAmount(f) {
		return 0, ErrInvalidAmount
	}
	return f, nil
}
