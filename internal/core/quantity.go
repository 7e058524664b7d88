// Package core provides the nutrition domain model.
//
// This file parses gram and multiplier quantities typed by a user, accepting
// both dot (12.5) and comma (12,5) decimal separators.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseQuantity converts user input to a non-negative finite number.
//
// Examples:
//
//	ParseQuantity("12.5")  -> 12.5, nil
//	ParseQuantity("12,5")  -> 12.5, nil
//	ParseQuantity("-1")    -> 0, ErrInvalidQuantity
//	ParseQuantity("NaN")   -> 0, ErrInvalidQuantity
func ParseQuantity(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidQuantity
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidQuantity
	}
	// Reject hex floats, exponents and words like "Inf" that ParseFloat allows.
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return 0, ErrInvalidQuantity
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidQuantity
	}
	return v, nil
}
