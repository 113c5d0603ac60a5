package model

import (
	"math"
	"strconv"
	"strings"
)

var moneyStripper = strings.NewReplacer("$", "", ",", "", " ", "")

// ParseMoney reads amounts such as "$1,500.00"; false when s is not a finite number.
func ParseMoney(s string) (float64, bool) {
	s = moneyStripper.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatMoney is the canonical stored text of an amount.
func FormatMoney(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NormalizeMoney returns the canonical text of s, or nil when s is absent or
// not a number.
func NormalizeMoney(s *string) *string {
	if s == nil {
		return nil
	}
	f, ok := ParseMoney(*s)
	if !ok {
		return nil
	}
	return StringPtr(FormatMoney(f))
}
