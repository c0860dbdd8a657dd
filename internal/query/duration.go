package query

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// ParseHours converts a free-text duration ("8:30" or "8,5") into hours.
// Unparseable, empty, negative or non-finite input yields 0.
func ParseHours(text string) float64 {
	return ParseHoursDecimal(text).InexactFloat64()
}

// ParseHoursPtr is ParseHours for nullable columns.
func ParseHoursPtr(text *string) float64 {
	if text == nil {
		return 0
	}
	return ParseHours(*text)
}

// ParseHoursDecimal is the exact form of ParseHours used when summing.
//
// "H:MM" is hours plus literal minutes, so "8:3" is 8h03m rather than 8h30m.
func ParseHoursDecimal(text string) decimal.Decimal {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero
	}

	if i := strings.Index(s, ":"); i >= 0 {
		hours, err := strconv.ParseUint(strings.TrimSpace(s[:i]), 10, 32)
		if err != nil {
			return decimal.Zero
		}
		rest := s[i+1:]
		if j := strings.Index(rest, ":"); j >= 0 {
			rest = rest[:j]
		}
		rest = strings.TrimSpace(rest)
		var minutes uint64
		if rest != "" {
			minutes, err = strconv.ParseUint(rest, 10, 32)
			if err != nil {
				return decimal.Zero
			}
		}
		return decimal.NewFromInt(int64(hours)).Add(decimal.NewFromInt(int64(minutes)).Div(sixty))
	}

	value, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil || value.IsNegative() {
		return decimal.Zero
	}
	return value
}

// HoursTotal accumulates parsed durations without float drift.
type HoursTotal struct {
	sum decimal.Decimal
}

// Add parses text and adds it to the running total.
func (h *HoursTotal) Add(text string) {
	h.sum = h.sum.Add(ParseHoursDecimal(text))
}

// AddPtr adds a nullable duration.
func (h *HoursTotal) AddPtr(text *string) {
	if text != nil {
		h.Add(*text)
	}
}

// Value returns the total rounded to two decimals.
func (h HoursTotal) Value() float64 {
	return h.sum.Round(2).InexactFloat64()
}

// SumHours parses and sums every value.
func SumHours(values ...string) float64 {
	var total HoursTotal
	for _, v := range values {
		total.Add(v)
	}
	return total.Value()
}
