// Package lakh formats amounts expressed in lakhs of rupees (1 lakh = 100,000).
package lakh

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a sum of money in lakhs.
type Amount struct {
	decimal.Decimal
}

// New creates an Amount from a float64.
func New(value float64) Amount {
	return Amount{decimal.NewFromFloat(value)}
}

// FromDecimal wraps a decimal.Decimal.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d}
}

// Parse creates an Amount from its decimal string form.
func Parse(value string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Amount{}, err
	}
	return Amount{d}, nil
}

// Round rounds to two places, half away from zero.
func (a Amount) Round() Amount {
	return Amount{a.Decimal.Round(2)}
}

// Rupees converts the amount to whole rupees.
func (a Amount) Rupees() decimal.Decimal {
	return a.Decimal.Mul(decimal.NewFromInt(100_000)).Round(0)
}

// String returns the amount with exactly two decimals.
func (a Amount) String() string {
	return a.Decimal.StringFixed(2)
}

// Format renders the amount for people, e.g. "₹12.34L" or "-₹3.50L".
func (a Amount) Format() string {
	if a.Decimal.Round(2).IsNegative() {
		return "-₹" + a.Decimal.Neg().StringFixed(2) + "L"
	}
	return "₹" + a.String() + "L"
}

// Round2 rounds d to two places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Float2 rounds d to two places and converts it for wire formats.
func Float2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// Format renders d in lakhs with the rupee sign.
func Format(d decimal.Decimal) string {
	return Amount{d}.Format()
}

// Percent renders a percentage value with two decimals, e.g. "66.67%".
func Percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
