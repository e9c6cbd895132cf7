// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Currency identifies one of the two balances a company carries.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencySRD Currency = "SRD"
)

// IsValid reports whether c is a supported currency.
func (c Currency) IsValid() bool {
	return c == CurrencyUSD || c == CurrencySRD
}

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// MulUnits multiplies a per-unit amount by a discrete unit count.
func MulUnits(perUnit Money, units int64) Money {
	return perUnit.Mul(decimal.NewFromInt(units))
}

// DefaultSRDPerUSD is the fixed display conversion rate between the two
// company balances. No core operation converts between currencies; the rate
// exists only for read-side presentation.
var DefaultSRDPerUSD = MustMoney("35.50")
