// Package types provides common domain value types.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoneyFromString creates a Money value from a string.
// This is the preferred constructor for monetary values.
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

// Round2 rounds a monetary value to two decimal places, half away from zero.
// Every persisted monetary field goes through this.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Quantity is a stock count in whole units.
// Pharmacy stock is tracked per unit (tablet, strip, bottle), so an int64
// maps directly onto the quantity columns without fixed-point scaling.
type Quantity int64

func (q Quantity) Int64() int64 { return int64(q) }

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) IsNegative() bool { return q < 0 }

func (q Quantity) Neg() Quantity { return -q }

func (q Quantity) Abs() Quantity {
	if q < 0 {
		return -q
	}
	return q
}

// Decimal returns the quantity as a decimal for price arithmetic.
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(q))
}

// ClampNonNegative floors the quantity at zero.
func (q Quantity) ClampNonNegative() Quantity {
	if q < 0 {
		return 0
	}
	return q
}
