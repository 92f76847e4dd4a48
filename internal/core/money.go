// Package core provides money parsing and handling utilities.
//
// Amounts are exact decimals; rounding only happens where a report asks for
// two decimal places.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a signed decimal amount in the ledger's single currency.
type Money struct {
	value decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{value: d}
}

// MoneyFromCents is mostly useful in tests.
func MoneyFromCents(cents int64) Money {
	return Money{value: decimal.New(cents, -2)}
}

// ParseMoney converts a decimal string to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading sign. Zero is accepted here; callers decide whether zero
// is meaningful.
//
// Examples:
//
//	ParseMoney("12.34")  -> 12.34
//	ParseMoney("-12,5")  -> -12.5
//	ParseMoney("abc")    -> ErrInvalidAmount
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return Money{}, fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	return Money{value: d}, nil
}

// ParseTransactionAmount parses a signed, non-zero amount.
func ParseTransactionAmount(s string) (Money, error) {
	m, err := ParseMoney(s)
	if err != nil {
		return Money{}, err
	}
	if m.IsZero() {
		return Money{}, ErrZeroAmount
	}
	return m, nil
}

// ParseGoalAmount parses a strictly positive amount.
func ParseGoalAmount(s string) (Money, error) {
	m, err := ParseMoney(s)
	if err != nil {
		return Money{}, err
	}
	if !m.IsPositive() {
		return Money{}, ErrInvalidGoal
	}
	return m, nil
}

func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsPositive() bool         { return m.value.IsPositive() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) }
func (m Money) GreaterThan(n Money) bool { return m.value.GreaterThan(n.value) }
func (m Money) Add(n Money) Money        { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money        { return Money{value: m.value.Sub(n.value)} }
func (m Money) Neg() Money               { return Money{value: m.value.Neg()} }

// Decimal exposes the underlying exact value.
func (m Money) Decimal() decimal.Decimal {
	return m.value
}

// Round2 rounds half away from zero to two decimal places.
func (m Money) Round2() Money {
	return Money{value: m.value.Round(2)}
}

// String renders the amount with exactly two decimals.
func (m Money) String() string {
	return m.value.StringFixed(2)
}

// Raw renders the amount with all its digits, as stored in the row store.
func (m Money) Raw() string {
	return m.value.String()
}

// Float returns the amount as float64 for display purposes only.
func (m Money) Float() float64 {
	return m.value.InexactFloat64()
}

// Sum adds up amounts.
func Sum(amounts ...Money) Money {
	total := Money{}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
