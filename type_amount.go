package ach

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency of every ACH amount.
const Currency = money.USD

// Amount is a dollar value carried by an entry or a control total.
// Numeric fields render it as a whole number of cents.
type Amount struct {
	value decimal.Decimal // dollars
}

// Dollars returns an Amount of v dollars.
func Dollars[T float64 | int | int64 | decimal.Decimal](v T) Amount {
	return Amount{value: newDecimal(v)}
}

// Cents returns an Amount of c cents.
func Cents(c int64) Amount { return Amount{value: decimal.New(c, -2)} }

func newDecimal[T float64 | int | int64 | decimal.Decimal](v T) decimal.Decimal {
	switch x := any(v).(type) {
	case float64:
		return decimal.NewFromFloat(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case decimal.Decimal:
		return x
	}
	return decimal.Zero
}

// ParseAmount reads a dollar amount such as "1234.56".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{value: d}, nil
}

// Cents returns the amount in cents, rounded half away from zero.
func (a Amount) Cents() int64 { return a.value.Shift(2).Round(0).IntPart() }

func (a Amount) Decimal() decimal.Decimal { return a.value }
func (a Amount) IsZero() bool             { return a.value.IsZero() }
func (a Amount) IsNegative() bool         { return a.value.IsNegative() }
func (a Amount) Equal(b Amount) bool      { return a.value.Equal(b.value) }
func (a Amount) Add(b Amount) Amount      { return Amount{value: a.value.Add(b.value)} }

// String formats the amount in USD, e.g. "$1,234.56".
func (a Amount) String() string { return money.New(a.Cents(), Currency).Display() }
