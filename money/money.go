/*
Package money provides the rounding primitives every monetary result goes
through, and the normalization of "Decimal-like" inputs.

ROUNDING RULE:
  Two decimal places, half away from zero (2.345 -> 2.35, -2.345 -> -2.35).
  This is decimal.Decimal.Round, which is NOT banker's rounding.

COMPOUND OPERATIONS:
  Add/Sub/Mul/Div round ONCE, on the final result. Operands are never
  rounded individually:

    Mul(10.005, 3) = round(30.015) = 30.02
    round(10.005) * 3 = 10.01 * 3  = 30.03   <- what we avoid

DIVISION BY ZERO:
  Div returns zero instead of panicking. Callers that care check the divisor.

SEE ALSO:
  - normalize.go: ToDecimal / ParseDecimal for mixed input shapes
*/
package money

import (
	"github.com/shopspring/decimal"
)

// Places is the number of decimal places kept for money values.
const Places = 2

var (
	hundred = decimal.NewFromInt(100)
	cent    = decimal.New(1, -Places)
)

// Hundred is 100 as a decimal, handy for percentage conversions.
func Hundred() decimal.Decimal { return hundred }

// Cent is the smallest money unit, 0.01.
func Cent() decimal.Decimal { return cent }

// Round rounds v to two places, half away from zero.
func Round(v decimal.Decimal) decimal.Decimal {
	return v.Round(Places)
}

// RoundTo rounds v to the given number of places, half away from zero.
func RoundTo(v decimal.Decimal, places int32) decimal.Decimal {
	return v.Round(places)
}

// Add returns round(sum of values).
func Add(values ...decimal.Decimal) decimal.Decimal {
	return Round(decimal.Sum(decimal.Zero, values...))
}

// Sub returns round(a - b).
func Sub(a, b decimal.Decimal) decimal.Decimal {
	return Round(a.Sub(b))
}

// Mul returns round(a * b).
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return Round(a.Mul(b))
}

// Div returns round(a / b), or zero when b is zero.
func Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return Round(a.Div(b))
}

// Percent returns round(value * rate / 100).
func Percent(value, rate decimal.Decimal) decimal.Decimal {
	return Round(value.Mul(rate).Div(hundred))
}

// Max0 clamps negative values to zero.
func Max0(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// FromFloat builds a rounded money value from a float64.
func FromFloat(f float64) decimal.Decimal {
	return Round(decimal.NewFromFloat(f))
}

// FromCents builds a money value from an integer number of cents.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -Places)
}

// Cents returns v rounded to the cent, expressed as an integer.
func Cents(v decimal.Decimal) int64 {
	return Round(v).Mul(hundred).IntPart()
}
