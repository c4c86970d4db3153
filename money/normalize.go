package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DECIMAL-LIKE NORMALIZATION
// =============================================================================
//
// Salary and balance figures reach the calculators in several shapes: native
// numbers, numeric strings ("30", " 2.5 "), decimal.Decimal values read from
// storage, or JSON numbers. They are converted exactly once, at the entry of
// each calculator; arithmetic never runs on the wrapped form.
//
// Recognized shapes:
//   - decimal.Decimal, *decimal.Decimal, decimal.NullDecimal
//   - every int/uint width, float32, float64 (NaN/Inf rejected)
//   - string, json.Number
//   - Decimaler (anything exposing Decimal())
//   - Float64er (anything exposing Float64() float64)

var (
	// ErrInvalidNumber is returned for a recognized shape carrying a value that
	// is not a finite number (bad numeric string, NaN, Inf).
	ErrInvalidNumber = errors.New("invalid number")

	// ErrUnsupportedNumber is returned for shapes that cannot carry a number.
	ErrUnsupportedNumber = errors.New("unsupported number type")
)

// Decimaler is implemented by wrapper types that can expose their value as a
// decimal.
type Decimaler interface {
	Decimal() decimal.Decimal
}

// Float64er is implemented by wrapper types that can only expose a float.
type Float64er interface {
	Float64() float64
}

// ToDecimal normalizes v, defaulting to zero for nil, unrecognized shapes and
// invalid values. Use ParseDecimal where bad input must be rejected.
func ToDecimal(v any) decimal.Decimal {
	d, err := ParseDecimal(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDecimal normalizes v, reporting why it could not.
// nil normalizes to zero without error.
func ParseDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return n, nil
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, nil
		}
		return *n, nil
	case decimal.NullDecimal:
		if !n.Valid {
			return decimal.Zero, nil
		}
		return n.Decimal, nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int8:
		return decimal.NewFromInt(int64(n)), nil
	case int16:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case uint:
		return fromUint(uint64(n)), nil
	case uint8:
		return fromUint(uint64(n)), nil
	case uint16:
		return fromUint(uint64(n)), nil
	case uint32:
		return fromUint(uint64(n)), nil
	case uint64:
		return fromUint(n), nil
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case string:
		return fromString(n)
	case json.Number:
		return fromString(n.String())
	case Decimaler:
		return n.Decimal(), nil
	case Float64er:
		return fromFloat(n.Float64())
	default:
		return decimal.Zero, fmt.Errorf("%w: %T", ErrUnsupportedNumber, v)
	}
}

func fromUint(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidNumber, f)
	}
	return decimal.NewFromFloat(f), nil
}

func fromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty string", ErrInvalidNumber)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return d, nil
}
