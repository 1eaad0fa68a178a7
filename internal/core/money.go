// Package core provides money parsing and handling utilities.
//
// Amounts are kept as int64 hundredths of the currency unit so totals are
// exact. On the wire they travel as plain numbers in currency units.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in hundredths of the currency unit.
type Money struct {
	Cents int64
}

// FromUnits builds Money from a whole number of currency units.
func FromUnits(units int64) Money {
	return Money{Cents: units * 100}
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Units returns the value as a float64 for display purposes.
// Use Cents for calculations.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the amount in currency units without trailing zero
// fractions: 1000, 12.5, -3.05.
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10)
	if rem := cents % 100; rem != 0 {
		frac := strconv.FormatInt(rem+100, 10)[1:]
		s += "." + strings.TrimRight(frac, "0")
	}
	if neg {
		return "-" + s
	}
	return s
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts any finite JSON number, including zero and
// negatives: the persisted document may hold whatever the store was given.
func (m *Money) UnmarshalJSON(data []byte) error {
	cents, err := parseSignedCents(string(data))
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Thousands separators are not
// supported. Returns an error for invalid formats, negative values, or zero.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
//	ParseDecimalToCents("1000") -> 100000, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	cents, err := parseUnsignedCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

func parseSignedCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return 0, ErrInvalidAmount
	}
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, ErrInvalidAmount
		}
		scaled := math.Round(f * 100)
		if math.Abs(scaled) > math.MaxInt64/2 {
			return 0, ErrInvalidAmount
		}
		return int64(scaled), nil
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	cents, err := parseUnsignedCents(s)
	if err != nil {
		return 0, err
	}
	if neg {
		return -cents, nil
	}
	return cents, nil
}

func parseUnsignedCents(s string) (int64, error) {
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv >= maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}
