// Package core defines the entities the dashboard manages and the
// parsing and validation rules applied at the input boundary.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is a monetary amount in integer cents. The remote store keeps
// amounts as decimal euros; Money converts on the JSON boundary so all
// arithmetic stays in cents.
type Money struct {
	Cents int64
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. It accepts both dot (12.34) and
// comma (12,34) separators and only admits strictly positive amounts;
// it is the form-input parser, not the storage decoder.
func ParseDecimalToCents(s string) (int64, error) {
	cents, err := decimalToCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// decimalToCents is the lenient signed variant used when decoding rows
// coming back from the store.
func decimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}

	// Take the first two fractional digits, half-up on the third.
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

	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// Euros returns the euro value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Euros() float64 {
	return float64(m.Cents) / 100.0
}

// Format renders the amount as a Euro currency string, e.g. "€12,34".
func (m Money) Format() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "," + pad2(cents%100)
	if neg {
		return "-€" + s
	}
	return "€" + s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// MarshalJSON writes the amount as a decimal euro number, which is the
// representation the remote numeric columns expect.
func (m Money) MarshalJSON() ([]byte, error) {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return []byte(sign + strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" || s == "" {
		m.Cents = 0
		return nil
	}
	cents, err := decimalToCents(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}
