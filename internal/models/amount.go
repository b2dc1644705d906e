package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a price-like value as the backend sends it. The backend is loose
// about types: numbers, numeric strings, null and garbage all show up, so
// decoding never fails and the raw text is kept for verbatim display.
type Amount struct {
	raw     string
	quoted  bool
	value   decimal.Decimal
	numeric bool
}

// NewAmount returns a numeric amount.
func NewAmount(v decimal.Decimal) Amount {
	return Amount{raw: v.String(), value: v, numeric: true}
}

// ParseAmount interprets s the way the backend's string-typed prices are read.
func ParseAmount(s string) Amount {
	a := Amount{raw: s, quoted: true}
	if v, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
		a.value = v
		a.numeric = true
	}
	return a
}

// Decimal returns the numeric value and whether there is one.
func (a Amount) Decimal() (decimal.Decimal, bool) {
	return a.value, a.numeric
}

// IsNumeric reports whether the amount carries a usable number.
func (a Amount) IsNumeric() bool { return a.numeric }

// String returns the amount exactly as received.
func (a Amount) String() string { return a.raw }

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*a = Amount{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*a = Amount{raw: string(b)}
			return nil
		}
		*a = ParseAmount(s)
	default:
		*a = Amount{raw: string(b)}
		if v, err := decimal.NewFromString(string(b)); err == nil {
			a.value = v
			a.numeric = true
		}
	}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.quoted:
		return json.Marshal(a.raw)
	case a.raw == "":
		return []byte("null"), nil
	case a.numeric:
		return []byte(a.raw), nil
	default:
		// Non-numeric literals (true, objects) were valid JSON when received.
		if json.Valid([]byte(a.raw)) {
			return []byte(a.raw), nil
		}
		return json.Marshal(a.raw)
	}
}

// ZeroFallback is the display policy for amounts that are missing or not
// numeric: they count as zero and never surface as errors.
func ZeroFallback(a Amount) decimal.Decimal {
	if v, ok := a.Decimal(); ok {
		return v
	}
	return decimal.Zero
}
