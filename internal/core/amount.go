// Package core holds the transaction domain model and the pure logic that
// prepares it for aggregation: amount coercion, record normalization and
// calendar-window bucketing.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a non-negative euro amount. Records arrive from receipts and
// hand-edited forms where numeric fields may be numbers, numeric strings, or
// garbage; Amount decodes all of them and coerces anything unusable to 0 so
// that one malformed historical record cannot abort aggregation.
type Amount float64

// ParseAmount coerces an arbitrary string into a finite non-negative amount.
// Currency symbols and decimal commas are tolerated; parse failures, negative
// values, NaN and infinities all yield 0.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return clampAmount(v)
}

func clampAmount(v float64) Amount {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return Amount(v)
}

// UnmarshalJSON accepts a JSON number, a numeric string, or null.
// Anything else decodes to 0 rather than failing the whole document.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	if s[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			*a = 0
			return nil
		}
		*a = ParseAmount(raw)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*a = 0
		return nil
	}
	*a = clampAmount(v)
	return nil
}

// MarshalJSON always emits a plain JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(a))
}
