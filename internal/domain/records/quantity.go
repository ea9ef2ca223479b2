package records

import (
	"bytes"
	"math"
	"strconv"
)

// Quantity is a numeric field as the console API actually delivers it: a
// JSON number most of the time, but sometimes null, absent, a quoted
// number, or junk like "n/a". Decoding never fails; anything that is not a
// finite number is recorded as missing.
type Quantity struct {
	Value float64
	Valid bool
}

// Num builds a present Quantity. Non-finite input counts as missing.
func Num(v float64) Quantity {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Quantity{}
	}
	return Quantity{Value: v, Valid: true}
}

// Or0 returns the value, or 0 when the field is missing or non-finite.
func (q Quantity) Or0() float64 {
	if !q.Valid || math.IsNaN(q.Value) || math.IsInf(q.Value, 0) {
		return 0
	}
	return q.Value
}

func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*q = Quantity{}
		return nil
	}
	s := string(b)
	if s[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			*q = Quantity{}
			return nil
		}
		s = unquoted
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*q = Quantity{}
		return nil
	}
	*q = Quantity{Value: v, Valid: true}
	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(q.Value, 'f', -1, 64)), nil
}
