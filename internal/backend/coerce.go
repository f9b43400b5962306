package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The upstream API serialises numeric fields inconsistently: prices arrive as
// numbers or strings, identifiers as integers or strings, and optional fields
// as null. These wire types coerce once at the boundary so nothing downstream
// has to care.

// Number is a float64 that tolerates string and null encodings. A value that
// fails coercion decodes to 0.
type Number float64

// UnmarshalJSON implements lenient numeric decoding.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number(coerceFloat(data))
	return nil
}

// Float returns the coerced value.
func (n Number) Float() float64 { return float64(n) }

// Quantity is an item count clamped to a minimum of one on decode.
type Quantity int

// UnmarshalJSON implements lenient decoding with the >= 1 clamp.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	v := int(coerceFloat(data))
	if v < 1 {
		v = 1
	}
	*q = Quantity(v)
	return nil
}

// Int returns the clamped value.
func (q Quantity) Int() int { return int(q) }

// ID is an integer identifier that tolerates string encodings. Unparseable
// values decode to 0.
type ID int64

// UnmarshalJSON implements lenient identifier decoding.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID(int64(coerceFloat(data)))
	return nil
}

// Int64 returns the coerced identifier.
func (id ID) Int64() int64 { return int64(id) }

// OptionalID is a nullable identifier; null and empty strings decode to nil.
type OptionalID struct {
	Value int64
	Valid bool
}

// UnmarshalJSON implements lenient nullable identifier decoding.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = OptionalID{}
		return nil
	}
	if unquoted, ok := unquote(trimmed); ok && strings.TrimSpace(unquoted) == "" {
		*o = OptionalID{}
		return nil
	}
	v := int64(coerceFloat(trimmed))
	if v == 0 {
		*o = OptionalID{}
		return nil
	}
	*o = OptionalID{Value: v, Valid: true}
	return nil
}

// Ptr returns the identifier as a nilable pointer.
func (o OptionalID) Ptr() *int64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func coerceFloat(data []byte) float64 {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0
	}
	if unquoted, ok := unquote(trimmed); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(unquoted), 64)
		if err != nil {
			return 0
		}
		return f
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return 0
	}
	return f
}

func unquote(data []byte) (string, bool) {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			return s, true
		}
	}
	return "", false
}
