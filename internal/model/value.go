package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	// KindUnset is an absent value. It is omitted from JSON and renders as "undefined".
	KindUnset ValueKind = iota
	KindNull
	KindText
	KindNumber
	KindBoolean
)

// String returns the name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindUnset:
		return "unset"
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// Value is the current or default content of a field. The zero Value is unset.
type Value struct {
	kind ValueKind
	text string
	num  float64
	b    bool
}

// Unset returns the absent value.
func Unset() Value { return Value{} }

// Null returns an explicit null value.
func Null() Value { return Value{kind: KindNull} }

// Text returns a text value. Select choices are text values.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether v is unset. It lets encoding/json omit unset values
// from documents tagged with omitzero.
func (v Value) IsZero() bool { return v.kind == KindUnset }

// IsEmpty reports whether v fails a required-field check: unset, null, or "".
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindUnset, KindNull:
		return true
	case KindText:
		return v.text == ""
	}
	return false
}

// AsText returns the text payload and whether v is a text value.
func (v Value) AsText() (string, bool) { return v.text, v.kind == KindText }

// AsNumber returns the numeric payload and whether v is a number.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean payload and whether v is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBoolean }

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindBoolean:
		return v.b == o.b
	}
	return true
}

// String renders v the way the record codec writes it: unset as "undefined",
// null as "null", numbers in shortest decimal form, booleans as true/false.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindText:
		return v.text
	case KindNumber:
		return formatNumber(v.num)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	}
	return "undefined"
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	abs := math.Abs(n)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// MarshalJSON encodes v as a JSON scalar. Unset values encode as null when
// they are not omitted by the enclosing struct.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("value %v is not representable in JSON", v.num)
		}
		return json.Marshal(v.num)
	case KindBoolean:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes a JSON scalar. Arrays and objects are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	switch data[0] {
	case 'n':
		*v = Null()
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	case '{', '[':
		return fmt.Errorf("unsupported value %s: only text, number, boolean and null are allowed", truncate(string(data), 32))
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = Number(n)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// ParseValue converts user-entered text into a value suited to the field type.
// Untyped and text fields keep the input verbatim; the literal "null" clears a
// typed field.
func ParseValue(t FieldType, s string) (Value, error) {
	switch t {
	case FieldTypeNumber, FieldTypeCounter:
		trimmed := strings.TrimSpace(s)
		if trimmed == "" || trimmed == "null" {
			return Null(), nil
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a number", s)
		}
		if t == FieldTypeCounter && n != math.Trunc(n) {
			return Value{}, fmt.Errorf("%q is not an integer", s)
		}
		return Number(n), nil
	case FieldTypeBoolean:
		trimmed := strings.TrimSpace(s)
		if trimmed == "" || trimmed == "null" {
			return Null(), nil
		}
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a boolean", s)
		}
		return Bool(b), nil
	}
	return Text(s), nil
}
