package model

// FieldType identifies the input kind of a field.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeCounter FieldType = "counter"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeSelect  FieldType = "select"
)

// String returns the string representation of the field type.
func (t FieldType) String() string {
	return string(t)
}

// IsValid checks whether the field type is a known value. The empty type is
// valid and means the field accepts any scalar.
func (t FieldType) IsValid() bool {
	switch t {
	case "", FieldTypeText, FieldTypeNumber, FieldTypeCounter, FieldTypeBoolean, FieldTypeSelect:
		return true
	}
	return false
}

// Accepts reports whether a value of kind k may be stored in a field of type t.
// Unset and null are accepted by every type.
func (t FieldType) Accepts(k ValueKind) bool {
	if k == KindUnset || k == KindNull {
		return true
	}
	switch t {
	case FieldTypeText, FieldTypeSelect:
		return k == KindText
	case FieldTypeNumber, FieldTypeCounter:
		return k == KindNumber
	case FieldTypeBoolean:
		return k == KindBoolean
	}
	return true
}
