package model

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Config is a loaded form schema together with the live field values.
// Section order, then field order, defines the record layout.
type Config struct {
	Title    string    `json:"title,omitempty"`
	Sections []Section `json:"sections"`
}

// Section is a named group of fields. Names are used for lookup and need not
// be unique.
type Section struct {
	Name                string  `json:"name"`
	PreserveDataOnReset bool    `json:"preserveDataOnReset,omitempty"`
	Fields              []Field `json:"fields"`
}

// Field is a single input slot.
type Field struct {
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	Required     bool      `json:"required"`
	Type         FieldType `json:"type,omitempty"`
	Choices      Choices   `json:"choices,omitempty"`
	Min          *float64  `json:"min,omitempty"`
	Max          *float64  `json:"max,omitempty"`
	DefaultValue Value     `json:"defaultValue,omitzero"`
	Value        Value     `json:"value,omitzero"`
}

// Missing reports whether a required field has no usable value.
func (f *Field) Missing() bool {
	return f.Required && f.Value.IsEmpty()
}

// Check validates v against the field's declared type, choices and bounds.
// Text may not contain tabs or line breaks, since the record is one
// tab-delimited line. It does not consider Required; see Missing.
func (f *Field) Check(v Value) error {
	if !f.Type.Accepts(v.Kind()) {
		return fmt.Errorf("%s value not allowed for %s field", v.Kind(), f.Type)
	}
	if s, ok := v.AsText(); ok && strings.ContainsAny(s, "\t\r\n") {
		return fmt.Errorf("%q contains a tab or line break", s)
	}
	if s, ok := v.AsText(); ok && f.Type == FieldTypeSelect && len(f.Choices) > 0 {
		if !f.Choices.Has(s) {
			return fmt.Errorf("%q is not one of the field's choices", s)
		}
	}
	if n, ok := v.AsNumber(); ok {
		if f.Type == FieldTypeCounter && n != math.Trunc(n) {
			return fmt.Errorf("%v is not an integer", n)
		}
		if f.Min != nil && n < *f.Min {
			return fmt.Errorf("%v is below the minimum %v", n, *f.Min)
		}
		if f.Max != nil && n > *f.Max {
			return fmt.Errorf("%v is above the maximum %v", n, *f.Max)
		}
	}
	return nil
}

// Clone returns a deep copy of c. The copy shares no sections, fields,
// choice lists or bound pointers with c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := &Config{Title: c.Title}
	if c.Sections != nil {
		out.Sections = make([]Section, len(c.Sections))
	}
	for i := range c.Sections {
		out.Sections[i] = c.Sections[i].clone()
	}
	return out
}

func (s *Section) clone() Section {
	out := Section{Name: s.Name, PreserveDataOnReset: s.PreserveDataOnReset}
	if s.Fields != nil {
		out.Fields = make([]Field, len(s.Fields))
	}
	for i := range s.Fields {
		out.Fields[i] = s.Fields[i].clone()
	}
	return out
}

func (f *Field) clone() Field {
	out := *f
	out.Choices = slices.Clone(f.Choices)
	out.Min = cloneFloat(f.Min)
	out.Max = cloneFloat(f.Max)
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Fields returns copies of every field in section order, then field order.
func (c *Config) Fields() []Field {
	var out []Field
	for i := range c.Sections {
		for j := range c.Sections[i].Fields {
			out = append(out, c.Sections[i].Fields[j].clone())
		}
	}
	return out
}

// FieldCount returns the total number of fields across all sections.
func (c *Config) FieldCount() int {
	n := 0
	for i := range c.Sections {
		n += len(c.Sections[i].Fields)
	}
	return n
}

// Lookup returns a pointer to the field with the given code in the first
// section named section that contains it, or nil.
func (c *Config) Lookup(section, code string) *Field {
	for i := range c.Sections {
		s := &c.Sections[i]
		if s.Name != section {
			continue
		}
		for j := range s.Fields {
			if s.Fields[j].Code == code {
				return &s.Fields[j]
			}
		}
	}
	return nil
}

// Find returns a pointer to the first field with the given code in section
// order, or nil. When codes repeat across sections the earliest wins.
func (c *Config) Find(code string) *Field {
	for i := range c.Sections {
		for j := range c.Sections[i].Fields {
			if c.Sections[i].Fields[j].Code == code {
				return &c.Sections[i].Fields[j]
			}
		}
	}
	return nil
}

// SectionOf returns the name of the first section containing code.
func (c *Config) SectionOf(code string) (string, bool) {
	for i := range c.Sections {
		for j := range c.Sections[i].Fields {
			if c.Sections[i].Fields[j].Code == code {
				return c.Sections[i].Name, true
			}
		}
	}
	return "", false
}

// Equal reports whether two configs are structurally identical, including
// values.
func (c *Config) Equal(o *Config) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.Title != o.Title || len(c.Sections) != len(o.Sections) {
		return false
	}
	for i := range c.Sections {
		a, b := &c.Sections[i], &o.Sections[i]
		if a.Name != b.Name || a.PreserveDataOnReset != b.PreserveDataOnReset || len(a.Fields) != len(b.Fields) {
			return false
		}
		for j := range a.Fields {
			if !a.Fields[j].equal(&b.Fields[j]) {
				return false
			}
		}
	}
	return true
}

func (f *Field) equal(o *Field) bool {
	if f.Code != o.Code || f.Title != o.Title || f.Required != o.Required || f.Type != o.Type {
		return false
	}
	if !f.DefaultValue.Equal(o.DefaultValue) || !f.Value.Equal(o.Value) {
		return false
	}
	if !floatPtrEqual(f.Min, o.Min) || !floatPtrEqual(f.Max, o.Max) {
		return false
	}
	return slices.Equal(f.Choices, o.Choices)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
