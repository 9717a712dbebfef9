package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Choice is one option of a select field.
type Choice struct {
	Value string
	Label string
}

// Choices are the options of a select field in display order. In a schema
// document they are an object mapping each value to its label, and the key
// order of that object is the display order.
type Choices []Choice

// Has reports whether value is one of the choices.
func (c Choices) Has(value string) bool {
	_, ok := c.Label(value)
	return ok
}

// Label returns the label shown for value.
func (c Choices) Label(value string) (string, bool) {
	for _, ch := range c {
		if ch.Value == value {
			return ch.Label, true
		}
	}
	return "", false
}

// Values returns the choice values in display order.
func (c Choices) Values() []string {
	out := make([]string, len(c))
	for i, ch := range c {
		out[i] = ch.Value
	}
	return out
}

func (c Choices) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ch := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, ch.Value); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, ch.Label); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// UnmarshalJSON decodes a value-to-label object, keeping key order. A key
// that repeats keeps its first position and takes the last label.
func (c *Choices) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("choices must be an object of value to label")
	}

	out := Choices{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var label string
		if err := dec.Decode(&label); err != nil {
			return fmt.Errorf("choice %q: label must be a string", key)
		}
		if i := slices.IndexFunc(out, func(ch Choice) bool { return ch.Value == key }); i >= 0 {
			out[i].Label = label
			continue
		}
		out = append(out, Choice{Value: key, Label: label})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}
