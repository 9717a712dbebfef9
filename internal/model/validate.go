package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSchema is matched by every error returned when a schema document
// cannot be turned into a Config.
var ErrMalformedSchema = errors.New("malformed schema")

// MalformedSchemaError wraps the cause of a rejected schema document.
type MalformedSchemaError struct {
	Err error
}

func (e *MalformedSchemaError) Error() string {
	return ErrMalformedSchema.Error() + ": " + e.Err.Error()
}

// Unwrap exposes the cause.
func (e *MalformedSchemaError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedSchema) succeed.
func (e *MalformedSchemaError) Is(target error) bool { return target == ErrMalformedSchema }

// Malformed wraps err as a *MalformedSchemaError.
func Malformed(err error) error {
	var mse *MalformedSchemaError
	if errors.As(err, &mse) {
		return err
	}
	return &MalformedSchemaError{Err: err}
}

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure at a document path such
// as "sections[1].fields[0].code".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(path, format string, args ...any) {
	e.Errors = append(e.Errors, FieldError{Field: path, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a Config for structural violations.
// It returns a *ValidationError if any rules fail, or nil if the config is valid.
func Validate(c *Config) error {
	var ve ValidationError

	if c.Sections == nil {
		ve.add("sections", "is required")
		return &ve
	}

	// (section name, code) pairs must be unique, including across sections
	// that share a name.
	seen := make(map[string]map[string]string)

	for i := range c.Sections {
		s := &c.Sections[i]
		spath := fmt.Sprintf("sections[%d]", i)
		if s.Fields == nil {
			ve.add(spath+".fields", "is required")
			continue
		}
		codes := seen[s.Name]
		if codes == nil {
			codes = make(map[string]string)
			seen[s.Name] = codes
		}
		for j := range s.Fields {
			f := &s.Fields[j]
			fpath := fmt.Sprintf("%s.fields[%d]", spath, j)

			if strings.TrimSpace(f.Code) == "" {
				ve.add(fpath+".code", "is required")
			} else if prev, dup := codes[f.Code]; dup {
				ve.add(fpath+".code", "duplicate code %q in section %q (first at %s)", f.Code, s.Name, prev)
			} else {
				codes[f.Code] = fpath
			}

			if !f.Type.IsValid() {
				ve.add(fpath+".type", "invalid value %q", f.Type)
				continue
			}
			if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
				ve.add(fpath+".min", "must not exceed max (%v > %v)", *f.Min, *f.Max)
			}
			if f.Type == FieldTypeSelect && len(f.Choices) == 0 {
				ve.add(fpath+".choices", "is required for select fields")
			}
			if err := f.Check(f.DefaultValue); err != nil {
				ve.add(fpath+".defaultValue", "%v", err)
			}
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
