package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// validConfig returns a Config that passes all validation rules.
func validConfig() Config {
	lo, hi := 0.0, 10.0
	return Config{
		Title: "Scouting",
		Sections: []Section{
			{
				Name: "prematch",
				Fields: []Field{
					{Code: "scouter", Title: "Scouter", Required: true, Type: FieldTypeText},
					{Code: "robot", Title: "Robot", Required: true, Type: FieldTypeSelect,
						Choices: Choices{{Value: "R1", Label: "Red 1"}, {Value: "B1", Label: "Blue 1"}}, DefaultValue: Text("R1")},
				},
			},
			{
				Name: "auto",
				Fields: []Field{
					{Code: "taxi", Title: "Taxi", Type: FieldTypeBoolean, DefaultValue: Bool(false)},
					{Code: "cargo", Title: "Cargo", Type: FieldTypeCounter, Min: &lo, Max: &hi, DefaultValue: Number(0)},
				},
			},
		},
	}
}

// fieldErrors extracts a *ValidationError from err or fails the test.
func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

// hasFieldError reports whether the error list contains an error for the given path.
func hasFieldError(errs []FieldError, path string) bool {
	for _, fe := range errs {
		if fe.Field == path {
			return true
		}
	}
	return false
}

func TestValidate_Valid(t *testing.T) {
	c := validConfig()
	if err := Validate(&c); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_SectionsRequired(t *testing.T) {
	errs := fieldErrors(t, Validate(&Config{}))
	if !hasFieldError(errs, "sections") {
		t.Error("expected error on 'sections'")
	}
}

func TestValidate_EmptySectionsAllowed(t *testing.T) {
	if err := Validate(&Config{Sections: []Section{}}); err != nil {
		t.Fatalf("empty sections should be valid, got %v", err)
	}
}

func TestValidate_FieldsRequired(t *testing.T) {
	c := Config{Sections: []Section{{Name: "s"}}}
	errs := fieldErrors(t, Validate(&c))
	if !hasFieldError(errs, "sections[0].fields") {
		t.Errorf("expected error on sections[0].fields, got %v", errs)
	}
}

func TestValidate_CodeRequired(t *testing.T) {
	c := validConfig()
	c.Sections[0].Fields[0].Code = "  "
	errs := fieldErrors(t, Validate(&c))
	if !hasFieldError(errs, "sections[0].fields[0].code") {
		t.Errorf("expected code error, got %v", errs)
	}
}

func TestValidate_DuplicateCodeInSection(t *testing.T) {
	c := validConfig()
	c.Sections[1].Fields[1].Code = "taxi"
	errs := fieldErrors(t, Validate(&c))
	if !hasFieldError(errs, "sections[1].fields[1].code") {
		t.Errorf("expected duplicate code error, got %v", errs)
	}
}

func TestValidate_DuplicateCodeAcrossSameNamedSections(t *testing.T) {
	c := validConfig()
	c.Sections = append(c.Sections, Section{
		Name:   "auto",
		Fields: []Field{{Code: "taxi", Title: "Again"}},
	})
	errs := fieldErrors(t, Validate(&c))
	if !hasFieldError(errs, "sections[2].fields[0].code") {
		t.Errorf("expected duplicate code error, got %v", errs)
	}
}

func TestValidate_SameCodeInDifferentSections(t *testing.T) {
	c := validConfig()
	c.Sections[1].Fields[0].Code = "scouter"
	if err := Validate(&c); err != nil {
		t.Fatalf("codes may repeat across differently named sections, got %v", err)
	}
}

func TestValidate_InvalidType(t *testing.T) {
	c := validConfig()
	c.Sections[0].Fields[0].Type = "image"
	errs := fieldErrors(t, Validate(&c))
	if !hasFieldError(errs, "sections[0].fields[0].type") {
		t.Errorf("expected type error, got %v", errs)
	}
}

func TestValidate_DefaultTypeMismatch(t *testing.T) {
	for _, tc := range []struct {
		typ FieldType
		def Value
	}{
		{FieldTypeBoolean, Text("yes")},
		{FieldTypeNumber, Bool(true)},
		{FieldTypeText, Number(1)},
		{FieldTypeCounter, Number(1.5)},
		{FieldTypeText, Text("a\tb")},
	} {
		t.Run(string(tc.typ), func(t *testing.T) {
			c := validConfig()
			c.Sections[0].Fields[0].Type = tc.typ
			c.Sections[0].Fields[0].DefaultValue = tc.def
			errs := fieldErrors(t, Validate(&c))
			if !hasFieldError(errs, "sections[0].fields[0].defaultValue") {
				t.Errorf("expected defaultValue error, got %v", errs)
			}
		})
	}
}

func TestValidate_SelectDefaultNotAChoice(t *testing.T) {
	c := validConfig()
	c.Sections[0].Fields[1].DefaultValue = Text("G7")
	errs := fieldErrors(t, Validate(&c))
	if !hasFieldError(errs, "sections[0].fields[1].defaultValue") {
		t.Errorf("expected defaultValue error, got %v", errs)
	}
}

func TestValidate_SelectNeedsChoices(t *testing.T) {
	c := validConfig()
	c.Sections[0].Fields[1].Choices = nil
	c.Sections[0].Fields[1].DefaultValue = Unset()
	errs := fieldErrors(t, Validate(&c))
	if !hasFieldError(errs, "sections[0].fields[1].choices") {
		t.Errorf("expected choices error, got %v", errs)
	}
}

func TestValidate_MinAboveMax(t *testing.T) {
	c := validConfig()
	lo := 20.0
	c.Sections[1].Fields[1].Min = &lo
	errs := fieldErrors(t, Validate(&c))
	if !hasFieldError(errs, "sections[1].fields[1].min") {
		t.Errorf("expected min error, got %v", errs)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	c := validConfig()
	c.Sections[0].Fields[0].Code = ""
	c.Sections[1].Fields[0].Type = "bogus"
	errs := fieldErrors(t, Validate(&c))
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidationError_Error(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "sections", Message: "is required"},
		{Field: "sections[0].fields[0].code", Message: "is required"},
	}}
	want := "validation failed: sections: is required; sections[0].fields[0].code: is required"
	if got := ve.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestMalformed(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Malformed(cause)
	if !errors.Is(err, ErrMalformedSchema) {
		t.Error("errors.Is(err, ErrMalformedSchema) = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if !strings.HasPrefix(err.Error(), "malformed schema: ") {
		t.Errorf("Error() = %q, want malformed schema prefix", err.Error())
	}

	// Wrapping twice does not nest.
	again := Malformed(fmt.Errorf("import: %w", err))
	var mse *MalformedSchemaError
	if !errors.As(again, &mse) || mse.Err != cause {
		t.Errorf("Malformed re-wrapped an already malformed error: %v", again)
	}
}
