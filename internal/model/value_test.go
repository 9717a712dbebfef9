package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValue_String(t *testing.T) {
	for _, tc := range []struct {
		name string
		v    Value
		want string
	}{
		{"unset", Unset(), "undefined"},
		{"null", Null(), "null"},
		{"text", Text("Red 1"), "Red 1"},
		{"empty text", Text(""), ""},
		{"integer", Number(42), "42"},
		{"negative", Number(-3), "-3"},
		{"fraction", Number(3.25), "3.25"},
		{"zero", Number(0), "0"},
		{"large", Number(1e21), "1e+21"},
		{"nan", Number(math.NaN()), "NaN"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValue_IsEmpty(t *testing.T) {
	for _, tc := range []struct {
		v    Value
		want bool
	}{
		{Unset(), true},
		{Null(), true},
		{Text(""), true},
		{Text(" "), false},
		{Number(0), false},
		{Bool(false), false},
	} {
		if got := tc.v.IsEmpty(); got != tc.want {
			t.Errorf("%s(%q).IsEmpty() = %v, want %v", tc.v.Kind(), tc.v.String(), got, tc.want)
		}
	}
}

func TestValue_UnmarshalJSON(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    Value
		wantErr bool
	}{
		{`null`, Null(), false},
		{`"abc"`, Text("abc"), false},
		{`12.5`, Number(12.5), false},
		{`-1`, Number(-1), false},
		{`true`, Bool(true), false},
		{`false`, Bool(false), false},
		{`[1,2]`, Value{}, true},
		{`{"a":1}`, Value{}, true},
	} {
		var got Value
		err := json.Unmarshal([]byte(tc.in), &got)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Unmarshal(%s): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unmarshal(%s): unexpected error %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("Unmarshal(%s) = %s %q, want %s %q", tc.in, got.Kind(), got, tc.want.Kind(), tc.want)
		}
	}
}

func TestValue_OmitUnsetInField(t *testing.T) {
	f := Field{Code: "a", Title: "A"}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"code":"a","title":"A","required":false}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	f.DefaultValue = Null()
	f.Value = Text("x")
	data, err = json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want = `{"code":"a","title":"A","required":false,"defaultValue":null,"value":"x"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestValue_AbsentVersusNull(t *testing.T) {
	var f Field
	if err := json.Unmarshal([]byte(`{"code":"a","title":"A"}`), &f); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if f.DefaultValue.Kind() != KindUnset {
		t.Errorf("absent defaultValue kind = %s, want unset", f.DefaultValue.Kind())
	}
	if err := json.Unmarshal([]byte(`{"code":"a","title":"A","defaultValue":null}`), &f); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if f.DefaultValue.Kind() != KindNull {
		t.Errorf("null defaultValue kind = %s, want null", f.DefaultValue.Kind())
	}
}

func TestParseValue(t *testing.T) {
	for _, tc := range []struct {
		typ     FieldType
		in      string
		want    Value
		wantErr bool
	}{
		{"", "hello", Text("hello"), false},
		{FieldTypeText, "42", Text("42"), false},
		{FieldTypeSelect, "R1", Text("R1"), false},
		{FieldTypeNumber, "4.5", Number(4.5), false},
		{FieldTypeNumber, " 7 ", Number(7), false},
		{FieldTypeNumber, "", Null(), false},
		{FieldTypeNumber, "seven", Value{}, true},
		{FieldTypeCounter, "3", Number(3), false},
		{FieldTypeCounter, "3.5", Value{}, true},
		{FieldTypeBoolean, "true", Bool(true), false},
		{FieldTypeBoolean, "0", Bool(false), false},
		{FieldTypeBoolean, "null", Null(), false},
		{FieldTypeBoolean, "maybe", Value{}, true},
	} {
		got, err := ParseValue(tc.typ, tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseValue(%q, %q): expected error", tc.typ, tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseValue(%q, %q): unexpected error %v", tc.typ, tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseValue(%q, %q) = %s %q, want %s %q", tc.typ, tc.in, got.Kind(), got, tc.want.Kind(), tc.want)
		}
	}
}

func TestFieldType_IsValid(t *testing.T) {
	for _, tc := range []struct {
		typ  FieldType
		want bool
	}{
		{"", true},
		{FieldTypeText, true},
		{FieldTypeNumber, true},
		{FieldTypeCounter, true},
		{FieldTypeBoolean, true},
		{FieldTypeSelect, true},
		{FieldType("image"), false},
	} {
		if got := tc.typ.IsValid(); got != tc.want {
			t.Errorf("FieldType(%q).IsValid() = %v, want %v", tc.typ, got, tc.want)
		}
	}
}
