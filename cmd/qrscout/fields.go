package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/qrscout/internal/engine"
	"github.com/alfredjeanlab/qrscout/internal/model"
)

// assignment is one "section.code=value" argument. Section is empty when
// the argument names only a code.
type assignment struct {
	Section string
	Code    string
	Raw     string
}

// splitField splits "key=value" into (key, value, true).
// Returns ("", "", false) if there is no '=' or key is empty.
func splitField(s string) (string, string, bool) {
	i := strings.IndexByte(s, '=')
	if i <= 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// parseAssignment parses "section.code=value" or "code=value". The last dot
// before '=' separates section from code, so section names may contain dots.
func parseAssignment(s string) (assignment, error) {
	key, raw, ok := splitField(s)
	if !ok {
		return assignment{}, fmt.Errorf("expected section.code=value, got %q", s)
	}
	a := assignment{Code: key, Raw: raw}
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		a.Section, a.Code = key[:i], key[i+1:]
	}
	if a.Code == "" {
		return assignment{}, fmt.Errorf("missing field code in %q", s)
	}
	return a, nil
}

// resolve finds the field a targets in c. Without a section the first
// field with the code wins.
func (a assignment) resolve(c *model.Config) (*model.Field, string, error) {
	section := a.Section
	if section == "" {
		s, ok := c.SectionOf(a.Code)
		if !ok {
			return nil, "", fmt.Errorf("no field with code %q", a.Code)
		}
		section = s
	}
	f := c.Lookup(section, a.Code)
	if f == nil {
		return nil, "", fmt.Errorf("no field %q in section %q", a.Code, section)
	}
	return f, section, nil
}

// applyAssignments parses every argument against the field it targets and
// then applies them in order. If any argument is invalid nothing is applied.
func applyAssignments(ctx context.Context, eng *engine.Engine, args []string) error {
	type update struct {
		section, code string
		value         model.Value
	}

	c := eng.Config()
	updates := make([]update, 0, len(args))
	for _, arg := range args {
		a, err := parseAssignment(arg)
		if err != nil {
			return err
		}
		f, section, err := a.resolve(c)
		if err != nil {
			return err
		}
		v, err := model.ParseValue(f.Type, a.Raw)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", section, f.Code, err)
		}
		if err := f.Check(v); err != nil {
			return fmt.Errorf("%s.%s: %w", section, f.Code, err)
		}
		updates = append(updates, update{section, f.Code, v})
	}

	for _, u := range updates {
		eng.UpdateValue(ctx, u.section, u.code, u.value)
	}
	return nil
}
