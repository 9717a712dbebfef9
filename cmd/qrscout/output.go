package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/qrscout/internal/model"
	"github.com/alfredjeanlab/qrscout/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// printForm writes every section of c as a table of fields and values.
// Required fields without a value are highlighted.
func printForm(w io.Writer, c *model.Config) {
	if c.Title != "" {
		fmt.Fprintln(w, ui.RenderAccent(c.Title))
		fmt.Fprintln(w)
	}
	for i, s := range c.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := s.Name
		if s.PreserveDataOnReset {
			header += " " + ui.RenderMuted("(kept on reset)")
		}
		fmt.Fprintln(w, ui.RenderAccent(header))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, f := range s.Fields {
			title := f.Title
			if f.Required {
				title += ui.RequiredMark()
			}
			value := f.Value.String()
			if f.Missing() {
				value = ui.RenderWarn(value)
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", f.Code, title, typeLabel(f), value)
		}
		tw.Flush()
	}
}

// typeLabel describes a field's type, with its choices or bounds.
func typeLabel(f model.Field) string {
	t := f.Type.String()
	switch {
	case len(f.Choices) > 0:
		t += "[" + strings.Join(f.Choices.Values(), "|") + "]"
	case f.Min != nil || f.Max != nil:
		lo, hi := "", ""
		if f.Min != nil {
			lo = model.Number(*f.Min).String()
		}
		if f.Max != nil {
			hi = model.Number(*f.Max).String()
		}
		t += "[" + lo + ".." + hi + "]"
	}
	return ui.RenderMuted(t)
}

// missingEntry is the JSON form of a missing required field.
type missingEntry struct {
	Section string `json:"section"`
	Code    string `json:"code"`
	Title   string `json:"title"`
}

func missingEntries(c *model.Config, fields []model.Field) []missingEntry {
	out := make([]missingEntry, 0, len(fields))
	for _, f := range fields {
		section, _ := c.SectionOf(f.Code)
		out = append(out, missingEntry{Section: section, Code: f.Code, Title: f.Title})
	}
	return out
}

func printMissing(w io.Writer, c *model.Config, fields []model.Field) {
	if len(fields) == 0 {
		fmt.Fprintln(w, ui.RenderOK("All required fields are filled in."))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tCODE\tTITLE")
	for _, m := range missingEntries(c, fields) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Section, m.Code, ui.RenderWarn(m.Title))
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d required field(s) missing\n", len(fields))
}
