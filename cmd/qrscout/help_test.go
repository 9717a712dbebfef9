package main

import (
	"strings"
	"testing"

	"github.com/alfredjeanlab/qrscout/internal/ui"
)

func TestColorizeHelpOutput(t *testing.T) {
	if !ui.ColorEnabled() {
		t.Skip("color disabled")
	}
	in := `Form:
  record      Print the record for the current values

Flags:
  -h, --help            help for qrscout
      --schema string   schema file to use instead of the stored one (default "form.json")
`
	got := colorizeHelpOutput(in)

	for _, want := range []string{
		ui.RenderAccent("Form:"),
		ui.RenderAccent("Flags:"),
		"  " + ui.RenderCommand("record") + "  ",
		"--schema " + ui.RenderMuted("string"),
		ui.RenderMuted(`(default "form.json")`),
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, ui.RenderCommand("-h,")) {
		t.Error("flag lines styled as commands")
	}
}
