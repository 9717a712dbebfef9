package ui

import (
	"os"
	"strings"
	"testing"

	"golang.org/x/term"
)

func TestRender(t *testing.T) {
	saved := noColor
	t.Cleanup(func() { noColor = saved })

	noColor = false
	for _, fn := range []func(string) string{RenderAccent, RenderMuted, RenderCommand, RenderWarn, RenderOK} {
		got := fn("x")
		if !strings.HasPrefix(got, "\x1b[38;5;") || !strings.HasSuffix(got, "x\x1b[0m") {
			t.Errorf("colored render = %q", got)
		}
	}

	ForceNoColor()
	if ColorEnabled() {
		t.Error("ColorEnabled() = true after ForceNoColor")
	}
	if got := RenderWarn("missing"); got != "missing" {
		t.Errorf("RenderWarn without color = %q", got)
	}
	if RequiredMark() != "*" {
		t.Errorf("RequiredMark() = %q", RequiredMark())
	}
}

func TestShouldUseColor(t *testing.T) {
	for _, tc := range []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"NoColor", map[string]string{"NO_COLOR": "1", "CLICOLOR_FORCE": "1"}, false},
		{"Forced", map[string]string{"NO_COLOR": "", "CLICOLOR_FORCE": "1"}, true},
		{"Disabled", map[string]string{"NO_COLOR": "", "CLICOLOR_FORCE": "", "CLICOLOR": "0"}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if got := ShouldUseColor(); got != tc.want {
				t.Errorf("ShouldUseColor() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWidthFallback(t *testing.T) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		t.Skip("stdout is a terminal")
	}
	if got := Width(80); got != 80 {
		t.Errorf("Width(80) = %d, want fallback", got)
	}
}
